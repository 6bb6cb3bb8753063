package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"focusboard/backend/internal/adhkar"
	apperrors "focusboard/backend/internal/errors"
)

type AdhkarHandler struct {
	store *adhkar.Store
}

func NewAdhkarHandler(contentStore *adhkar.Store) *AdhkarHandler {
	return &AdhkarHandler{store: contentStore}
}

type adhkarItemRequest struct {
	Arabic      string `json:"arabic"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
	Repeat      int    `json:"repeat"`
}

func (h *AdhkarHandler) List(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !adhkar.IsValidCategory(category) {
		writeError(c, apperrors.BadRequest("invalid_category", "category must be morning, evening or car"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.store.List(category)})
}

func (h *AdhkarHandler) Add(c *gin.Context) {
	req, ok := bindAdhkarItem(c)
	if !ok {
		return
	}

	item, err := h.store.Add(adhkar.Item{
		Arabic:      req.Arabic,
		Translation: req.Translation,
		Category:    req.Category,
		Repeat:      req.Repeat,
	})
	if err != nil {
		writeError(c, apperrors.Internal("failed to persist adhkar"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *AdhkarHandler) Update(c *gin.Context) {
	id, ok := adhkarID(c)
	if !ok {
		return
	}
	req, ok := bindAdhkarItem(c)
	if !ok {
		return
	}

	item, found, err := h.store.Update(id, adhkar.Item{
		Arabic:      req.Arabic,
		Translation: req.Translation,
		Category:    req.Category,
		Repeat:      req.Repeat,
	})
	if err != nil {
		writeError(c, apperrors.Internal("failed to persist adhkar"))
		return
	}
	if !found {
		writeError(c, apperrors.NotFound("adhkar_not_found", "adhkar item not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *AdhkarHandler) Delete(c *gin.Context) {
	id, ok := adhkarID(c)
	if !ok {
		return
	}
	found, err := h.store.Delete(id)
	if err != nil {
		writeError(c, apperrors.Internal("failed to persist adhkar"))
		return
	}
	if !found {
		writeError(c, apperrors.NotFound("adhkar_not_found", "adhkar item not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

func bindAdhkarItem(c *gin.Context) (adhkarItemRequest, bool) {
	var req adhkarItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return req, false
	}
	if req.Arabic == "" {
		writeError(c, apperrors.BadRequest("invalid_arabic", "arabic text is required"))
		return req, false
	}
	if !adhkar.IsValidCategory(req.Category) {
		writeError(c, apperrors.BadRequest("invalid_category", "category must be morning, evening or car"))
		return req, false
	}
	return req, true
}

func adhkarID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid_id", "id must be an integer"))
		return 0, false
	}
	return id, true
}
