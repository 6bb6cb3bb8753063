package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "focusboard/backend/internal/errors"
	"focusboard/backend/internal/prefs"
)

type PrefsHandler struct {
	prefs *prefs.Store
}

func NewPrefsHandler(prefStore *prefs.Store) *PrefsHandler {
	return &PrefsHandler{prefs: prefStore}
}

func (h *PrefsHandler) Keys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": h.prefs.Keys()})
}

func (h *PrefsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	value, ok := h.prefs.Get(key)
	if !ok {
		writeError(c, apperrors.NotFound("pref_not_found", "preference not set"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

func (h *PrefsHandler) Set(c *gin.Context) {
	key := c.Param("key")
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid_body", "failed to read body"))
		return
	}
	if !json.Valid(raw) {
		writeError(c, apperrors.BadRequest("invalid_json", "value must be valid JSON"))
		return
	}
	if err := h.prefs.Set(key, json.RawMessage(raw)); err != nil {
		writeError(c, apperrors.Internal("failed to persist preference"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": json.RawMessage(raw)})
}

func (h *PrefsHandler) Delete(c *gin.Context) {
	if err := h.prefs.Delete(c.Param("key")); err != nil {
		writeError(c, apperrors.Internal("failed to persist preference"))
		return
	}
	c.Status(http.StatusNoContent)
}
