package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "focusboard/backend/internal/errors"
	"focusboard/backend/internal/model"
	"focusboard/backend/internal/parser"
	"focusboard/backend/internal/prefs"
	"focusboard/backend/internal/store"
)

// cachedAPIKeyPref is the preference the settings page stores a user-supplied
// API key under when none is configured server-side.
const cachedAPIKeyPref = "api_key"

type ParserHandler struct {
	parser *parser.Client
	prefs  *prefs.Store
	store  *store.Store
}

func NewParserHandler(client *parser.Client, prefStore *prefs.Store, taskStore *store.Store) *ParserHandler {
	return &ParserHandler{parser: client, prefs: prefStore, store: taskStore}
}

type parseRequest struct {
	Text string `json:"text"`
	Add  bool   `json:"add"`
}

func (h *ParserHandler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return
	}
	if req.Text == "" {
		writeError(c, apperrors.BadRequest("invalid_text", "text is required"))
		return
	}

	parsed, err := h.parser.Parse(c.Request.Context(), req.Text, h.prefs.GetString(cachedAPIKeyPref))
	if err != nil {
		if errors.Is(err, parser.ErrUnconfigured) {
			writeError(c, apperrors.Unavailable("parser_unconfigured", "no AI API key configured"))
			return
		}
		writeError(c, apperrors.BadGateway("parser_failed", err.Error()))
		return
	}

	if !req.Add {
		c.JSON(http.StatusOK, gin.H{"parsed": parsed, "added": false})
		return
	}

	added := make([]model.Task, 0, len(parsed))
	for _, candidate := range parsed {
		added = append(added, h.store.AddTask(c.Request.Context(), store.AddTaskInput{
			Text:     candidate.Text,
			Category: candidate.Category,
			Priority: candidate.Priority,
			Duration: candidate.Duration,
		}))
	}
	c.JSON(http.StatusCreated, gin.H{
		"parsed":    parsed,
		"added":     true,
		"tasks":     added,
		"syncError": h.store.SyncError(),
	})
}
