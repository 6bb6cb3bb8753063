package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "focusboard/backend/internal/errors"
	"focusboard/backend/internal/quran"
)

type QuranHandler struct {
	repo *quran.Repository
}

func NewQuranHandler(repo *quran.Repository) *QuranHandler {
	return &QuranHandler{repo: repo}
}

type quranSessionRequest struct {
	Surah           string  `json:"surah"`
	PagesRead       float64 `json:"pagesRead"`
	DurationSeconds int     `json:"durationSeconds"`
	StartedAt       *string `json:"startedAt"`
}

func (h *QuranHandler) Add(c *gin.Context) {
	if h.repo == nil {
		writeError(c, apperrors.Unavailable("quran_unavailable", "no database configured"))
		return
	}

	var req quranSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return
	}
	if req.Surah == "" {
		writeError(c, apperrors.BadRequest("invalid_surah", "surah is required"))
		return
	}
	if req.PagesRead <= 0 || req.DurationSeconds <= 0 {
		writeError(c, apperrors.BadRequest("invalid_session", "pagesRead and durationSeconds must be positive"))
		return
	}

	startedAt := time.Now().UTC()
	if req.StartedAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.StartedAt)
		if err != nil {
			writeError(c, apperrors.BadRequest("invalid_started_at", "startedAt must be RFC 3339"))
			return
		}
		startedAt = parsed.UTC()
	}

	session := quran.Session{
		ID:              uuid.NewString(),
		Surah:           req.Surah,
		PagesRead:       req.PagesRead,
		DurationSeconds: req.DurationSeconds,
		StartedAt:       startedAt,
	}
	if err := h.repo.Insert(c.Request.Context(), session); err != nil {
		writeError(c, apperrors.Internal("failed to save session"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *QuranHandler) List(c *gin.Context) {
	if h.repo == nil {
		writeError(c, apperrors.Unavailable("quran_unavailable", "no database configured"))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	sessions, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, apperrors.Internal("failed to list sessions"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *QuranHandler) Stats(c *gin.Context) {
	if h.repo == nil {
		writeError(c, apperrors.Unavailable("quran_unavailable", "no database configured"))
		return
	}

	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		writeError(c, apperrors.Internal("failed to aggregate sessions"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
