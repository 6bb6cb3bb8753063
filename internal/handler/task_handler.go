package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "focusboard/backend/internal/errors"
	"focusboard/backend/internal/model"
	"focusboard/backend/internal/store"
)

// TaskHandler exposes the task store. Mutations always answer 200/201 even
// when the remote write failed and was rolled back; the syncError field in
// list responses carries the failure to the banner, and the UI stays
// interactive.
type TaskHandler struct {
	store *store.Store
}

func NewTaskHandler(taskStore *store.Store) *TaskHandler {
	return &TaskHandler{store: taskStore}
}

type addTaskRequest struct {
	Text     string         `json:"text"`
	Category model.Category `json:"category"`
	Priority model.Priority `json:"priority"`
	Duration string         `json:"duration"`
	DueDate  *string        `json:"dueDate"`
	IsStreak bool           `json:"isStreak"`
}

type pinRequest struct {
	Pinned bool `json:"pinned"`
}

type dueDateRequest struct {
	DueDate *string `json:"dueDate"`
}

func (h *TaskHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tasks":     h.store.Tasks(),
		"phase":     h.store.Phase(),
		"syncError": h.store.SyncError(),
	})
}

func (h *TaskHandler) Views(c *gin.Context) {
	completed, total, percent := h.store.Progress()
	c.JSON(http.StatusOK, gin.H{
		"today":              h.store.TodayTasks(),
		"critical":           h.store.CriticalTasks(),
		"quickWins":          h.store.QuickWins(),
		"streaks":            h.store.StreakTasks(),
		"archived":           h.store.ArchivedTasks(),
		"active":             h.store.ActiveTasks(),
		"urgent":             h.store.UrgentTasks(),
		"groupedByCategory":  h.store.GroupedByCategory(),
		"archivedByCategory": h.store.ArchivedByCategory(),
		"progress": gin.H{
			"completed": completed,
			"total":     total,
			"percent":   percent,
		},
		"syncError": h.store.SyncError(),
	})
}

func (h *TaskHandler) Add(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return
	}
	if req.Text == "" {
		writeError(c, apperrors.BadRequest("invalid_text", "text is required"))
		return
	}
	if !model.IsValidCategory(req.Category) {
		writeError(c, apperrors.BadRequest("invalid_category", "unknown category"))
		return
	}
	if !model.IsValidPriority(req.Priority) {
		writeError(c, apperrors.BadRequest("invalid_priority", "unknown priority"))
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := parseDate(*req.DueDate)
		if err != nil {
			writeError(c, apperrors.BadRequest("invalid_due_date", "dueDate must be RFC 3339 or YYYY-MM-DD"))
			return
		}
		dueDate = &parsed
	}

	task := h.store.AddTask(c.Request.Context(), store.AddTaskInput{
		Text:     req.Text,
		Category: req.Category,
		Priority: req.Priority,
		Duration: req.Duration,
		DueDate:  dueDate,
		IsStreak: req.IsStreak,
	})
	c.JSON(http.StatusCreated, gin.H{"task": task, "syncError": h.store.SyncError()})
}

func (h *TaskHandler) Toggle(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	completed, found := h.store.ToggleTask(c.Request.Context(), id)
	if !found {
		writeError(c, apperrors.NotFound("task_not_found", "task not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "completed": completed})
}

func (h *TaskHandler) ToggleWaiting(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	waiting, found := h.store.ToggleWaitingForReply(c.Request.Context(), id)
	if !found {
		writeError(c, apperrors.NotFound("task_not_found", "task not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "waitingForReply": waiting})
}

func (h *TaskHandler) Pin(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return
	}
	if !h.store.PinToToday(c.Request.Context(), id, req.Pinned) {
		writeError(c, apperrors.NotFound("task_not_found", "task not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "pinnedToToday": req.Pinned})
}

func (h *TaskHandler) UpdateDueDate(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req dueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := parseDate(*req.DueDate)
		if err != nil {
			writeError(c, apperrors.BadRequest("invalid_due_date", "dueDate must be RFC 3339 or YYYY-MM-DD"))
			return
		}
		dueDate = &parsed
	}
	if !h.store.UpdateDueDate(c.Request.Context(), id, dueDate) {
		writeError(c, apperrors.NotFound("task_not_found", "task not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "dueDate": dueDate})
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return
	}
	if patch.Category != nil && !model.IsValidCategory(*patch.Category) {
		writeError(c, apperrors.BadRequest("invalid_category", "unknown category"))
		return
	}
	if patch.Priority != nil && !model.IsValidPriority(*patch.Priority) {
		writeError(c, apperrors.BadRequest("invalid_priority", "unknown priority"))
		return
	}

	task, found := h.store.UpdateTask(c.Request.Context(), id, patch)
	if !found {
		writeError(c, apperrors.NotFound("task_not_found", "task not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task, "syncError": h.store.SyncError()})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if !h.store.DeleteTask(c.Request.Context(), id) {
		writeError(c, apperrors.NotFound("task_not_found", "task not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) StartTimer(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	h.store.StartTimer(c.Request.Context(), id)
	h.timerState(c, id)
}

func (h *TaskHandler) PauseTimer(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	h.store.PauseTimer(id)
	h.timerState(c, id)
}

func (h *TaskHandler) StopTimer(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	total, existed := h.store.StopTimer(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{
		"taskId":          id,
		"stopped":         existed,
		"durationSeconds": total,
		"syncError":       h.store.SyncError(),
	})
}

func (h *TaskHandler) TimerState(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	h.timerState(c, id)
}

func (h *TaskHandler) timerState(c *gin.Context, id int64) {
	state := "none"
	if timer, exists := h.store.Timer(id); exists {
		if timer.Paused {
			state = "paused"
		} else {
			state = "running"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"taskId":         id,
		"state":          state,
		"elapsedSeconds": h.store.Elapsed(id),
	})
}

func (h *TaskHandler) TimeLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"timeLogs": h.store.TimeLogs()})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid_id", "id must be an integer"))
		return 0, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
