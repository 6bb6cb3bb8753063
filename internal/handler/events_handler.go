package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "focusboard/backend/internal/errors"
	"focusboard/backend/internal/remote"
)

// EventsHandler streams table change events over SSE so a browser client can
// mirror the tasks and time_logs tables the way a hosted realtime channel
// would deliver them.
type EventsHandler struct {
	hub *remote.Hub
}

func NewEventsHandler(hub *remote.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		writeError(c, apperrors.Unavailable("events_unavailable", "no remote store configured"))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		writeError(c, apperrors.Internal("streaming unsupported"))
		return
	}

	taskEvents, cancelTasks := h.hub.SubscribeTasks()
	defer cancelTasks()
	logEvents, cancelLogs := h.hub.SubscribeTimeLogs()
	defer cancelLogs()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	done := c.Request.Context().Done()
	for {
		select {
		case event, open := <-taskEvents:
			if !open {
				return
			}
			writeSSE(c, flusher, "tasks", event)
		case event, open := <-logEvents:
			if !open {
				return
			}
			writeSSE(c, flusher, "time_logs", event)
		case <-done:
			return
		}
	}
}

func writeSSE(c *gin.Context, flusher http.Flusher, table string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", table, data)
	flusher.Flush()
}
