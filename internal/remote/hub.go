package remote

import (
	"sync"

	"focusboard/backend/internal/model"
)

const subscriberBuffer = 64

// Hub fans change events out to subscribers. Publishing never blocks: a
// subscriber that falls more than subscriberBuffer events behind loses the
// oldest ones, which is acceptable for a display feed whose consumers can
// always re-select the full table.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	taskSubs map[int]chan model.TaskEvent
	logSubs  map[int]chan model.TimeLogEvent
}

func NewHub() *Hub {
	return &Hub{
		taskSubs: make(map[int]chan model.TaskEvent),
		logSubs:  make(map[int]chan model.TimeLogEvent),
	}
}

func (h *Hub) SubscribeTasks() (<-chan model.TaskEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan model.TaskEvent, subscriberBuffer)
	h.taskSubs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.taskSubs[id]; ok {
			delete(h.taskSubs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (h *Hub) SubscribeTimeLogs() (<-chan model.TimeLogEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan model.TimeLogEvent, subscriberBuffer)
	h.logSubs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.logSubs[id]; ok {
			delete(h.logSubs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (h *Hub) PublishTask(event model.TaskEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.taskSubs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) PublishTimeLog(event model.TimeLogEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.logSubs {
		select {
		case ch <- event:
		default:
		}
	}
}
