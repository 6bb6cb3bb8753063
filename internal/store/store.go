package store

import (
	"context"
	"sync"
	"time"

	"focusboard/backend/internal/model"
	"focusboard/backend/internal/remote"
)

// Phase is the store's initialization state.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseSeeding       Phase = "seeding"
	PhaseReady         Phase = "ready"
	PhaseLocalOnly     Phase = "local_only"
)

// ActiveTimer is the in-memory run state for a task's current timer. Elapsed
// time is AccumulatedSeconds plus, while running, the length of the current
// unpaused interval.
type ActiveTimer struct {
	TaskID             int64     `json:"taskId"`
	LogID              string    `json:"logId"`
	StartedAt          time.Time `json:"startedAt"`
	Paused             bool      `json:"paused"`
	AccumulatedSeconds int       `json:"accumulatedSeconds"`
}

// Store is the single source of truth for tasks and time logs. Every mutation
// is applied to in-memory state first and then written to the remote adapter;
// a failed write reverts the in-memory change from a snapshot taken before
// the mutation. Remote change notifications are merged in idempotently by id,
// so the echo of a write this store already applied is a no-op.
//
// All state is guarded by one mutex. The mutex is never held across a remote
// call: optimistic apply, remote write and rollback are three separate
// critical sections, and rollback re-finds rows by id rather than trusting
// captured indices.
type Store struct {
	adapter remote.Adapter
	now     func() time.Time

	mu      sync.Mutex
	phase   Phase
	tasks   []model.Task
	logs    []model.TimeLog
	active  map[int64]*ActiveTimer
	syncErr string

	cancelSubs []func()
}

// New builds a store. adapter may be nil, which puts the store into
// local-only mode on Init. now may be nil to use the wall clock; tests inject
// a fake clock.
func New(adapter remote.Adapter, now func() time.Time) *Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{
		adapter: adapter,
		now:     now,
		phase:   PhaseUninitialized,
		active:  make(map[int64]*ActiveTimer),
	}
}

// Init loads state per the startup protocol: no adapter → local-only seed
// data; fetch error → seed data plus a sync error; empty table → seed the
// remote store; otherwise adopt the remote rows and rebuild active timers
// from open time logs. Subscriptions to the change feed start only when the
// store reaches Ready.
func (s *Store) Init(ctx context.Context) {
	if s.adapter == nil {
		s.mu.Lock()
		s.phase = PhaseLocalOnly
		s.tasks = model.SeedTasks()
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.phase = PhaseLoading
	s.mu.Unlock()

	tasks, err := s.adapter.SelectTasks(ctx)
	if err != nil {
		s.mu.Lock()
		s.syncErr = "failed to load tasks: " + err.Error()
		s.tasks = model.SeedTasks()
		s.phase = PhaseLocalOnly
		s.mu.Unlock()
		return
	}

	if len(tasks) == 0 {
		s.seedRemote(ctx)
		return
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	logs, err := s.adapter.SelectTimeLogs(ctx)
	if err != nil {
		s.mu.Lock()
		s.syncErr = "failed to load time logs: " + err.Error()
		s.phase = PhaseReady
		s.mu.Unlock()
		s.subscribe()
		return
	}

	s.mu.Lock()
	s.logs = logs
	// An open log means the session survived a restart. It comes back as a
	// running timer with zero accumulated seconds and its original start
	// time, so the downtime still counts toward elapsed.
	for i := range logs {
		log := logs[i]
		if log.EndAt != nil {
			continue
		}
		if _, exists := s.active[log.TaskID]; exists {
			continue
		}
		s.active[log.TaskID] = &ActiveTimer{
			TaskID:    log.TaskID,
			LogID:     log.ID,
			StartedAt: log.StartAt,
		}
	}
	s.phase = PhaseReady
	s.mu.Unlock()
	s.subscribe()
}

func (s *Store) seedRemote(ctx context.Context) {
	s.mu.Lock()
	s.phase = PhaseSeeding
	s.mu.Unlock()

	seed := model.SeedTasks()
	stored, err := s.adapter.InsertTasks(ctx, seed)

	s.mu.Lock()
	if err != nil {
		s.syncErr = "failed to seed tasks: " + err.Error()
		s.tasks = seed
	} else {
		s.tasks = stored
	}
	s.phase = PhaseReady
	s.mu.Unlock()
	s.subscribe()
}

func (s *Store) subscribe() {
	taskEvents, cancelTasks := s.adapter.SubscribeTasks()
	logEvents, cancelLogs := s.adapter.SubscribeTimeLogs()

	s.mu.Lock()
	s.cancelSubs = append(s.cancelSubs, cancelTasks, cancelLogs)
	s.mu.Unlock()

	go func() {
		for event := range taskEvents {
			s.applyTaskEvent(event)
		}
	}()
	go func() {
		for event := range logEvents {
			s.applyTimeLogEvent(event)
		}
	}()
}

// Close cancels the change-feed subscriptions.
func (s *Store) Close() {
	s.mu.Lock()
	cancels := s.cancelSubs
	s.cancelSubs = nil
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// applyTaskEvent merges a remote change notification. Inserts of known ids
// and updates/deletes of unknown ids are no-ops, which makes echoes of local
// optimistic writes harmless in either arrival order.
func (s *Store) applyTaskEvent(event model.TaskEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Kind {
	case model.EventInsert:
		if event.Row == nil || s.taskIndex(event.Row.ID) >= 0 {
			return
		}
		s.tasks = append(s.tasks, *event.Row)
	case model.EventUpdate:
		if event.Row == nil {
			return
		}
		if i := s.taskIndex(event.Row.ID); i >= 0 {
			s.tasks[i] = *event.Row
		}
	case model.EventDelete:
		if i := s.taskIndex(event.DeletedID); i >= 0 {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		}
	}
}

func (s *Store) applyTimeLogEvent(event model.TimeLogEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Kind {
	case model.EventInsert:
		if event.Row == nil || s.logIndex(event.Row.ID) >= 0 {
			return
		}
		s.logs = append([]model.TimeLog{*event.Row}, s.logs...)
	case model.EventUpdate:
		if event.Row == nil {
			return
		}
		if i := s.logIndex(event.Row.ID); i >= 0 {
			s.logs[i] = *event.Row
		}
	case model.EventDelete:
		if i := s.logIndex(event.DeletedID); i >= 0 {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
		}
	}
}

// taskIndex and logIndex must be called with the mutex held.
func (s *Store) taskIndex(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) logIndex(id string) int {
	for i := range s.logs {
		if s.logs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) setSyncError(msg string) {
	s.mu.Lock()
	s.syncErr = msg
	s.mu.Unlock()
}

// Phase returns the store's initialization state.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SyncError returns the last remote-sync failure message, empty when the last
// sync attempt succeeded.
func (s *Store) SyncError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncErr
}

// Tasks returns a copy of the task list in its current order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

// TimeLogs returns a copy of the time-log list, most recent start first.
func (s *Store) TimeLogs() []model.TimeLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TimeLog(nil), s.logs...)
}

// Task returns the task with the given id.
func (s *Store) Task(id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}
