package store

import (
	"context"

	"github.com/google/uuid"

	"focusboard/backend/internal/model"
	"focusboard/backend/internal/remote"
)

// StartTimer starts or resumes the task's timer. Starting opens a new time
// log; resuming a paused timer only resets the current-interval start and
// touches nothing remote, since pause state lives in memory only. Starting an
// already-running timer is a no-op.
func (s *Store) StartTimer(ctx context.Context, taskID int64) {
	now := s.now()

	s.mu.Lock()
	if timer, exists := s.active[taskID]; exists {
		if timer.Paused {
			timer.StartedAt = now
			timer.Paused = false
		}
		s.mu.Unlock()
		return
	}

	log := model.TimeLog{
		ID:      uuid.NewString(),
		TaskID:  taskID,
		StartAt: now,
	}
	s.active[taskID] = &ActiveTimer{
		TaskID:    taskID,
		LogID:     log.ID,
		StartedAt: now,
	}
	s.logs = append([]model.TimeLog{log}, s.logs...)
	s.mu.Unlock()

	if s.adapter == nil {
		return
	}

	stored, err := s.adapter.InsertTimeLog(ctx, log)
	if err != nil {
		s.mu.Lock()
		delete(s.active, taskID)
		if i := s.logIndex(log.ID); i >= 0 {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
		}
		s.syncErr = "failed to start timer: " + err.Error()
		s.mu.Unlock()
		return
	}

	if stored.ID != log.ID {
		// Adopt the remote-assigned log id.
		s.mu.Lock()
		if i := s.logIndex(log.ID); i >= 0 {
			s.logs[i] = stored
		}
		if timer, exists := s.active[taskID]; exists && timer.LogID == log.ID {
			timer.LogID = stored.ID
		}
		s.mu.Unlock()
	}
}

// PauseTimer freezes a running timer: the current interval's length moves
// into the accumulated total. Pausing a paused or absent timer is a no-op.
func (s *Store) PauseTimer(taskID int64) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	timer, exists := s.active[taskID]
	if !exists || timer.Paused {
		return
	}
	timer.AccumulatedSeconds += int(now.Sub(timer.StartedAt).Seconds())
	timer.Paused = true
}

// StopTimer closes the task's timer and its time log. The persisted duration
// is the sum of unpaused intervals. Returns the total seconds and whether a
// timer existed. A failed remote write re-adds the timer and reopens the log.
func (s *Store) StopTimer(ctx context.Context, taskID int64) (int, bool) {
	now := s.now()

	s.mu.Lock()
	timer, exists := s.active[taskID]
	if !exists {
		s.mu.Unlock()
		return 0, false
	}

	total := timer.AccumulatedSeconds
	if !timer.Paused {
		total += int(now.Sub(timer.StartedAt).Seconds())
	}
	timerSnapshot := *timer
	delete(s.active, taskID)

	var logSnapshot model.TimeLog
	if i := s.logIndex(timer.LogID); i >= 0 {
		logSnapshot = s.logs[i]
		s.logs[i].EndAt = &now
		seconds := total
		s.logs[i].DurationSeconds = &seconds
	}
	s.mu.Unlock()

	if s.adapter == nil {
		return total, true
	}

	patch := remote.Patch{"end_at": now}
	if s.adapter.Capabilities().Has("time_logs", "duration_seconds") {
		patch["duration_seconds"] = total
	}

	if err := s.adapter.UpdateTimeLog(ctx, timerSnapshot.LogID, patch); err != nil {
		s.mu.Lock()
		restored := timerSnapshot
		s.active[taskID] = &restored
		if i := s.logIndex(timerSnapshot.LogID); i >= 0 {
			s.logs[i].EndAt = logSnapshot.EndAt
			s.logs[i].DurationSeconds = logSnapshot.DurationSeconds
		}
		s.syncErr = "failed to stop timer: " + err.Error()
		s.mu.Unlock()
		return 0, true
	}
	return total, true
}

// Elapsed returns the timer's displayed seconds: accumulated plus the
// current interval while running, accumulated alone while paused, zero when
// no timer exists.
func (s *Store) Elapsed(taskID int64) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	timer, exists := s.active[taskID]
	if !exists {
		return 0
	}
	if timer.Paused {
		return timer.AccumulatedSeconds
	}
	return timer.AccumulatedSeconds + int(now.Sub(timer.StartedAt).Seconds())
}

// Timer returns a copy of the task's active timer, if any.
func (s *Store) Timer(taskID int64) (ActiveTimer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, exists := s.active[taskID]
	if !exists {
		return ActiveTimer{}, false
	}
	return *timer, true
}

// ActiveTimers returns a copy of every active timer keyed by task id.
func (s *Store) ActiveTimers() map[int64]ActiveTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers := make(map[int64]ActiveTimer, len(s.active))
	for id, timer := range s.active {
		timers[id] = *timer
	}
	return timers
}
