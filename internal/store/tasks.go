package store

import (
	"context"
	"time"

	"focusboard/backend/internal/model"
	"focusboard/backend/internal/remote"
)

// AddTaskInput carries the user-supplied fields of a new task.
type AddTaskInput struct {
	Text     string
	Category model.Category
	Priority model.Priority
	Duration string
	DueDate  *time.Time
	IsStreak bool
}

// AddTask prepends a new task with a client-generated id and writes it to the
// remote store. On a failed write the task is removed again and the returned
// task is still the optimistic one, with the failure recorded as the sync
// error.
func (s *Store) AddTask(ctx context.Context, input AddTaskInput) model.Task {
	now := s.now()

	s.mu.Lock()
	task := model.Task{
		ID:        s.nextClientID(now),
		Text:      input.Text,
		Category:  input.Category,
		Priority:  input.Priority,
		Duration:  input.Duration,
		DueDate:   input.DueDate,
		IsStreak:  input.IsStreak,
		CreatedAt: now,
	}
	if task.IsStreak {
		task.StreakTarget = model.DefaultStreakTarget
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.mu.Unlock()

	if s.adapter == nil {
		return task
	}

	stored, err := s.adapter.InsertTasks(ctx, []model.Task{task})
	if err != nil {
		s.mu.Lock()
		if i := s.taskIndex(task.ID); i >= 0 {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		}
		s.syncErr = "failed to add task: " + err.Error()
		s.mu.Unlock()
		return task
	}

	if len(stored) == 1 && stored[0].ID != task.ID {
		// Adopt the remote-assigned id.
		s.mu.Lock()
		if i := s.taskIndex(task.ID); i >= 0 {
			s.tasks[i] = stored[0]
		}
		s.mu.Unlock()
		return stored[0]
	}
	return task
}

// nextClientID allocates a wall-clock-millisecond id, bumped past any id
// already in the list so ids are never reused within a session. Must be
// called with the mutex held.
func (s *Store) nextClientID(now time.Time) int64 {
	id := now.UnixMilli()
	for s.taskIndex(id) >= 0 {
		id++
	}
	return id
}

// ToggleTask flips a task's completed flag. Completing a task force-stops its
// open timer and clears waiting-for-reply. Returns the task's completed value
// after the operation settles, which is the pre-toggle value again if the
// remote write failed and was rolled back.
func (s *Store) ToggleTask(ctx context.Context, id int64) (completed bool, ok bool) {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false, false
	}
	completing := !s.tasks[i].Completed
	s.mu.Unlock()

	if completing {
		s.StopTimer(ctx, id)
	}

	now := s.now()
	s.mu.Lock()
	i = s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false, false
	}
	snapshot := s.tasks[i]

	task := &s.tasks[i]
	task.Completed = !snapshot.Completed
	if task.Completed {
		task.CompletedAt = &now
		task.WaitingForReply = false
		task.WaitingSince = nil
	} else {
		task.CompletedAt = nil
	}
	result := task.Completed
	s.mu.Unlock()

	if s.adapter == nil {
		return result, true
	}

	patch := remote.Patch{"completed": result}
	caps := s.adapter.Capabilities()
	if caps.Has("tasks", "completed_at") {
		if result {
			patch["completed_at"] = now
		} else {
			patch["completed_at"] = nil
		}
	}
	if result && snapshot.WaitingForReply && caps.Has("tasks", "waiting_for_reply") {
		patch["waiting_for_reply"] = false
	}

	if err := s.adapter.UpdateTask(ctx, id, patch); err != nil {
		s.mu.Lock()
		if j := s.taskIndex(id); j >= 0 {
			s.tasks[j].Completed = snapshot.Completed
			s.tasks[j].CompletedAt = snapshot.CompletedAt
			s.tasks[j].WaitingForReply = snapshot.WaitingForReply
			s.tasks[j].WaitingSince = snapshot.WaitingSince
		}
		s.syncErr = "failed to toggle task: " + err.Error()
		s.mu.Unlock()
		return snapshot.Completed, true
	}
	return result, true
}

// ToggleWaitingForReply flips the waiting flag on an uncompleted task. When
// the remote schema has no waiting_for_reply column the flip still succeeds
// locally; that column is explicitly soft-degradable.
func (s *Store) ToggleWaitingForReply(ctx context.Context, id int64) (waiting bool, ok bool) {
	now := s.now()

	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false, false
	}
	if s.tasks[i].Completed {
		waiting = s.tasks[i].WaitingForReply
		s.mu.Unlock()
		return waiting, true
	}
	snapshot := s.tasks[i]

	task := &s.tasks[i]
	task.WaitingForReply = !snapshot.WaitingForReply
	if task.WaitingForReply {
		task.WaitingSince = &now
	} else {
		task.WaitingSince = nil
	}
	result := task.WaitingForReply
	s.mu.Unlock()

	if s.adapter == nil || !s.adapter.Capabilities().Has("tasks", "waiting_for_reply") {
		return result, true
	}

	if err := s.adapter.UpdateTask(ctx, id, remote.Patch{"waiting_for_reply": result}); err != nil {
		s.mu.Lock()
		if j := s.taskIndex(id); j >= 0 {
			s.tasks[j].WaitingForReply = snapshot.WaitingForReply
			s.tasks[j].WaitingSince = snapshot.WaitingSince
		}
		s.syncErr = "failed to update waiting flag: " + err.Error()
		s.mu.Unlock()
		return snapshot.WaitingForReply, true
	}
	return result, true
}

// PinToToday sets or clears the pinned-to-today flag.
func (s *Store) PinToToday(ctx context.Context, id int64, pinned bool) bool {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	snapshot := s.tasks[i]
	s.tasks[i].PinnedToToday = pinned
	s.mu.Unlock()

	if s.adapter == nil || !s.adapter.Capabilities().Has("tasks", "pinned_to_today") {
		return true
	}

	if err := s.adapter.UpdateTask(ctx, id, remote.Patch{"pinned_to_today": pinned}); err != nil {
		s.mu.Lock()
		if j := s.taskIndex(id); j >= 0 {
			s.tasks[j].PinnedToToday = snapshot.PinnedToToday
		}
		s.syncErr = "failed to pin task: " + err.Error()
		s.mu.Unlock()
	}
	return true
}

// UpdateDueDate sets or clears a task's due date.
func (s *Store) UpdateDueDate(ctx context.Context, id int64, dueDate *time.Time) bool {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	snapshot := s.tasks[i]
	s.tasks[i].DueDate = dueDate
	s.mu.Unlock()

	if s.adapter == nil || !s.adapter.Capabilities().Has("tasks", "due_date") {
		return true
	}

	patch := remote.Patch{"due_date": nil}
	if dueDate != nil {
		patch["due_date"] = *dueDate
	}
	if err := s.adapter.UpdateTask(ctx, id, patch); err != nil {
		s.mu.Lock()
		if j := s.taskIndex(id); j >= 0 {
			s.tasks[j].DueDate = snapshot.DueDate
		}
		s.syncErr = "failed to update due date: " + err.Error()
		s.mu.Unlock()
	}
	return true
}

// UpdateTask shallow-merges the patch into the task. Rollback restores the
// full pre-mutation task.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, bool) {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, false
	}
	snapshot := s.tasks[i]

	task := &s.tasks[i]
	if patch.Text != nil {
		task.Text = *patch.Text
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Duration != nil {
		task.Duration = *patch.Duration
	}
	if patch.StreakTarget != nil {
		task.StreakTarget = *patch.StreakTarget
	}
	updated := *task
	s.mu.Unlock()

	if s.adapter == nil {
		return updated, true
	}

	remotePatch := remote.Patch{}
	if patch.Text != nil {
		remotePatch["text"] = *patch.Text
	}
	if patch.Category != nil {
		remotePatch["category"] = *patch.Category
	}
	if patch.Priority != nil {
		remotePatch["priority"] = *patch.Priority
	}
	if patch.Duration != nil {
		remotePatch["duration"] = *patch.Duration
	}
	if patch.StreakTarget != nil && s.adapter.Capabilities().Has("tasks", "streak_target") {
		remotePatch["streak_target"] = *patch.StreakTarget
	}
	if len(remotePatch) == 0 {
		return updated, true
	}

	if err := s.adapter.UpdateTask(ctx, id, remotePatch); err != nil {
		s.mu.Lock()
		if j := s.taskIndex(id); j >= 0 {
			s.tasks[j] = snapshot
		}
		s.syncErr = "failed to update task: " + err.Error()
		s.mu.Unlock()
		return snapshot, true
	}
	return updated, true
}

// DeleteTask force-stops the task's open timer, then removes the task. A
// failed remote delete re-inserts the task; its original position is not
// restored.
func (s *Store) DeleteTask(ctx context.Context, id int64) bool {
	s.mu.Lock()
	hasTimer := s.active[id] != nil
	s.mu.Unlock()
	if hasTimer {
		s.StopTimer(ctx, id)
	}

	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	snapshot := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	if s.adapter == nil {
		return true
	}

	if err := s.adapter.DeleteTask(ctx, id); err != nil {
		s.mu.Lock()
		if s.taskIndex(id) < 0 {
			s.tasks = append(s.tasks, snapshot)
		}
		s.syncErr = "failed to delete task: " + err.Error()
		s.mu.Unlock()
	}
	return true
}
