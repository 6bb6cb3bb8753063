package store

import (
	"math"
	"time"

	"focusboard/backend/internal/model"
)

// completedGraceWindow keeps a just-completed task visible in active
// groupings for a day before it drops to the archive only.
const completedGraceWindow = 24 * time.Hour

// urgentWindow bounds how far ahead a due date counts as urgent.
const urgentWindow = 24 * time.Hour

// waitingLast stably partitions tasks so waiting-for-reply ones sink to the
// end; relative order is preserved within each partition.
func waitingLast(tasks []model.Task) []model.Task {
	sorted := make([]model.Task, 0, len(tasks))
	var waiting []model.Task
	for _, task := range tasks {
		if task.WaitingForReply {
			waiting = append(waiting, task)
		} else {
			sorted = append(sorted, task)
		}
	}
	return append(sorted, waiting...)
}

func (s *Store) snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	return out
}

func isStreakTask(task model.Task) bool {
	return task.IsStreak || task.Category == model.CategoryStreaks
}

// TodayTasks returns uncompleted non-streak tasks pinned to today, waiting
// ones last.
func (s *Store) TodayTasks() []model.Task {
	return waitingLast(filterTasks(s.snapshot(), func(t model.Task) bool {
		return t.PinnedToToday && !t.Completed && !isStreakTask(t)
	}))
}

// CriticalTasks returns uncompleted non-streak tasks with Critical priority,
// waiting ones last.
func (s *Store) CriticalTasks() []model.Task {
	return waitingLast(filterTasks(s.snapshot(), func(t model.Task) bool {
		return t.Priority == model.PriorityCritical && !t.Completed && !isStreakTask(t)
	}))
}

// QuickWins returns uncompleted non-streak quick-win tasks, waiting ones
// last.
func (s *Store) QuickWins() []model.Task {
	return waitingLast(filterTasks(s.snapshot(), func(t model.Task) bool {
		return t.Priority == model.PriorityQuickWin && !t.Completed && !isStreakTask(t)
	}))
}

// StreakTasks returns every streak task regardless of completion; streak
// cards track per-day completion on their own.
func (s *Store) StreakTasks() []model.Task {
	return filterTasks(s.snapshot(), isStreakTask)
}

// ArchivedTasks returns all completed non-streak tasks, the full history.
func (s *Store) ArchivedTasks() []model.Task {
	return filterTasks(s.snapshot(), func(t model.Task) bool {
		return t.Completed && !isStreakTask(t)
	})
}

// ActiveTasks returns uncompleted tasks plus completed ones still inside the
// 24-hour grace window (or missing a completion timestamp).
func (s *Store) ActiveTasks() []model.Task {
	now := s.now()
	return filterTasks(s.snapshot(), func(t model.Task) bool {
		return isActiveAt(t, now)
	})
}

func isActiveAt(task model.Task, now time.Time) bool {
	if !task.Completed {
		return true
	}
	if task.CompletedAt == nil {
		return true
	}
	return now.Sub(*task.CompletedAt) <= completedGraceWindow
}

// GroupedByCategory buckets active project-category tasks that are not shown
// elsewhere (critical, quick-win, pinned or streak), each bucket waiting-last
// sorted. Keys with no tasks are absent.
func (s *Store) GroupedByCategory() map[model.Category][]model.Task {
	now := s.now()
	grouped := make(map[model.Category][]model.Task)
	for _, task := range s.snapshot() {
		if !isActiveAt(task, now) {
			continue
		}
		if task.Priority == model.PriorityCritical || task.Priority == model.PriorityQuickWin {
			continue
		}
		if task.PinnedToToday || isStreakTask(task) {
			continue
		}
		if !task.Category.IsProject() {
			continue
		}
		grouped[task.Category] = append(grouped[task.Category], task)
	}
	for category, tasks := range grouped {
		grouped[category] = waitingLast(tasks)
	}
	return grouped
}

// ArchivedByCategory buckets the archive by category.
func (s *Store) ArchivedByCategory() map[model.Category][]model.Task {
	grouped := make(map[model.Category][]model.Task)
	for _, task := range s.ArchivedTasks() {
		grouped[task.Category] = append(grouped[task.Category], task)
	}
	return grouped
}

// Progress reports completed and total counts over non-streak tasks and the
// rounded completion percentage, zero when there are no tasks.
func (s *Store) Progress() (completed, total, percent int) {
	for _, task := range s.snapshot() {
		if isStreakTask(task) {
			continue
		}
		total++
		if task.Completed {
			completed++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	percent = int(math.Round(100 * float64(completed) / float64(total)))
	return completed, total, percent
}

// UrgentTasks returns uncompleted tasks due within the next 24 hours that are
// not already overdue.
func (s *Store) UrgentTasks() []model.Task {
	now := s.now()
	deadline := now.Add(urgentWindow)
	return filterTasks(s.snapshot(), func(t model.Task) bool {
		if t.Completed || t.DueDate == nil {
			return false
		}
		return !t.DueDate.Before(now) && !t.DueDate.After(deadline)
	})
}
