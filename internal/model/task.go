package model

import "time"

// Category is the fixed set of task buckets. Project categories hold normal
// work items; the special categories (voice inbox, today, streaks) have their
// own display surfaces and are excluded from project groupings.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryDeen     Category = "Deen"
	CategoryLearning Category = "Learning"
	CategoryHome     Category = "Home"
	CategoryHealth   Category = "Health"

	CategoryVoiceInbox Category = "Voice Inbox"
	CategoryToday      Category = "Today"
	CategoryStreaks    Category = "Streaks"
)

// ProjectCategories lists the categories that appear in the by-category
// dashboard grouping, in display order.
var ProjectCategories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryDeen,
	CategoryLearning,
	CategoryHome,
	CategoryHealth,
}

func (c Category) IsProject() bool {
	for _, pc := range ProjectCategories {
		if c == pc {
			return true
		}
	}
	return false
}

func IsValidCategory(c Category) bool {
	switch c {
	case CategoryVoiceInbox, CategoryToday, CategoryStreaks:
		return true
	}
	return c.IsProject()
}

type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityQuickWin Priority = "QuickWin"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityCritical, PriorityQuickWin, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DefaultStreakTarget is the streak length a habit task starts with.
const DefaultStreakTarget = 30

// Task is one unit of work. IDs are assigned client-side from the wall clock
// in milliseconds and may be replaced by the remote store's generated id on
// insert.
type Task struct {
	ID              int64      `json:"id"`
	Text            string     `json:"text"`
	Category        Category   `json:"category"`
	Priority        Priority   `json:"priority"`
	Duration        string     `json:"duration"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	PinnedToToday   bool       `json:"pinnedToToday"`
	IsStreak        bool       `json:"isStreak"`
	StreakTarget    int        `json:"streakTarget"`
	WaitingForReply bool       `json:"waitingForReply"`
	WaitingSince    *time.Time `json:"waitingSince,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// TaskPatch carries the fields updateTask may change. Nil means "leave as is".
type TaskPatch struct {
	Text         *string   `json:"text,omitempty"`
	Category     *Category `json:"category,omitempty"`
	Priority     *Priority `json:"priority,omitempty"`
	Duration     *string   `json:"duration,omitempty"`
	StreakTarget *int      `json:"streakTarget,omitempty"`
}

// TimeLog is one continuous-or-paused work session against a task. An open
// log (EndAt nil) means the session is still running.
type TimeLog struct {
	ID              string     `json:"id"`
	TaskID          int64      `json:"taskId"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           *time.Time `json:"endAt,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
}
