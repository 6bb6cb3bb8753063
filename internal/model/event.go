package model

// EventKind tags a remote change notification.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// TaskEvent is a change notification for the tasks table. Row is nil for
// deletes; DeletedID is set only for deletes.
type TaskEvent struct {
	Kind      EventKind `json:"kind"`
	Row       *Task     `json:"row,omitempty"`
	DeletedID int64     `json:"deletedId,omitempty"`
}

// TimeLogEvent is a change notification for the time_logs table.
type TimeLogEvent struct {
	Kind      EventKind `json:"kind"`
	Row       *TimeLog  `json:"row,omitempty"`
	DeletedID string    `json:"deletedId,omitempty"`
}
