package remote

import (
	"context"
	"errors"

	"focusboard/backend/internal/model"
)

// ErrNotFound is returned when an update or delete targets a row that does
// not exist.
var ErrNotFound = errors.New("not found")

// Patch is a partial row update keyed by column name. A nil value writes SQL
// NULL. Adapters validate column names against a per-table whitelist before
// touching the database.
type Patch map[string]interface{}

// Adapter is the remote table store the task store synchronizes against.
// Implementations must deliver a change event on the matching subscription
// channel for every successful insert, update and delete, including ones
// performed through this same adapter instance.
type Adapter interface {
	// SelectTasks returns all tasks ordered by id ascending.
	SelectTasks(ctx context.Context) ([]model.Task, error)
	// InsertTasks inserts the given rows and returns them as stored. The
	// store adopts returned ids, which may differ from the client-generated
	// ones.
	InsertTasks(ctx context.Context, tasks []model.Task) ([]model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch Patch) error
	DeleteTask(ctx context.Context, id int64) error

	// SelectTimeLogs returns all time logs ordered by start time descending.
	SelectTimeLogs(ctx context.Context) ([]model.TimeLog, error)
	InsertTimeLog(ctx context.Context, log model.TimeLog) (model.TimeLog, error)
	UpdateTimeLog(ctx context.Context, id string, patch Patch) error
	DeleteTimeLog(ctx context.Context, id string) error

	// Capabilities reports which optional columns this store's schema
	// generation actually has. Determined once at startup; callers consult it
	// instead of parsing "no such column" errors.
	Capabilities() Capabilities

	// SubscribeTasks and SubscribeTimeLogs register a change-event listener.
	// The returned cancel func must be called to release the subscription.
	SubscribeTasks() (<-chan model.TaskEvent, func())
	SubscribeTimeLogs() (<-chan model.TimeLogEvent, func())
}

// Capabilities is the supported-optional-column set negotiated at startup.
type Capabilities struct {
	cols map[string]map[string]bool
}

// Optional columns that may be missing in an older schema generation. Core
// columns are assumed present everywhere.
var optionalColumns = map[string][]string{
	"tasks": {
		"completed_at",
		"due_date",
		"pinned_to_today",
		"is_streak",
		"streak_target",
		"waiting_for_reply",
	},
	"time_logs": {"duration_seconds"},
}

// NewCapabilities builds a capability set from the columns each table was
// observed to have.
func NewCapabilities(tableColumns map[string][]string) Capabilities {
	caps := Capabilities{cols: make(map[string]map[string]bool, len(tableColumns))}
	for table, columns := range tableColumns {
		set := make(map[string]bool, len(columns))
		for _, col := range columns {
			set[col] = true
		}
		caps.cols[table] = set
	}
	return caps
}

// FullCapabilities reports every optional column as present. Used by
// in-memory fakes and current-generation schemas.
func FullCapabilities() Capabilities {
	tables := make(map[string][]string, len(optionalColumns))
	for table, cols := range optionalColumns {
		tables[table] = cols
	}
	return NewCapabilities(tables)
}

// Has reports whether the table has the given column.
func (c Capabilities) Has(table, column string) bool {
	return c.cols[table][column]
}
