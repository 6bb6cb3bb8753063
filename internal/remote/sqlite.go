package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"focusboard/backend/internal/model"
)

// SQLiteAdapter implements Adapter on top of a local sqlite database and an
// in-process hub. Optional columns missing from the schema are surfaced as
// NULL on reads and rejected on writes; Capabilities tells callers which ones
// to avoid.
type SQLiteAdapter struct {
	db   *sql.DB
	hub  *Hub
	caps Capabilities
}

var patchableColumns = map[string]map[string]bool{
	"tasks": {
		"text": true, "category": true, "priority": true, "duration": true,
		"completed": true, "completed_at": true, "due_date": true,
		"pinned_to_today": true, "is_streak": true, "streak_target": true,
		"waiting_for_reply": true,
	},
	"time_logs": {
		"end_at": true, "duration_seconds": true,
	},
}

func NewSQLiteAdapter(db *sql.DB, hub *Hub) (*SQLiteAdapter, error) {
	caps, err := probeCapabilities(db)
	if err != nil {
		return nil, err
	}
	return &SQLiteAdapter{db: db, hub: hub, caps: caps}, nil
}

// probeCapabilities asks sqlite which optional columns each table carries.
func probeCapabilities(db *sql.DB) (Capabilities, error) {
	tables := make(map[string][]string, len(optionalColumns))
	for table := range optionalColumns {
		rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
		if err != nil {
			return Capabilities{}, fmt.Errorf("probe %s columns: %w", table, err)
		}

		var present []string
		for rows.Next() {
			var (
				cid        int
				name       string
				colType    string
				notNull    int
				dfltValue  sql.NullString
				primaryKey int
			)
			if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &primaryKey); err != nil {
				rows.Close()
				return Capabilities{}, fmt.Errorf("scan %s column info: %w", table, err)
			}
			present = append(present, name)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return Capabilities{}, fmt.Errorf("iterate %s column info: %w", table, err)
		}
		rows.Close()
		tables[table] = present
	}
	return NewCapabilities(tables), nil
}

func (a *SQLiteAdapter) Capabilities() Capabilities {
	return a.caps
}

func (a *SQLiteAdapter) SubscribeTasks() (<-chan model.TaskEvent, func()) {
	return a.hub.SubscribeTasks()
}

func (a *SQLiteAdapter) SubscribeTimeLogs() (<-chan model.TimeLogEvent, func()) {
	return a.hub.SubscribeTimeLogs()
}

// taskSelectList yields a column list that scans uniformly regardless of the
// schema generation: absent optional columns are selected as NULL.
func (a *SQLiteAdapter) taskSelectList() string {
	cols := []string{"id", "text", "category", "priority", "duration", "completed", "created_at"}
	for _, opt := range optionalColumns["tasks"] {
		if a.caps.Has("tasks", opt) {
			cols = append(cols, opt)
		} else {
			cols = append(cols, "NULL AS "+opt)
		}
	}
	return strings.Join(cols, ", ")
}

func (a *SQLiteAdapter) SelectTasks(ctx context.Context) ([]model.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks ORDER BY id ASC`, a.taskSelectList())
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (a *SQLiteAdapter) selectTask(ctx context.Context, id int64) (*model.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = ?`, a.taskSelectList())
	task, err := scanTask(a.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (a *SQLiteAdapter) InsertTasks(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	cols := []string{"id", "text", "category", "priority", "duration", "completed", "created_at"}
	for _, opt := range optionalColumns["tasks"] {
		if a.caps.Has("tasks", opt) {
			cols = append(cols, opt)
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf(
		`INSERT INTO tasks (%s) VALUES (%s)`,
		strings.Join(cols, ", "),
		placeholders,
	)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert tasks tx: %w", err)
	}
	defer tx.Rollback()

	for _, task := range tasks {
		args := make([]interface{}, 0, len(cols))
		for _, col := range cols {
			args = append(args, taskColumnValue(&task, col))
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert task %d: %w", task.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert tasks: %w", err)
	}

	stored := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		row, err := a.selectTask(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		stored = append(stored, *row)
		a.hub.PublishTask(model.TaskEvent{Kind: model.EventInsert, Row: row})
	}
	return stored, nil
}

func (a *SQLiteAdapter) UpdateTask(ctx context.Context, id int64, patch Patch) error {
	if err := a.execPatch(ctx, "tasks", "id", id, patch); err != nil {
		return err
	}
	row, err := a.selectTask(ctx, id)
	if err != nil {
		return err
	}
	a.hub.PublishTask(model.TaskEvent{Kind: model.EventUpdate, Row: row})
	return nil
}

func (a *SQLiteAdapter) DeleteTask(ctx context.Context, id int64) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	a.hub.PublishTask(model.TaskEvent{Kind: model.EventDelete, DeletedID: id})
	return nil
}

func (a *SQLiteAdapter) timeLogSelectList() string {
	cols := []string{"id", "task_id", "start_at", "end_at"}
	if a.caps.Has("time_logs", "duration_seconds") {
		cols = append(cols, "duration_seconds")
	} else {
		cols = append(cols, "NULL AS duration_seconds")
	}
	return strings.Join(cols, ", ")
}

func (a *SQLiteAdapter) SelectTimeLogs(ctx context.Context) ([]model.TimeLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_logs ORDER BY start_at DESC`, a.timeLogSelectList())
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select time logs: %w", err)
	}
	defer rows.Close()

	var logs []model.TimeLog
	for rows.Next() {
		log, scanErr := scanTimeLog(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time logs: %w", err)
	}
	return logs, nil
}

func (a *SQLiteAdapter) selectTimeLog(ctx context.Context, id string) (*model.TimeLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_logs WHERE id = ?`, a.timeLogSelectList())
	log, err := scanTimeLog(a.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (a *SQLiteAdapter) InsertTimeLog(ctx context.Context, log model.TimeLog) (model.TimeLog, error) {
	cols := []string{"id", "task_id", "start_at"}
	args := []interface{}{log.ID, log.TaskID, encodeTime(log.StartAt)}
	if log.EndAt != nil {
		cols = append(cols, "end_at")
		args = append(args, encodeTime(*log.EndAt))
	}
	if log.DurationSeconds != nil && a.caps.Has("time_logs", "duration_seconds") {
		cols = append(cols, "duration_seconds")
		args = append(args, *log.DurationSeconds)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf(
		`INSERT INTO time_logs (%s) VALUES (%s)`,
		strings.Join(cols, ", "),
		placeholders,
	)
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return model.TimeLog{}, fmt.Errorf("insert time log %s: %w", log.ID, err)
	}

	row, err := a.selectTimeLog(ctx, log.ID)
	if err != nil {
		return model.TimeLog{}, err
	}
	a.hub.PublishTimeLog(model.TimeLogEvent{Kind: model.EventInsert, Row: row})
	return *row, nil
}

func (a *SQLiteAdapter) UpdateTimeLog(ctx context.Context, id string, patch Patch) error {
	if err := a.execPatch(ctx, "time_logs", "id", id, patch); err != nil {
		return err
	}
	row, err := a.selectTimeLog(ctx, id)
	if err != nil {
		return err
	}
	a.hub.PublishTimeLog(model.TimeLogEvent{Kind: model.EventUpdate, Row: row})
	return nil
}

func (a *SQLiteAdapter) DeleteTimeLog(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM time_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete time log %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete time log %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	a.hub.PublishTimeLog(model.TimeLogEvent{Kind: model.EventDelete, DeletedID: id})
	return nil
}

func (a *SQLiteAdapter) execPatch(
	ctx context.Context,
	table, idColumn string,
	id interface{},
	patch Patch,
) error {
	if len(patch) == 0 {
		return nil
	}

	allowed := patchableColumns[table]
	assignments := make([]string, 0, len(patch))
	args := make([]interface{}, 0, len(patch)+1)
	for col, value := range patch {
		if !allowed[col] {
			return fmt.Errorf("update %s: column %q is not patchable", table, col)
		}
		if !a.caps.Has(table, col) && isOptionalColumn(table, col) {
			return fmt.Errorf("update %s: schema has no column %q", table, col)
		}
		assignments = append(assignments, col+" = ?")
		args = append(args, encodeValue(value))
	}
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE %s = ?`,
		table,
		strings.Join(assignments, ", "),
		idColumn,
	)
	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isOptionalColumn(table, column string) bool {
	for _, col := range optionalColumns[table] {
		if col == column {
			return true
		}
	}
	return false
}

func taskColumnValue(task *model.Task, column string) interface{} {
	switch column {
	case "id":
		return task.ID
	case "text":
		return task.Text
	case "category":
		return string(task.Category)
	case "priority":
		return string(task.Priority)
	case "duration":
		return task.Duration
	case "completed":
		return boolToInt(task.Completed)
	case "created_at":
		return encodeTime(task.CreatedAt)
	case "completed_at":
		return encodeTimePtr(task.CompletedAt)
	case "due_date":
		return encodeTimePtr(task.DueDate)
	case "pinned_to_today":
		return boolToInt(task.PinnedToToday)
	case "is_streak":
		return boolToInt(task.IsStreak)
	case "streak_target":
		return task.StreakTarget
	case "waiting_for_reply":
		return boolToInt(task.WaitingForReply)
	}
	return nil
}

func encodeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		return boolToInt(v)
	case time.Time:
		return encodeTime(v)
	case *time.Time:
		return encodeTimePtr(v)
	case model.Category:
		return string(v)
	case model.Priority:
		return string(v)
	default:
		return value
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (*model.Task, error) {
	task := model.Task{}
	var (
		completed       int
		createdAt       string
		completedAt     sql.NullString
		dueDate         sql.NullString
		pinnedToToday   sql.NullInt64
		isStreak        sql.NullInt64
		streakTarget    sql.NullInt64
		waitingForReply sql.NullInt64
	)
	err := s.Scan(
		&task.ID,
		&task.Text,
		&task.Category,
		&task.Priority,
		&task.Duration,
		&completed,
		&createdAt,
		&completedAt,
		&dueDate,
		&pinnedToToday,
		&isStreak,
		&streakTarget,
		&waitingForReply,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.Completed = completed != 0
	task.PinnedToToday = pinnedToToday.Valid && pinnedToToday.Int64 != 0
	task.IsStreak = isStreak.Valid && isStreak.Int64 != 0
	task.WaitingForReply = waitingForReply.Valid && waitingForReply.Int64 != 0
	if streakTarget.Valid {
		task.StreakTarget = int(streakTarget.Int64)
	}

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse task created_at: %w", err)
	}
	task.CreatedAt = parsedCreatedAt

	if completedAt.Valid {
		parsed, parseErr := parseTime(completedAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse task completed_at: %w", parseErr)
		}
		task.CompletedAt = &parsed
	}
	if dueDate.Valid {
		parsed, parseErr := parseTime(dueDate.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse task due_date: %w", parseErr)
		}
		task.DueDate = &parsed
	}
	return &task, nil
}

func scanTimeLog(s scanner) (*model.TimeLog, error) {
	log := model.TimeLog{}
	var (
		startAt         string
		endAt           sql.NullString
		durationSeconds sql.NullInt64
	)
	err := s.Scan(&log.ID, &log.TaskID, &startAt, &endAt, &durationSeconds)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan time log: %w", err)
	}

	parsedStartAt, err := parseTime(startAt)
	if err != nil {
		return nil, fmt.Errorf("parse time log start_at: %w", err)
	}
	log.StartAt = parsedStartAt

	if endAt.Valid {
		parsed, parseErr := parseTime(endAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse time log end_at: %w", parseErr)
		}
		log.EndAt = &parsed
	}
	if durationSeconds.Valid {
		seconds := int(durationSeconds.Int64)
		log.DurationSeconds = &seconds
	}
	return &log, nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	if err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}
