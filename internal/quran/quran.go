// Package quran tracks Quran reading sessions and derives reading-speed
// stats from them.
package quran

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Session is one timed reading sitting.
type Session struct {
	ID              string    `json:"id"`
	Surah           string    `json:"surah"`
	PagesRead       float64   `json:"pagesRead"`
	DurationSeconds int       `json:"durationSeconds"`
	StartedAt       time.Time `json:"startedAt"`
}

// Stats aggregates all sessions. PagesPerHour is zero when no time has been
// logged yet.
type Stats struct {
	SessionCount int     `json:"sessionCount"`
	TotalPages   float64 `json:"totalPages"`
	TotalSeconds int     `json:"totalSeconds"`
	PagesPerHour float64 `json:"pagesPerHour"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, session Session) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO quran_sessions (id, surah, pages_read, duration_seconds, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.Surah,
		session.PagesRead,
		session.DurationSeconds,
		session.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert quran session: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, surah, pages_read, duration_seconds, started_at
		 FROM quran_sessions
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list quran sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]Session, 0, limit)
	for rows.Next() {
		var session Session
		var startedAt string
		if err := rows.Scan(
			&session.ID,
			&session.Surah,
			&session.PagesRead,
			&session.DurationSeconds,
			&startedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quran session: %w", err)
		}
		parsed, parseErr := time.Parse(time.RFC3339Nano, startedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("parse quran session started_at: %w", parseErr)
		}
		session.StartedAt = parsed.UTC()
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quran sessions: %w", err)
	}
	return sessions, nil
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1),
		        COALESCE(SUM(pages_read), 0),
		        COALESCE(SUM(duration_seconds), 0)
		 FROM quran_sessions`,
	).Scan(&stats.SessionCount, &stats.TotalPages, &stats.TotalSeconds)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate quran sessions: %w", err)
	}

	if stats.TotalSeconds > 0 {
		stats.PagesPerHour = stats.TotalPages / (float64(stats.TotalSeconds) / 3600)
	}
	return stats, nil
}
