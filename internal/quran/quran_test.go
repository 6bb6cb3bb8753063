package quran_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"focusboard/backend/internal/db"
	"focusboard/backend/internal/quran"
)

func openRepo(t *testing.T) *quran.Repository {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if err := db.Migrate(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return quran.NewRepository(database)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	sessions := []quran.Session{
		{ID: "a", Surah: "Al-Kahf", PagesRead: 5, DurationSeconds: 1200, StartedAt: base},
		{ID: "b", Surah: "Ya-Sin", PagesRead: 3, DurationSeconds: 600, StartedAt: base.Add(24 * time.Hour)},
		{ID: "c", Surah: "Al-Mulk", PagesRead: 1.5, DurationSeconds: 300, StartedAt: base.Add(12 * time.Hour)},
	}
	for _, session := range sessions {
		if err := repo.Insert(ctx, session); err != nil {
			t.Fatalf("insert session %s: %v", session.ID, err)
		}
	}

	got, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(got) != 3 || got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "a" {
		t.Fatalf("expected order [b c a], got %+v", got)
	}
	if !got[2].StartedAt.Equal(base) {
		t.Fatalf("started_at not round-tripped: %v", got[2].StartedAt)
	}
	if got[2].PagesRead != 5 || got[2].DurationSeconds != 1200 {
		t.Fatalf("session fields not round-tripped: %+v", got[2])
	}
}

func TestListClampsLimit(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, quran.Session{
		ID: "only", Surah: "Al-Fatiha", PagesRead: 1, DurationSeconds: 60,
		StartedAt: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	for _, limit := range []int{-5, 0, 1000} {
		got, err := repo.List(ctx, limit)
		if err != nil {
			t.Fatalf("list with limit %d: %v", limit, err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 session for limit %d, got %d", limit, len(got))
		}
	}
}

func TestStatsPagesPerHour(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats on empty table: %v", err)
	}
	if stats.SessionCount != 0 || stats.TotalPages != 0 || stats.PagesPerHour != 0 {
		t.Fatalf("expected zero stats on empty table, got %+v", stats)
	}

	base := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	// 6 pages in 30 minutes reads as 12 pages per hour.
	if err := repo.Insert(ctx, quran.Session{ID: "a", Surah: "Al-Baqarah", PagesRead: 4, DurationSeconds: 1200, StartedAt: base}); err != nil {
		t.Fatalf("insert session a: %v", err)
	}
	if err := repo.Insert(ctx, quran.Session{ID: "b", Surah: "Al-Baqarah", PagesRead: 2, DurationSeconds: 600, StartedAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("insert session b: %v", err)
	}

	stats, err = repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SessionCount != 2 || stats.TotalPages != 6 || stats.TotalSeconds != 1800 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if math.Abs(stats.PagesPerHour-12) > 1e-9 {
		t.Fatalf("expected 12 pages/hour, got %f", stats.PagesPerHour)
	}
}
