package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"focusboard/backend/internal/adhkar"
	"focusboard/backend/internal/db"
	"focusboard/backend/internal/handler"
	"focusboard/backend/internal/parser"
	"focusboard/backend/internal/prefs"
	"focusboard/backend/internal/quran"
	"focusboard/backend/internal/remote"
	"focusboard/backend/internal/router"
	"focusboard/backend/internal/store"
)

type taskListEnvelope struct {
	Tasks []struct {
		ID        int64  `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	} `json:"tasks"`
	Phase     string `json:"phase"`
	SyncError string `json:"syncError"`
}

type taskEnvelope struct {
	Task struct {
		ID       int64  `json:"id"`
		Text     string `json:"text"`
		Category string `json:"category"`
		Priority string `json:"priority"`
	} `json:"task"`
}

type timerEnvelope struct {
	TaskID         int64  `json:"taskId"`
	State          string `json:"state"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestTaskLifecycle(t *testing.T) {
	engine := setupTestEngine(t)

	// A fresh database gets the seed catalogue.
	status, body := requestJSON(t, engine, http.MethodGet, "/api/tasks", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 listing tasks, got %d", status)
	}
	var list taskListEnvelope
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("unmarshal task list: %v", err)
	}
	if len(list.Tasks) != 36 {
		t.Fatalf("expected 36 seeded tasks, got %d", len(list.Tasks))
	}
	if list.Phase != "ready" {
		t.Fatalf("expected phase ready, got %s", list.Phase)
	}
	if list.SyncError != "" {
		t.Fatalf("unexpected sync error: %s", list.SyncError)
	}

	status, body = requestJSON(t, engine, http.MethodPost, "/api/tasks", map[string]interface{}{
		"text":     "Write the quarterly report",
		"category": "Work",
		"priority": "High",
		"duration": "45m",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 adding task, got %d: %s", status, string(body))
	}
	var added taskEnvelope
	if err := json.Unmarshal(body, &added); err != nil {
		t.Fatalf("unmarshal added task: %v", err)
	}
	if added.Task.ID <= 36 {
		t.Fatalf("new task id must not collide with seed ids, got %d", added.Task.ID)
	}
	newID := added.Task.ID

	// New tasks land at the top of the list.
	status, body = requestJSON(t, engine, http.MethodGet, "/api/tasks", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 listing tasks, got %d", status)
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("unmarshal task list: %v", err)
	}
	if len(list.Tasks) != 37 || list.Tasks[0].ID != newID {
		t.Fatalf("expected new task first in list of 37, got %d tasks starting with %d", len(list.Tasks), list.Tasks[0].ID)
	}

	status, body = requestJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/tasks/%d/toggle", newID), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 toggling task, got %d: %s", status, string(body))
	}
	var toggled struct {
		Completed bool `json:"completed"`
	}
	if err := json.Unmarshal(body, &toggled); err != nil {
		t.Fatalf("unmarshal toggle response: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected task completed after toggle")
	}

	status, _ = requestJSON(t, engine, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", newID), nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 deleting task, got %d", status)
	}

	status, body = requestJSON(t, engine, http.MethodPost, "/api/tasks/99999/toggle", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 toggling unknown task, got %d", status)
	}
	var apiErr apiErrorEnvelope
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if apiErr.Error.Code != "task_not_found" {
		t.Fatalf("expected task_not_found, got %s", apiErr.Error.Code)
	}
}

func TestAddTaskValidation(t *testing.T) {
	engine := setupTestEngine(t)

	cases := []struct {
		name string
		body map[string]interface{}
		code string
	}{
		{"missing text", map[string]interface{}{"category": "Work", "priority": "High"}, "invalid_text"},
		{"unknown category", map[string]interface{}{"text": "x", "category": "Chores", "priority": "High"}, "invalid_category"},
		{"unknown priority", map[string]interface{}{"text": "x", "category": "Work", "priority": "Urgent"}, "invalid_priority"},
		{"bad due date", map[string]interface{}{"text": "x", "category": "Work", "priority": "High", "dueDate": "tomorrow"}, "invalid_due_date"},
	}

	for _, tc := range cases {
		status, body := requestJSON(t, engine, http.MethodPost, "/api/tasks", tc.body)
		if status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, status)
		}
		var apiErr apiErrorEnvelope
		if err := json.Unmarshal(body, &apiErr); err != nil {
			t.Fatalf("%s: unmarshal error: %v", tc.name, err)
		}
		if apiErr.Error.Code != tc.code {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.code, apiErr.Error.Code)
		}
	}
}

func TestTimerEndpoints(t *testing.T) {
	engine := setupTestEngine(t)

	status, body := requestJSON(t, engine, http.MethodGet, "/api/tasks/1/timer", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 reading timer state, got %d", status)
	}
	var timer timerEnvelope
	if err := json.Unmarshal(body, &timer); err != nil {
		t.Fatalf("unmarshal timer state: %v", err)
	}
	if timer.State != "none" {
		t.Fatalf("expected no timer initially, got %s", timer.State)
	}

	status, body = requestJSON(t, engine, http.MethodPost, "/api/tasks/1/timer/start", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 starting timer, got %d", status)
	}
	if err := json.Unmarshal(body, &timer); err != nil {
		t.Fatalf("unmarshal timer state: %v", err)
	}
	if timer.State != "running" {
		t.Fatalf("expected running timer, got %s", timer.State)
	}

	status, body = requestJSON(t, engine, http.MethodPost, "/api/tasks/1/timer/pause", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 pausing timer, got %d", status)
	}
	if err := json.Unmarshal(body, &timer); err != nil {
		t.Fatalf("unmarshal timer state: %v", err)
	}
	if timer.State != "paused" {
		t.Fatalf("expected paused timer, got %s", timer.State)
	}

	status, body = requestJSON(t, engine, http.MethodPost, "/api/tasks/1/timer/stop", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 stopping timer, got %d", status)
	}
	var stopped struct {
		Stopped bool `json:"stopped"`
	}
	if err := json.Unmarshal(body, &stopped); err != nil {
		t.Fatalf("unmarshal stop response: %v", err)
	}
	if !stopped.Stopped {
		t.Fatal("expected stop to report an existing timer")
	}

	// The closed log shows up in the log feed.
	status, body = requestJSON(t, engine, http.MethodGet, "/api/timelogs", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 listing time logs, got %d", status)
	}
	var logs struct {
		TimeLogs []struct {
			TaskID int64   `json:"taskId"`
			EndAt  *string `json:"endAt"`
		} `json:"timeLogs"`
	}
	if err := json.Unmarshal(body, &logs); err != nil {
		t.Fatalf("unmarshal time logs: %v", err)
	}
	if len(logs.TimeLogs) != 1 || logs.TimeLogs[0].TaskID != 1 || logs.TimeLogs[0].EndAt == nil {
		t.Fatalf("expected one closed log for task 1, got %+v", logs.TimeLogs)
	}
}

func TestViewsEndpoint(t *testing.T) {
	engine := setupTestEngine(t)

	status, body := requestJSON(t, engine, http.MethodGet, "/api/tasks/views", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for views, got %d", status)
	}
	var views struct {
		Today    []json.RawMessage `json:"today"`
		Streaks  []json.RawMessage `json:"streaks"`
		Progress struct {
			Completed int `json:"completed"`
			Total     int `json:"total"`
			Percent   int `json:"percent"`
		} `json:"progress"`
	}
	if err := json.Unmarshal(body, &views); err != nil {
		t.Fatalf("unmarshal views: %v", err)
	}
	if len(views.Today) == 0 {
		t.Fatal("seed data includes pinned tasks, today view must not be empty")
	}
	if len(views.Streaks) == 0 {
		t.Fatal("seed data includes streak tasks, streak view must not be empty")
	}
	if views.Progress.Total == 0 {
		t.Fatal("progress total must count seeded non-streak tasks")
	}
}

func TestPrefsEndpoints(t *testing.T) {
	engine := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodGet, "/api/prefs/theme", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing pref, got %d", status)
	}

	status, _ = requestJSON(t, engine, http.MethodPut, "/api/prefs/theme", "dark")
	if status != http.StatusOK {
		t.Fatalf("expected 200 setting pref, got %d", status)
	}

	status, body := requestJSON(t, engine, http.MethodGet, "/api/prefs/theme", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 reading pref, got %d", status)
	}
	var pref struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(body, &pref); err != nil {
		t.Fatalf("unmarshal pref: %v", err)
	}
	if pref.Value != "dark" {
		t.Fatalf("expected dark, got %s", pref.Value)
	}

	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/prefs/theme", nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 deleting pref, got %d", status)
	}
}

func TestQuranEndpoints(t *testing.T) {
	engine := setupTestEngine(t)

	status, body := requestJSON(t, engine, http.MethodPost, "/api/quran/sessions", map[string]interface{}{
		"surah":           "Al-Kahf",
		"pagesRead":       5,
		"durationSeconds": 1500,
		"startedAt":       "2025-03-10T06:30:00Z",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 adding session, got %d: %s", status, string(body))
	}

	status, body = requestJSON(t, engine, http.MethodGet, "/api/quran/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for stats, got %d", status)
	}
	var stats struct {
		Stats struct {
			SessionCount int     `json:"sessionCount"`
			TotalPages   float64 `json:"totalPages"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.Stats.SessionCount != 1 || stats.Stats.TotalPages != 5 {
		t.Fatalf("unexpected stats: %+v", stats.Stats)
	}

	status, _ = requestJSON(t, engine, http.MethodPost, "/api/quran/sessions", map[string]interface{}{
		"surah": "Al-Kahf", "pagesRead": 0, "durationSeconds": 60,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero pages, got %d", status)
	}
}

func TestAdhkarEndpoints(t *testing.T) {
	engine := setupTestEngine(t)

	status, body := requestJSON(t, engine, http.MethodGet, "/api/adhkar?category=morning", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 listing adhkar, got %d", status)
	}
	var listed struct {
		Items []struct {
			ID       int    `json:"id"`
			Category string `json:"category"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("unmarshal adhkar list: %v", err)
	}
	if len(listed.Items) == 0 {
		t.Fatal("expected seeded morning adhkar")
	}
	for _, item := range listed.Items {
		if item.Category != "morning" {
			t.Fatalf("category filter leaked %s item", item.Category)
		}
	}

	status, _ = requestJSON(t, engine, http.MethodGet, "/api/adhkar?category=nonsense", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", status)
	}
}

func TestParserUnconfigured(t *testing.T) {
	engine := setupTestEngine(t)

	status, body := requestJSON(t, engine, http.MethodPost, "/api/parse", map[string]string{
		"text": "buy milk and email sarah",
	})
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without an API key, got %d", status)
	}
	var apiErr apiErrorEnvelope
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if apiErr.Error.Code != "parser_unconfigured" {
		t.Fatalf("expected parser_unconfigured, got %s", apiErr.Error.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: %s", recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}

func setupTestEngine(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	database, err := db.OpenSQLite(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if err := db.Migrate(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	hub := remote.NewHub()
	adapter, err := remote.NewSQLiteAdapter(database, hub)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	taskStore := store.New(adapter, nil)
	taskStore.Init(context.Background())
	t.Cleanup(taskStore.Close)

	prefStore, err := prefs.Open(filepath.Join(dir, "prefs.json"))
	if err != nil {
		t.Fatalf("open prefs: %v", err)
	}
	adhkarStore, err := adhkar.Open(filepath.Join(dir, "adhkar.json"))
	if err != nil {
		t.Fatalf("open adhkar: %v", err)
	}
	parserClient := parser.New("http://127.0.0.1:1", "test-model", "")

	return router.New(
		handler.NewTaskHandler(taskStore),
		handler.NewParserHandler(parserClient, prefStore, taskStore),
		handler.NewPrefsHandler(prefStore),
		handler.NewQuranHandler(quran.NewRepository(database)),
		handler.NewAdhkarHandler(adhkarStore),
		handler.NewEventsHandler(hub),
		[]string{"http://localhost:5173"},
	)
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
