package prefs_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusboard/backend/internal/prefs"
)

func TestRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	store, err := prefs.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("theme", json.RawMessage(`"dark"`)))
	require.NoError(t, store.Set("list_order", json.RawMessage(`["today","critical","quickWins"]`)))

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", reopened.GetString("theme"))

	value, ok := reopened.Get("list_order")
	require.True(t, ok)
	var order []string
	require.NoError(t, json.Unmarshal(value, &order))
	assert.Equal(t, []string{"today", "critical", "quickWins"}, order)
}

func TestMissingFileStartsEmpty(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, store.Keys())

	_, ok := store.Get("anything")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("anything"))
}

func TestDeleteAndKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := prefs.Open(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("b", json.RawMessage(`2`)))
	require.NoError(t, store.Set("a", json.RawMessage(`1`)))
	assert.Equal(t, []string{"a", "b"}, store.Keys())

	require.NoError(t, store.Delete("a"))
	require.NoError(t, store.Delete("a")) // second delete is a no-op
	assert.Equal(t, []string{"b"}, store.Keys())

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, reopened.Keys())
}

func TestArbitraryJSONValues(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)

	streaks := `{"28": ["2025-03-08", "2025-03-09"], "30": ["2025-03-09"]}`
	require.NoError(t, store.Set("streak_calendar", json.RawMessage(streaks)))

	value, ok := store.Get("streak_calendar")
	require.True(t, ok)
	assert.JSONEq(t, streaks, string(value))
	// Non-string values read back empty through GetString.
	assert.Equal(t, "", store.GetString("streak_calendar"))
}
