// Package prefs is the client-preference store: a flat key→JSON map with no
// schema or versioning, persisted to one file with atomic writes. It backs
// theme, list order, list customization, per-task streak calendars, admin
// unlock and the cached API key; the task store never reads it.
package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"
)

type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// Open loads the preference file at path, starting empty if it does not
// exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read prefs %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.values); err != nil {
		return nil, fmt.Errorf("decode prefs %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

// GetString returns the preference as a plain string when it holds a JSON
// string, empty otherwise.
func (s *Store) GetString(key string) string {
	raw, ok := s.Get(key)
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func (s *Store) Set(key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.persist()
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.persist()
}

func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// persist must be called with the mutex held.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create prefs dir: %w", err)
		}
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write prefs %s: %w", s.path, err)
	}
	return nil
}
