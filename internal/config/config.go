package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds all runtime settings. Values come from an optional
// JSON-with-comments config file, overridden by environment variables; both
// layers sit on top of the defaults.
type Config struct {
	Port        string   `json:"port"`
	DBPath      string   `json:"db_path"`
	CORSOrigins []string `json:"cors_origins"`
	PrefsPath   string   `json:"prefs_path"`
	AdhkarPath  string   `json:"adhkar_path"`

	// AI parser settings. An empty APIKey leaves the parser unconfigured;
	// the cached-API-key preference can supply one at request time.
	AIBaseURL string `json:"ai_base_url"`
	AIModel   string `json:"ai_model"`
	AIAPIKey  string `json:"ai_api_key"`
}

func defaults() Config {
	return Config{
		Port:        "8080",
		DBPath:      "./data/focusboard.db",
		CORSOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		PrefsPath:   "./data/prefs.json",
		AdhkarPath:  "./data/adhkar.json",
		AIBaseURL:   "https://api.openai.com/v1",
		AIModel:     "gpt-4o-mini",
	}
}

// Load builds the config: defaults, then the config file at path (skipped
// when path is empty or the file does not exist), then environment
// variables. An empty DB_PATH means "no remote store configured" and puts
// the task store into local-only mode.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.PrefsPath = getEnv("PREFS_PATH", cfg.PrefsPath)
	cfg.AdhkarPath = getEnv("ADHKAR_PATH", cfg.AdhkarPath)
	cfg.AIBaseURL = getEnv("AI_BASE_URL", cfg.AIBaseURL)
	cfg.AIModel = getEnv("AI_MODEL", cfg.AIModel)
	cfg.AIAPIKey = getEnv("AI_API_KEY", cfg.AIAPIKey)

	return cfg, nil
}

// loadFile merges a hujson config file into cfg. A missing file is fine; a
// malformed one is not.
func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := json.Unmarshal(standardized, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
