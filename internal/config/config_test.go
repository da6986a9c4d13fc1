package config

import (
	"log/slog"
	"testing"
	"time"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("windforest-api", mapLookup(map[string]string{}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q", cfg.Profile)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Database.Path != "data/windforest.db" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.OpenAI.Model != "gpt-4" {
		t.Fatalf("OpenAI.Model = %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com" {
		t.Fatalf("OpenAI.BaseURL = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.Sessions.Backend != SessionBackendMemory {
		t.Fatalf("Sessions.Backend = %q", cfg.Sessions.Backend)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load("windforest-api", mapLookup(map[string]string{
		"WINDFOREST_PROFILE":            "prod",
		"WINDFOREST_HTTP_ADDR":          ":9999",
		"WINDFOREST_DATABASE_PATH":      "/var/lib/windforest/books.db",
		"OPENAI_API_KEY":                "sk-test",
		"OPENAI_MODEL":                  "gpt-4o-mini",
		"WINDFOREST_OPENAI_TIMEOUT":     "45s",
		"WINDFOREST_SESSIONS_BACKEND":   "postgres",
		"WINDFOREST_SESSIONS_DSN":       "postgres://localhost:5432/windforest",
		"WINDFOREST_LOG_LEVEL":          "info",
		"WINDFOREST_OBJECTSTORE_BUCKET": "windforest-archive",
	}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q", cfg.Profile)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("OpenAI.APIKey = %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("OpenAI.Model = %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Timeout != 45*time.Second {
		t.Fatalf("OpenAI.Timeout = %v", cfg.OpenAI.Timeout)
	}
	if cfg.Sessions.Backend != SessionBackendPostgres {
		t.Fatalf("Sessions.Backend = %q", cfg.Sessions.Backend)
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Auth.Required {
		t.Fatal("prod profile should require auth by default")
	}
}

func TestPrefixedCredentialWinsOverUnprefixed(t *testing.T) {
	cfg, err := Load("windforest-api", mapLookup(map[string]string{
		"OPENAI_API_KEY":            "sk-old",
		"WINDFOREST_OPENAI_API_KEY": "sk-new",
	}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-new" {
		t.Fatalf("OpenAI.APIKey = %q", cfg.OpenAI.APIKey)
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	if _, err := Load("windforest-api", mapLookup(map[string]string{
		"WINDFOREST_PROFILE": "staging",
	})); err == nil {
		t.Fatal("expected error for invalid profile")
	}
}

func TestLoadRejectsPostgresBackendWithoutDSN(t *testing.T) {
	if _, err := Load("windforest-api", mapLookup(map[string]string{
		"WINDFOREST_SESSIONS_BACKEND": "postgres",
	})); err == nil {
		t.Fatal("expected error for postgres backend without DSN")
	}
}

func TestLoadRejectsInvalidSessionBackend(t *testing.T) {
	if _, err := Load("windforest-api", mapLookup(map[string]string{
		"WINDFOREST_SESSIONS_BACKEND": "redis",
	})); err == nil {
		t.Fatal("expected error for unknown session backend")
	}
}
