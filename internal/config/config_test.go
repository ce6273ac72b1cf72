package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	if cfg.API.BaseURL != "http://localhost:5000/api" {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Cache.ListStaleTime != 5*time.Minute {
		t.Errorf("ListStaleTime = %v, want 5m", cfg.Cache.ListStaleTime)
	}
	if cfg.Cache.StatsStaleTime != 10*time.Minute {
		t.Errorf("StatsStaleTime = %v, want 10m", cfg.Cache.StatsStaleTime)
	}
	if cfg.Cache.SearchStaleTime != 2*time.Minute {
		t.Errorf("SearchStaleTime = %v, want 2m", cfg.Cache.SearchStaleTime)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "church.yaml")
	content := []byte(`
api:
  base_url: https://church.example.org/api
  timeout: 10s
cache:
  search_min_length: 3
database:
  type: postgres
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CHURCH_API_TIMEOUT", "45s")
	t.Setenv("DATABASE_URL", "postgres://localhost/church")

	cfg := Load(path)

	if cfg.API.BaseURL != "https://church.example.org/api" {
		t.Errorf("BaseURL = %q, want value from file", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want env override 45s", cfg.API.Timeout)
	}
	if cfg.Cache.SearchMinLength != 3 {
		t.Errorf("SearchMinLength = %d, want 3", cfg.Cache.SearchMinLength)
	}
	if cfg.Database.Type != "postgres" || cfg.Database.URL != "postgres://localhost/church" {
		t.Errorf("Database = %+v", cfg.Database)
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEARCH_MIN_LENGTH", "abc")
	t.Setenv("LIST_STALE_TIME", "soon")

	cfg := Load(filepath.Join(t.TempDir(), "none.yaml"))

	if cfg.Cache.SearchMinLength != 2 {
		t.Errorf("SearchMinLength = %d, want default 2", cfg.Cache.SearchMinLength)
	}
	if cfg.Cache.ListStaleTime != 5*time.Minute {
		t.Errorf("ListStaleTime = %v, want default", cfg.Cache.ListStaleTime)
	}
}
