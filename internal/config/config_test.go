package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	t.Setenv("CAMPUSREEL_STORE_URL", "https://store.example.edu/v1")
	t.Setenv("CAMPUSREEL_DB_PATH", "")
	t.Setenv("CAMPUSREEL_REFRESH_INTERVAL", "")
	t.Setenv("CAMPUSREEL_PAGE_LIMIT", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.DBPath != "campusreel.db" {
		t.Fatalf("unexpected DB path: %s", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("unexpected refresh interval: %s", cfg.RefreshInterval)
	}
	if cfg.PageLimit != 50 {
		t.Fatalf("unexpected page limit: %d", cfg.PageLimit)
	}
}

func TestLoadFromEnv_MissingStoreURL(t *testing.T) {
	t.Setenv("CAMPUSREEL_STORE_URL", "")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for missing store URL")
	}
}

func TestLoadFromEnv_BadRefreshInterval(t *testing.T) {
	t.Setenv("CAMPUSREEL_STORE_URL", "https://store.example.edu/v1")
	t.Setenv("CAMPUSREEL_REFRESH_INTERVAL", "soon")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for malformed interval")
	}
}

func TestValidate_StoreURLTrailingSlash(t *testing.T) {
	cfg := Config{
		StoreURL:        "https://store.example.edu/v1/",
		DBPath:          "campusreel.db",
		RefreshInterval: 30 * time.Second,
		PageLimit:       50,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate_Bounds(t *testing.T) {
	cfg := Config{
		StoreURL:        "https://store.example.edu/v1",
		DBPath:          "campusreel.db",
		RefreshInterval: time.Second,
		PageLimit:       50,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sub-5s refresh interval")
	}

	cfg.RefreshInterval = 30 * time.Second
	cfg.PageLimit = 500
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for oversized page limit")
	}
}
