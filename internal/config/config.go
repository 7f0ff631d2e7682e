package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the feed app.
type Config struct {
	StoreURL        string
	APIKey          string
	DBPath          string
	LogPath         string
	LogLevel        string
	RefreshInterval time.Duration
	PageLimit       int
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		StoreURL: os.Getenv("CAMPUSREEL_STORE_URL"),
		APIKey:   os.Getenv("CAMPUSREEL_API_KEY"),
		DBPath:   os.Getenv("CAMPUSREEL_DB_PATH"),
		LogPath:  os.Getenv("CAMPUSREEL_LOG_PATH"),
		LogLevel: os.Getenv("CAMPUSREEL_LOG_LEVEL"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "campusreel.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.RefreshInterval = 30 * time.Second
	if raw := os.Getenv("CAMPUSREEL_REFRESH_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("CAMPUSREEL_REFRESH_INTERVAL is not a duration: %s", raw)
		}
		cfg.RefreshInterval = interval
	}

	cfg.PageLimit = 50
	if raw := os.Getenv("CAMPUSREEL_PAGE_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("CAMPUSREEL_PAGE_LIMIT is not a number: %s", raw)
		}
		cfg.PageLimit = limit
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.StoreURL == "" {
		return errors.New("CAMPUSREEL_STORE_URL is required")
	}
	if c.StoreURL[len(c.StoreURL)-1] == '/' {
		return fmt.Errorf("StoreURL must not end with '/': %s", c.StoreURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.RefreshInterval < 5*time.Second {
		return fmt.Errorf("RefreshInterval must be at least 5s: %s", c.RefreshInterval)
	}
	if c.PageLimit < 1 || c.PageLimit > 50 {
		return fmt.Errorf("PageLimit must be between 1 and 50: %d", c.PageLimit)
	}
	return nil
}
