package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config carries everything the server needs from the environment. It is
// built once in main and handed to the components that need it; nothing
// reads os.Getenv after startup.
type Config struct {
	Port          string
	DBDSN         string
	AutoMigrate   bool
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	UploadDir     string
}

func loadConfig() Config {
	loadDotEnv()
	cfg := Config{
		Port:          envOr("APP_PORT", "8080"),
		DBDSN:         os.Getenv("DB_DSN"),
		AutoMigrate:   true,
		AccessSecret:  []byte(envOr("ACCESS_SECRET", "dev-insecure-access-secret")),
		RefreshSecret: []byte(envOr("REFRESH_SECRET", "dev-insecure-refresh-secret")),
		AccessTTL:     time.Hour,
		RefreshTTL:    365 * 24 * time.Hour,
		UploadDir:     envOr("UPLOAD_DIR", "uploads"),
	}
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			cfg.AutoMigrate = false
		}
	}
	if v := os.Getenv("ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AccessTTL = d
		}
	}
	if v := os.Getenv("REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RefreshTTL = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
