// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string

	// Storage
	DBPath string

	// Logging
	LogLevel string

	// Program rules
	ProgramPreset string
	ProgramFile   string

	// Status snapshots
	SnapshotsEnabled bool
	SnapshotInterval time.Duration
}

// Load reads .env (if present) then environment variables.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 15)) * time.Second,
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{
			"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000", "http://127.0.0.1:5173",
		}),

		DBPath:   getEnv("DB_PATH", "xp-tracker.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ProgramPreset: getEnv("PROGRAM_PRESET", "flying-blue"),
		ProgramFile:   getEnv("PROGRAM_FILE", ""),

		SnapshotsEnabled: getEnvAsBool("SNAPSHOTS_ENABLED", true),
		SnapshotInterval: time.Duration(getEnvAsInt("SNAPSHOT_INTERVAL_MINUTES", 60)) * time.Minute,
	}
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
