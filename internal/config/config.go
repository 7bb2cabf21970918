// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8081"] (Expo web dev server).
	CORSOrigins []string

	// DataDir is the root for managed photos and the file blob store.
	DataDir string

	// StoreBackend is one of file, memory, postgres or sqlite. Defaults to file.
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// SQLitePath is the database file for the sqlite backend.
	// Defaults to <DataDir>/journal.db.
	SQLitePath string

	// Location is the time zone photos are grouped into calendar days by.
	// Parsed from TIMEZONE; defaults to UTC.
	Location *time.Location

	// MaxUploadBytes caps request bodies. Defaults to 20 MiB.
	MaxUploadBytes int64

	// SweepInterval is how often orphaned photo files are removed.
	// Zero disables the sweep. Defaults to one hour.
	SweepInterval time.Duration

	// SweepGrace protects files younger than this from the sweep, so an
	// import that has not been recorded yet is never removed.
	SweepGrace time.Duration
}

// Load reads an optional .env file from the working directory, then
// configuration from environment variables. Variables already set in the
// environment win over .env entries.
// Returns an error naming every missing or malformed variable.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: read .env: %w", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081")),
		DataDir:      getEnv("DATA_DIR", "./data"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}
	cfg.SQLitePath = getEnv("SQLITE_PATH", filepath.Join(cfg.DataDir, "journal.db"))

	var missing, invalid []string

	switch cfg.StoreBackend {
	case BackendFile, BackendMemory, BackendSQLite:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		invalid = append(invalid, "STORE_BACKEND")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		invalid = append(invalid, "TIMEZONE")
	}
	cfg.Location = loc

	cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 20<<20)
	if err != nil || cfg.MaxUploadBytes <= 0 {
		invalid = append(invalid, "MAX_UPLOAD_BYTES")
	}

	cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", time.Hour)
	if err != nil || cfg.SweepInterval < 0 {
		invalid = append(invalid, "SWEEP_INTERVAL")
	}

	cfg.SweepGrace, err = getDuration("SWEEP_GRACE", time.Hour)
	if err != nil || cfg.SweepGrace < 0 {
		invalid = append(invalid, "SWEEP_GRACE")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", ")))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// getDuration parses values such as "90m" or "1h". A bare "0" is accepted.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
