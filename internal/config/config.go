// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DataFile is the path of the roster JSON document.
	DataFile string
	// ArchiveFile is the path of the SQLite archive written by exports.
	ArchiveFile string
	// CORSOrigin is the allowed origin for the browser frontend.
	CORSOrigin string
	// LogLevel is the minimum slog level.
	LogLevel slog.Level
	// Theme is the default UI theme preference ("dark" or "light").
	Theme string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; a missing one is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        ":8080",
		DataFile:    "students.json",
		ArchiveFile: "students_archive.db",
		CORSOrigin:  "http://localhost:3000",
		LogLevel:    slog.LevelInfo,
		Theme:       "dark",
	}

	if v := os.Getenv("GRADEBOOK_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("GRADEBOOK_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("GRADEBOOK_ARCHIVE_FILE"); v != "" {
		cfg.ArchiveFile = v
	}
	if v := os.Getenv("GRADEBOOK_CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if v := os.Getenv("GRADEBOOK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLevel(v)
	}
	if v := os.Getenv("GRADEBOOK_THEME"); v == "light" || v == "dark" {
		cfg.Theme = v
	}
	return cfg
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
