package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daylist-app/daylist/internal/pathutil"
)

// ResolveDataDir returns the directory snapshots live under.
//
// Uses DAYLIST_DATA_DIR when set, otherwise <user config dir>/daylist.
// The directory is created if it does not exist.
func ResolveDataDir() (string, error) {
	dir := strings.TrimSpace(os.Getenv("DAYLIST_DATA_DIR"))
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine config directory: %w", err)
		}
		dir = filepath.Join(base, "daylist")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dir, nil
}

// GetBackend returns the configured snapshot backend based on
// environment variables.
//
// Environment variables:
//   - DAYLIST_STORAGE_BACKEND: "json" (default), "sqlite", or "postgres"
//   - DAYLIST_JSON_PATH: custom JSON snapshot path (default: <dataDir>/daylist.json)
//   - DAYLIST_SQLITE_PATH: custom SQLite path (default: <dataDir>/daylist.db)
//   - DAYLIST_POSTGRES_URL: PostgreSQL connection string (required for "postgres")
//
// Custom file paths are validated to stay within dataDir. Returns an
// error if the backend type is unknown, a custom path escapes dataDir,
// or the postgres URL is missing.
func GetBackend(dataDir string) (SnapshotBackend, error) {
	backendType := strings.ToLower(strings.TrimSpace(os.Getenv("DAYLIST_STORAGE_BACKEND")))
	if backendType == "" {
		backendType = "json"
	}

	switch backendType {
	case "json":
		path, err := getJSONPath(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to determine JSON snapshot path: %w", err)
		}
		return NewJSONBackend(path), nil

	case "sqlite":
		path, err := getSQLitePath(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to determine SQLite database path: %w", err)
		}
		return NewSQLiteBackend(path)

	case "postgres":
		connString := strings.TrimSpace(os.Getenv("DAYLIST_POSTGRES_URL"))
		if connString == "" {
			return nil, fmt.Errorf("DAYLIST_POSTGRES_URL must be set for the postgres backend")
		}
		return NewPostgresBackend(connString)

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'json', 'sqlite', or 'postgres'", backendType)
	}
}

// getJSONPath returns the JSON snapshot file path, validating any
// custom DAYLIST_JSON_PATH against dataDir.
func getJSONPath(dataDir string) (string, error) {
	customPath := strings.TrimSpace(os.Getenv("DAYLIST_JSON_PATH"))
	if customPath != "" {
		safePath, err := pathutil.ResolveSafePath(dataDir, customPath)
		if err != nil {
			return "", fmt.Errorf("invalid DAYLIST_JSON_PATH: %w", err)
		}
		return safePath, nil
	}

	return filepath.Join(dataDir, "daylist.json"), nil
}

// getSQLitePath returns the SQLite database file path, validating any
// custom DAYLIST_SQLITE_PATH against dataDir.
func getSQLitePath(dataDir string) (string, error) {
	customPath := strings.TrimSpace(os.Getenv("DAYLIST_SQLITE_PATH"))
	if customPath != "" {
		safePath, err := pathutil.ResolveSafePath(dataDir, customPath)
		if err != nil {
			return "", fmt.Errorf("invalid DAYLIST_SQLITE_PATH: %w", err)
		}
		return safePath, nil
	}

	return filepath.Join(dataDir, "daylist.db"), nil
}
