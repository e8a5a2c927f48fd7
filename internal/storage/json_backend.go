package storage

import (
	"os"
	"path/filepath"
)

// JSONBackend implements SnapshotBackend using a single JSON file.
//
// Writes go through a temporary file and an atomic rename so a crash
// mid-write leaves either the old snapshot or the new one, never a
// truncated mix.
type JSONBackend struct {
	// Path is the absolute path to the snapshot file.
	Path string
}

// NewJSONBackend creates a JSONBackend for the given file path.
// Parent directories are created on first save.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{Path: path}
}

// LoadSnapshot reads the snapshot file.
//
// Returns nil (absent) if the file does not exist or cannot be read.
// Content is returned as-is; shape recovery is the normalizer's job,
// so a corrupt file still comes back verbatim and falls through the
// normalizer's fallback branches.
//
// Never returns an error.
func (b *JSONBackend) LoadSnapshot() ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		// Missing or unreadable file means starting fresh.
		return nil, nil
	}
	return data, nil
}

// SaveSnapshot atomically replaces the snapshot file.
//
// Creates parent directories if needed, writes to a temporary file in
// the same directory, then renames it over the target.
func (b *JSONBackend) SaveSnapshot(data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()

	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, b.Path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}
