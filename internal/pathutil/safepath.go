// Package pathutil validates user-supplied storage paths.
//
// Custom snapshot locations come in through environment variables, so
// they are treated as untrusted: every path is resolved (including
// symlinks) and checked to stay inside the configured data directory.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveSafePath resolves userPath relative to baseDir, ensuring the
// result stays within baseDir after symlink resolution.
//
// Relative paths are joined with baseDir; absolute paths are still
// required to land inside it. Returns an error if userPath is empty,
// contains a null byte, or escapes baseDir (including via symlinks).
func ResolveSafePath(baseDir, userPath string) (string, error) {
	trimmed := strings.TrimSpace(userPath)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty or whitespace-only")
	}

	if strings.Contains(userPath, "\x00") {
		return "", fmt.Errorf("path contains null byte")
	}

	candidate := userPath
	if !filepath.IsAbs(userPath) {
		candidate = filepath.Join(baseDir, userPath)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve symlinks: %w", err)
		}
		// The snapshot file usually does not exist yet. Resolve the
		// nearest existing ancestor instead and rejoin the remainder.
		parent := filepath.Dir(candidate)
		base := filepath.Base(candidate)

		resolvedParent, err := filepath.EvalSymlinks(parent)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", fmt.Errorf("failed to resolve parent directory: %w", err)
			}
			resolvedParent, err = resolveExistingAncestor(parent)
			if err != nil {
				return "", fmt.Errorf("failed to resolve parent directory: %w", err)
			}
		}

		resolved = filepath.Join(resolvedParent, base)
	}

	baseResolved, err := filepath.EvalSymlinks(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	rel, err := filepath.Rel(baseResolved, resolved)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}

	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", fmt.Errorf("path escapes base directory: %s", userPath)
	}

	return resolved, nil
}

// resolveExistingAncestor walks up the directory tree until it finds an
// existing directory, resolves its symlinks, and reattaches the
// not-yet-existing remainder of the path.
func resolveExistingAncestor(path string) (string, error) {
	current := filepath.Clean(path)
	var pending []string

	for {
		if _, err := os.Stat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				return "", fmt.Errorf("failed to resolve existing ancestor: %w", err)
			}

			for i := len(pending) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, pending[i])
			}

			return resolved, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing parent directory found")
		}

		pending = append(pending, filepath.Base(current))
		current = parent
	}
}
