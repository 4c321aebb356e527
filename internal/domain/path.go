package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NormalizePath turns a user-supplied path into the canonical form used
// as the grouping key for history: `~` expanded, absolute, symlinks
// resolved, no trailing slash. Applying this at both write and read
// time makes scans of the same directory comparable no matter how the
// path was spelled on the command line.
func NormalizePath(path string) (string, error) {
	if path == "" {
		path = "~"
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path for %s: %w", path, err)
	}

	// Paths read back from history may no longer exist on disk; fall
	// back to the cleaned absolute form when symlinks cannot resolve.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return filepath.Clean(abs), nil
	}

	return filepath.Clean(resolved), nil
}
