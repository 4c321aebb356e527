//go:build windows
// +build windows

package probe

import (
	"fmt"
	"path/filepath"
)

// MountPoint returns the volume root of the drive containing path.
func MountPoint(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	vol := filepath.VolumeName(abs)
	if vol == "" {
		return "", fmt.Errorf("no volume for %s", path)
	}
	return vol + string(filepath.Separator), nil
}
