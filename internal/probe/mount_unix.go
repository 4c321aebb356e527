//go:build !windows
// +build !windows

package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// MountPoint walks up from path until the parent sits on a different
// device, yielding the mount point of the volume containing path.
func MountPoint(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	dev, err := deviceID(resolved)
	if err != nil {
		return "", err
	}

	current := resolved
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return current, nil
		}
		parentDev, err := deviceID(parent)
		if err != nil {
			return "", err
		}
		if parentDev != dev {
			return current, nil
		}
		current = parent
	}
}

func deviceID(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("no stat info for %s", path)
	}
	return uint64(st.Dev), nil
}
