package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"medal-backup/archive"
)

// resolvePath turns user input into an absolute, clean path.
func resolvePath(p string) (string, error) {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if p == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", p, err)
	}
	return abs, nil
}

// defaultStateFile is where Medal keeps its clip index:
// <per-user application data>/Medal/store/clips.json.
func defaultStateFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating application data directory: %w", err)
	}
	return filepath.Join(dir, "Medal", "store", archive.StateFileName), nil
}

// stateFile returns the configured state file path or the per-user default.
func (c *Config) stateFile() (string, error) {
	if c.StateFile != "" {
		return resolvePath(c.StateFile)
	}
	return defaultStateFile()
}
