// Package config loads application settings and resolves file paths.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
