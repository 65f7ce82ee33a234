package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads KEY=VALUE pairs from the given .env files into the
// process environment. Missing files are skipped and variables that are
// already set are left alone.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		path = ExpandPath(path)
		err := godotenv.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		slog.Debug("loaded environment file", "path", path)
	}
	return nil
}
