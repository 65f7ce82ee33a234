package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultFilename returns the file name used when the caller does not pick one.
func DefaultFilename(now time.Time) string {
	return "finance_report_" + now.Format("20060102_150405") + ".txt"
}

// SaveToFile writes text into dir and returns the full path. An empty
// filename uses DefaultFilename; an empty dir uses the working directory.
func SaveToFile(text, dir, filename string, now time.Time) (string, error) {
	if filename == "" {
		filename = DefaultFilename(now)
	}
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("report filename %q must not contain a directory", filename)
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("saved report", "path", path, "bytes", len(text))
	return path, nil
}
