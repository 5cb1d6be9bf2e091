package fileutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seamless/internal/logging"
)

// CleanStaleResult contains the outcome of a stale partial file cleanup.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStalePartials removes "*.partial" files in dir older than maxAge. Those
// are left behind when a run is killed before it can abort its output.
// Younger files may belong to a run still in progress and are kept.
func CleanStalePartials(dir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), PartialSuffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale partial output",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "partial_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check output directory permissions"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale partial output",
				logging.String("path", path),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.String(logging.FieldEventType, "partial_cleanup"),
			)
		}
	}
	return result
}
