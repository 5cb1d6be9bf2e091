package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"seamless/internal/logging"
)

func TestCleanStalePartialsInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStalePartials(dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStalePartialsRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, age time.Duration) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		when := time.Now().Add(-age)
		if err := os.Chtimes(path, when, when); err != nil {
			t.Fatal(err)
		}
		return path
	}
	old := write("loop.gif.partial", 2*time.Hour)
	recent := write("other.gif.partial", time.Minute)
	unrelated := write("frames.png", 3*time.Hour)

	result := CleanStalePartials(dir, time.Hour, logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("expected only %s removed, got %v", old, result.Removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("old partial should have been removed")
	}
	for _, keep := range []string{recent, unrelated} {
		if _, err := os.Stat(keep); err != nil {
			t.Fatalf("%s should still exist: %v", keep, err)
		}
	}
}
