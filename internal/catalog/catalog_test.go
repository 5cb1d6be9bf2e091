package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seamless/internal/catalog"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBuildSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "C.png", "notes.txt", "a10.png", "a2.PNG", "noext"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cat, err := catalog.Build(dir, ".png")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []string{"C.png", "a.png", "a10.png", "a2.PNG", "b.png"}
	if cat.Len() != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), cat.Len())
	}
	for i, name := range want {
		if got := filepath.Base(cat.Path(i)); got != name {
			t.Fatalf("frame %d = %s, want %s", i, got, name)
		}
		if cat.Frame(i).Index() != i {
			t.Fatalf("frame %d has index %d", i, cat.Frame(i).Index())
		}
	}
	if cat.Extension() != "png" || cat.Dir() != dir {
		t.Fatalf("unexpected catalog metadata %q %q", cat.Extension(), cat.Dir())
	}
}

func TestBuildNoMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "frame.jpg"))
	if _, err := catalog.Build(dir, "png"); !errors.Is(err, catalog.ErrNoMatchingFiles) {
		t.Fatalf("expected ErrNoMatchingFiles, got %v", err)
	}
}

func TestBuildDirectoryUnreadable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := catalog.Build(missing, "png")
	if !errors.Is(err, catalog.ErrDirectoryUnreadable) {
		t.Fatalf("expected ErrDirectoryUnreadable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying cause to be kept, got %v", err)
	}
}

func TestFromPathsDoesNotMutateInput(t *testing.T) {
	paths := []string{"/f/2.png", "/f/1.png"}
	cat := catalog.FromPaths("/f", "png", paths)
	if paths[0] != "/f/2.png" {
		t.Fatal("input slice was reordered")
	}
	if cat.Path(0) != "/f/1.png" {
		t.Fatalf("expected sorted catalog, got %s", cat.Path(0))
	}
}
