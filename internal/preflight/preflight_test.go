package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"seamless/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, unix.R_OK|unix.W_OK|unix.X_OK)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if result.Detail != dir+" (read/write/search ok)" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), unix.R_OK)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, unix.R_OK)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDirUsesParent(t *testing.T) {
	dir := t.TempDir()
	if result := CheckOutputDir(filepath.Join(dir, "loop.gif")); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckOutputDir(filepath.Join(dir, "missing", "loop.gif")); result.Passed {
		t.Fatal("expected failure for missing parent")
	}
}

func TestRunAllAndFirstFailure(t *testing.T) {
	dir := t.TempDir()
	results := RunAll(dir, "png", filepath.Join(dir, "out.gif"))
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if err := FirstFailure(results); err != nil {
		t.Fatalf("expected no failure, got %v", err)
	}

	results = RunAll(filepath.Join(dir, "nope"), "png", filepath.Join(dir, "out.gif"))
	err := FirstFailure(results)
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitInput {
		t.Fatalf("exit code = %d", services.ExitCode(err))
	}
}

func TestCheckFrameExtension(t *testing.T) {
	for _, ext := range []string{"png", "JPG", ".webp"} {
		if result := CheckFrameExtension(ext); !result.Passed {
			t.Fatalf("expected %q to pass, got %+v", ext, result)
		}
	}
	result := CheckFrameExtension("txt")
	if result.Passed {
		t.Fatal("expected txt to fail")
	}
	err := FirstFailure(RunAll(t.TempDir(), "txt", filepath.Join(t.TempDir(), "out.gif")))
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for unsupported extension, got %v", err)
	}
}
