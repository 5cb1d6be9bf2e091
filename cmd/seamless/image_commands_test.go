package main

import (
	"os"
	"path/filepath"
	"testing"

	"seamless/internal/services"
	"seamless/internal/testsupport"
)

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	wide := filepath.Join(dir, "wide.png")
	testsupport.WriteFramePNG(t, a, 6, 6, testsupport.Gray(40))
	testsupport.WriteFramePNG(t, b, 6, 6, testsupport.Gray(40))
	testsupport.WriteFramePNG(t, wide, 7, 6, testsupport.Gray(40))

	out, _, err := runCLI(t, []string{"compare", a, b}, "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	requireContains(t, out, "These two images are 100.00% similar.")

	out, _, err = runCLI(t, []string{"compare", a, b, "-a", "difference-hash"}, "")
	if err != nil {
		t.Fatalf("compare difference-hash: %v", err)
	}
	requireContains(t, out, "100.00% similar")

	_, _, err = runCLI(t, []string{"compare", a, wide}, "")
	if code := services.ExitCode(err); code != services.ExitInput {
		t.Fatalf("size mismatch: exit code = %d (err %v)", code, err)
	}

	_, _, err = runCLI(t, []string{"compare", a, b, "-a", "nope"}, "")
	if code := services.ExitCode(err); code != services.ExitInput {
		t.Fatalf("unknown algorithm: exit code = %d (err %v)", code, err)
	}
}

func TestGaussianCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "blurred", "out.png")
	testsupport.WriteFramePNG(t, input, 10, 10, testsupport.Gray(128))

	out, _, err := runCLI(t, []string{"gaussian", input, "-r", "2", "-s", "1.5", "-o", output}, "")
	if err != nil {
		t.Fatalf("gaussian: %v", err)
	}
	requireContains(t, out, output)
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected blurred output: %v", err)
	}

	_, _, err = runCLI(t, []string{"gaussian", input, "-r", "0", "-o", output}, "")
	if code := services.ExitCode(err); code != services.ExitInput {
		t.Fatalf("radius 0: exit code = %d (err %v)", code, err)
	}
}

func TestBordersCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "in.png")
	testsupport.WriteFramePNG(t, input, 4, 3, testsupport.Gray(255))

	out, _, err := runCLI(t, []string{"borders", input}, "")
	if err != nil {
		t.Fatalf("borders: %v", err)
	}
	requireContains(t, out, "First row average color: #FFFFFF")
	requireContains(t, out, "Last row average color: #FFFFFF")

	_, _, err = runCLI(t, []string{"borders", filepath.Join(t.TempDir(), "missing.png")}, "")
	if code := services.ExitCode(err); code != services.ExitInput {
		t.Fatalf("missing input: exit code = %d (err %v)", code, err)
	}
}
