package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seamless/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	framesDir  string
	outputPath string
	historyDB  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "seamless.toml"),
		framesDir:  filepath.Join(base, "frames"),
		outputPath: filepath.Join(base, "out", "loop.gif"),
		historyDB:  filepath.Join(base, "history.db"),
	}
	content := fmt.Sprintf(
		"[search]\nworkers = 2\nload_workers = 2\n\n[encode]\noutput = %q\n\n[history]\npath = %q\n\n[logging]\nlevel = \"warn\"\ndir = %q\n",
		env.outputPath,
		env.historyDB,
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) writeLoopFrames(t *testing.T) {
	t.Helper()
	testsupport.WriteFrameSequence(t, e.framesDir, 8, 8,
		testsupport.Gray(10),
		testsupport.Gray(200),
		testsupport.Gray(60),
		testsupport.Gray(10),
	)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
