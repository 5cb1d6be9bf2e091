package testsupport

import (
	"path/filepath"
	"testing"

	"seamless/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Output, history, and logs all live under one temp root.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Encode.Output = filepath.Join(base, "out", "output.gif")
	cfgVal.History.Path = filepath.Join(base, "history", "history.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Search.Workers = 2
	cfgVal.Search.LoadWorkers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOutput places the output artifact under the temp root using name, and
// infers the format from its extension.
func WithOutput(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encode.Output = filepath.Join(b.baseDir, "out", name)
		b.cfg.Encode.Format = config.InferFormat(name)
	}
}

// WithoutHistory disables the run history database.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithDurationImportance overrides the search weight.
func WithDurationImportance(weight float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.DurationImportance = weight
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
