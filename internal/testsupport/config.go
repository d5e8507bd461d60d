package testsupport

import (
	"path/filepath"
	"testing"

	"fpdedup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The source directory is not created; fixtures create it on first write.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.TargetDir = filepath.Join(base, "target")
	cfgVal.Paths.LockDir = filepath.Join(base, "locks")

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

// WithCopyErrorPolicy sets scan.on_copy_error.
func WithCopyErrorPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.OnCopyError = policy
	}
}

// WithReport points scan.report_path at a file named name beside the other
// test directories.
func WithReport(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.ReportPath = filepath.Join(b.baseDir, name)
	}
}

// WithLogDir enables the persistent log file.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}
