package testsupport

import (
	"path/filepath"
	"testing"

	"viewpulse/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.SQLitePath = filepath.Join(base, "data", "viewpulse.db")
	cfgVal.Store.LockTimeoutSeconds = 2
	cfgVal.Pipeline.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithBackend selects the store backend.
func WithBackend(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = name
	}
}

// WithRanking overrides the retention window and bucket size.
func WithRanking(retentionDays, topK int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ranking.RetentionDays = retentionDays
		b.cfg.Ranking.TopK = topK
	}
}

// WithCategories sets the default category list.
func WithCategories(categories ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.Categories = categories
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
