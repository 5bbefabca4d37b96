package testsupport

import (
	"path/filepath"
	"testing"

	"moviefinder/internal/config"
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
	cfgVal.TMDB.APIToken = "test"
	cfgVal.TMDB.RequestsPerSecond = 0
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Server.Bind = "127.0.0.1:0"

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

// WithTMDBToken sets the catalog bearer token on the test config.
func WithTMDBToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIToken = token
	}
}

// WithTMDBServer points the catalog base URL at a fake server.
func WithTMDBServer(fake *FakeTMDB) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = fake.URL()
	}
}

// WithCORSOrigins sets the origins allowed on the JSON API.
func WithCORSOrigins(origins ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.CORSOrigins = origins
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
