package testsupport

import (
	"path/filepath"
	"testing"

	"podclaw/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose storage and log files live in a unique
// temp directory per test. XDG_CONFIG_HOME is pointed at the same directory so
// platform lookups never touch the real user config.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))

	cfgVal := config.Default()
	cfgVal.Paths.StorageFile = filepath.Join(base, "config", "podclaw", "podclaw_storage.bin")
	cfgVal.Logging.File = filepath.Join(base, "logs", "podclaw.log")
	cfgVal.Downloads.Progress = false
	cfgVal.Storage.LockTimeoutSeconds = 1

	builder := &configBuilder{
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithUserAgent sets the feed user agent on the test config.
func WithUserAgent(agent string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Feeds.UserAgent = agent
	}
}

// WithStorageFile overrides the storage file path on the test config. A
// relative path is resolved against the test's temp directory.
func WithStorageFile(path string) ConfigOption {
	return func(b *configBuilder) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.baseDir, path)
		}
		b.cfg.Paths.StorageFile = path
	}
}

// BaseDir returns the root temp directory backing the generated config. It is
// derived from the log file, which options never move.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Logging.File))
}
