package testsupport

import (
	"path/filepath"
	"testing"

	"vidscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose directories live under a per-test temp
// root. The directories themselves are not created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.ModelsDir = filepath.Join(base, "models")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = ""
	cfgVal.Server.Transport = "stdio"
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Server.Token = ""

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

// WithTransport selects the server transport.
func WithTransport(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.Transport = name
	}
}

// WithToken sets the HTTP bearer token.
func WithToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.Token = token
	}
}

// WithModels installs placeholder weight files for the named whisper models.
func WithModels(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			InstallModel(b.t, b.cfg.Paths.ModelsDir, name)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
