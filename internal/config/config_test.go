package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidscribe/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")
	for _, name := range []string{
		"VIDSCRIBE_OUTPUT_DIR", "VIDSCRIBE_MODELS_DIR", "VIDSCRIBE_WORK_DIR", "VIDSCRIBE_LOG_DIR",
		"VIDSCRIBE_TRANSPORT", "VIDSCRIBE_HTTP_BIND", "VIDSCRIBE_LOG_LEVEL", "VIDSCRIBE_LOG_FORMAT",
		"VIDSCRIBE_MODEL", "VIDSCRIBE_LANGUAGE",
	} {
		t.Setenv(name, "")
	}
	return home
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	home := isolateEnv(t)

	cfg, path, exists, err := config.Load(filepath.Join(home, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for %s", path)
	}
	if want := filepath.Join(home, "Downloads", "video-transcripts"); cfg.Paths.OutputDir != want {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, want)
	}
	if want := filepath.Join(home, ".cache", "video-transcriber-mcp", "models"); cfg.Paths.ModelsDir != want {
		t.Fatalf("unexpected models dir: got %q want %q", cfg.Paths.ModelsDir, want)
	}
	if cfg.Paths.WorkDir == "" {
		t.Fatal("expected work dir to default to the OS temp dir")
	}
	if cfg.Server.Transport != "stdio" || cfg.Server.Bind != "127.0.0.1:8080" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Transcription.DefaultModel != "base" || cfg.Transcription.DefaultLanguage != "auto" {
		t.Fatalf("unexpected transcription defaults: %+v", cfg.Transcription)
	}
	if cfg.Server.SessionIdleMinutes != 30 {
		t.Fatalf("unexpected session idle minutes: %d", cfg.Server.SessionIdleMinutes)
	}
	if cfg.Staging.StaleAfterHours != 24 {
		t.Fatalf("unexpected stale hours: %d", cfg.Staging.StaleAfterHours)
	}
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "config.toml")
	content := `
[paths]
output_dir = "~/transcripts"

[server]
transport = "HTTP"
bind = "0.0.0.0:9000"

[transcription]
default_model = "Small"

[logging]
level = "warning"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("VIDSCRIBE_MODELS_DIR", filepath.Join(home, "weights"))

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if want := filepath.Join(home, "transcripts"); cfg.Paths.OutputDir != want {
		t.Fatalf("output dir: got %q want %q", cfg.Paths.OutputDir, want)
	}
	if want := filepath.Join(home, "weights"); cfg.Paths.ModelsDir != want {
		t.Fatalf("models dir override: got %q want %q", cfg.Paths.ModelsDir, want)
	}
	if cfg.Server.Transport != "http" || cfg.Server.Bind != "0.0.0.0:9000" {
		t.Fatalf("unexpected server: %+v", cfg.Server)
	}
	if cfg.Transcription.DefaultModel != "small" {
		t.Fatalf("model not normalized: %q", cfg.Transcription.DefaultModel)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("level not normalized: %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "config.toml")
	if err := os.WriteFile(path, []byte("[paths]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidateReportsTomlFieldNames(t *testing.T) {
	isolateEnv(t)
	cfg := config.Default()
	cfg.Paths.WorkDir = "/tmp"
	cfg.Server.Transport = "carrier-pigeon"
	cfg.Transcription.DefaultModel = "huge"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"server.transport", "transcription.default_model", "huge"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestValidateRejectsBadBind(t *testing.T) {
	isolateEnv(t)
	cfg := config.Default()
	cfg.Paths.WorkDir = "/tmp"
	cfg.Server.Bind = "not a bind"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "server.bind") {
		t.Fatalf("expected bind error, got %v", err)
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Tools.WhisperCLI != "whisper-cli" {
		t.Fatalf("unexpected whisper cli: %q", cfg.Tools.WhisperCLI)
	}
}

func TestEncodeRoundTripsKeys(t *testing.T) {
	isolateEnv(t)
	cfg := config.Default()
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, want := range []string{"[paths]", "output_dir", "whisper_cli", "stale_after_hours"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in encoded config:\n%s", want, out)
		}
	}
}
