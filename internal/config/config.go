package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir" validate:"required"`
	ModelsDir string `toml:"models_dir" validate:"required"`
	WorkDir   string `toml:"work_dir" validate:"required"`
	LogDir    string `toml:"log_dir"`
}

// Server selects the protocol transport and its bind address.
type Server struct {
	Transport string `toml:"transport" validate:"oneof=stdio http"`
	Bind      string `toml:"bind" validate:"required,hostname_port"`
	Name      string `toml:"name" validate:"required"`

	// Token, when set, must be presented as a bearer token on HTTP requests.
	Token string `toml:"token"`

	// SessionIdleMinutes evicts HTTP sessions unused for this long. Zero keeps
	// sessions until the client deletes them.
	SessionIdleMinutes int `toml:"session_idle_minutes" validate:"gte=0"`
}

// Tools names the external executables. Bare names are resolved through PATH.
type Tools struct {
	YtDlp      string `toml:"ytdlp" validate:"required"`
	FFmpeg     string `toml:"ffmpeg" validate:"required"`
	WhisperCLI string `toml:"whisper_cli" validate:"required"`
}

// Transcription holds defaults applied when a request omits them.
type Transcription struct {
	DefaultModel    string `toml:"default_model" validate:"oneof=tiny base small medium large"`
	DefaultLanguage string `toml:"default_language" validate:"required"`
	// Threads overrides the inference thread count. Zero uses every CPU.
	Threads int `toml:"threads" validate:"gte=0"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" validate:"oneof=console json"`
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
}

// Staging controls the sweep of work directories abandoned by killed processes.
type Staging struct {
	StaleAfterHours int `toml:"stale_after_hours" validate:"gte=0"`
}

// Config encapsulates all configuration values for vidscribe.
//
// Configuration sections by subsystem:
//   - Paths: transcript output, model cache, scratch and log directories
//   - Server: transport selection (stdio or http) and HTTP bind address
//   - Tools: yt-dlp, ffmpeg, and whisper.cpp CLI executables
//   - Transcription: default model, language, and thread count
//   - Logging: log format and level
//   - Staging: stale work directory cleanup
type Config struct {
	Paths         Paths         `toml:"paths"`
	Server        Server        `toml:"server"`
	Tools         Tools         `toml:"tools"`
	Transcription Transcription `toml:"transcription"`
	Logging       Logging       `toml:"logging"`
	Staging       Staging       `toml:"staging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A .env file in the
// working directory is read first; variables already present in the
// environment win. The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", false, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the server writes into. The
// output directory is created again before every write, so a failure here
// only surfaces early what would fail later.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.ModelsDir, c.Paths.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	encoder := toml.NewEncoder(&b)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultModelsDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "video-transcriber-mcp", "models")
	}
	return defaultModelsDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
