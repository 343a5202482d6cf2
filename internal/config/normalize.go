package config

import (
	"fmt"
	"os"
	"strings"
)

// envOverrides maps environment variables onto config fields. They are
// applied after the TOML file so deployments can adjust a shared file.
var envOverrides = []struct {
	name  string
	apply func(*Config, string)
}{
	{"VIDSCRIBE_OUTPUT_DIR", func(c *Config, v string) { c.Paths.OutputDir = v }},
	{"VIDSCRIBE_MODELS_DIR", func(c *Config, v string) { c.Paths.ModelsDir = v }},
	{"VIDSCRIBE_WORK_DIR", func(c *Config, v string) { c.Paths.WorkDir = v }},
	{"VIDSCRIBE_LOG_DIR", func(c *Config, v string) { c.Paths.LogDir = v }},
	{"VIDSCRIBE_TRANSPORT", func(c *Config, v string) { c.Server.Transport = v }},
	{"VIDSCRIBE_HTTP_BIND", func(c *Config, v string) { c.Server.Bind = v }},
	{"VIDSCRIBE_HTTP_TOKEN", func(c *Config, v string) { c.Server.Token = v }},
	{"VIDSCRIBE_LOG_LEVEL", func(c *Config, v string) { c.Logging.Level = v }},
	{"VIDSCRIBE_LOG_FORMAT", func(c *Config, v string) { c.Logging.Format = v }},
	{"VIDSCRIBE_MODEL", func(c *Config, v string) { c.Transcription.DefaultModel = v }},
	{"VIDSCRIBE_LANGUAGE", func(c *Config, v string) { c.Transcription.DefaultLanguage = v }},
}

func (c *Config) normalize() error {
	for _, override := range envOverrides {
		if value, ok := os.LookupEnv(override.name); ok && strings.TrimSpace(value) != "" {
			override.apply(c, strings.TrimSpace(value))
		}
	}

	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = os.TempDir()
	}

	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.ModelsDir, err = expandPath(c.Paths.ModelsDir); err != nil {
		return fmt.Errorf("paths.models_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	c.Server.Name = strings.TrimSpace(c.Server.Name)
	c.Server.Token = strings.TrimSpace(c.Server.Token)
	c.Tools.YtDlp = strings.TrimSpace(c.Tools.YtDlp)
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.WhisperCLI = strings.TrimSpace(c.Tools.WhisperCLI)
	c.Transcription.DefaultModel = strings.ToLower(strings.TrimSpace(c.Transcription.DefaultModel))
	c.Transcription.DefaultLanguage = strings.TrimSpace(c.Transcription.DefaultLanguage)
	if c.Transcription.DefaultLanguage == "" {
		c.Transcription.DefaultLanguage = defaultLanguage
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	return nil
}
