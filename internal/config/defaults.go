package config

const (
	defaultConfigPath        = "~/.config/vidscribe/config.toml"
	projectConfigName        = "vidscribe.toml"
	defaultOutputDir         = "~/Downloads/video-transcripts"
	defaultModelsDirFallback = "~/.cache/video-transcriber-mcp/models"
	defaultTransport         = "stdio"
	defaultBind              = "127.0.0.1:8080"
	defaultServerName        = "video-transcriber-mcp"
	defaultYtDlp             = "yt-dlp"
	defaultFFmpeg            = "ffmpeg"
	defaultWhisperCLI        = "whisper-cli"
	defaultModel             = "base"
	defaultLanguage          = "auto"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultStaleAfterHours   = 24
	defaultSessionIdleMin    = 30
)

// Default returns a Config populated with repository defaults. The work
// directory is left empty and resolved to the OS temp dir during normalize.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			ModelsDir: defaultModelsDir(),
		},
		Server: Server{
			Transport: defaultTransport,
			Bind:      defaultBind,
			Name:      defaultServerName,

			SessionIdleMinutes: defaultSessionIdleMin,
		},
		Tools: Tools{
			YtDlp:      defaultYtDlp,
			FFmpeg:     defaultFFmpeg,
			WhisperCLI: defaultWhisperCLI,
		},
		Transcription: Transcription{
			DefaultModel:    defaultModel,
			DefaultLanguage: defaultLanguage,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Staging: Staging{
			StaleAfterHours: defaultStaleAfterHours,
		},
	}
}
