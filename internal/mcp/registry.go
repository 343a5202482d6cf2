package mcp

import (
	"fmt"

	"vidscribe/internal/services/whispercpp"
)

// Tool names.
const (
	ToolTranscribeVideo    = "transcribe_video"
	ToolCheckDependencies  = "check_dependencies"
	ToolListSupportedSites = "list_supported_sites"
	ToolListTranscripts    = "list_transcripts"
)

// ToolDescriptor advertises one invocable tool.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Registry is the fixed tool catalogue. It is built once and never mutated.
type Registry struct {
	tools []ToolDescriptor
	index map[string]int
}

// NewRegistry builds the catalogue. defaultOutputDir is quoted in argument
// descriptions.
func NewRegistry(defaultOutputDir string) *Registry {
	models := make([]string, 0, len(whispercpp.Models))
	for _, m := range whispercpp.Models {
		models = append(models, string(m))
	}
	outputDir := map[string]any{
		"type":        "string",
		"description": fmt.Sprintf("Optional output directory path. Defaults to %s", defaultOutputDir),
	}

	tools := []ToolDescriptor{
		{
			Name:        ToolTranscribeVideo,
			Description: "Transcribe videos from 1000+ platforms (YouTube, Vimeo, TikTok, Twitter, etc.) or local video files using whisper.cpp. Downloads or extracts the audio and writes the transcript as TXT, JSON, and Markdown.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Video URL from any supported platform OR absolute/relative path to a local video file (mp4, avi, mov, mkv, etc.)",
					},
					"output_dir": outputDir,
					"model": map[string]any{
						"type":        "string",
						"enum":        models,
						"description": "Whisper model to use. Larger models are more accurate but slower. Default: 'base'",
					},
					"language": map[string]any{
						"type":        "string",
						"description": "Language code (ISO 639-1: en, es, fr, de, etc.) or 'auto' for automatic detection. Default: 'auto'",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        ToolCheckDependencies,
			Description: "Check if all required dependencies (yt-dlp, ffmpeg, whisper.cpp, whisper models) are installed",
			InputSchema: emptySchema(),
		},
		{
			Name:        ToolListSupportedSites,
			Description: "List video platforms supported by yt-dlp (1000+ sites including YouTube, Vimeo, TikTok, Twitter, Facebook, Instagram, educational platforms, and more)",
			InputSchema: emptySchema(),
		},
		{
			Name:        ToolListTranscripts,
			Description: "List all available transcripts in the output directory",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"output_dir": outputDir},
			},
		},
	}

	index := make(map[string]int, len(tools))
	for i, tool := range tools {
		index[tool.Name] = i
	}
	return &Registry{tools: tools, index: index}
}

func emptySchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// Tools returns a copy of the catalogue in declaration order.
func (r *Registry) Tools() []ToolDescriptor {
	return append([]ToolDescriptor(nil), r.tools...)
}

// Lookup reports whether name is a registered tool.
func (r *Registry) Lookup(name string) (ToolDescriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return ToolDescriptor{}, false
	}
	return r.tools[i], true
}
