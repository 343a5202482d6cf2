package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vidscribe/internal/catalog"
	"vidscribe/internal/logging"
	"vidscribe/internal/pipeline"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type transcribeArgs struct {
	URL       string `json:"url" validate:"required"`
	OutputDir string `json:"output_dir"`
	Model     string `json:"model"`
	Language  string `json:"language"`
}

type listTranscriptsArgs struct {
	OutputDir string `json:"output_dir"`
}

// supportedSitesText is the static list_supported_sites answer.
const supportedSitesText = `Supported Video Platforms (1000+ total)

**Popular platforms include:**
- YouTube
- Vimeo
- TikTok
- Twitter/X
- Facebook
- Instagram
- Twitch
- Dailymotion
- Reddit
- LinkedIn
- Many educational and conference platforms

**Total: 1000+ supported extractors**

You can transcribe videos from any of these platforms!`

func (d *Dispatcher) callTool(ctx context.Context, req Request) Response {
	var params callParams
	if err := decodeParams(req.Params, &params); err != nil {
		return NewError(req.ID, CodeInvalidRequest, fmt.Sprintf("Invalid params: %v", err))
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return NewError(req.ID, CodeInvalidRequest, "Missing tool name")
	}
	if _, ok := d.registry.Lookup(name); !ok {
		return NewError(req.ID, CodeUnknownTool, fmt.Sprintf("Unknown tool: %s", name))
	}

	logger := logging.WithContext(ctx, d.logger)
	logger.Info("tool call",
		logging.String(logging.FieldEventType, "tool_call"),
		logging.String("tool", name),
	)

	switch name {
	case ToolTranscribeVideo:
		return d.transcribeVideo(ctx, req.ID, params.Arguments)
	case ToolCheckDependencies:
		return d.checkDependencies(ctx, req.ID)
	case ToolListSupportedSites:
		return NewResult(req.ID, textContent(supportedSitesText))
	case ToolListTranscripts:
		return d.listTranscripts(req.ID, params.Arguments)
	}
	return NewError(req.ID, CodeUnknownTool, fmt.Sprintf("Unknown tool: %s", name))
}

func (d *Dispatcher) transcribeVideo(ctx context.Context, id, raw json.RawMessage) Response {
	var args transcribeArgs
	if err := decodeParams(raw, &args); err != nil {
		return NewError(id, CodeInvalidRequest, fmt.Sprintf("Invalid arguments: %v", err))
	}
	if err := validate.Struct(args); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return NewError(id, CodeInvalidRequest, fmt.Sprintf("Missing '%s' parameter", verrs[0].Field()))
		}
		return NewError(id, CodeInvalidRequest, err.Error())
	}
	if d.transcriber == nil {
		return NewError(id, CodeExecutionFailed, "Transcription failed: transcriber not configured")
	}

	outputDir := strings.TrimSpace(args.OutputDir)
	if outputDir == "" {
		outputDir = d.outputDir
	}
	result, err := d.transcriber.Run(ctx, pipeline.Request{
		Reference: strings.TrimSpace(args.URL),
		OutputDir: outputDir,
		Model:     args.Model,
		Language:  args.Language,
	})
	if err != nil {
		logging.WithContext(ctx, d.logger).Error("transcription failed",
			logging.String(logging.FieldEventType, "tool_failed"),
			logging.String("tool", ToolTranscribeVideo),
			logging.Error(err),
		)
		return NewError(id, CodeExecutionFailed, fmt.Sprintf("Transcription failed: %v", err))
	}
	return NewResult(id, textContent(renderTranscription(result)))
}

func (d *Dispatcher) checkDependencies(ctx context.Context, id json.RawMessage) Response {
	if d.dependencies == nil {
		return NewError(id, CodeExecutionFailed, "Dependency check failed: checker not configured")
	}
	return NewResult(id, textContent(d.dependencies.Check(ctx).String()))
}

func (d *Dispatcher) listTranscripts(id, raw json.RawMessage) Response {
	var args listTranscriptsArgs
	if err := decodeParams(raw, &args); err != nil {
		return NewError(id, CodeInvalidRequest, fmt.Sprintf("Invalid arguments: %v", err))
	}
	dir := strings.TrimSpace(args.OutputDir)
	if dir == "" {
		dir = d.outputDir
	}
	text, err := catalog.Report(dir)
	if err != nil {
		return NewError(id, CodeExecutionFailed, fmt.Sprintf("Failed to list transcripts: %v", err))
	}
	return NewResult(id, textContent(text))
}

func renderTranscription(r pipeline.Result) string {
	var b strings.Builder
	b.WriteString("Video transcribed successfully!\n\n")
	b.WriteString("**Video Details:**\n")
	fmt.Fprintf(&b, "- Title: %s\n", r.Metadata.Title)
	fmt.Fprintf(&b, "- Platform: %s\n", r.Metadata.Platform)
	fmt.Fprintf(&b, "- Duration: %ds\n\n", r.Metadata.DurationSeconds)
	b.WriteString("**Transcription Settings:**\n")
	fmt.Fprintf(&b, "- Model: %s\n", r.Model.Title())
	fmt.Fprintf(&b, "- Language: %s\n", r.Language.String())
	b.WriteString("- Engine: whisper.cpp\n\n")
	b.WriteString("**Output Files:**\n")
	fmt.Fprintf(&b, "- Text: %s\n", r.Files.TXT)
	fmt.Fprintf(&b, "- JSON: %s\n", r.Files.JSON)
	fmt.Fprintf(&b, "- Markdown: %s\n\n", r.Files.MD)
	b.WriteString("**Transcript Preview:**\n")
	b.WriteString(r.Preview)
	fmt.Fprintf(&b, "\n\n**Full transcript has %d words.**", r.WordCount)
	return b.String()
}
