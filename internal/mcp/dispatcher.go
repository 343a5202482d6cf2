package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidscribe/internal/deps"
	"vidscribe/internal/logging"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/services"
)

// ProtocolVersion is announced during the handshake.
const ProtocolVersion = "2024-11-05"

// Method names.
const (
	MethodInitialize    = "initialize"
	MethodPing          = "ping"
	MethodToolsList     = "tools/list"
	MethodToolsCall     = "tools/call"
	MethodResourcesList = "resources/list"
	MethodResourcesRead = "resources/read"

	notificationPrefix = "notifications/"
)

// Transcriber runs one transcription job. Implemented by *pipeline.Pipeline.
type Transcriber interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// DependencyChecker produces the dependency report. Implemented by *deps.Checker.
type DependencyChecker interface {
	Check(ctx context.Context) deps.Report
}

// Options configures a Dispatcher.
type Options struct {
	Name         string
	Version      string
	OutputDir    string
	Transcriber  Transcriber
	Dependencies DependencyChecker
	Logger       *slog.Logger
}

// Dispatcher routes decoded envelopes to handlers. It is stateless apart
// from its collaborators; callers serialize tool calls per connection.
type Dispatcher struct {
	name         string
	version      string
	outputDir    string
	registry     *Registry
	transcriber  Transcriber
	dependencies DependencyChecker
	logger       *slog.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "video-transcriber-mcp"
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}
	return &Dispatcher{
		name:         name,
		version:      version,
		outputDir:    opts.OutputDir,
		registry:     NewRegistry(opts.OutputDir),
		transcriber:  opts.Transcriber,
		dependencies: opts.Dependencies,
		logger:       logging.NewComponentLogger(logger, "mcp"),
	}
}

// Registry exposes the tool catalogue.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// HandleMessage decodes one raw envelope and dispatches it. Undecodable
// input yields an internal error with a null id; it never panics or stops
// the caller's loop.
func (d *Dispatcher) HandleMessage(ctx context.Context, data []byte) Response {
	req, err := DecodeRequest(data)
	if err != nil {
		d.logger.Warn("undecodable request",
			logging.String(logging.FieldEventType, "request_malformed"),
			logging.Error(err),
		)
		return NewError(nil, CodeInternalError, fmt.Sprintf("Internal error: %v", err))
	}
	return d.Handle(ctx, req)
}

// Handle dispatches a decoded request. The response always echoes req.ID.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, d.logger)
	start := time.Now()

	resp := d.route(ctx, req)

	attrs := []logging.Attr{
		logging.String("method", req.Method),
		logging.Duration("duration", time.Since(start)),
	}
	if resp.Error != nil {
		attrs = append(attrs, logging.Int("error_code", resp.Error.Code), logging.String("error_message", resp.Error.Message))
	}
	logger.Debug("request handled", logging.Args(attrs...)...)
	return resp
}

func (d *Dispatcher) route(ctx context.Context, req Request) Response {
	switch req.Method {
	case MethodInitialize:
		return NewResult(req.ID, d.initializeResult())
	case MethodPing:
		return NewResult(req.ID, struct{}{})
	case MethodToolsList:
		return NewResult(req.ID, map[string]any{"tools": d.registry.Tools()})
	case MethodToolsCall:
		return d.callTool(ctx, req)
	case MethodResourcesList:
		return d.listResources(req)
	case MethodResourcesRead:
		return d.readResource(req)
	}
	if strings.HasPrefix(req.Method, notificationPrefix) {
		return NewResult(req.ID, struct{}{})
	}
	return NewError(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
}

func (d *Dispatcher) initializeResult() map[string]any {
	return map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    d.name,
			"version": d.version,
		},
		"instructions": "Transcribe videos from 1000+ platforms or local files with whisper.cpp. " +
			"Call check_dependencies first, then transcribe_video with a URL or path. " +
			"Saved transcripts are listed by list_transcripts and exposed as resources.",
	}
}

// decodeParams unmarshals params into dst. Absent params leave dst zeroed.
func decodeParams(raw json.RawMessage, dst any) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// textContent wraps text in the tool result shape.
func textContent(text string) map[string]any {
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
	}
}
