package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"vidscribe/internal/language"
	"vidscribe/internal/logging"
	"vidscribe/internal/media"
	"vidscribe/internal/services"
)

// Segment is one recognized span of speech. Timing is optional; recognizers
// that cannot report it leave Start and End zero.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// DecodeOptions configures one recognition call. Decoding is always greedy
// best-path and never translates.
type DecodeOptions struct {
	Language language.Selection
	Threads  int
}

// Recognizer runs speech inference over normalized samples.
type Recognizer interface {
	Recognize(ctx context.Context, modelPath string, samples media.Samples, opts DecodeOptions) ([]Segment, error)
}

// Engine resolves model weights and turns samples into transcript text. An
// Engine is not safe for concurrent Transcribe calls; callers that share one
// must serialize access.
type Engine struct {
	modelsDir  string
	recognizer Recognizer
	threads    int
	logger     *slog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithThreads overrides the inference thread count. Values <= 0 use every CPU.
func WithThreads(n int) Option {
	return func(e *Engine) { e.threads = n }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logging.NewComponentLogger(logger, "whisper") }
}

// NewEngine constructs an Engine reading weight files from modelsDir.
func NewEngine(modelsDir string, recognizer Recognizer, opts ...Option) *Engine {
	e := &Engine{
		modelsDir:  modelsDir,
		recognizer: recognizer,
		logger:     logging.NewComponentLogger(nil, "whisper"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ModelsDir returns the weight cache directory.
func (e *Engine) ModelsDir() string { return e.modelsDir }

// ModelPath returns where the weight file for m is expected.
func (e *Engine) ModelPath(m Model) string {
	return filepath.Join(e.modelsDir, m.FileName())
}

// EnsureModel verifies the weight file for m exists locally. It never
// downloads; the error explains where to get the file.
func (e *Engine) EnsureModel(m Model) (string, error) {
	path := e.ModelPath(m)
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return path, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", services.Wrap(services.ErrIO, "whisper", "model", fmt.Sprintf("stat %s", path), err)
	}
	msg := fmt.Sprintf("Whisper model not found: %s. Download it manually from %s and place it at that path", path, m.DownloadURL())
	return "", services.Wrap(services.ErrNotFound, "whisper", "model", msg, nil)
}

// Threads reports the thread count passed to the recognizer.
func (e *Engine) Threads() int {
	if e.threads > 0 {
		return e.threads
	}
	return runtime.NumCPU()
}

// Transcribe recognizes samples with model m and returns the segment texts
// joined by single spaces.
func (e *Engine) Transcribe(ctx context.Context, samples media.Samples, m Model, lang language.Selection) (string, error) {
	modelPath, err := e.EnsureModel(m)
	if err != nil {
		return "", err
	}
	if len(samples) == 0 {
		return "", services.Wrap(services.ErrInference, "whisper", "transcribe", "no audio samples to transcribe", nil)
	}
	if e.recognizer == nil {
		return "", services.Wrap(services.ErrConfiguration, "whisper", "transcribe", "no recognizer configured", nil)
	}

	logger := logging.WithContext(ctx, e.logger)
	logger.Info("transcribing audio",
		logging.String("model", string(m)),
		logging.String("language", lang.String()),
		logging.Int("threads", e.Threads()),
		logging.Duration("audio_duration", samples.Duration()),
	)
	start := time.Now()
	segments, err := e.recognizer.Recognize(ctx, modelPath, samples, DecodeOptions{
		Language: lang,
		Threads:  e.Threads(),
	})
	if err != nil {
		return "", services.Wrap(services.ErrInference, "whisper", "transcribe", "Failed to transcribe audio", err)
	}
	text := JoinSegments(segments)
	logger.Info("transcription finished",
		logging.Int("segments", len(segments)),
		logging.Elapsed(start),
	)
	return text, nil
}

// JoinSegments concatenates segment texts with single spaces and trims the
// result.
func JoinSegments(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

// ModelStatus describes one weight file in the cache.
type ModelStatus struct {
	Model   Model
	Path    string
	Present bool
	Size    int64
}

// ModelStatuses reports every model size in order, present or not.
func (e *Engine) ModelStatuses() []ModelStatus {
	out := make([]ModelStatus, 0, len(Models))
	for _, m := range Models {
		status := ModelStatus{Model: m, Path: e.ModelPath(m)}
		if info, err := os.Stat(status.Path); err == nil && !info.IsDir() {
			status.Present = true
			status.Size = info.Size()
		}
		out = append(out, status)
	}
	return out
}
