package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"vidscribe/internal/language"
	"vidscribe/internal/logging"
	"vidscribe/internal/media"
	"vidscribe/internal/services"
	"vidscribe/internal/services/whispercpp"
	"vidscribe/internal/source"
	"vidscribe/internal/staging"
	"vidscribe/internal/transcript"
)

// MediaFetcher retrieves metadata and a compressed audio file for a remote
// reference, writing into dir.
type MediaFetcher interface {
	Fetch(ctx context.Context, url, dir string) (media.Metadata, string, error)
}

// AudioExtractor converts media files.
type AudioExtractor interface {
	ExtractCompressed(ctx context.Context, source, dest string) error
	Normalize(ctx context.Context, source string) (media.Samples, error)
}

// SpeechEngine turns normalized samples into transcript text.
type SpeechEngine interface {
	Transcribe(ctx context.Context, samples media.Samples, model whispercpp.Model, lang language.Selection) (string, error)
}

// OutputWriter persists a finished transcript.
type OutputWriter interface {
	Write(ctx context.Context, dir string, doc transcript.Document) (transcript.Files, error)
}

// Request is one transcription job.
type Request struct {
	// Reference is an http(s) URL or a local file path.
	Reference string
	// OutputDir overrides the configured output directory when set.
	OutputDir string
	// Model is a model size; empty or unknown values select the default.
	Model string
	// Language is an ISO code, "auto", or empty.
	Language string
}

// Result describes a successful run.
type Result struct {
	Metadata   media.Metadata
	Transcript string
	Preview    string
	WordCount  int
	Files      transcript.Files
	Model      whispercpp.Model
	Language   language.Selection
}

// Pipeline sequences source resolution, media acquisition, audio
// extraction, transcription and persistence. A Pipeline holds no per-run
// state, but the engine it wraps may not tolerate concurrent use.
type Pipeline struct {
	fetcher   MediaFetcher
	extractor AudioExtractor
	engine    SpeechEngine
	writer    OutputWriter
	outputDir string
	workDir   string
	model     string
	language  string
	logger    *slog.Logger
	hook      StageHook
}

// Dependencies are the collaborators of a Pipeline.
type Dependencies struct {
	Fetcher   MediaFetcher
	Extractor AudioExtractor
	Engine    SpeechEngine
	Writer    OutputWriter
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.NewComponentLogger(logger, "pipeline") }
}

// WithWorkDir sets the parent directory of per-run workspaces.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) { p.workDir = dir }
}

// WithDefaults sets the model and language applied when a request leaves
// them empty.
func WithDefaults(model, lang string) Option {
	return func(p *Pipeline) {
		p.model = strings.TrimSpace(model)
		p.language = strings.TrimSpace(lang)
	}
}

// WithStageHook registers an observer for stage transitions.
func WithStageHook(hook StageHook) Option {
	return func(p *Pipeline) { p.hook = hook }
}

// New constructs a Pipeline writing to defaultOutputDir unless a request
// overrides it.
func New(deps Dependencies, defaultOutputDir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		engine:    deps.Engine,
		writer:    deps.Writer,
		outputDir: defaultOutputDir,
		logger:    logging.NewComponentLogger(nil, "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultOutputDir returns the directory used when a request names none.
func (p *Pipeline) DefaultOutputDir() string { return p.outputDir }

// run carries the values produced by each stage.
type run struct {
	req       Request
	model     whispercpp.Model
	lang      language.Selection
	outputDir string
	src       source.Source
	workspace *staging.Workspace
	meta      media.Metadata
	mediaPath string
	samples   media.Samples
	text      string
	files     transcript.Files
}

// Run executes every stage in order and stops at the first failure, which
// is returned as a *StageError. Scratch files are removed on every path.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	r := &run{req: req}
	defer r.cleanup(p.logger)

	steps := []struct {
		stage Stage
		fn    func(context.Context, *run) error
	}{
		{StageInit, p.prepare},
		{StageResolveSource, p.resolveSource},
		{StageAcquireMedia, p.acquireMedia},
		{StageExtractAudio, p.extractAudio},
		{StageTranscribe, p.transcribe},
		{StagePersist, p.persist},
	}
	for _, step := range steps {
		if err := p.runStage(ctx, step.stage, func(ctx context.Context) error { return step.fn(ctx, r) }); err != nil {
			return Result{}, err
		}
	}
	if p.hook != nil {
		p.hook(StageDone)
	}

	return Result{
		Metadata:   r.meta,
		Transcript: r.text,
		Preview:    transcript.Preview(r.text),
		WordCount:  transcript.WordCount(r.text),
		Files:      r.files,
		Model:      r.model,
		Language:   r.lang,
	}, nil
}

func (p *Pipeline) prepare(ctx context.Context, r *run) error {
	requested := strings.TrimSpace(r.req.Model)
	if requested == "" {
		requested = p.model
	}
	r.model = whispercpp.ResolveModel(requested)
	if requested != "" && string(r.model) != strings.ToLower(requested) {
		logging.WithContext(ctx, p.logger).Warn("unknown model requested, using default",
			logging.String("requested", requested),
			logging.String("model", string(r.model)),
		)
	}
	lang := strings.TrimSpace(r.req.Language)
	if lang == "" {
		lang = p.language
	}
	r.lang = language.Select(lang)
	r.outputDir = strings.TrimSpace(r.req.OutputDir)
	if r.outputDir == "" {
		r.outputDir = p.outputDir
	}
	if r.outputDir == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "init", "no output directory configured", nil)
	}
	if p.fetcher == nil || p.extractor == nil || p.engine == nil || p.writer == nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "init", "pipeline is missing a collaborator", nil)
	}
	logging.WithContext(ctx, p.logger).Info("transcription requested",
		logging.String("reference", r.req.Reference),
		logging.String("model", string(r.model)),
		logging.String("language", r.lang.String()),
		logging.String("output_dir", r.outputDir),
	)
	return nil
}

func (p *Pipeline) resolveSource(_ context.Context, r *run) error {
	src, err := source.Resolve(r.req.Reference)
	if err != nil {
		return err
	}
	r.src = src
	return nil
}

func (p *Pipeline) acquireMedia(ctx context.Context, r *run) error {
	if r.src.Kind == source.Local {
		r.meta = media.LocalMetadata(r.src.Reference)
		r.mediaPath = r.src.Path
		return nil
	}

	ws, err := staging.NewWorkspace(p.workDir)
	if err != nil {
		return services.Wrap(services.ErrIO, "pipeline", "workspace", "", err)
	}
	r.workspace = ws

	meta, path, err := p.fetcher.Fetch(ctx, r.src.Reference, ws.Dir())
	if err != nil {
		return err
	}
	r.meta = meta
	r.mediaPath = path
	return nil
}

// extractAudio normalizes the media. Downloads first pass through a
// compressed intermediate so the container is decoded only once.
func (p *Pipeline) extractAudio(ctx context.Context, r *run) error {
	input := r.mediaPath
	if r.src.Kind == source.Remote {
		compressed := filepath.Join(r.workspace.Dir(), "audio.mp3")
		if err := p.extractor.ExtractCompressed(ctx, r.mediaPath, compressed); err != nil {
			return err
		}
		input = compressed
	}
	samples, err := p.extractor.Normalize(ctx, input)
	if err != nil {
		return err
	}
	r.samples = samples
	return nil
}

func (p *Pipeline) transcribe(ctx context.Context, r *run) error {
	text, err := p.engine.Transcribe(ctx, r.samples, r.model, r.lang)
	if err != nil {
		return err
	}
	r.text = text
	// Samples can be hundreds of megabytes; release them before writing.
	r.samples = nil
	return nil
}

func (p *Pipeline) persist(ctx context.Context, r *run) error {
	files, err := p.writer.Write(ctx, r.outputDir, transcript.Document{
		Metadata: r.meta,
		Text:     r.text,
		Model:    string(r.model),
	})
	if err != nil {
		return err
	}
	r.files = files
	return nil
}

func (r *run) cleanup(logger *slog.Logger) {
	if r.workspace == nil {
		return
	}
	if err := r.workspace.Close(); err != nil {
		logger.Warn("failed to remove workspace",
			logging.String("path", r.workspace.Dir()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove it manually; it is swept on next start"),
		)
	}
}
