package serverrun

import (
	"log/slog"

	"vidscribe/internal/cmdrun"
	"vidscribe/internal/config"
	"vidscribe/internal/deps"
	"vidscribe/internal/mcp"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/services/ffmpeg"
	"vidscribe/internal/services/whispercpp"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/transcript"
)

// Components is the object graph serving one client session.
type Components struct {
	Engine     *whispercpp.Engine
	Pipeline   *pipeline.Pipeline
	Checker    *deps.Checker
	Dispatcher *mcp.Dispatcher
}

// Build assembles a fresh component graph. Each session gets its own graph,
// so an engine is never shared between sessions. extra is applied to the
// pipeline after the configured options.
func Build(cfg *config.Config, runner cmdrun.Runner, logger *slog.Logger, version string, extra ...pipeline.Option) *Components {
	if runner == nil {
		runner = cmdrun.ExecRunner{}
	}
	recognizer := whispercpp.NewCLIRecognizer(cfg.Tools.WhisperCLI, runner, cfg.Paths.WorkDir)
	engine := whispercpp.NewEngine(cfg.Paths.ModelsDir, recognizer,
		whispercpp.WithThreads(cfg.Transcription.Threads),
		whispercpp.WithLogger(logger),
	)
	opts := append([]pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithWorkDir(cfg.Paths.WorkDir),
		pipeline.WithDefaults(cfg.Transcription.DefaultModel, cfg.Transcription.DefaultLanguage),
	}, extra...)
	p := pipeline.New(pipeline.Dependencies{
		Fetcher:   ytdlp.New(cfg.Tools.YtDlp, runner, logger),
		Extractor: ffmpeg.New(cfg.Tools.FFmpeg, runner, logger),
		Engine:    engine,
		Writer:    transcript.NewWriter(logger),
	}, cfg.Paths.OutputDir, opts...)
	checker := deps.NewChecker(runner, Requirements(cfg), engine)
	dispatcher := mcp.NewDispatcher(mcp.Options{
		Name:         cfg.Server.Name,
		Version:      version,
		OutputDir:    cfg.Paths.OutputDir,
		Transcriber:  p,
		Dependencies: checker,
		Logger:       logger,
	})
	return &Components{Engine: engine, Pipeline: p, Checker: checker, Dispatcher: dispatcher}
}

// Requirements lists the external programs named by cfg.
func Requirements(cfg *config.Config) []deps.Requirement {
	return deps.Requirements(cfg.Tools.YtDlp, cfg.Tools.FFmpeg, cfg.Tools.WhisperCLI)
}
