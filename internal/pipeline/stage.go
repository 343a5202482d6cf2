package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vidscribe/internal/logging"
	"vidscribe/internal/services"
)

// Stage names one phase of a transcription run.
type Stage string

const (
	StageInit          Stage = "init"
	StageResolveSource Stage = "resolve_source"
	StageAcquireMedia  Stage = "acquire_media"
	StageExtractAudio  Stage = "extract_audio"
	StageTranscribe    Stage = "transcribe"
	StagePersist       Stage = "persist"
	StageDone          Stage = "done"
)

// Stages lists the phases in execution order.
var Stages = []Stage{
	StageInit,
	StageResolveSource,
	StageAcquireMedia,
	StageExtractAudio,
	StageTranscribe,
	StagePersist,
	StageDone,
}

// StageError tags a failure with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageHook observes stage transitions. It is called once when a stage is
// entered.
type StageHook func(Stage)

// runStage executes fn under stage st with start/complete/failure logging
// and wraps any error in a StageError.
func (p *Pipeline) runStage(ctx context.Context, st Stage, fn func(context.Context) error) error {
	stageCtx := services.WithStage(ctx, string(st))
	logger := logging.WithContext(stageCtx, p.logger)
	if p.hook != nil {
		p.hook(st)
	}

	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
	start := time.Now()
	if err := fn(stageCtx); err != nil {
		logStageFailure(logger, err)
		return &StageError{Stage: st, Err: err}
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Elapsed(start),
	)
	return nil
}

func logStageFailure(logger *slog.Logger, err error) {
	logger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.ErrorKind(err),
		logging.String(logging.FieldErrorHint, hintFor(err)),
		logging.Error(err),
	)
}

func hintFor(err error) string {
	switch services.Kind(err) {
	case "not_found":
		return "check the path or install the missing model"
	case "external_tool":
		return "run check_dependencies and inspect the tool output above"
	case "io":
		return "check permissions on the output and work directories"
	default:
		return ""
	}
}
