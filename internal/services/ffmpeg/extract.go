package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"vidscribe/internal/cmdrun"
	"vidscribe/internal/logging"
	"vidscribe/internal/media"
	"vidscribe/internal/services"
)

// DefaultBinary is the executable name resolved through PATH.
const DefaultBinary = "ffmpeg"

// Extractor converts media files with ffmpeg. Failures are never retried.
type Extractor struct {
	binary string
	runner cmdrun.Runner
	logger *slog.Logger
}

// New constructs an Extractor. Empty binary means DefaultBinary; nil runner
// means real process execution.
func New(binary string, runner cmdrun.Runner, logger *slog.Logger) *Extractor {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = cmdrun.ExecRunner{}
	}
	return &Extractor{
		binary: binary,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// ExtractCompressed writes the audio stream of source to dest as high-quality
// VBR MP3. Used on downloaded media so normalization decodes a small file.
func (e *Extractor) ExtractCompressed(ctx context.Context, source, dest string) error {
	args := buildCompressedArgs(source, dest)
	if _, err := e.runner.Run(ctx, cmdrun.Command{Binary: e.binary, Args: args}); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "extract audio", "ffmpeg failed to extract audio", err)
	}
	info, err := os.Stat(dest)
	if err != nil || info.Size() == 0 {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "extract audio", fmt.Sprintf("Extracted audio file not found: %s", dest), nil)
	}
	logging.WithContext(ctx, e.logger).Debug("audio extracted",
		logging.String("source", source),
		logging.String("dest", dest),
		logging.Int64("bytes", info.Size()),
	)
	return nil
}

// Normalize decodes source into mono 16 kHz float32 samples read from
// ffmpeg's stdout.
func (e *Extractor) Normalize(ctx context.Context, source string) (media.Samples, error) {
	res, err := e.runner.Run(ctx, cmdrun.Command{Binary: e.binary, Args: buildNormalizeArgs(source)})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "normalize", "ffmpeg failed to decode audio", err)
	}
	if len(res.Stdout) == 0 {
		detail := cmdrun.Tail(string(res.Stderr), 8)
		msg := fmt.Sprintf("ffmpeg produced no audio for %s", source)
		if detail != "" {
			msg += ": " + detail
		}
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "normalize", msg, nil)
	}
	samples, err := media.DecodeF32LE(res.Stdout)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "normalize", "decode pcm", err)
	}
	logging.WithContext(ctx, e.logger).Debug("audio normalized",
		logging.String("source", source),
		logging.Int("samples", len(samples)),
		logging.Duration("audio_duration", samples.Duration()),
	)
	return samples, nil
}

func buildCompressedArgs(source, dest string) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y",
		dest,
	}
}

func buildNormalizeArgs(source string) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ar", strconv.Itoa(media.SampleRate),
		"-ac", "1",
		"-f", "f32le",
		"-",
	}
}
