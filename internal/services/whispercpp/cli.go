package whispercpp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vidscribe/internal/cmdrun"
	"vidscribe/internal/media"
	"vidscribe/internal/services"
)

// DefaultCLIBinary is the whisper.cpp command line program.
const DefaultCLIBinary = "whisper-cli"

// CLIRecognizer runs inference through the whisper.cpp CLI. Samples are
// written to a scratch WAV file and the transcript is read back from the
// .txt file whisper-cli emits, one segment per line.
type CLIRecognizer struct {
	binary  string
	runner  cmdrun.Runner
	workDir string
}

// NewCLIRecognizer constructs a recognizer. Scratch files go under workDir
// (the OS temp dir when empty) and are removed before Recognize returns.
func NewCLIRecognizer(binary string, runner cmdrun.Runner, workDir string) *CLIRecognizer {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultCLIBinary
	}
	if runner == nil {
		runner = cmdrun.ExecRunner{}
	}
	return &CLIRecognizer{binary: binary, runner: runner, workDir: workDir}
}

// Recognize implements Recognizer.
func (r *CLIRecognizer) Recognize(ctx context.Context, modelPath string, samples media.Samples, opts DecodeOptions) ([]Segment, error) {
	scratch, err := os.MkdirTemp(r.workDir, "vidscribe-whisper-*")
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "whisper", "scratch", "create scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	wavPath := filepath.Join(scratch, "audio.wav")
	if err := writeWAVFile(wavPath, samples); err != nil {
		return nil, services.Wrap(services.ErrIO, "whisper", "scratch", "write wav", err)
	}

	outBase := filepath.Join(scratch, "transcript")
	if _, err := r.runner.Run(ctx, cmdrun.Command{
		Binary: r.binary,
		Args:   buildCLIArgs(modelPath, wavPath, outBase, opts),
	}); err != nil {
		return nil, fmt.Errorf("whisper.cpp transcription failed: %w", err)
	}

	segments, err := readSegments(outBase + ".txt")
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp completed but transcript is unreadable: %w", err)
	}
	return segments, nil
}

func buildCLIArgs(modelPath, wavPath, outBase string, opts DecodeOptions) []string {
	threads := opts.Threads
	if threads <= 0 {
		threads = 1
	}
	lang := "auto"
	if opts.Language.Forced {
		lang = opts.Language.Code
	}
	return []string{
		"-m", modelPath,
		"-f", wavPath,
		"-t", strconv.Itoa(threads),
		"-bs", "1",
		"-bo", "1",
		"-nf",
		"-l", lang,
		"-nt",
		"-np",
		"-of", outBase,
		"-otxt",
	}
}

func readSegments(path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var segments []Segment
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Text: text})
	}
	return segments, scanner.Err()
}
