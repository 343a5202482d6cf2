package ffmpeg

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"vidscribe/internal/cmdrun"
	"vidscribe/internal/services"
)

func pcm(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func TestNormalizeDecodesStdout(t *testing.T) {
	rec := cmdrun.NewRecorder()
	rec.Handle("ffmpeg", func(context.Context, cmdrun.Command) (cmdrun.Result, error) {
		return cmdrun.Result{Stdout: pcm(0.25, -0.5)}, nil
	})
	samples, err := New("", rec, nil).Normalize(context.Background(), "/in/clip.mkv")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(samples) != 2 || samples[0] != 0.25 || samples[1] != -0.5 {
		t.Fatalf("samples = %v", samples)
	}
	args := rec.Calls()[0].Args
	for _, want := range []string{"16000", "f32le", "/in/clip.mkv"} {
		if !slices.Contains(args, want) {
			t.Fatalf("args %v missing %q", args, want)
		}
	}
	if args[len(args)-1] != "-" {
		t.Fatalf("expected stdout output, got %v", args)
	}
	if i := slices.Index(args, "-ac"); i < 0 || args[i+1] != "1" {
		t.Fatalf("expected mono, got %v", args)
	}
}

func TestNormalizeEmptyOutputIsFailure(t *testing.T) {
	rec := cmdrun.NewRecorder()
	rec.Handle("ffmpeg", func(context.Context, cmdrun.Command) (cmdrun.Result, error) {
		return cmdrun.Result{Stderr: []byte("Output file #0 does not contain any stream\n")}, nil
	})
	_, err := New("", rec, nil).Normalize(context.Background(), "/in/silent.mp4")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "does not contain any stream") {
		t.Fatalf("diagnostics missing: %v", err)
	}
}

func TestNormalizeNonZeroExitCarriesDiagnostics(t *testing.T) {
	rec := cmdrun.NewRecorder()
	rec.Handle("ffmpeg", func(context.Context, cmdrun.Command) (cmdrun.Result, error) {
		return cmdrun.Result{ExitCode: 1}, &cmdrun.ExitError{Binary: "ffmpeg", ExitCode: 1, Stderr: "Invalid data found when processing input"}
	})
	_, err := New("", rec, nil).Normalize(context.Background(), "/in/bad.mp4")
	if err == nil || !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected diagnostics in error, got %v", err)
	}
	if rec.Count("ffmpeg") != 1 {
		t.Fatalf("expected exactly one attempt, got %d", rec.Count("ffmpeg"))
	}
}

func TestExtractCompressedRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "audio.mp3")

	rec := cmdrun.NewRecorder()
	if err := New("", rec, nil).ExtractCompressed(context.Background(), "/in/video.webm", dest); err == nil {
		t.Fatal("expected error when ffmpeg leaves no output")
	}

	rec.Handle("ffmpeg", func(_ context.Context, cmd cmdrun.Command) (cmdrun.Result, error) {
		return cmdrun.Result{}, os.WriteFile(cmd.Args[len(cmd.Args)-1], []byte("ID3"), 0o644)
	})
	if err := New("", rec, nil).ExtractCompressed(context.Background(), "/in/video.webm", dest); err != nil {
		t.Fatalf("ExtractCompressed: %v", err)
	}
	args := rec.Calls()[1].Args
	if !slices.Contains(args, "libmp3lame") || !slices.Contains(args, "-vn") {
		t.Fatalf("unexpected args %v", args)
	}
}
