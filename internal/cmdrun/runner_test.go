package cmdrun

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "printf out; printf err >&2"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(res.Stdout) != "out" || string(res.Stderr) != "err" {
		t.Fatalf("unexpected output: stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
}

func TestExecRunnerPassesStdin(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Command{
		Binary: "cat",
		Stdin:  strings.NewReader("piped"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(res.Stdout) != "piped" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestExecRunnerExitError(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "echo boom >&2; exit 3"},
	})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.ExitCode != 3 || res.ExitCode != 3 {
		t.Fatalf("exit code = %d / %d", exitErr.ExitCode, res.ExitCode)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("stderr missing from %q", err.Error())
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{Binary: "vidscribe-no-such-binary"})
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestTailKeepsLastLines(t *testing.T) {
	got := Tail("a\n\nb\nc\nd\n", 2)
	if got != "c | d" {
		t.Fatalf("Tail = %q", got)
	}
	if Tail("", 3) != "" {
		t.Fatal("expected empty tail")
	}
}

func TestRecorderCountsCalls(t *testing.T) {
	rec := NewRecorder()
	rec.Handle("ffmpeg", func(context.Context, Command) (Result, error) {
		return Result{Stdout: []byte("ok")}, nil
	})
	res, _ := rec.Run(context.Background(), Command{Binary: "ffmpeg", Args: []string{"-version"}})
	_, _ = rec.Run(context.Background(), Command{Binary: "yt-dlp"})
	if string(res.Stdout) != "ok" {
		t.Fatalf("handler output = %q", res.Stdout)
	}
	if rec.Count("ffmpeg") != 1 || rec.Count("yt-dlp") != 1 || len(rec.Calls()) != 2 {
		t.Fatalf("unexpected calls: %+v", rec.Calls())
	}
}
