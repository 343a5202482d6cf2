package testsupport

import (
	"context"
	"os"

	"vidscribe/internal/cmdrun"
)

// Versions reported by ScriptedTools for version probes.
const (
	YtDlpVersion  = "2025.01.15"
	FFmpegVersion = "ffmpeg version 7.1"
)

// scriptedPCMBytes is 0.1s of 16kHz mono float32 samples.
const scriptedPCMBytes = 4 * 1600

// ScriptedTools returns a Recorder that imitates yt-dlp, ffmpeg and whisper-cli.
// ffmpeg emits silent PCM and whisper-cli writes transcript next to its -of
// prefix, so a full local-file transcription succeeds without real binaries.
func ScriptedTools(transcript string) *cmdrun.Recorder {
	rec := cmdrun.NewRecorder()
	rec.Handle("yt-dlp", func(context.Context, cmdrun.Command) (cmdrun.Result, error) {
		return cmdrun.Result{Stdout: []byte(YtDlpVersion + "\n")}, nil
	})
	rec.Handle("ffmpeg", func(_ context.Context, cmd cmdrun.Command) (cmdrun.Result, error) {
		if len(cmd.Args) > 0 && cmd.Args[0] == "-version" {
			return cmdrun.Result{Stdout: []byte(FFmpegVersion + "\n")}, nil
		}
		return cmdrun.Result{Stdout: make([]byte, scriptedPCMBytes)}, nil
	})
	rec.Handle("whisper-cli", func(_ context.Context, cmd cmdrun.Command) (cmdrun.Result, error) {
		for i, arg := range cmd.Args {
			if arg == "-of" && i+1 < len(cmd.Args) {
				if err := os.WriteFile(cmd.Args[i+1]+".txt", []byte(transcript), 0o644); err != nil {
					return cmdrun.Result{}, err
				}
			}
		}
		return cmdrun.Result{}, nil
	})
	return rec
}
