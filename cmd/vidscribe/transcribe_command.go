package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"vidscribe/internal/config"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/serverrun"
)

type transcribeResultJSON struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Platform  string `json:"platform"`
	Duration  int64  `json:"duration_seconds"`
	Model     string `json:"model"`
	Language  string `json:"language"`
	WordCount int    `json:"word_count"`
	TXT       string `json:"txt"`
	JSON      string `json:"json"`
	Markdown  string `json:"markdown"`
	Preview   string `json:"preview"`
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var model, lang, outputDir string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "transcribe <url-or-path>",
		Short: "Transcribe one video URL or local file without starting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			if outputDir != "" {
				if outputDir, err = config.ExpandPath(outputDir); err != nil {
					return err
				}
			}

			progress := cmd.ErrOrStderr()
			hook := stageProgress(progress, shouldColorize(progress))
			components := serverrun.Build(cfg, ctx.commandRunner(), logger, version, pipeline.WithStageHook(hook))
			result, err := components.Pipeline.Run(cmd.Context(), pipeline.Request{
				Reference: args[0],
				OutputDir: outputDir,
				Model:     model,
				Language:  lang,
			})
			if err != nil {
				return fmt.Errorf("transcription failed: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, transcribeResultJSON{
					VideoID:   result.Metadata.ID,
					Title:     result.Metadata.Title,
					Channel:   result.Metadata.Channel,
					Platform:  result.Metadata.Platform,
					Duration:  result.Metadata.DurationSeconds,
					Model:     string(result.Model),
					Language:  result.Language.String(),
					WordCount: result.WordCount,
					TXT:       result.Files.TXT,
					JSON:      result.Files.JSON,
					Markdown:  result.Files.MD,
					Preview:   result.Preview,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, newTextTable("Transcription complete", "Field", "Value").rows([][]string{
				{"Title", result.Metadata.Title},
				{"Platform", result.Metadata.Platform},
				{"Duration", strconv.FormatInt(result.Metadata.DurationSeconds, 10) + "s"},
				{"Model", result.Model.Title()},
				{"Language", result.Language.String()},
				{"Words", strconv.Itoa(result.WordCount)},
				{"Text", result.Files.TXT},
				{"JSON", result.Files.JSON},
				{"Markdown", result.Files.MD},
			}))
			fmt.Fprintf(out, "\n%s\n", result.Preview)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Whisper model (tiny, base, small, medium, large)")
	cmd.Flags().StringVarP(&lang, "language", "l", "", "ISO language code or auto")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the transcript files")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// stageProgress prints one line per pipeline stage.
func stageProgress(w io.Writer, color bool) pipeline.StageHook {
	total := len(pipeline.Stages) - 1
	step := 0
	return func(stage pipeline.Stage) {
		if stage == pipeline.StageDone {
			fmt.Fprintln(w, colorize(color, ansiGreen, "done"))
			return
		}
		step++
		fmt.Fprintf(w, "%s %s\n", colorize(color, ansiDim, fmt.Sprintf("[%d/%d]", step, total)), stage)
	}
}
