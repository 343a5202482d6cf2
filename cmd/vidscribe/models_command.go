package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidscribe/internal/deps"
	"vidscribe/internal/services/whispercpp"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List whisper model files and where to download missing ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			engine := whispercpp.NewEngine(cfg.Paths.ModelsDir, nil)
			statuses := engine.ModelStatuses()
			if jsonOutput {
				out := make([]modelJSON, 0, len(statuses))
				for _, m := range statuses {
					out = append(out, modelJSON{
						Model:       string(m.Model),
						Path:        m.Path,
						Present:     m.Present,
						Size:        m.Size,
						DownloadURL: m.Model.DownloadURL(),
					})
				}
				return writeJSON(cmd, out)
			}

			color := shouldColorize(cmd.OutOrStdout())
			rows := make([][]string, 0, len(statuses))
			for _, m := range statuses {
				location := m.Path
				if !m.Present {
					location = colorize(color, ansiDim, m.Model.DownloadURL())
				}
				size := ""
				if m.Present {
					size = deps.FormatMB(m.Size)
				}
				marker := ""
				if string(m.Model) == cfg.Transcription.DefaultModel {
					marker = "*"
				}
				rows = append(rows, []string{m.Model.Title() + marker, statusLabel(m.Present, color), size, location})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, newTextTable("Models in "+engine.ModelsDir(), "Model", "Status", "Size", "Path / Download").
				alignRight(2).
				rows(rows).
				caption(fmt.Sprintf("* default model (%s)", strings.TrimSpace(cfg.Transcription.DefaultModel))))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
