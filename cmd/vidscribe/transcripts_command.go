package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidscribe/internal/catalog"
	"vidscribe/internal/config"
)

type transcriptGroupJSON struct {
	VideoID  string   `json:"video_id"`
	Title    string   `json:"title"`
	Main     string   `json:"main"`
	Formats  []string `json:"formats"`
	Modified string   `json:"modified"`
}

func newTranscriptsCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "transcripts",
		Short: "List saved transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := transcriptsDir(ctx, outputDir)
			if err != nil {
				return err
			}
			resources, err := catalog.List(dir)
			if err != nil {
				return err
			}
			groups := catalog.GroupResources(resources)
			if jsonOutput {
				out := make([]transcriptGroupJSON, 0, len(groups))
				for _, g := range groups {
					out = append(out, transcriptGroupJSON{
						VideoID:  g.VideoID,
						Title:    g.Title,
						Main:     g.Main.Path,
						Formats:  g.Extensions(),
						Modified: g.Main.Modified.UTC().Format("2006-01-02 15:04"),
					})
				}
				return writeJSON(cmd, out)
			}
			if len(groups) == 0 {
				// Report carries the missing and empty directory wording.
				text, err := catalog.Report(dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, []string{
					g.VideoID,
					g.Title,
					strings.Join(g.Extensions(), ", "),
					g.Main.Modified.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), newTextTable(fmt.Sprintf("Transcripts in %s (%d)", dir, len(groups)),
				"Video ID", "Title", "Formats", "Modified").rows(rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Transcript directory (defaults to the configured output directory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newTranscriptShowCommand())
	return cmd
}

func newTranscriptShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file-or-uri>",
		Short: "Print a saved transcript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := catalog.Read(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, content.Text)
			if !strings.HasSuffix(content.Text, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func transcriptsDir(ctx *commandContext, override string) (string, error) {
	if dir := strings.TrimSpace(override); dir != "" {
		return config.ExpandPath(dir)
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.OutputDir, nil
}
