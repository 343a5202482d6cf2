package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidscribe/internal/deps"
	"vidscribe/internal/preflight"
	"vidscribe/internal/serverrun"
)

type dependencyJSON struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type modelJSON struct {
	Model       string `json:"model"`
	Path        string `json:"path"`
	Present     bool   `json:"present"`
	Size        int64  `json:"size_bytes,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

type directoryJSON struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

type depsReportJSON struct {
	Tools       []dependencyJSON `json:"tools"`
	ModelsDir   string           `json:"models_dir"`
	Models      []modelJSON      `json:"models"`
	Directories []directoryJSON  `json:"directories"`
	Missing     bool             `json:"missing"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check yt-dlp, ffmpeg, whisper-cli, and installed whisper models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			report := serverrun.Build(cfg, ctx.commandRunner(), logger, version).Checker.Check(cmd.Context())
			checks := preflight.RunAll(cfg)
			if jsonOutput {
				return writeJSON(cmd, depsToJSON(report, checks))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDepsReport(report, checks, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func depsToJSON(report deps.Report, checks []preflight.Result) depsReportJSON {
	out := depsReportJSON{ModelsDir: report.ModelsDir, Missing: report.Missing()}
	for _, c := range checks {
		out.Directories = append(out.Directories, directoryJSON{Name: c.Name, Path: c.Path, Passed: c.Passed, Detail: c.Detail})
	}
	for _, tool := range report.Tools {
		out.Tools = append(out.Tools, dependencyJSON{
			Name:      tool.Name,
			Command:   tool.Command,
			Available: tool.Available,
			Version:   tool.Version,
			Detail:    tool.Detail,
		})
	}
	for _, m := range report.Models {
		entry := modelJSON{Model: string(m.Model), Path: m.Path, Present: m.Present, Size: m.Size}
		if !m.Present {
			entry.DownloadURL = m.Model.DownloadURL()
		}
		out.Models = append(out.Models, entry)
	}
	return out
}

func renderDepsReport(report deps.Report, checks []preflight.Result, color bool) string {
	var b strings.Builder

	toolRows := make([][]string, 0, len(report.Tools))
	for _, tool := range report.Tools {
		detail := tool.Version
		if !tool.Available {
			detail = tool.Detail
		}
		toolRows = append(toolRows, []string{tool.Name, statusLabel(tool.Available, color), tool.Command, detail})
	}
	b.WriteString(newTextTable("Tools", "Name", "Status", "Command", "Version / Detail").rows(toolRows).String())
	b.WriteString("\n\n")

	modelRows := make([][]string, 0, len(report.Models))
	for _, m := range report.Models {
		size := ""
		if m.Present {
			size = deps.FormatMB(m.Size)
		}
		modelRows = append(modelRows, []string{m.Model.Title(), statusLabel(m.Present, color), size, m.Path})
	}
	b.WriteString(newTextTable("Whisper models ("+report.ModelsDir+")", "Model", "Status", "Size", "Path").
		alignRight(2).
		rows(modelRows).
		String())
	b.WriteString("\n")

	if len(checks) > 0 {
		dirRows := make([][]string, 0, len(checks))
		for _, c := range checks {
			dirRows = append(dirRows, []string{c.Name, statusLabel(c.Passed, color), c.Path, c.Detail})
		}
		b.WriteString("\n")
		b.WriteString(newTextTable("Directories", "Name", "Status", "Path", "Detail").rows(dirRows).String())
		b.WriteString("\n")
	}

	if report.Missing() {
		b.WriteString("\n")
		b.WriteString(colorize(color, ansiYellow, "Some dependencies are missing. Install the tools above and download at least one model (see `vidscribe models`)."))
		b.WriteString("\n")
	}
	return b.String()
}
