package deps

import (
	"context"
	"fmt"
	"strings"

	"vidscribe/internal/cmdrun"
	"vidscribe/internal/services/whispercpp"
)

// ModelLister reports the weight cache. Implemented by *whispercpp.Engine.
type ModelLister interface {
	ModelsDir() string
	ModelStatuses() []whispercpp.ModelStatus
}

// Checker assembles the dependency report served by check_dependencies and
// the deps command.
type Checker struct {
	runner       cmdrun.Runner
	requirements []Requirement
	models       ModelLister
}

// NewChecker constructs a Checker for the given tools and model cache.
func NewChecker(runner cmdrun.Runner, requirements []Requirement, models ModelLister) *Checker {
	return &Checker{runner: runner, requirements: requirements, models: models}
}

// Requirements builds the standard tool list from configured binaries.
func Requirements(ytdlp, ffmpeg, whisperCLI string) []Requirement {
	return []Requirement{
		{Name: "yt-dlp", Command: ytdlp, Description: "Downloads remote video and metadata", VersionArgs: []string{"--version"}},
		{Name: "ffmpeg", Command: ffmpeg, Description: "Extracts and resamples audio", VersionArgs: []string{"-version"}},
		{Name: "whisper-cli", Command: whisperCLI, Description: "Runs whisper.cpp inference", VersionArgs: []string{"--help"}, NoVersion: true},
	}
}

// Report is the outcome of one dependency check.
type Report struct {
	Tools     []Status
	ModelsDir string
	Models    []whispercpp.ModelStatus
}

// Check probes every tool and model size.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{Tools: CheckBinaries(ctx, c.runner, c.requirements)}
	if c.models != nil {
		report.ModelsDir = c.models.ModelsDir()
		report.Models = c.models.ModelStatuses()
	}
	return report
}

// String renders one line per tool and one line per model size.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("Dependency Check:\n\n")
	for _, tool := range r.Tools {
		b.WriteString(toolLine(tool))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nWhisper Models (%s):\n", r.ModelsDir)
	for _, m := range r.Models {
		b.WriteString(modelLine(m))
		b.WriteByte('\n')
	}
	return b.String()
}

func toolLine(s Status) string {
	if !s.Available {
		if s.Detail != "" {
			return fmt.Sprintf("[missing] %s: NOT installed (%s)", s.Name, s.Detail)
		}
		return fmt.Sprintf("[missing] %s: NOT installed", s.Name)
	}
	if s.Version != "" {
		return fmt.Sprintf("[ok] %s: installed (%s)", s.Name, s.Version)
	}
	return fmt.Sprintf("[ok] %s: installed", s.Name)
}

func modelLine(m whispercpp.ModelStatus) string {
	if !m.Present {
		return fmt.Sprintf("  [missing] %s: not installed", m.Model.Title())
	}
	return fmt.Sprintf("  [ok] %s: %s (%s)", m.Model.Title(), m.Path, FormatMB(m.Size))
}

// FormatMB renders a byte count in decimal megabytes.
func FormatMB(size int64) string {
	return fmt.Sprintf("%.1f MB", float64(size)/1_000_000)
}

// Missing reports whether any required tool or every model is absent.
func (r Report) Missing() bool {
	for _, tool := range r.Tools {
		if !tool.Available && !tool.Optional {
			return true
		}
	}
	for _, m := range r.Models {
		if m.Present {
			return false
		}
	}
	return len(r.Models) > 0
}
