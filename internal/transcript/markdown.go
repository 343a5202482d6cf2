package transcript

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders the human-readable transcript report.
func RenderMarkdown(doc Document) string {
	meta := doc.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	fmt.Fprintf(&b, "**Video:** %s\n", meta.SourceReference)
	fmt.Fprintf(&b, "**Platform:** %s\n", meta.Platform)
	fmt.Fprintf(&b, "**Channel:** %s\n", meta.Channel)
	fmt.Fprintf(&b, "**Video ID:** %s\n", meta.ID)
	fmt.Fprintf(&b, "**Duration:** %ds\n", meta.DurationSeconds)
	fmt.Fprintf(&b, "**Published:** %s\n\n", meta.UploadDate)
	b.WriteString("---\n\n")
	b.WriteString("## Transcript\n\n")
	b.WriteString(doc.Text)
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "*Transcribed using %s - Model: %s*\n", EngineName, doc.Model)
	return b.String()
}
