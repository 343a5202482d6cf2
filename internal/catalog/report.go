package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Report renders the numbered transcript listing returned by the
// list_transcripts tool.
func Report(dir string) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Sprintf("No transcripts directory found at: %s\n\nTranscribe your first video to create it!", dir), nil
		}
		return "", err
	}
	resources, err := List(dir)
	if err != nil {
		return "", err
	}
	groups := GroupResources(resources)
	if len(groups) == 0 {
		return fmt.Sprintf("No transcripts found in %s\n\nTranscribe a video to get started!", dir), nil
	}

	items := make([]string, 0, len(groups))
	for i, g := range groups {
		items = append(items, fmt.Sprintf(
			"%d. **%s**\n   Video ID: %s\n   Files: %d (%s)\n   Size: %.2f KB\n   Modified: %s\n   Path: %s",
			i+1,
			g.Title,
			g.VideoID,
			len(g.Files),
			strings.Join(g.Extensions(), ", "),
			float64(g.Main.Size)/1024,
			formatDate(g.Main.Modified),
			g.Main.Path,
		))
	}
	return fmt.Sprintf("Available transcripts (%d videos):\n\n%s\n\nTip: read any transcript through its resource URI or the path shown above.",
		len(groups), strings.Join(items, "\n\n")), nil
}
