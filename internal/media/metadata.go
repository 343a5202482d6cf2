package media

import (
	"path/filepath"
	"strings"
)

// LocalPlatform labels metadata synthesized for files on disk.
const LocalPlatform = "Local File"

// Metadata describes one video. It is produced once per request and embedded
// in the persisted JSON transcript, so field tags are part of the file format.
type Metadata struct {
	ID              string `json:"video_id"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	DurationSeconds int64  `json:"duration"`
	UploadDate      string `json:"upload_date"`
	Platform        string `json:"platform"`
	SourceReference string `json:"url"`
}

// LocalMetadata synthesizes metadata for a local file. Both ID and title are
// the file name without its extension.
func LocalMetadata(path string) Metadata {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "unknown"
	}
	return Metadata{
		ID:              stem,
		Title:           stem,
		Channel:         LocalPlatform,
		DurationSeconds: 0,
		Platform:        LocalPlatform,
		SourceReference: path,
	}
}
