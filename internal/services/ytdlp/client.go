package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vidscribe/internal/cmdrun"
	"vidscribe/internal/logging"
	"vidscribe/internal/media"
	"vidscribe/internal/services"
)

// DefaultBinary is the executable name resolved through PATH.
const DefaultBinary = "yt-dlp"

// downloadStem is the basename yt-dlp writes into the workspace.
const downloadStem = "video"

// Client wraps the yt-dlp command line.
type Client struct {
	binary string
	runner cmdrun.Runner
	logger *slog.Logger
}

// New constructs a Client. Empty binary means DefaultBinary; nil runner means
// real process execution.
func New(binary string, runner cmdrun.Runner, logger *slog.Logger) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = cmdrun.ExecRunner{}
	}
	return &Client{
		binary: binary,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "ytdlp"),
	}
}

// Fetch retrieves metadata and downloads the audio track of url into dir,
// returning the path of the compressed audio file.
func (c *Client) Fetch(ctx context.Context, url, dir string) (media.Metadata, string, error) {
	meta, err := c.Metadata(ctx, url)
	if err != nil {
		return media.Metadata{}, "", err
	}
	logging.WithContext(ctx, c.logger).Info("video metadata fetched",
		logging.String("platform", meta.Platform),
		logging.String("title", meta.Title),
		logging.Int64("duration_seconds", meta.DurationSeconds),
	)
	path, err := c.Download(ctx, url, dir)
	if err != nil {
		return media.Metadata{}, "", err
	}
	return meta, path, nil
}

// dumpJSON is the subset of yt-dlp --dump-json output vidscribe reads.
type dumpJSON struct {
	ID         *string  `json:"id"`
	Title      *string  `json:"title"`
	Channel    *string  `json:"channel"`
	Uploader   *string  `json:"uploader"`
	Duration   *float64 `json:"duration"`
	UploadDate *string  `json:"upload_date"`
	Extractor  *string  `json:"extractor"`
}

// Metadata runs yt-dlp in dump mode and maps the fields onto media.Metadata.
func (c *Client) Metadata(ctx context.Context, url string) (media.Metadata, error) {
	res, err := c.runner.Run(ctx, cmdrun.Command{
		Binary: c.binary,
		Args:   []string{"--dump-json", "--no-playlist", "--skip-download", "--no-warnings", url},
	})
	if err != nil {
		return media.Metadata{}, services.Wrap(services.ErrExternalTool, "ytdlp", "metadata", "yt-dlp failed to fetch metadata", err)
	}
	return ParseMetadata(url, res.Stdout)
}

// ParseMetadata decodes one --dump-json document. Missing fields fall back to
// "unknown" / "Unknown"; channel falls back to uploader.
func ParseMetadata(url string, raw []byte) (media.Metadata, error) {
	var payload dumpJSON
	if err := json.Unmarshal(firstJSONLine(raw), &payload); err != nil {
		return media.Metadata{}, services.Wrap(services.ErrExternalTool, "ytdlp", "metadata", "decode yt-dlp json", err)
	}
	meta := media.Metadata{
		ID:              valueOr(payload.ID, "unknown"),
		Title:           valueOr(payload.Title, "Unknown"),
		Channel:         valueOr(payload.Channel, valueOr(payload.Uploader, "Unknown")),
		UploadDate:      valueOr(payload.UploadDate, ""),
		Platform:        DetectPlatform(url, valueOr(payload.Extractor, "")),
		SourceReference: url,
	}
	if payload.Duration != nil && *payload.Duration > 0 {
		meta.DurationSeconds = int64(*payload.Duration)
	}
	return meta, nil
}

// Download fetches the audio track of url into dir as MP3.
func (c *Client) Download(ctx context.Context, url, dir string) (string, error) {
	template := filepath.Join(dir, downloadStem+".%(ext)s")
	_, err := c.runner.Run(ctx, cmdrun.Command{
		Binary: c.binary,
		Args: []string{
			"-x",
			"--audio-format", "mp3",
			"--no-playlist",
			"--no-progress",
			"-o", template,
			url,
		},
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download", "yt-dlp failed to download video", err)
	}
	return locateDownload(dir)
}

// locateDownload finds the file yt-dlp produced. The MP3 is expected, but
// post-processing can be skipped when the source is already audio-only.
func locateDownload(dir string) (string, error) {
	expected := filepath.Join(dir, downloadStem+".mp3")
	if info, err := os.Stat(expected); err == nil && info.Size() > 0 {
		return expected, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, downloadStem+".*"))
	if err != nil {
		return "", services.Wrap(services.ErrIO, "ytdlp", "download", "scan workspace", err)
	}
	for _, match := range matches {
		if strings.HasSuffix(match, ".part") || strings.HasSuffix(match, ".ytdl") {
			continue
		}
		if info, err := os.Stat(match); err == nil && !info.IsDir() && info.Size() > 0 {
			return match, nil
		}
	}
	return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download", fmt.Sprintf("Downloaded audio file not found in %s", dir), nil)
}

func firstJSONLine(raw []byte) []byte {
	text := strings.TrimSpace(string(raw))
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return []byte(text)
}

func valueOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}
