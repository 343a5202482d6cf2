package transcript

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"vidscribe/internal/logging"
	"vidscribe/internal/media"
	"vidscribe/internal/services"
)

// EngineName credits the recognizer in rendered reports.
const EngineName = "whisper.cpp"

// lockFileName is held while a transcript set is written so concurrent
// sessions targeting the same directory do not interleave their files.
const lockFileName = ".vidscribe.lock"

// Document is everything persisted for one transcription.
type Document struct {
	Metadata media.Metadata
	Text     string
	Model    string
}

// Files holds the absolute paths of one persisted transcript set.
type Files struct {
	TXT  string
	JSON string
	MD   string
}

// jsonDocument fixes the key order of the .json file.
type jsonDocument struct {
	Metadata   media.Metadata `json:"metadata"`
	Transcript string         `json:"transcript"`
	Model      string         `json:"model"`
}

// Writer persists transcripts as .txt, .json and .md siblings.
type Writer struct {
	logger *slog.Logger
}

// NewWriter constructs a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logging.NewComponentLogger(logger, "transcript")}
}

// Write creates dir if needed and writes the .txt, .json and .md files in
// that order. The writes are independent: a failure part-way leaves the
// files already written in place.
func (w *Writer) Write(ctx context.Context, dir string, doc Document) (Files, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return Files{}, services.Wrap(services.ErrIO, "transcript", "resolve output dir", dir, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return Files{}, services.Wrap(services.ErrIO, "transcript", "create output dir", "Failed to create output directory", err)
	}

	lock := flock.New(filepath.Join(absDir, lockFileName))
	if err := lock.Lock(); err != nil {
		return Files{}, services.Wrap(services.ErrIO, "transcript", "lock output dir", absDir, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	base := filepath.Join(absDir, BaseName(doc.Metadata.ID, doc.Metadata.Title))
	files := Files{TXT: base + ".txt", JSON: base + ".json", MD: base + ".md"}

	if err := os.WriteFile(files.TXT, []byte(doc.Text), 0o644); err != nil {
		return Files{}, services.Wrap(services.ErrIO, "transcript", "write txt", files.TXT, err)
	}

	payload, err := json.MarshalIndent(jsonDocument{
		Metadata:   doc.Metadata,
		Transcript: doc.Text,
		Model:      doc.Model,
	}, "", "  ")
	if err != nil {
		return Files{}, services.Wrap(services.ErrIO, "transcript", "encode json", "", err)
	}
	if err := os.WriteFile(files.JSON, payload, 0o644); err != nil {
		return Files{}, services.Wrap(services.ErrIO, "transcript", "write json", files.JSON, err)
	}

	if err := os.WriteFile(files.MD, []byte(RenderMarkdown(doc)), 0o644); err != nil {
		return Files{}, services.Wrap(services.ErrIO, "transcript", "write markdown", files.MD, err)
	}

	logging.WithContext(ctx, w.logger).Info("transcript saved",
		logging.String("dir", absDir),
		logging.String("basename", filepath.Base(base)),
	)
	return files, nil
}
