package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vidscribe/internal/services"
)

// URIScheme prefixes resource URIs.
const URIScheme = "file://"

// Resource is one transcript file exposed for browsing.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	Path        string
	Size        int64
	Modified    time.Time
}

// Content is the body of a read resource.
type Content struct {
	URI      string
	MimeType string
	Text     string
}

var transcriptExtensions = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
}

// MimeType infers the content type from a file extension.
func MimeType(path string) string {
	if mime, ok := transcriptExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "text/plain"
}

func isTranscript(name string) bool {
	_, ok := transcriptExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// List returns every transcript file in dir, sorted by name. A missing
// directory yields an empty list.
func List(dir string) ([]Resource, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "catalog", "list", dir, err)
	}
	entries, err := os.ReadDir(absDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrIO, "catalog", "list", absDir, err)
	}

	resources := make([]Resource, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isTranscript(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(absDir, entry.Name())
		resources = append(resources, Resource{
			URI:         URIScheme + path,
			Name:        entry.Name(),
			Description: describe(info.Size(), info.ModTime()),
			MimeType:    MimeType(entry.Name()),
			Path:        path,
			Size:        info.Size(),
			Modified:    info.ModTime(),
		})
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].Name < resources[j].Name })
	return resources, nil
}

// Read loads a resource. The scheme prefix is optional: a bare string is
// used as a filesystem path as-is.
func Read(uri string) (Content, error) {
	path := strings.TrimPrefix(uri, URIScheme)
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, services.Wrap(services.ErrIO, "catalog", "read", "Failed to read file", err)
	}
	return Content{URI: uri, MimeType: MimeType(path), Text: string(data)}, nil
}

func describe(size int64, modified time.Time) string {
	return fmt.Sprintf("Transcript file (%.2f KB, modified %s)", float64(size)/1024, formatDate(modified))
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
