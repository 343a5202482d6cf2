package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"vidscribe/internal/services"
)

// Kind classifies a video reference.
type Kind int

const (
	// Local references name a file on this host.
	Local Kind = iota
	// Remote references are fetched with the media downloader.
	Remote
)

func (k Kind) String() string {
	if k == Remote {
		return "remote"
	}
	return "local"
}

// Source is a classified reference. Path is set for local references and
// holds the absolute path that passed the readability check.
type Source struct {
	Kind      Kind
	Reference string
	Path      string
}

// IsRemote reports whether a reference must be downloaded. The scheme match is
// case-sensitive: "HTTP://x" is a local path.
func IsRemote(reference string) bool {
	return strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://")
}

// Resolve classifies reference. Local references must exist, be regular
// files (or symlinks to one), and be readable by this process. Resolve does no
// network or subprocess work.
func Resolve(reference string) (Source, error) {
	if strings.TrimSpace(reference) == "" {
		return Source{}, services.Wrap(services.ErrValidation, "source", "resolve", "empty video reference", nil)
	}
	if IsRemote(reference) {
		return Source{Kind: Remote, Reference: reference}, nil
	}

	path := reference
	if abs, err := filepath.Abs(reference); err == nil {
		path = abs
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Source{}, services.Wrap(services.ErrNotFound, "source", "resolve", fmt.Sprintf("Video file not found: %s", reference), nil)
		}
		return Source{}, services.Wrap(services.ErrIO, "source", "resolve", fmt.Sprintf("stat %s", reference), err)
	}
	if info.IsDir() {
		return Source{}, services.Wrap(services.ErrValidation, "source", "resolve", fmt.Sprintf("%s is a directory, not a video file", reference), nil)
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Source{}, services.Wrap(services.ErrIO, "source", "resolve", fmt.Sprintf("%s is not readable", reference), err)
	}
	return Source{Kind: Local, Reference: reference, Path: path}, nil
}
