package whispercpp

import (
	"fmt"
	"strings"
)

// Model is a whisper.cpp model size.
type Model string

const (
	Tiny   Model = "tiny"
	Base   Model = "base"
	Small  Model = "small"
	Medium Model = "medium"
	Large  Model = "large"
)

// DefaultModel is used when a request names no model or an unknown one.
const DefaultModel = Base

// Models lists every supported size, smallest first.
var Models = []Model{Tiny, Base, Small, Medium, Large}

const downloadBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// ParseModel recognizes a model name case-insensitively.
func ParseModel(name string) (Model, bool) {
	candidate := Model(strings.ToLower(strings.TrimSpace(name)))
	for _, m := range Models {
		if m == candidate {
			return m, true
		}
	}
	return "", false
}

// ResolveModel parses name, falling back to DefaultModel without error.
func ResolveModel(name string) Model {
	if m, ok := ParseModel(name); ok {
		return m
	}
	return DefaultModel
}

// FileName is the canonical weight file name, e.g. ggml-base.bin.
func (m Model) FileName() string {
	return fmt.Sprintf("ggml-%s.bin", m)
}

// DownloadURL is where the weight file can be fetched manually.
func (m Model) DownloadURL() string {
	return downloadBaseURL + m.FileName()
}

// Title renders the size for human-readable reports ("Base").
func (m Model) Title() string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
