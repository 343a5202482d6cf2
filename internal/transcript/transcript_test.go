package transcript

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"unicode/utf8"

	"vidscribe/internal/media"
)

func TestSanitizeBaseNameReplacesIllegalCharacters(t *testing.T) {
	title := `a/b\c:d*e?f"g<h>i|j` + strings.Repeat("x", 200)
	got := SanitizeBaseName(title)
	if strings.ContainsAny(got, `/\:*?"<>|`) {
		t.Fatalf("illegal characters survived: %q", got)
	}
	if !strings.HasPrefix(got, "a-b-c-d-e-f-g-h-i-j") {
		t.Fatalf("unexpected prefix: %q", got[:20])
	}
	if n := utf8.RuneCountInString(got); n != MaxBaseNameLength {
		t.Fatalf("length = %d", n)
	}
}

func TestSanitizeBaseNameCountsCharactersNotBytes(t *testing.T) {
	got := SanitizeBaseName(strings.Repeat("aé", 60))
	if got != strings.Repeat("aé", 60) {
		t.Fatalf("180-byte name of 120 characters must be kept, got %d runes", utf8.RuneCountInString(got))
	}
	got = SanitizeBaseName(strings.Repeat("é", 200))
	if utf8.RuneCountInString(got) != MaxBaseNameBytes/2 || !utf8.ValidString(got) {
		t.Fatalf("bad truncation: %d runes, valid=%v", utf8.RuneCountInString(got), utf8.ValidString(got))
	}
	if short := SanitizeBaseName("abc-Title"); short != "abc-Title" {
		t.Fatalf("short name changed: %q", short)
	}
}

func TestSanitizeBaseNameStaysWithinByteBudget(t *testing.T) {
	cases := map[string]string{
		"cjk":   strings.Repeat("日本語のタイトル", 30),
		"emoji": strings.Repeat("🎬", 100),
		"mixed": "x" + strings.Repeat("日", 100),
	}
	for name, title := range cases {
		got := BaseName("abc123", title)
		if len(got) > MaxBaseNameBytes || len(got)+len(".json") > 255 {
			t.Fatalf("%s: basename is %d bytes", name, len(got))
		}
		if !utf8.ValidString(got) || !strings.HasPrefix(got, "abc123-") {
			t.Fatalf("%s: bad basename %q", name, got)
		}
		if _, size := utf8.DecodeLastRuneInString(title); len(got)+size <= MaxBaseNameBytes && utf8.RuneCountInString(got) < MaxBaseNameLength {
			t.Fatalf("%s: trimmed more than needed (%d bytes)", name, len(got))
		}
	}
}

func TestWriterPersistsLongMultibyteTitle(t *testing.T) {
	dir := t.TempDir()
	doc := Document{
		Metadata: media.Metadata{ID: "abc123", Title: strings.Repeat("日本語のタイトル", 30)},
		Text:     "こんにちは 世界",
		Model:    "base",
	}
	files, err := NewWriter(nil).Write(context.Background(), dir, doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, path := range []string{files.TXT, files.JSON, files.MD} {
		if len(filepath.Base(path)) > 255 {
			t.Fatalf("file name too long: %d bytes", len(filepath.Base(path)))
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}
}

func TestPreviewAndWordCount(t *testing.T) {
	if Preview("short text") != "short text" {
		t.Fatal("short preview changed")
	}
	long := strings.Repeat("a", 501)
	p := Preview(long)
	if !strings.HasSuffix(p, "...") || len(p) != 503 {
		t.Fatalf("preview len = %d", len(p))
	}
	if Preview(strings.Repeat("b", 500)) != strings.Repeat("b", 500) {
		t.Fatal("exactly 500 characters must not be truncated")
	}
	if WordCount("  one two\tthree\nfour ") != 4 {
		t.Fatalf("word count = %d", WordCount("  one two\tthree\nfour "))
	}
	if WordCount("") != 0 {
		t.Fatal("empty text has words")
	}
}

func TestWriterProducesThreeSiblings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	doc := Document{
		Metadata: media.Metadata{
			ID:              "abc123",
			Title:           "Talk: Part 1/2",
			Channel:         "Conf",
			DurationSeconds: 95,
			UploadDate:      "20240501",
			Platform:        "YouTube",
			SourceReference: "https://youtu.be/abc123",
		},
		Text:  "hello world",
		Model: "base",
	}

	files, err := NewWriter(nil).Write(context.Background(), dir, doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	wantBase := filepath.Join(dir, "abc123-Talk- Part 1-2")
	if files.TXT != wantBase+".txt" || files.JSON != wantBase+".json" || files.MD != wantBase+".md" {
		t.Fatalf("unexpected files: %+v", files)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) != 3 {
		t.Fatalf("expected three transcript files, got %v", names)
	}

	txt, _ := os.ReadFile(files.TXT)
	if string(txt) != "hello world" {
		t.Fatalf("txt = %q", txt)
	}

	raw, _ := os.ReadFile(files.JSON)
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("json: %v", err)
	}
	for _, key := range []string{"metadata", "transcript", "model"} {
		if _, ok := parsed[key]; !ok {
			t.Fatalf("json missing %q: %s", key, raw)
		}
	}
	var meta map[string]any
	if err := json.Unmarshal(parsed["metadata"], &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["video_id"] != "abc123" || meta["url"] != "https://youtu.be/abc123" || meta["duration"] != float64(95) {
		t.Fatalf("metadata = %v", meta)
	}
	if !strings.Contains(string(raw), "\n  \"metadata\"") {
		t.Fatalf("json is not pretty-printed: %s", raw)
	}

	md, _ := os.ReadFile(files.MD)
	for _, want := range []string{"# Talk: Part 1/2", "**Platform:** YouTube", "**Duration:** 95s", "## Transcript", "hello world", "Model: base"} {
		if !strings.Contains(string(md), want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestWriterFailsWhenDirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewWriter(nil).Write(context.Background(), blocker, Document{Metadata: media.Metadata{ID: "a", Title: "b"}}); err == nil {
		t.Fatal("expected error")
	}
}
