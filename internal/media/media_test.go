package media

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestLocalMetadataUsesFileStem(t *testing.T) {
	meta := LocalMetadata("/videos/My Talk.final.mp4")
	if meta.ID != "My Talk.final" || meta.Title != "My Talk.final" {
		t.Fatalf("unexpected id/title: %+v", meta)
	}
	if meta.Channel != "Local File" || meta.Platform != "Local File" {
		t.Fatalf("unexpected channel/platform: %+v", meta)
	}
	if meta.DurationSeconds != 0 {
		t.Fatalf("expected zero duration, got %d", meta.DurationSeconds)
	}
	if meta.SourceReference != "/videos/My Talk.final.mp4" {
		t.Fatalf("unexpected source: %q", meta.SourceReference)
	}
}

func TestDecodeF32LE(t *testing.T) {
	want := []float32{0, 0.5, -1}
	raw := make([]byte, 0, len(want)*4)
	for _, v := range want {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	got, err := DecodeF32LE(raw)
	if err != nil {
		t.Fatalf("DecodeF32LE: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeF32LERejectsPartialSample(t *testing.T) {
	if _, err := DecodeF32LE([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated stream")
	}
}

func TestSamplesDuration(t *testing.T) {
	s := make(Samples, SampleRate*3/2)
	if s.Duration() != 1500*time.Millisecond {
		t.Fatalf("duration = %v", s.Duration())
	}
}
