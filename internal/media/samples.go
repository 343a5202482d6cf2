package media

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// SampleRate is the rate of normalized audio in hertz.
const SampleRate = 16000

// Samples is normalized audio: mono, 16 kHz, 32-bit float, in playback order.
type Samples []float32

// Duration reports the playback length.
func (s Samples) Duration() time.Duration {
	return time.Duration(len(s)) * time.Second / SampleRate
}

// DecodeF32LE decodes raw little-endian float32 PCM. A trailing partial
// sample is an error because it means the converter output was truncated.
func DecodeF32LE(raw []byte) (Samples, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("pcm stream length %d is not a multiple of 4", len(raw))
	}
	out := make(Samples, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}
