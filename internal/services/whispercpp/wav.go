package whispercpp

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"vidscribe/internal/media"
)

// writeWAVFile stores samples as 16-bit mono PCM at media.SampleRate, the
// input format whisper-cli reads.
func writeWAVFile(path string, samples media.Samples) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(file)
	if err := writeWAV(buf, samples); err != nil {
		file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeWAV(w io.Writer, samples media.Samples) error {
	const (
		channels      = 1
		bitsPerSample = 16
		blockAlign    = channels * bitsPerSample / 8
		byteRate      = media.SampleRate * blockAlign
	)
	dataSize := uint32(len(samples) * blockAlign)

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36) + dataSize,
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(channels),
		uint32(media.SampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	frame := make([]byte, 2)
	for _, s := range samples {
		binary.LittleEndian.PutUint16(frame, uint16(toPCM16(s)))
		if _, err := w.Write(frame); err != nil {
			return err
		}
	}
	return nil
}

func toPCM16(s float32) int16 {
	if math.IsNaN(float64(s)) {
		return 0
	}
	v := float64(s) * math.MaxInt16
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(math.Round(v))
	}
}
