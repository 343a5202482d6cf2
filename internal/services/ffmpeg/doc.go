// Package ffmpeg extracts and normalizes audio with the ffmpeg CLI.
//
// ExtractCompressed produces an intermediate MP3 from downloaded media;
// Normalize produces the mono 16 kHz float32 PCM the speech engine consumes.
package ffmpeg
