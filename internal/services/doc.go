// Package services defines shared utilities consumed by the transcription
// pipeline and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures from yt-dlp,
//     ffmpeg, whisper.cpp, and the filesystem carry a consistent shape.
//
// Subpackages wrap one external tool each (ytdlp, ffmpeg, whispercpp).
package services
