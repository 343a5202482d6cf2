// Package transcript persists finished transcripts.
//
// Each transcription produces three siblings sharing a sanitized basename
// derived from the video id and title: the raw text, a pretty-printed JSON
// document with metadata, and a Markdown report.
package transcript
