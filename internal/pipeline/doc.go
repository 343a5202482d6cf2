// Package pipeline turns a video reference into a persisted transcript.
//
// A run moves through init, resolve_source, acquire_media, extract_audio,
// transcribe and persist. The first failing stage aborts the run and is
// reported as a *StageError naming that stage. Remote references download
// into a scratch workspace that is removed when the run returns, whichever
// stage failed. There is no cancellation: each stage blocks until its
// external tool exits.
package pipeline
