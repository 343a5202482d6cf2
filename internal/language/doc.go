// Package language normalizes requested transcription languages.
//
// Requests may carry "auto", an ISO 639 code, a BCP 47 tag, or a spelled-out
// name. Select turns any of these into the constraint handed to the speech
// recognizer.
package language
