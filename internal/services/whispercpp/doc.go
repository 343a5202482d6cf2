// Package whispercpp wraps whisper.cpp speech recognition.
//
// Engine owns model resolution: weight files live in a local cache as
// ggml-<size>.bin and are never fetched automatically. Inference itself sits
// behind the Recognizer interface; CLIRecognizer drives the whisper-cli
// binary with greedy decoding on every available CPU.
package whispercpp
