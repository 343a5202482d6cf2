// Package transport carries protocol envelopes between clients and an
// mcp.Dispatcher.
//
// ServeStdio serves a single client over line-delimited stdin/stdout.
// HTTPServer serves many clients, each in its own session keyed by the
// Mcp-Session-Id header with its own dispatcher, created on initialize.
// Within one session requests are handled one at a time.
package transport
