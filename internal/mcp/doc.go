// Package mcp implements the JSON-RPC protocol surface of the transcription
// server: envelope decoding, method routing, the tool registry, and the
// handlers that bridge tool calls onto the pipeline, dependency checker, and
// transcript catalog.
//
// The dispatcher is transport agnostic. Transports feed it raw lines or
// bodies through HandleMessage and write back whatever Response it returns;
// it never fails a whole connection because of one bad request.
package mcp
