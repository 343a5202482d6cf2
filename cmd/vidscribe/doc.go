// Command vidscribe is a video transcription server speaking the Model
// Context Protocol over stdio or HTTP, plus a handful of local commands for
// transcribing, checking dependencies, and browsing saved transcripts.
//
// Running vidscribe with no subcommand serves the protocol on the configured
// transport, so it can be registered directly as an MCP server.
package main
