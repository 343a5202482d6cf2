// Package ytdlp retrieves video metadata and audio through the yt-dlp CLI.
//
// The client never talks to the network itself; every operation is one
// yt-dlp invocation through a cmdrun.Runner, so tests script the output.
package ytdlp
