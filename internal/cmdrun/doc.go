// Package cmdrun executes external programs and captures their output.
//
// Every subprocess vidscribe starts (yt-dlp, ffmpeg, whisper-cli) goes
// through a Runner so services can be tested with a scripted Recorder
// instead of real binaries.
package cmdrun
