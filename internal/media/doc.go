// Package media holds the data passed between pipeline stages: video
// metadata and normalized PCM samples.
package media
