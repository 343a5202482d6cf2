// Package catalog exposes persisted transcripts as browsable resources.
package catalog
