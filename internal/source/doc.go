// Package source classifies video references as remote URLs or local files.
package source
