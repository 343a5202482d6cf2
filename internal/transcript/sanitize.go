package transcript

import (
	"strings"
	"unicode/utf8"
)

// MaxBaseNameLength caps persisted basenames, counted in characters.
const MaxBaseNameLength = 150

// MaxBaseNameBytes caps the encoded basename so the longest sibling
// ("<base>.json") fits the 255-byte NAME_MAX of common filesystems.
const MaxBaseNameBytes = 240

var baseNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	"\"", "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// SanitizeBaseName makes name safe to use as a file basename: path and shell
// sensitive characters become "-" and the result is cut on a character
// boundary to at most MaxBaseNameLength characters and MaxBaseNameBytes bytes.
func SanitizeBaseName(name string) string {
	safe := baseNameReplacer.Replace(name)
	if len(safe) <= MaxBaseNameBytes && utf8.RuneCountInString(safe) <= MaxBaseNameLength {
		return safe
	}
	end := 0
	for count := 0; count < MaxBaseNameLength && end < len(safe); count++ {
		_, size := utf8.DecodeRuneInString(safe[end:])
		if end+size > MaxBaseNameBytes {
			break
		}
		end += size
	}
	return safe[:end]
}

// BaseName derives the shared basename of the three transcript files.
func BaseName(videoID, title string) string {
	return SanitizeBaseName(videoID + "-" + title)
}
