package transcript

import "strings"

// PreviewLength is the number of characters kept in a preview.
const PreviewLength = 500

// Preview returns the first PreviewLength characters of text, suffixed with
// "..." when anything was cut.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
