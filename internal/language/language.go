package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto requests automatic language detection.
const Auto = "auto"

// wordForms maps spelled-out language names to ISO 639-1 codes. Callers
// sometimes pass "english" instead of "en".
var wordForms = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
	"turkish":    "tr",
	"ukrainian":  "uk",
}

// Selection is the recognition-language constraint for one request.
// Translation is never enabled, forced or not.
type Selection struct {
	// Code is the language passed to the recognizer. Empty when not forced.
	Code string
	// Forced reports whether recognition is constrained to Code.
	Forced bool
}

// String returns the code or "auto".
func (s Selection) String() string {
	if !s.Forced {
		return Auto
	}
	return s.Code
}

// Select maps a requested language onto a Selection. An empty value or
// exactly "auto" leaves detection to the recognizer; anything else forces
// that language, normalized to its base code when it parses as a BCP 47 tag
// (en-US -> en, eng -> en). Unparseable codes are passed through unchanged.
func Select(code string) Selection {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || trimmed == Auto {
		return Selection{}
	}
	return Selection{Code: ToISO(trimmed), Forced: true}
}

// ToISO converts a language word, tag, or code to the shortest ISO 639 code
// x/text knows for it. Unrecognized input is returned lowercased.
func ToISO(code string) string {
	lower := strings.ToLower(strings.TrimSpace(code))
	if lower == "" {
		return ""
	}
	if mapped, ok := wordForms[lower]; ok {
		return mapped
	}
	tag, err := language.Parse(lower)
	if err != nil {
		return lower
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return lower
	}
	return base.String()
}

// DisplayName returns the English name for a language code, "Auto-detect"
// for automatic selection, or the uppercased code when unknown.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || trimmed == Auto {
		return "Auto-detect"
	}
	tag, err := language.Parse(ToISO(trimmed))
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return strings.ToUpper(trimmed)
	}
	return name
}
