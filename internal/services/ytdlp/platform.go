package ytdlp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var platformMarkers = []struct {
	name    string
	needles []string
}{
	{"YouTube", []string{"youtube.com", "youtu.be"}},
	{"Vimeo", []string{"vimeo.com"}},
	{"TikTok", []string{"tiktok.com"}},
	{"Twitter/X", []string{"twitter.com", "x.com"}},
	{"Facebook", []string{"facebook.com", "fb.watch"}},
	{"Instagram", []string{"instagram.com"}},
	{"Twitch", []string{"twitch.tv"}},
}

var titleCaser = cases.Title(language.English)

// DetectPlatform names the hosting platform of url. Well-known hosts are
// matched by substring first; otherwise the yt-dlp extractor name is used.
func DetectPlatform(url, extractor string) string {
	lower := strings.ToLower(url)
	for _, marker := range platformMarkers {
		for _, needle := range marker.needles {
			if strings.Contains(lower, needle) {
				return marker.name
			}
		}
	}
	extractor = strings.TrimSpace(extractor)
	if extractor == "" {
		return "Unknown"
	}
	// Extractor keys such as "youtube:tab" name a sub-extractor after the colon.
	name, _, _ := strings.Cut(extractor, ":")
	return titleCaser.String(name)
}
