package catalog

import (
	"path/filepath"
	"sort"
	"strings"
)

// Group collects the sibling files of one transcribed video.
//
// Files are grouped by the text before the first "-" in their name, which is
// the video id for names produced by the transcript writer. Ids that
// themselves contain "-" split across groups; the rule is kept as is.
type Group struct {
	VideoID string
	Title   string
	// Main is the representative file: the .txt when present.
	Main  Resource
	Files []Resource
}

// Extensions lists the file extensions in the group without dots.
func (g Group) Extensions() []string {
	out := make([]string, 0, len(g.Files))
	for _, f := range g.Files {
		out = append(out, strings.TrimPrefix(filepath.Ext(f.Name), "."))
	}
	return out
}

// GroupKey returns the grouping key for a file name.
func GroupKey(name string) string {
	key, _, _ := strings.Cut(name, "-")
	return key
}

// GroupResources groups resources by GroupKey, ordered by key.
func GroupResources(resources []Resource) []Group {
	byKey := make(map[string]*Group)
	var keys []string
	for _, res := range resources {
		key := GroupKey(res.Name)
		g, ok := byKey[key]
		if !ok {
			g = &Group{VideoID: key}
			byKey[key] = g
			keys = append(keys, key)
		}
		g.Files = append(g.Files, res)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		g := byKey[key]
		g.Main = g.Files[0]
		for _, f := range g.Files {
			if strings.EqualFold(filepath.Ext(f.Name), ".txt") {
				g.Main = f
				break
			}
		}
		g.Title = titleFromName(g.Main.Name, key)
		groups = append(groups, *g)
	}
	return groups
}

func titleFromName(name, key string) string {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	title = strings.TrimPrefix(title, key+"-")
	return strings.ReplaceAll(title, "-", " ")
}
