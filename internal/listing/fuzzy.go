package listing

import (
	"github.com/sahilm/fuzzy"

	"github.com/mkersey/subshell/internal/vfs"
)

type entrySource []vfs.FlatEntry

func (s entrySource) String(i int) string { return s[i].Display }
func (s entrySource) Len() int            { return len(s) }

// Match is one ranked picker row, carrying the display rune positions the
// query hit so the view can highlight them.
type Match struct {
	Entry          vfs.FlatEntry
	MatchedIndexes []int
}

// FuzzyMatches filters and orders entries by fuzzy match quality against
// the query, best match first. An empty query returns every entry with no
// highlight positions.
func FuzzyMatches(entries []vfs.FlatEntry, query string) []Match {
	if query == "" {
		all := make([]Match, 0, len(entries))
		for _, e := range entries {
			all = append(all, Match{Entry: e})
		}
		return all
	}
	found := fuzzy.FindFrom(query, entrySource(entries))
	ranked := make([]Match, 0, len(found))
	for _, m := range found {
		ranked = append(ranked, Match{Entry: entries[m.Index], MatchedIndexes: m.MatchedIndexes})
	}
	return ranked
}

// FuzzyRank is FuzzyMatches without the highlight positions, for callers
// that only need the ordering.
func FuzzyRank(entries []vfs.FlatEntry, query string) []vfs.FlatEntry {
	matches := FuzzyMatches(entries, query)
	ranked := make([]vfs.FlatEntry, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.Entry)
	}
	return ranked
}

// FileCandidates lists every file below the directory at start, for the
// fuzzy jump picker. Hidden files are included only when showHidden is set.
func FileCandidates(root *vfs.Node, start vfs.Path, showHidden bool) []vfs.FlatEntry {
	var files []vfs.FlatEntry
	for _, e := range flattenVisible(root, start, showHidden) {
		if !e.Node.IsDir() {
			files = append(files, e)
		}
	}
	return files
}
