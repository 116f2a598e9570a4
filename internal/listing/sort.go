package listing

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mkersey/subshell/internal/vfs"
)

// SortBy selects the comparison key for the visible listing.
type SortBy int

const (
	SortNatural SortBy = iota
	SortAlphabetical
	SortModified
	SortSize
	SortExtension
)

func (s SortBy) String() string {
	switch s {
	case SortNatural:
		return "natural"
	case SortAlphabetical:
		return "alphabetical"
	case SortModified:
		return "modified"
	case SortSize:
		return "size"
	case SortExtension:
		return "extension"
	}
	return "natural"
}

// ParseSortBy maps a stored config value back to a SortBy, defaulting to
// natural order for anything unrecognized.
func ParseSortBy(s string) SortBy {
	switch s {
	case "alphabetical":
		return SortAlphabetical
	case "modified":
		return SortModified
	case "size":
		return SortSize
	case "extension":
		return SortExtension
	}
	return SortNatural
}

// Direction orders the sort key ascending or descending. Directories always
// list before files regardless of direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection maps a stored config value back to a Direction.
func ParseDirection(s string) Direction {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

// natural compares names numerically aware and case-insensitively, so
// file2 sorts before file10.
var natural = collate.New(language.Und, collate.Numeric, collate.Loose)

// Sort orders items in place. Directories come first, then files; within
// each group the key comparison applies, reversed when descending. Equal
// keys keep their incoming order.
func Sort(items []Item, by SortBy, dir Direction) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Node, items[j].Node
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		cmp := compare(a, b, by)
		if dir == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func compare(a, b *vfs.Node, by SortBy) int {
	switch by {
	case SortAlphabetical:
		return strings.Compare(a.Name, b.Name)
	case SortModified:
		return compareTime(a.ModifiedAt, b.ModifiedAt)
	case SortSize:
		return compareInt(a.Size(), b.Size())
	case SortExtension:
		if c := natural.CompareString(a.Ext(), b.Ext()); c != 0 {
			return c
		}
		return natural.CompareString(a.Name, b.Name)
	default:
		return natural.CompareString(a.Name, b.Name)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
