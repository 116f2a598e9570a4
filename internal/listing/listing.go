// Package listing computes the derived view: the filtered, sorted,
// hidden-aware sequence of entries the player currently sees. Everything
// here is a pure projection of the tree plus view settings.
package listing

import (
	"regexp"
	"strings"

	"github.com/mkersey/subshell/internal/vfs"
)

// Item is one visible row. Path carries the full ID path when the item came
// from a search result set (its logical location may differ from the
// current directory); it is nil for plain directory listings.
type Item struct {
	Node    *vfs.Node
	Path    vfs.Path
	Display string
}

// Query bundles every input the derived view depends on.
type Query struct {
	Root        *vfs.Node
	CurrentPath vfs.Path
	Filters     map[string]string // directory ID -> filter pattern
	Search      []vfs.FlatEntry   // globally resolved result set
	SearchOn    bool
	ShowHidden  bool
	SortBy      SortBy
	Direction   Direction
}

// Visible computes the current view. With a search active the view is the
// search result set (sorted, ignoring the current path); otherwise the
// current directory's children after hidden/filter/sort processing.
func Visible(q Query) []Item {
	if q.SearchOn {
		items := make([]Item, 0, len(q.Search))
		for _, e := range q.Search {
			items = append(items, Item{Node: e.Node, Path: e.Path, Display: e.Display})
		}
		Sort(items, q.SortBy, q.Direction)
		return items
	}

	dir := vfs.NodeByPath(q.Root, q.CurrentPath)
	if dir == nil || !dir.IsDir() {
		return nil
	}

	items := make([]Item, 0, len(dir.Children))
	for _, c := range dir.Children {
		if !q.ShowHidden && c.Hidden() {
			continue
		}
		items = append(items, Item{Node: c, Display: c.Name})
	}

	if pattern := q.Filters[dir.ID]; pattern != "" {
		re := FilterRegex(pattern)
		if re == nil {
			// Invalid pattern shows nothing rather than everything.
			return nil
		}
		filtered := items[:0]
		for _, it := range items {
			if re.MatchString(it.Node.Name) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	Sort(items, q.SortBy, q.Direction)
	return items
}

// FilterRegex compiles a filter pattern with smart-case: patterns containing
// an uppercase letter match case-sensitively, all-lowercase patterns do not.
// Returns nil for an invalid pattern.
func FilterRegex(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	if pattern == strings.ToLower(pattern) {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	return re
}

// Search finds descendants of the directory at start whose names match the
// query pattern. Hidden entries are skipped (and not descended into) unless
// showHidden is set.
func Search(root *vfs.Node, start vfs.Path, query string, showHidden bool) []vfs.FlatEntry {
	if query == "" {
		return nil
	}
	re := FilterRegex(query)
	if re == nil {
		return nil
	}
	var results []vfs.FlatEntry
	for _, e := range flattenVisible(root, start, showHidden) {
		if re.MatchString(e.Node.Name) {
			results = append(results, e)
		}
	}
	return results
}

func flattenVisible(root *vfs.Node, start vfs.Path, showHidden bool) []vfs.FlatEntry {
	startNode := vfs.NodeByPath(root, start)
	if startNode == nil {
		return nil
	}
	var results []vfs.FlatEntry
	var traverse func(n *vfs.Node, p vfs.Path, prefix string)
	traverse = func(n *vfs.Node, p vfs.Path, prefix string) {
		for _, c := range n.Children {
			if !showHidden && c.Hidden() {
				continue
			}
			display := c.Name
			if prefix != "" {
				display = prefix + "/" + c.Name
			}
			childPath := append(p.Clone(), c.ID)
			results = append(results, vfs.FlatEntry{Node: c, Path: childPath, Display: display})
			if c.IsDir() {
				traverse(c, childPath, display)
			}
		}
	}
	traverse(startNode, start.Clone(), "")
	return results
}
