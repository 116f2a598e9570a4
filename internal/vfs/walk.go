package vfs

// DirEntry is a directory with its full ID path and display string,
// used to feed the zoxide jump candidate list.
type DirEntry struct {
	Path    Path
	Display string
}

// Dirs lists every directory in the tree, root first, with display paths.
func Dirs(root *Node) []DirEntry {
	var results []DirEntry
	var traverse func(n *Node, p Path, display string)
	traverse = func(n *Node, p Path, display string) {
		results = append(results, DirEntry{Path: p, Display: display})
		for _, c := range n.Children {
			if !c.IsDir() {
				continue
			}
			childDisplay := display + "/" + c.Name
			if display == "/" {
				childDisplay = "/" + c.Name
			}
			traverse(c, append(p.Clone(), c.ID), childDisplay)
		}
	}
	traverse(root, Path{root.ID}, "/")
	return results
}

// FlatEntry is a node with its full ID path and its path relative to the
// flatten start, used by recursive search and the fuzzy finder.
type FlatEntry struct {
	Node    *Node
	Path    Path
	Display string
}

// Flatten returns every descendant of the directory at start, depth-first,
// with display paths relative to it. Returns nil when start does not resolve.
func Flatten(root *Node, start Path) []FlatEntry {
	startNode := NodeByPath(root, start)
	if startNode == nil {
		return nil
	}
	var results []FlatEntry
	var traverse func(n *Node, p Path, prefix string)
	traverse = func(n *Node, p Path, prefix string) {
		for _, c := range n.Children {
			display := c.Name
			if prefix != "" {
				display = prefix + "/" + c.Name
			}
			childPath := append(p.Clone(), c.ID)
			results = append(results, FlatEntry{Node: c, Path: childPath, Display: display})
			if c.IsDir() {
				traverse(c, childPath, display)
			}
		}
	}
	traverse(startNode, start.Clone(), "")
	return results
}
