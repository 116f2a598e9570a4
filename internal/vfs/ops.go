package vfs

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// All operations here are pure: they never mutate their input tree. Mutating
// operations clone the whole tree first and return the new root; the caller's
// snapshot stays valid and inspectable.

// Clone returns a deep, fully independent copy of the tree. Used when seeding
// a level from a shared template so live mutations never leak back.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = Clone(c)
		}
	}
	return &out
}

// Reissue returns a deep copy with fresh IDs throughout. Yank-paste inserts
// reissued copies so duplicated subtrees never violate ID uniqueness.
func Reissue(n *Node) *Node {
	return reissue(n, n.ParentID)
}

func reissue(n *Node, parentID string) *Node {
	out := *n
	out.ID = NewID()
	out.ParentID = parentID
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = reissue(c, out.ID)
		}
	}
	return &out
}

// NodeByID finds a node anywhere in the tree by ID, depth-first.
func NodeByID(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, c := range root.Children {
		if found := NodeByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// NodeByPath walks the ID sequence from the root. Returns nil if any segment
// is absent among the current node's children.
func NodeByPath(root *Node, p Path) *Node {
	if root == nil || len(p) == 0 || p[0] != root.ID {
		return nil
	}
	current := root
	for i := 1; i < len(p); i++ {
		var next *Node
		for _, c := range current.Children {
			if c.ID == p[i] {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// PathByID is the inverse lookup: the root-to-node ID path for a node reached
// outside normal traversal (e.g. from search results).
func PathByID(root *Node, id string) (Path, bool) {
	if root == nil {
		return nil, false
	}
	if root.ID == id {
		return Path{root.ID}, true
	}
	for _, c := range root.Children {
		if sub, ok := PathByID(c, id); ok {
			return append(Path{root.ID}, sub...), true
		}
	}
	return nil, false
}

// Resolve joins node names along the path for user-facing messages. Not used
// for addressing.
func Resolve(root *Node, p Path) string {
	if root == nil || len(p) <= 1 || p[0] != root.ID {
		return "/"
	}
	var b strings.Builder
	current := root
	for i := 1; i < len(p); i++ {
		var next *Node
		for _, c := range current.Children {
			if c.ID == p[i] {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		b.WriteString("/")
		b.WriteString(next.Name)
		current = next
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Add inserts a clone of child into the directory at dirPath, preserving the
// child's IDs. Fails with ErrNotFound/ErrNotDir for a bad target and
// ErrConflict when a sibling with the same name and kind exists.
func Add(root *Node, dirPath Path, child *Node) (*Node, error) {
	newRoot := Clone(root)
	parent := NodeByPath(newRoot, dirPath)
	if parent == nil {
		return nil, fmt.Errorf("target directory: %w", ErrNotFound)
	}
	if !parent.IsDir() {
		return nil, fmt.Errorf("%s: %w", parent.Name, ErrNotDir)
	}
	for _, c := range parent.Children {
		if c.Name == child.Name && c.Kind == child.Kind {
			return nil, fmt.Errorf("%s: %w", child.Name, ErrConflict)
		}
	}
	insert(parent, Clone(child))
	return newRoot, nil
}

// AddRenamed is Add with conflict resolution: on a name collision the child
// is inserted under a derived unique name instead of failing.
func AddRenamed(root *Node, dirPath Path, child *Node) (*Node, error) {
	newRoot := Clone(root)
	parent := NodeByPath(newRoot, dirPath)
	if parent == nil {
		return nil, fmt.Errorf("target directory: %w", ErrNotFound)
	}
	if !parent.IsDir() {
		return nil, fmt.Errorf("%s: %w", parent.Name, ErrNotDir)
	}
	cp := Clone(child)
	cp.Name = UniqueName(parent.Children, cp.Name)
	insert(parent, cp)
	return newRoot, nil
}

// Remove deletes the child with the given ID from the directory at dirPath.
func Remove(root *Node, dirPath Path, id string) (*Node, error) {
	newRoot := Clone(root)
	parent := NodeByPath(newRoot, dirPath)
	if parent == nil || !parent.IsDir() {
		return nil, fmt.Errorf("target directory: %w", ErrNotFound)
	}
	for i, c := range parent.Children {
		if c.ID == id {
			parent.Children = append(parent.Children[:i:i], parent.Children[i+1:]...)
			return newRoot, nil
		}
	}
	return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
}

// Rename changes the name of the child with the given ID, refusing sibling
// collisions and stamping ModifiedAt.
func Rename(root *Node, dirPath Path, id, newName string, now time.Time) (*Node, error) {
	newRoot := Clone(root)
	parent := NodeByPath(newRoot, dirPath)
	if parent == nil || !parent.IsDir() {
		return nil, fmt.Errorf("target directory: %w", ErrNotFound)
	}
	var target *Node
	for _, c := range parent.Children {
		if c.ID == id {
			target = c
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	for _, c := range parent.Children {
		if c.Name == newName && c.ID != id {
			return nil, fmt.Errorf("%s: %w", newName, ErrConflict)
		}
	}
	target.Name = newName
	target.ModifiedAt = now
	sortChildren(parent)
	return newRoot, nil
}

// UniqueName derives a sibling-unique name by appending _1, _2, ... before
// the final extension. The exact format is an implementation detail, not a
// contract; only uniqueness is guaranteed.
func UniqueName(siblings []*Node, name string) string {
	taken := func(candidate string) bool {
		for _, c := range siblings {
			if c.Name == candidate {
				return true
			}
		}
		return false
	}
	if !taken(name) {
		return name
	}
	base, ext := name, ""
	if idx := strings.LastIndex(name, "."); idx > 0 {
		base, ext = name[:idx], name[idx:]
	}
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		if !taken(candidate) {
			return candidate
		}
	}
}

// Normalize canonicalizes a hand-built tree in place: parent links are set
// and children sorted into canonical order, recursively. Returns root for
// chaining.
func Normalize(root *Node) *Node {
	if root == nil {
		return nil
	}
	for _, c := range root.Children {
		c.ParentID = root.ID
		Normalize(c)
	}
	if root.IsDir() {
		sortChildren(root)
	}
	return root
}

// insert places the child in canonical order (dirs first, then
// case-insensitive name). Keeping children canonically ordered makes
// delete-then-reinsert restore the exact prior tree.
func insert(parent *Node, child *Node) {
	child.ParentID = parent.ID
	parent.Children = append(parent.Children, child)
	sortChildren(parent)
}

func sortChildren(parent *Node) {
	sort.SliceStable(parent.Children, func(i, j int) bool {
		a, b := parent.Children[i], parent.Children[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
