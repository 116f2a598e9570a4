package vfs

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// Node is a single entry in the virtual tree. Directories carry Children,
// files carry Content. IDs are stable and never reused; a node keeps its ID
// across renames and moves.
type Node struct {
	ID         string
	Name       string
	Kind       Kind
	Children   []*Node
	Content    string
	Honeypot   bool
	ModifiedAt time.Time
	ParentID   string
}

// Path addresses a node as the sequence of IDs from the root (inclusive).
type Path []string

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parent returns the path with the final segment dropped, or nil at root.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return append(Path{}, p[:len(p)-1]...)
}

func (p Path) Clone() Path {
	return append(Path{}, p...)
}

func (n *Node) IsDir() bool {
	return n.Kind == KindDir
}

// Hidden reports whether the node's name marks it as a dotfile.
func (n *Node) Hidden() bool {
	return strings.HasPrefix(n.Name, ".")
}

// Size is the display size: content length for files, child count for dirs.
func (n *Node) Size() int {
	if n.IsDir() {
		return len(n.Children)
	}
	return len(n.Content)
}

// Ext returns the lowercased extension without the dot, or "".
func (n *Node) Ext() string {
	idx := strings.LastIndex(n.Name, ".")
	if idx <= 0 || idx == len(n.Name)-1 {
		return ""
	}
	return strings.ToLower(n.Name[idx+1:])
}

// NewID generates a fresh random node ID.
func NewID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; keep going with zeros
		return "n000000000000"
	}
	return "n" + hex.EncodeToString(buf)
}

// NewFile builds a file node with a fresh ID.
func NewFile(name, content string, now time.Time) *Node {
	return &Node{
		ID:         NewID(),
		Name:       name,
		Kind:       KindFile,
		Content:    content,
		ModifiedAt: now,
	}
}

// NewDir builds a directory node with a fresh ID, adopting the children.
func NewDir(name string, now time.Time, children ...*Node) *Node {
	d := &Node{
		ID:         NewID(),
		Name:       name,
		Kind:       KindDir,
		Children:   children,
		ModifiedAt: now,
	}
	for _, c := range children {
		c.ParentID = d.ID
	}
	return d
}
