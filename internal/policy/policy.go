// Package policy gates destructive and navigational operations on the
// virtual tree against level-defined rules, and classifies honeypot traps.
// Every check is a pure function of its inputs: identical inputs always
// produce identical results, so call sites may safely re-check a node
// before and after a mutation.
package policy

import (
	"fmt"

	"github.com/mkersey/subshell/internal/vfs"
)

type Op int

const (
	OpDelete Op = iota
	OpCut
	OpRename
	OpEnter
	OpJump
	OpAdd
)

func (o Op) String() string {
	switch o {
	case OpDelete:
		return "delete"
	case OpCut:
		return "cut"
	case OpRename:
		return "rename"
	case OpEnter:
		return "enter"
	case OpJump:
		return "jump"
	case OpAdd:
		return "add"
	}
	return "unknown"
}

// Rule denies a set of operations on a node matched by stable ID or by
// display name. UnlessTask names a task ID that lifts the rule once it is
// recorded complete for the current level.
type Rule struct {
	NodeID     string
	Name       string
	Ops        []Op
	Reason     string
	UnlessTask string
}

func (r Rule) matches(node *vfs.Node, op Op) bool {
	if r.NodeID != "" && r.NodeID != node.ID {
		return false
	}
	if r.Name != "" && r.Name != node.Name {
		return false
	}
	if r.NodeID == "" && r.Name == "" {
		return false
	}
	for _, o := range r.Ops {
		if o == op {
			return true
		}
	}
	return false
}

// System directories protected against structural changes near the root,
// regardless of level rules.
var systemDirs = map[string]bool{
	"root": true, "home": true, "guest": true, "etc": true,
	"tmp": true, "bin": true, "usr": true, "var": true,
}

// Check evaluates whether op on node (a child of the directory at dirPath)
// is permitted. Returns "" when allowed, otherwise a reason the caller
// surfaces verbatim to the player.
func Check(root *vfs.Node, dirPath vfs.Path, node *vfs.Node, rules []Rule, op Op, done []string) string {
	for _, r := range rules {
		if !r.matches(node, op) {
			continue
		}
		if r.UnlessTask != "" && contains(done, r.UnlessTask) {
			continue
		}
		return r.Reason
	}

	if node.IsDir() && systemDirs[node.Name] && len(dirPath) <= 3 {
		if op == OpDelete || op == OpRename || op == OpCut {
			return fmt.Sprintf("System integrity protection: %s", node.Name)
		}
	}

	return ""
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
