// Package level defines the campaign: seeded trees, tasks, protection
// rules, traps, and per-level constraints like time limits and keystroke
// budgets.
package level

import (
	"time"

	"github.com/mkersey/subshell/internal/clipboard"
	"github.com/mkersey/subshell/internal/policy"
	"github.com/mkersey/subshell/internal/vfs"
)

// Snapshot is the read-only world state task checks run against.
type Snapshot struct {
	Root        *vfs.Node
	CurrentPath vfs.Path
	Clipboard   clipboard.Clipboard
	Actions     []Action
	Keystrokes  int
	Elapsed     time.Duration
}

// Task is one objective. Check must be a pure predicate over the snapshot.
// Hidden tasks are optional: they surface in the quest map only once they
// pass and never gate level completion.
type Task struct {
	ID          string
	Description string
	Hidden      bool
	Check       func(Snapshot) bool
}

// Level is one campaign stage. Seed builds a fresh tree on every (re)start.
// TimeLimit and MaxKeystrokes are zero when unconstrained. RequireCut
// disables yank for the stage and RequireYank disables cut; at most one is
// set.
type Level struct {
	ID          int
	Title       string
	Description string
	Hints       []string
	Seed        func(now time.Time) *vfs.Node
	InitialPath vfs.Path
	Tasks       []Task
	Protection  []policy.Rule
	Traps       []policy.Trap
	TimeLimit   time.Duration
	MaxKeys     int
	RequireCut  bool
	RequireYank bool
}

// Progress folds newly passing tasks into done. Completion is one-way: a
// task recorded complete stays complete even if later mutations would fail
// its check again.
func (l Level) Progress(done []string, snap Snapshot) []string {
	for _, t := range l.Tasks {
		if containsStr(done, t.ID) {
			continue
		}
		if t.Check != nil && t.Check(snap) {
			done = append(done, t.ID)
		}
	}
	return done
}

// AllComplete reports whether every visible task is done. Hidden tasks are
// bonus objectives and do not hold the level open.
func (l Level) AllComplete(done []string) bool {
	for _, t := range l.Tasks {
		if t.Hidden {
			continue
		}
		if !containsStr(done, t.ID) {
			return false
		}
	}
	return true
}

// Task returns the task with the given ID, or nil.
func (l Level) Task(id string) *Task {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			return &l.Tasks[i]
		}
	}
	return nil
}

func containsStr(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

// byNames walks child names from the root and returns the node at the end,
// or nil. Task checks address nodes by display names so they survive
// reissued IDs.
func byNames(root *vfs.Node, names ...string) *vfs.Node {
	current := root
	for _, name := range names {
		if current == nil || !current.IsDir() {
			return nil
		}
		var next *vfs.Node
		for _, c := range current.Children {
			if c.Name == name {
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

// countMatching counts descendants of n (n excluded) satisfying pred.
func countMatching(n *vfs.Node, pred func(*vfs.Node) bool) int {
	if n == nil {
		return 0
	}
	total := 0
	for _, c := range n.Children {
		if pred(c) {
			total++
		}
		total += countMatching(c, pred)
	}
	return total
}
