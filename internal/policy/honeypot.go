package policy

import (
	"strings"

	"github.com/mkersey/subshell/internal/vfs"
)

const (
	honeypotMarker = "HONEYPOT"
	trapMarker     = "TRAP"
	trapSuffix     = ".trap"
	baitTokenFile  = "access_token.key"
)

// isHoneypot reports whether a node carries honeypot markers: the explicit
// flag (authoritative), the content marker, or the bait token filename.
func isHoneypot(n *vfs.Node) bool {
	if n.Honeypot {
		return true
	}
	if strings.Contains(n.Content, honeypotMarker) {
		return true
	}
	return n.Name == baitTokenFile
}

// isFatalTrap reports whether pasting the node ends the run outright.
func isFatalTrap(n *vfs.Node) bool {
	return strings.HasSuffix(n.Name, trapSuffix) || strings.Contains(n.Content, trapMarker)
}

// GrabAlert is the outcome of grabbing (cut/yank) a node set.
type GrabAlert struct {
	Triggered bool
	Message   string
}

// CheckGrab classifies a cut/yank node set. A hit is a warning, not a game
// over; the player is told to clear the clipboard.
func CheckGrab(nodes []*vfs.Node) GrabAlert {
	for _, n := range nodes {
		if isHoneypot(n) {
			return GrabAlert{
				Triggered: true,
				Message:   "HONEYPOT DETECTED! You grabbed a security trap file. Clear clipboard (Y) immediately!",
			}
		}
	}
	return GrabAlert{}
}

// PasteVerdict is the outcome of checking a clipboard before paste.
// Fatal verdicts end the run; warnings must be shown but are cleared by
// emptying the clipboard.
type PasteVerdict struct {
	Triggered bool
	Fatal     bool
	Message   string
}

// CheckPaste classifies a clipboard node set before pasting. Fatal markers
// take priority over warnings.
func CheckPaste(nodes []*vfs.Node) PasteVerdict {
	for _, n := range nodes {
		if isFatalTrap(n) {
			return PasteVerdict{
				Triggered: true,
				Fatal:     true,
				Message:   "SYSTEM TRAP SPRUNG. Deployment of trap payload detected.",
			}
		}
	}
	for _, n := range nodes {
		if isHoneypot(n) {
			return PasteVerdict{
				Triggered: true,
				Message:   "SYSTEM TRAP ACTIVE! Clipboard carries a marked asset. Clear it (Y) before deploying.",
			}
		}
	}
	return PasteVerdict{}
}

// Trap is a level-scoped delete tripwire. UnlessTask names a prerequisite
// task that disarms it once complete.
type Trap struct {
	NodeID     string
	Name       string
	UnlessTask string
	Fatal      bool
	Message    string
}

// DeleteVerdict is the outcome of the honeypot stage of a delete request.
type DeleteVerdict struct {
	Triggered bool
	Fatal     bool
	Message   string
}

// CheckDelete evaluates level traps against the pending delete set. Generic
// honeypot markers do not block deletes; only declared traps do.
func CheckDelete(nodes []*vfs.Node, traps []Trap, done []string) DeleteVerdict {
	for _, t := range traps {
		if t.UnlessTask != "" && contains(done, t.UnlessTask) {
			continue
		}
		for _, n := range nodes {
			if (t.NodeID != "" && t.NodeID == n.ID) || (t.Name != "" && t.Name == n.Name) {
				return DeleteVerdict{Triggered: true, Fatal: t.Fatal, Message: t.Message}
			}
		}
	}
	return DeleteVerdict{}
}

// criticalDirs are reserved top-level system names whose deletion from the
// root is always fatal, regardless of honeypot flags.
var criticalDirs = map[string]bool{
	"bin": true, "boot": true, "dev": true, "etc": true, "home": true,
	"lib": true, "lib64": true, "proc": true, "root": true, "run": true,
	"sbin": true, "sys": true, "usr": true, "var": true,
}

// CheckCritical reports whether the pending delete set, issued while
// positioned exactly at the root path, touches a reserved system name.
func CheckCritical(currentPath vfs.Path, rootID string, nodes []*vfs.Node) bool {
	if len(currentPath) != 1 || currentPath[0] != rootID {
		return false
	}
	for _, n := range nodes {
		if criticalDirs[n.Name] {
			return true
		}
	}
	return false
}
