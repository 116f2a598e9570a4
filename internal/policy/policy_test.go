package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkersey/subshell/internal/vfs"
)

func node(id, name string, kind vfs.Kind) *vfs.Node {
	return &vfs.Node{ID: id, Name: name, Kind: kind}
}

func TestRuleMatchByID(t *testing.T) {
	rules := []Rule{{
		NodeID: "key1",
		Ops:    []Op{OpDelete},
		Reason: "key material is protected",
	}}
	root := node("root", "/", vfs.KindDir)
	target := node("key1", "access_key.pem", vfs.KindFile)

	reason := Check(root, vfs.Path{"root", "dir"}, target, rules, OpDelete, nil)
	assert.Equal(t, "key material is protected", reason)

	// A different op on the same node is fine.
	assert.Empty(t, Check(root, vfs.Path{"root", "dir"}, target, rules, OpCut, nil))
	// A different node with the same name is fine when matching by ID.
	other := node("key2", "access_key.pem", vfs.KindFile)
	assert.Empty(t, Check(root, vfs.Path{"root", "dir"}, other, rules, OpDelete, nil))
}

func TestRuleMatchByName(t *testing.T) {
	rules := []Rule{{
		Name:   "daemon.conf",
		Ops:    []Op{OpDelete, OpRename},
		Reason: "live config",
	}}
	root := node("root", "/", vfs.KindDir)
	target := node("x", "daemon.conf", vfs.KindFile)

	assert.Equal(t, "live config", Check(root, vfs.Path{"root"}, target, rules, OpRename, nil))
	assert.Empty(t, Check(root, vfs.Path{"root"}, node("y", "other.conf", vfs.KindFile), rules, OpRename, nil))
}

func TestRuleUnlessTask(t *testing.T) {
	rules := []Rule{{
		Name:       "daemon.conf",
		Ops:        []Op{OpDelete},
		Reason:     "live config",
		UnlessTask: "deploy-conf",
	}}
	root := node("root", "/", vfs.KindDir)
	target := node("x", "daemon.conf", vfs.KindFile)

	assert.NotEmpty(t, Check(root, vfs.Path{"root"}, target, rules, OpDelete, nil))
	assert.Empty(t, Check(root, vfs.Path{"root"}, target, rules, OpDelete, []string{"deploy-conf"}))
}

func TestEmptyRuleNeverMatches(t *testing.T) {
	rules := []Rule{{Ops: []Op{OpDelete}, Reason: "broken rule"}}
	root := node("root", "/", vfs.KindDir)
	assert.Empty(t, Check(root, vfs.Path{"root"}, node("x", "any", vfs.KindFile), rules, OpDelete, nil))
}

func TestSystemDirProtection(t *testing.T) {
	root := node("root", "/", vfs.KindDir)
	etc := node("e", "etc", vfs.KindDir)

	// Shallow system dirs refuse structural ops even without level rules.
	assert.NotEmpty(t, Check(root, vfs.Path{"root"}, etc, nil, OpDelete, nil))
	assert.NotEmpty(t, Check(root, vfs.Path{"root"}, etc, nil, OpRename, nil))
	assert.NotEmpty(t, Check(root, vfs.Path{"root"}, etc, nil, OpCut, nil))
	// Entering is always fine.
	assert.Empty(t, Check(root, vfs.Path{"root"}, etc, nil, OpEnter, nil))
	// A deep directory that happens to share a system name is fair game.
	deep := vfs.Path{"root", "a", "b", "c"}
	assert.Empty(t, Check(root, deep, etc, nil, OpDelete, nil))
	// System names only protect directories, not files.
	assert.Empty(t, Check(root, vfs.Path{"root"}, node("f", "etc", vfs.KindFile), nil, OpDelete, nil))
}

func TestCheckGrab(t *testing.T) {
	flagged := node("h", "data.txt", vfs.KindFile)
	flagged.Honeypot = true
	marked := node("m", "notes.txt", vfs.KindFile)
	marked.Content = "xx HONEYPOT xx"
	bait := node("b", "access_token.key", vfs.KindFile)
	clean := node("c", "clean.txt", vfs.KindFile)

	for _, n := range []*vfs.Node{flagged, marked, bait} {
		alert := CheckGrab([]*vfs.Node{clean, n})
		assert.True(t, alert.Triggered, "node %s should trigger", n.Name)
		assert.NotEmpty(t, alert.Message)
	}
	assert.False(t, CheckGrab([]*vfs.Node{clean}).Triggered)
}

func TestCheckPasteFatalTakesPriority(t *testing.T) {
	warning := node("w", "access_token.key", vfs.KindFile)
	fatal := node("f", "danger.trap", vfs.KindFile)

	verdict := CheckPaste([]*vfs.Node{warning, fatal})
	assert.True(t, verdict.Triggered)
	assert.True(t, verdict.Fatal)

	verdict = CheckPaste([]*vfs.Node{warning})
	assert.True(t, verdict.Triggered)
	assert.False(t, verdict.Fatal)

	assert.False(t, CheckPaste([]*vfs.Node{node("c", "ok.txt", vfs.KindFile)}).Triggered)
}

func TestTrapContentMarker(t *testing.T) {
	payload := node("p", "innocent.txt", vfs.KindFile)
	payload.Content = "TRAP"
	assert.True(t, CheckPaste([]*vfs.Node{payload}).Fatal)
}

func TestCheckDelete(t *testing.T) {
	traps := []Trap{
		{Name: "manifest.db", UnlessTask: "backup", Fatal: true, Message: "tripwire"},
		{NodeID: "lock1", Fatal: false, Message: "lock touched"},
	}
	manifest := node("m", "manifest.db", vfs.KindFile)
	lock := node("lock1", ".purge_lock", vfs.KindFile)
	clean := node("c", "junk.bin", vfs.KindFile)

	verdict := CheckDelete([]*vfs.Node{manifest}, traps, nil)
	assert.True(t, verdict.Triggered)
	assert.True(t, verdict.Fatal)

	// The prerequisite task disarms the trap.
	verdict = CheckDelete([]*vfs.Node{manifest}, traps, []string{"backup"})
	assert.False(t, verdict.Triggered)

	verdict = CheckDelete([]*vfs.Node{lock}, traps, nil)
	assert.True(t, verdict.Triggered)
	assert.False(t, verdict.Fatal)

	assert.False(t, CheckDelete([]*vfs.Node{clean}, traps, nil).Triggered)
}

func TestCheckCritical(t *testing.T) {
	etc := node("e", "etc", vfs.KindDir)
	junk := node("j", "junk", vfs.KindDir)

	// Only deletes issued from the root itself count.
	assert.True(t, CheckCritical(vfs.Path{"root"}, "root", []*vfs.Node{etc}))
	assert.False(t, CheckCritical(vfs.Path{"root", "sub"}, "root", []*vfs.Node{etc}))
	assert.False(t, CheckCritical(vfs.Path{"root"}, "root", []*vfs.Node{junk}))
}
