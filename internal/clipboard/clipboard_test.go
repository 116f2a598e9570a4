package clipboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkersey/subshell/internal/vfs"
)

var now = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func tree() *vfs.Node {
	root := &vfs.Node{ID: "root", Name: "/", Kind: vfs.KindDir, Children: []*vfs.Node{
		{ID: "src", Name: "src", Kind: vfs.KindDir, Children: []*vfs.Node{
			{ID: "a", Name: "a.txt", Kind: vfs.KindFile, Content: "alpha"},
			{ID: "b", Name: "b.txt", Kind: vfs.KindFile, Content: "beta"},
		}},
		{ID: "dst", Name: "dst", Kind: vfs.KindDir, Children: []*vfs.Node{
			{ID: "a2", Name: "a.txt", Kind: vfs.KindFile, Content: "old"},
		}},
	}}
	return vfs.Normalize(root)
}

func TestGrabSnapshotsAndDedups(t *testing.T) {
	root := tree()
	a := vfs.NodeByID(root, "a")

	cb := Grab(root, []*vfs.Node{a, a, nil}, OpCut)
	require.Len(t, cb.Entries, 1)
	assert.True(t, cb.Entries[0].Origin.Equal(vfs.Path{"root", "src"}))
	assert.True(t, cb.Contains("a"))

	// The snapshot is independent of the live tree.
	a.Content = "mutated"
	assert.Equal(t, "alpha", cb.Entries[0].Node.Content)
}

func TestCutPasteMoves(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "b")}, OpCut)

	report := Paste(root, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)
	assert.Equal(t, 1, report.Pasted)

	assert.Nil(t, vfs.NodeByPath(report.Root, vfs.Path{"root", "src", "b"}))
	assert.NotNil(t, vfs.NodeByPath(report.Root, vfs.Path{"root", "dst", "b"}))
	// Cut preserves the node ID across the move.
	assert.Equal(t, "b.txt", vfs.NodeByID(report.Root, "b").Name)
	// Input tree untouched.
	assert.NotNil(t, vfs.NodeByPath(root, vfs.Path{"root", "src", "b"}))
}

func TestCutPasteSurvivesDeletedOrigin(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "b")}, OpCut)

	// The original vanishes before the paste.
	pruned, err := vfs.Remove(root, vfs.Path{"root", "src"}, "b")
	require.NoError(t, err)

	report := Paste(pruned, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)
	assert.NotNil(t, vfs.NodeByPath(report.Root, vfs.Path{"root", "dst", "b"}))
}

func TestYankPasteDuplicatesWithFreshIDs(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "b")}, OpYank)

	report := Paste(root, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)

	// Original stays put.
	assert.NotNil(t, vfs.NodeByPath(report.Root, vfs.Path{"root", "src", "b"}))
	dst := vfs.NodeByPath(report.Root, vfs.Path{"root", "dst"})
	var pasted *vfs.Node
	for _, c := range dst.Children {
		if c.Name == "b.txt" {
			pasted = c
		}
	}
	require.NotNil(t, pasted)
	assert.NotEqual(t, "b", pasted.ID, "yank paste must reissue IDs")

	// The clipboard survives for repeat pastes; pasting again renames.
	report = Paste(report.Root, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)
	dst = vfs.NodeByPath(report.Root, vfs.Path{"root", "dst"})
	names := map[string]bool{}
	for _, c := range dst.Children {
		names[c.Name] = true
	}
	assert.True(t, names["b_1.txt"], "second paste should rename: %v", names)
}

func TestPasteCollisionRenames(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "a")}, OpYank)

	report := Paste(root, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)
	dst := vfs.NodeByPath(report.Root, vfs.Path{"root", "dst"})
	names := map[string]string{}
	for _, c := range dst.Children {
		names[c.Name] = c.Content
	}
	assert.Equal(t, "old", names["a.txt"], "existing file untouched by plain paste")
	assert.Equal(t, "alpha", names["a_1.txt"])
}

func TestForcePasteOverwrites(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "a")}, OpYank)

	report := ForcePaste(root, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)
	dst := vfs.NodeByPath(report.Root, vfs.Path{"root", "dst"})
	require.Len(t, dst.Children, 1)
	assert.Equal(t, "a.txt", dst.Children[0].Name)
	assert.Equal(t, "alpha", dst.Children[0].Content)
	// Source copy stays for a yank.
	assert.Equal(t, "alpha", vfs.NodeByPath(report.Root, vfs.Path{"root", "src", "a"}).Content)
}

func TestForcePasteCutRemovesOrigin(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "a")}, OpCut)

	report := ForcePaste(root, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)
	assert.Nil(t, vfs.NodeByPath(report.Root, vfs.Path{"root", "src", "a"}))
	dst := vfs.NodeByPath(report.Root, vfs.Path{"root", "dst"})
	require.Len(t, dst.Children, 1)
	assert.Equal(t, "alpha", dst.Children[0].Content)
}

func TestForcePasteIntoOwnDirectory(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "a")}, OpCut)

	report := ForcePaste(root, vfs.Path{"root", "src"}, cb)
	require.NoError(t, report.Err)
	src := vfs.NodeByPath(report.Root, vfs.Path{"root", "src"})
	count := 0
	for _, c := range src.Children {
		if c.Name == "a.txt" {
			count++
		}
	}
	assert.Equal(t, 1, count, "pasting over itself must not drop or duplicate the node")
}

func TestForcePasteCutDirIntoOwnSubtreeRefused(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "src")}, OpCut)

	// Moving src into root/src/... would remove the origin subtree and the
	// freshly inserted copy with it.
	report := ForcePaste(root, vfs.Path{"root", "src"}, cb)
	require.Error(t, report.Err)
	assert.Equal(t, 0, report.Pasted)
	assert.Equal(t, "src", report.Failed)

	// Nothing was lost: the directory and its files are still in place.
	src := vfs.NodeByPath(report.Root, vfs.Path{"root", "src"})
	require.NotNil(t, src)
	assert.Len(t, src.Children, 2)
}

func TestForcePasteOnlyReplacesMatchingKind(t *testing.T) {
	root := tree()
	// A directory named a.txt next to the file should survive a file paste.
	withDir, err := vfs.Add(root, vfs.Path{"root", "dst"}, vfs.NewDir("a.txt", now))
	require.NoError(t, err)

	cb := Grab(withDir, []*vfs.Node{vfs.NodeByID(withDir, "a")}, OpYank)
	report := ForcePaste(withDir, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)

	dst := vfs.NodeByPath(report.Root, vfs.Path{"root", "dst"})
	var dirs, files int
	for _, c := range dst.Children {
		if c.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	assert.Equal(t, 1, dirs)
	assert.Equal(t, 1, files)
}

func TestPastePartialFailureReportsNode(t *testing.T) {
	root := tree()
	cb := Grab(root, []*vfs.Node{vfs.NodeByID(root, "a"), vfs.NodeByID(root, "b")}, OpYank)

	// Target a file, not a directory: every entry fails, the first is named.
	report := Paste(root, vfs.Path{"root", "dst", "a2"}, cb)
	require.Error(t, report.Err)
	assert.Equal(t, 0, report.Pasted)
	assert.Equal(t, "a.txt", report.Failed)
	// Root is still usable.
	assert.NotNil(t, vfs.NodeByID(report.Root, "a"))
}

func TestEmptyClipboard(t *testing.T) {
	root := tree()
	var cb Clipboard
	assert.True(t, cb.Empty())
	report := Paste(root, vfs.Path{"root", "dst"}, cb)
	require.NoError(t, report.Err)
	assert.Equal(t, 0, report.Pasted)
	assert.Equal(t, root, report.Root)
}
