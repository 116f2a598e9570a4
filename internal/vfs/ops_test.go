package vfs

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func testTree() *Node {
	root := &Node{ID: "root", Name: "/", Kind: KindDir}
	docs := &Node{ID: "docs", Name: "docs", Kind: KindDir}
	note := &Node{ID: "note", Name: "note.txt", Kind: KindFile, Content: "hello"}
	readme := &Node{ID: "readme", Name: "readme.md", Kind: KindFile}
	docs.Children = []*Node{note}
	root.Children = []*Node{docs, readme}
	return Normalize(root)
}

func TestNodeByPath(t *testing.T) {
	root := testTree()

	n := NodeByPath(root, Path{"root", "docs", "note"})
	if n == nil || n.Name != "note.txt" {
		t.Fatalf("NodeByPath = %v, want note.txt", n)
	}

	if NodeByPath(root, Path{"root", "nope"}) != nil {
		t.Error("missing segment should resolve to nil")
	}
	if NodeByPath(root, Path{"docs"}) != nil {
		t.Error("path not starting at root should resolve to nil")
	}

	// Same path, same node, every time.
	again := NodeByPath(root, Path{"root", "docs", "note"})
	if again != n {
		t.Error("repeated lookup returned a different node")
	}
}

func TestPathByID(t *testing.T) {
	root := testTree()
	p, ok := PathByID(root, "note")
	if !ok || !p.Equal(Path{"root", "docs", "note"}) {
		t.Fatalf("PathByID = %v, %v", p, ok)
	}
	if _, ok := PathByID(root, "ghost"); ok {
		t.Error("unknown ID should not resolve")
	}
}

func TestResolve(t *testing.T) {
	root := testTree()
	if got := Resolve(root, Path{"root", "docs", "note"}); got != "/docs/note.txt" {
		t.Errorf("Resolve = %q", got)
	}
	if got := Resolve(root, Path{"root"}); got != "/" {
		t.Errorf("Resolve root = %q", got)
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	root := testTree()
	before := Clone(root)

	child := NewFile("new.txt", "x", testNow)
	newRoot, err := Add(root, Path{"root", "docs"}, child)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !reflect.DeepEqual(root, before) {
		t.Error("Add mutated the input tree")
	}
	if NodeByPath(newRoot, Path{"root", "docs", child.ID}) == nil {
		t.Error("added node not reachable in new tree")
	}
}

func TestAddConflict(t *testing.T) {
	root := testTree()
	dupe := NewFile("note.txt", "", testNow)
	if _, err := Add(root, Path{"root", "docs"}, dupe); !errors.Is(err, ErrConflict) {
		t.Errorf("Add same name+kind = %v, want ErrConflict", err)
	}

	// Same name, different kind is allowed.
	dir := NewDir("note.txt", testNow)
	if _, err := Add(root, Path{"root", "docs"}, dir); err != nil {
		t.Errorf("Add same name different kind = %v", err)
	}
}

func TestAddBadTarget(t *testing.T) {
	root := testTree()
	if _, err := Add(root, Path{"root", "ghost"}, NewFile("a", "", testNow)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Add to missing dir = %v, want ErrNotFound", err)
	}
	if _, err := Add(root, Path{"root", "readme"}, NewFile("a", "", testNow)); !errors.Is(err, ErrNotDir) {
		t.Errorf("Add into file = %v, want ErrNotDir", err)
	}
}

func TestRemoveThenAddRestoresTree(t *testing.T) {
	root := testTree()
	note := NodeByID(root, "note")
	snapshot := Clone(note)

	removed, err := Remove(root, Path{"root", "docs"}, "note")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if NodeByID(removed, "note") != nil {
		t.Fatal("node still present after Remove")
	}

	restored, err := Add(removed, Path{"root", "docs"}, snapshot)
	if err != nil {
		t.Fatalf("Add back: %v", err)
	}
	if !reflect.DeepEqual(restored, root) {
		t.Error("delete then reinsert did not restore the original tree")
	}
}

func TestRemoveMissing(t *testing.T) {
	root := testTree()
	if _, err := Remove(root, Path{"root", "docs"}, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	root := testTree()
	newRoot, err := Rename(root, Path{"root", "docs"}, "note", "renamed.txt", testNow)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	n := NodeByID(newRoot, "note")
	if n.Name != "renamed.txt" {
		t.Errorf("name = %q", n.Name)
	}
	if !n.ModifiedAt.Equal(testNow) {
		t.Error("ModifiedAt not stamped")
	}
	// ID survives the rename.
	if NodeByID(root, "note").Name != "note.txt" {
		t.Error("Rename mutated the input tree")
	}
}

func TestRenameConflict(t *testing.T) {
	root := testTree()
	if _, err := Rename(root, Path{"root"}, "docs", "readme.md", testNow); !errors.Is(err, ErrConflict) {
		t.Errorf("Rename onto sibling = %v, want ErrConflict", err)
	}
	// Renaming to its own name is not a conflict.
	if _, err := Rename(root, Path{"root", "docs"}, "note", "note.txt", testNow); err != nil {
		t.Errorf("Rename to self = %v", err)
	}
}

func TestUniqueName(t *testing.T) {
	siblings := []*Node{
		{Name: "file.txt"},
		{Name: "file_1.txt"},
		{Name: "plain"},
	}
	cases := []struct{ in, want string }{
		{"file.txt", "file_2.txt"},
		{"plain", "plain_1"},
		{"fresh.md", "fresh.md"},
		{".hidden", ".hidden"},
	}
	for _, c := range cases {
		if got := UniqueName(siblings, c.in); got != c.want {
			t.Errorf("UniqueName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAddRenamedResolvesCollision(t *testing.T) {
	root := testTree()
	dupe := NewFile("note.txt", "other", testNow)
	newRoot, err := AddRenamed(root, Path{"root", "docs"}, dupe)
	if err != nil {
		t.Fatalf("AddRenamed: %v", err)
	}
	if NodeByPath(newRoot, Path{"root", "docs", dupe.ID}) == nil {
		t.Fatal("renamed node missing")
	}
	if NodeByID(newRoot, dupe.ID).Name != "note_1.txt" {
		t.Errorf("collision name = %q, want note_1.txt", NodeByID(newRoot, dupe.ID).Name)
	}
}

func TestReissueGeneratesFreshIDs(t *testing.T) {
	root := testTree()
	docs := NodeByID(root, "docs")
	cp := Reissue(docs)
	if cp.ID == docs.ID {
		t.Error("Reissue kept the root ID")
	}
	if cp.Children[0].ID == docs.Children[0].ID {
		t.Error("Reissue kept a child ID")
	}
	if cp.Children[0].ParentID != cp.ID {
		t.Error("Reissue broke parent links")
	}
	if cp.Children[0].Name != docs.Children[0].Name {
		t.Error("Reissue changed content")
	}
}

func TestCanonicalChildOrder(t *testing.T) {
	root := &Node{ID: "r", Name: "/", Kind: KindDir, Children: []*Node{
		{ID: "1", Name: "zebra.txt", Kind: KindFile},
		{ID: "2", Name: "Apple", Kind: KindDir},
		{ID: "3", Name: "banana", Kind: KindDir},
		{ID: "4", Name: "alpha.txt", Kind: KindFile},
	}}
	Normalize(root)
	var names []string
	for _, c := range root.Children {
		names = append(names, c.Name)
	}
	want := []string{"Apple", "banana", "alpha.txt", "zebra.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestCreatePath(t *testing.T) {
	root := testTree()

	res, err := CreatePath(root, Path{"root", "docs"}, "sub/deep/file.txt", testNow)
	if err != nil {
		t.Fatalf("CreatePath: %v", err)
	}
	sub := NodeByPath(res.Root, Path{"root", "docs"})
	var deep *Node
	for _, c := range sub.Children {
		if c.Name == "sub" {
			deep = c
		}
	}
	if deep == nil || !deep.IsDir() {
		t.Fatal("intermediate dir not created")
	}
	if res.CreatedName != "file.txt" {
		t.Errorf("CreatedName = %q", res.CreatedName)
	}

	// Trailing slash makes a directory.
	res, err = CreatePath(root, Path{"root"}, "newdir/", testNow)
	if err != nil {
		t.Fatalf("CreatePath dir: %v", err)
	}
	var nd *Node
	for _, c := range res.Root.Children {
		if c.Name == "newdir" {
			nd = c
		}
	}
	if nd == nil || !nd.IsDir() {
		t.Error("trailing slash should create a directory")
	}
}

func TestCreatePathCollision(t *testing.T) {
	root := testTree()
	res, err := CreatePath(root, Path{"root", "docs"}, "note.txt", testNow)
	if err != nil {
		t.Fatalf("CreatePath: %v", err)
	}
	if res.Collision == nil || res.Collision.ID != "note" {
		t.Errorf("Collision = %v, want existing note", res.Collision)
	}
	if !reflect.DeepEqual(res.Root, root) {
		t.Error("collision should leave the tree unchanged")
	}
}

func TestCreateInsideFile(t *testing.T) {
	root := testTree()
	if _, err := CreatePath(root, Path{"root"}, "readme.md/child.txt", testNow); err == nil {
		t.Error("creating under a file should fail")
	}
}

func TestFlatten(t *testing.T) {
	root := testTree()
	entries := Flatten(root, Path{"root"})
	if len(entries) != 3 {
		t.Fatalf("Flatten count = %d, want 3", len(entries))
	}
	displays := map[string]bool{}
	for _, e := range entries {
		displays[e.Display] = true
	}
	if !displays["docs/note.txt"] {
		t.Errorf("relative display paths wrong: %v", displays)
	}
}
