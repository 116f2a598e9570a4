package level

import (
	"time"

	"github.com/mkersey/subshell/internal/vfs"
)

// Structural directories carry fixed IDs so jump targets and initial paths
// can be declared as path literals. Content files get random IDs at seed
// time.
const (
	RootID      = "fs-root"
	HomeID      = "d-home"
	GuestID     = "d-guest"
	WorkspaceID = "d-workspace"
	IncomingID  = "d-incoming"
	DatastoreID = "d-datastore"
	ConfigID    = "d-config"
	TmpID       = "d-tmp"
	EtcID       = "d-etc"
	RootDirID   = "d-root"
	VarID       = "d-var"
)

// JumpTargets maps g-command suffix keys to directory paths. Absent keys
// fall through to normal mode with no effect.
func JumpTargets() map[string]vfs.Path {
	guest := vfs.Path{RootID, HomeID, GuestID}
	return map[string]vfs.Path{
		"h": guest,
		"c": append(guest.Clone(), ConfigID),
		"w": append(guest.Clone(), WorkspaceID),
		"i": append(guest.Clone(), IncomingID),
		"d": append(guest.Clone(), DatastoreID),
		"t": {RootID, TmpID},
		"r": {RootID, RootDirID},
	}
}

// GuestPath is the default starting directory for most stages.
func GuestPath() vfs.Path { return vfs.Path{RootID, HomeID, GuestID} }

func dir(id, name string, now time.Time, children ...*vfs.Node) *vfs.Node {
	return &vfs.Node{
		ID:         id,
		Name:       name,
		Kind:       vfs.KindDir,
		Children:   children,
		ModifiedAt: now,
	}
}

func file(name, content string, now time.Time) *vfs.Node {
	return vfs.NewFile(name, content, now)
}

// baseTree builds the shared system skeleton every stage starts from.
// Stages graft their own content on before normalizing.
func baseTree(now time.Time) *vfs.Node {
	old := now.Add(-72 * time.Hour)
	return dir(RootID, "/", now,
		vfs.NewDir("bin", old,
			file("sh", "#!ELF", old),
			file("ls", "#!ELF", old),
			file("cat", "#!ELF", old),
		),
		dir(EtcID, "etc", old,
			file("hosts", "127.0.0.1 localhost\n", old),
			file("passwd", "root:x:0:0\nguest:x:1000:1000\n", old),
			file("shadow", "root:*:19000::\n", old),
		),
		dir(HomeID, "home", now,
			dir(GuestID, "guest", now,
				dir(WorkspaceID, "workspace", now),
				dir(IncomingID, "incoming", now),
				dir(DatastoreID, "datastore", now),
				dir(ConfigID, ".config", old,
					file("shellrc", "export PS1='guest$ '\n", old),
				),
				file(".profile", "# guest profile\n", now),
				file("readme.txt", "Welcome, operator. Your objectives are on the quest map (m).\n", now),
			),
		),
		dir(RootDirID, "root", old,
			file(".bash_history", "whoami\nexit\n", old),
		),
		dir(TmpID, "tmp", now),
		vfs.NewDir("usr", old,
			vfs.NewDir("share", old),
		),
		dir(VarID, "var", old,
			vfs.NewDir("log", old,
				file("syslog", "boot ok\n", old),
			),
		),
	)
}

// graft appends a node under the directory reached by names, then returns
// the root. Panics on a bad seed path; seeds are static, so this only fires
// on a programming error.
func graft(root *vfs.Node, node *vfs.Node, names ...string) *vfs.Node {
	parent := byNames(root, names...)
	if parent == nil || !parent.IsDir() {
		panic("seed graft: missing directory " + joinNames(names))
	}
	parent.Children = append(parent.Children, node)
	return root
}

func joinNames(names []string) string {
	out := ""
	for _, n := range names {
		out += "/" + n
	}
	return out
}
