package level

// ActionKind tags one entry in the append-only action log. Tasks that care
// about how the player did something (visited a place, used cut vs yank)
// read the log instead of flags scattered through the model.
type ActionKind int

const (
	ActionNavigate ActionKind = iota
	ActionJump
	ActionCut
	ActionYank
	ActionPaste
	ActionForcePaste
	ActionDelete
	ActionRename
	ActionCreate
	ActionFilter
	ActionSearch
	ActionSort
)

func (k ActionKind) String() string {
	switch k {
	case ActionNavigate:
		return "navigate"
	case ActionJump:
		return "jump"
	case ActionCut:
		return "cut"
	case ActionYank:
		return "yank"
	case ActionPaste:
		return "paste"
	case ActionForcePaste:
		return "force-paste"
	case ActionDelete:
		return "delete"
	case ActionRename:
		return "rename"
	case ActionCreate:
		return "create"
	case ActionFilter:
		return "filter"
	case ActionSearch:
		return "search"
	case ActionSort:
		return "sort"
	}
	return "unknown"
}

// Action is one recorded event. Name is the node acted on (empty for pure
// navigation) and Where the display path of the directory it happened in.
type Action struct {
	Kind  ActionKind
	Name  string
	Where string
}

// Did reports whether the log holds any action of the given kind.
func (s Snapshot) Did(kind ActionKind) bool {
	for _, a := range s.Actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// DidAt reports whether an action of the given kind was recorded in the
// directory with the given display path.
func (s Snapshot) DidAt(kind ActionKind, where string) bool {
	for _, a := range s.Actions {
		if a.Kind == kind && a.Where == where {
			return true
		}
	}
	return false
}

// DidOn reports whether an action of the given kind touched a node with the
// given name.
func (s Snapshot) DidOn(kind ActionKind, name string) bool {
	for _, a := range s.Actions {
		if a.Kind == kind && a.Name == name {
			return true
		}
	}
	return false
}
