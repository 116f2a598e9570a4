package main

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/mkersey/subshell/internal/clipboard"
	"github.com/mkersey/subshell/internal/config"
	"github.com/mkersey/subshell/internal/level"
	"github.com/mkersey/subshell/internal/listing"
	"github.com/mkersey/subshell/internal/sound"
	"github.com/mkersey/subshell/internal/vfs"
	"github.com/mkersey/subshell/internal/zoxide"
)

// tickMsg drives the game clock. All game logic runs on the single Bubble
// Tea message loop; there is no other writer to the model.
type tickMsg time.Time

// Terminal dimension constants
const (
	minTerminalWidth  = 60
	minTerminalHeight = 20
	uiOverhead        = 9 // header + status + borders + padding
)

const (
	notifyDuration    = 4 * time.Second
	advanceDelay      = 2 * time.Second
	maxHistoryEntries = 100
)

type mode int

const (
	modeNormal mode = iota
	modeRename
	modeInputFile
	modeFilter
	modeSearch
	modeSort
	modeGCommand
	modeConfirmDelete
	modeOverwriteConfirm
	modeZoxide
	modeFzf
	modeQuestMap
	modeHelp
	modeHint
	modeFilterWarning
	modeSearchWarning
	modeSortWarning
	modeLevelComplete
	modeGameOver
)

// validTransitions whitelists mode changes. Anything not listed is a
// programming error and the transition is ignored rather than corrupting
// interactive state.
var validTransitions = map[mode][]mode{
	modeNormal: {
		modeRename, modeInputFile, modeFilter, modeSearch, modeSort,
		modeGCommand, modeConfirmDelete, modeOverwriteConfirm, modeZoxide,
		modeFzf, modeQuestMap, modeHelp, modeHint, modeFilterWarning,
		modeSearchWarning, modeSortWarning, modeLevelComplete, modeGameOver,
	},
	modeRename:           {modeNormal},
	modeInputFile:        {modeNormal},
	modeFilter:           {modeNormal},
	modeSearch:           {modeNormal},
	modeSort:             {modeNormal, modeGameOver},
	modeGCommand:         {modeNormal, modeSearchWarning},
	modeConfirmDelete:    {modeNormal, modeGameOver},
	modeOverwriteConfirm: {modeNormal, modeGameOver},
	modeZoxide:           {modeNormal},
	modeFzf:              {modeNormal},
	modeQuestMap:         {modeNormal},
	modeHelp:             {modeNormal},
	modeHint:             {modeNormal},
	modeFilterWarning:    {modeNormal},
	modeSearchWarning:    {modeNormal},
	modeSortWarning:      {modeNormal, modeSort},
	modeLevelComplete:    {modeNormal},
	modeGameOver:         {modeNormal},
}

// Timer and budget expiry are checked on tick; both can interrupt any mode.
func canTransition(from, to mode) bool {
	if from == to {
		return true
	}
	if to == modeGameOver || to == modeLevelComplete {
		return true
	}
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type model struct {
	mode   mode
	width  int
	height int

	cfg *config.Config
	snd *sound.Player

	// Campaign position
	campaign []level.Level
	levelIdx int
	lvl      level.Level

	// World state
	root        *vfs.Node
	currentPath vfs.Path
	history     []vfs.Path
	future      []vfs.Path

	// Derived view
	visible      []listing.Item
	cursor       int
	scrollOffset int
	selected     map[string]bool

	// View settings
	filters    map[string]string // directory ID -> pattern
	searchOn   bool
	searchFrom vfs.Path
	results    []vfs.FlatEntry
	showHidden bool
	sortBy     listing.SortBy
	sortDir    listing.Direction

	// Clipboard
	cb        clipboard.Clipboard
	cbWarning bool // honeypot warning holds normal paste until cleared

	// Progress
	done       []string
	actions    []level.Action
	keystrokes int
	startedAt  time.Time
	elapsed    time.Duration
	hintIdx    int
	completeAt time.Time

	// Transient UI
	textInput     textinput.Model
	statusMsg     string
	statusExpiry  time.Time
	gameOverMsg   string
	pendingIDs    []string // delete set awaiting confirmation
	pickerItems   []vfs.FlatEntry
	pickerCursor  int
	zoxPaths      []string
	pendingNav    navDir // navigation held back by the filter warning
	forcedWarning string // honeypot message surfaced after a forced paste
}

// navDir tags which navigation a filter warning interrupted, so accepting
// the warning can resume it.
type navDir int

const (
	navUp navDir = iota
	navBack
	navForward
)

func initialModel(cfg *config.Config, startLevel int) model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := model{
		mode:       modeNormal,
		cfg:        cfg,
		snd:        sound.New(cfg.SoundEnabled),
		campaign:   level.Campaign(),
		showHidden: cfg.ShowHidden,
		sortBy:     listing.ParseSortBy(cfg.SortBy),
		sortDir:    listing.ParseDirection(cfg.SortDirection),
		textInput:  ti,
		selected:   make(map[string]bool),
		filters:    make(map[string]string),
	}

	idx := startLevel - 1
	if idx < 0 || idx >= len(m.campaign) {
		idx = 0
	}
	m.startLevel(idx)
	return m
}

// startLevel seeds (or reseeds) the stage at idx and resets all per-level
// state. Persistent settings and zoxide habits survive.
func (m *model) startLevel(idx int) {
	now := time.Now()
	m.levelIdx = idx
	m.lvl = m.campaign[idx]
	m.root = m.lvl.Seed(now)
	m.currentPath = m.lvl.InitialPath.Clone()
	if vfs.NodeByPath(m.root, m.currentPath) == nil {
		m.currentPath = vfs.Path{m.root.ID}
	}
	m.history = nil
	m.future = nil
	m.cursor = 0
	m.scrollOffset = 0
	m.selected = make(map[string]bool)
	m.filters = make(map[string]string)
	m.searchOn = false
	m.results = nil
	m.cb = clipboard.Clipboard{}
	m.cbWarning = false
	m.done = nil
	m.actions = nil
	m.keystrokes = 0
	m.startedAt = now
	m.elapsed = 0
	m.hintIdx = 0
	m.completeAt = time.Time{}
	m.gameOverMsg = ""
	m.pendingIDs = nil
	m.pendingNav = navUp
	m.forcedWarning = ""
	m.mode = modeNormal
	m.touchZoxide()
	m.refresh()
}

// setMode applies a transition if the table allows it; invalid requests are
// dropped.
func (m *model) setMode(to mode) {
	if !canTransition(m.mode, to) {
		return
	}
	m.mode = to
}

// query assembles the derived-view inputs from current state.
func (m *model) query() listing.Query {
	return listing.Query{
		Root:        m.root,
		CurrentPath: m.currentPath,
		Filters:     m.filters,
		Search:      m.results,
		SearchOn:    m.searchOn,
		ShowHidden:  m.showHidden,
		SortBy:      m.sortBy,
		Direction:   m.sortDir,
	}
}

// refresh recomputes the visible listing, keeping the cursor on the same
// node when it survives the change and clamping to the top when it does
// not.
func (m *model) refresh() {
	var keepID string
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		keepID = m.visible[m.cursor].Node.ID
	}
	m.visible = listing.Visible(m.query())

	m.cursor = 0
	if keepID != "" {
		for i, it := range m.visible {
			if it.Node.ID == keepID {
				m.cursor = i
				break
			}
		}
	}
	m.clampScroll()

	// Drop selections for nodes no longer on screen or in the tree.
	for id := range m.selected {
		if vfs.NodeByID(m.root, id) == nil {
			delete(m.selected, id)
		}
	}
}

func (m *model) clampScroll() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	visibleHeight := m.contentHeight() - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	if m.scrollOffset > m.cursor {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visibleHeight {
		m.scrollOffset = m.cursor - visibleHeight + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m *model) contentHeight() int {
	h := m.safeHeight() - uiOverhead
	if h < 3 {
		h = 3
	}
	return h
}

func (m *model) safeWidth() int {
	if m.width < minTerminalWidth {
		return minTerminalWidth
	}
	return m.width
}

func (m *model) safeHeight() int {
	if m.height < minTerminalHeight {
		return minTerminalHeight
	}
	return m.height
}

// highlighted returns the item under the cursor, or nil on an empty view.
func (m *model) highlighted() *listing.Item {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor]
}

// actionSet returns the items the next operation applies to: the marked
// set when non-empty, otherwise the highlighted item.
func (m *model) actionSet() []listing.Item {
	if len(m.selected) > 0 {
		var items []listing.Item
		for _, it := range m.visible {
			if m.selected[it.Node.ID] {
				items = append(items, it)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	if it := m.highlighted(); it != nil {
		return []listing.Item{*it}
	}
	return nil
}

// itemDir returns the ID path of the directory containing the item. Items
// from search results carry their own path; plain listings live under the
// current directory.
func (m *model) itemDir(it listing.Item) vfs.Path {
	if len(it.Path) > 0 {
		return it.Path.Parent()
	}
	return m.currentPath
}

func (m *model) snapshot() level.Snapshot {
	return level.Snapshot{
		Root:        m.root,
		CurrentPath: m.currentPath,
		Clipboard:   m.cb,
		Actions:     m.actions,
		Keystrokes:  m.keystrokes,
		Elapsed:     m.elapsed,
	}
}

func (m *model) record(kind level.ActionKind, name string) {
	m.actions = append(m.actions, level.Action{
		Kind:  kind,
		Name:  name,
		Where: vfs.Resolve(m.root, m.currentPath),
	})
}

func (m *model) notify(msg string) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(notifyDuration)
}

// touchZoxide records a visit to the current directory in the persistent
// frecency table.
func (m *model) touchZoxide() {
	display := vfs.Resolve(m.root, m.currentPath)
	zoxide.Touch(m.cfg.Zoxide, display, time.Now())
}

func (m *model) saveSettings() {
	m.cfg.ShowHidden = m.showHidden
	m.cfg.SortBy = m.sortBy.String()
	m.cfg.SortDirection = m.sortDir.String()
	if m.levelIdx+1 > m.cfg.MaxLevel {
		m.cfg.MaxLevel = m.levelIdx + 1
	}
	config.Save(m.cfg)
}

// activeFilter returns the filter pattern on the current directory, or "".
func (m *model) activeFilter() string {
	dir := vfs.NodeByPath(m.root, m.currentPath)
	if dir == nil {
		return ""
	}
	return m.filters[dir.ID]
}

func (m *model) clearFilter() {
	dir := vfs.NodeByPath(m.root, m.currentPath)
	if dir != nil {
		delete(m.filters, dir.ID)
	}
}

func (m *model) clearSearch() {
	m.searchOn = false
	m.results = nil
	m.searchFrom = nil
}
