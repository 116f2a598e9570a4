package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mkersey/subshell/internal/clipboard"
	"github.com/mkersey/subshell/internal/level"
	"github.com/mkersey/subshell/internal/listing"
	"github.com/mkersey/subshell/internal/logger"
	"github.com/mkersey/subshell/internal/policy"
	"github.com/mkersey/subshell/internal/vfs"
	"github.com/mkersey/subshell/internal/zoxide"
)

// --- navigation ---

// navigateTo moves to an existing directory, pushing the departure point
// onto history and clearing the forward stack.
func (m *model) navigateTo(path vfs.Path, kind level.ActionKind) {
	target := vfs.NodeByPath(m.root, path)
	if target == nil || !target.IsDir() {
		m.notify("Nowhere to go")
		return
	}
	if reason := policy.Check(m.root, path.Parent(), target, m.lvl.Protection, policy.OpEnter, m.done); reason != "" {
		m.notify(reason)
		return
	}
	m.history = append(m.history, m.currentPath.Clone())
	if len(m.history) > maxHistoryEntries {
		m.history = m.history[1:]
	}
	m.future = nil
	m.currentPath = path.Clone()
	m.cursor = 0
	m.scrollOffset = 0
	m.touchZoxide()
	m.record(kind, target.Name)
	m.refresh()
	m.checkTasks()
}

// enter descends into the highlighted directory. An active filter on the
// directory being left is cleared; descending is forward motion.
func (m *model) enter() {
	it := m.highlighted()
	if it == nil {
		return
	}
	if !it.Node.IsDir() {
		m.notify(fmt.Sprintf("%s  %s", it.Node.Name, previewContent(it.Node)))
		return
	}
	m.clearFilter()
	if m.searchOn {
		// Entering a search hit leaves the search view behind.
		m.clearSearch()
	}
	dest := it.Path
	if len(dest) == 0 {
		dest = append(m.currentPath.Clone(), it.Node.ID)
	}
	m.navigateTo(dest, level.ActionNavigate)
}

// up ascends to the parent. Blocked by friction modes when a filter or
// search is active; backing out would silently hide state.
func (m *model) up() {
	if m.searchOn {
		m.setMode(modeSearchWarning)
		return
	}
	if m.activeFilter() != "" {
		m.pendingNav = navUp
		m.setMode(modeFilterWarning)
		return
	}
	parent := m.currentPath.Parent()
	if parent == nil {
		m.notify("Already at /")
		return
	}
	m.navigateTo(parent, level.ActionNavigate)
}

// back pops navigation history; forward undoes a back. Neither clears the
// other stack.
func (m *model) back() {
	if m.searchOn {
		m.setMode(modeSearchWarning)
		return
	}
	if m.activeFilter() != "" {
		m.pendingNav = navBack
		m.setMode(modeFilterWarning)
		return
	}
	if len(m.history) == 0 {
		m.notify("History empty")
		return
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	if vfs.NodeByPath(m.root, prev) == nil {
		m.notify("That directory is gone")
		return
	}
	m.future = append(m.future, m.currentPath.Clone())
	m.currentPath = prev.Clone()
	m.cursor = 0
	m.scrollOffset = 0
	m.touchZoxide()
	m.record(level.ActionNavigate, "")
	m.refresh()
	m.checkTasks()
}

func (m *model) forward() {
	if m.searchOn {
		m.setMode(modeSearchWarning)
		return
	}
	if m.activeFilter() != "" {
		m.pendingNav = navForward
		m.setMode(modeFilterWarning)
		return
	}
	if len(m.future) == 0 {
		m.notify("No forward history")
		return
	}
	next := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	if vfs.NodeByPath(m.root, next) == nil {
		m.notify("That directory is gone")
		return
	}
	m.history = append(m.history, m.currentPath.Clone())
	m.currentPath = next.Clone()
	m.cursor = 0
	m.scrollOffset = 0
	m.touchZoxide()
	m.record(level.ActionNavigate, "")
	m.refresh()
	m.checkTasks()
}

// jump teleports to a directory by ID path (g-commands, zoxide, fzf).
func (m *model) jump(path vfs.Path) {
	if m.searchOn {
		m.setMode(modeSearchWarning)
		return
	}
	target := vfs.NodeByPath(m.root, path)
	if target == nil || !target.IsDir() {
		m.notify("Jump target missing")
		return
	}
	if reason := policy.Check(m.root, path.Parent(), target, m.lvl.Protection, policy.OpJump, m.done); reason != "" {
		m.notify(reason)
		return
	}
	m.history = append(m.history, m.currentPath.Clone())
	m.future = nil
	m.currentPath = path.Clone()
	m.cursor = 0
	m.scrollOffset = 0
	m.touchZoxide()
	m.record(level.ActionJump, target.Name)
	m.refresh()
	m.checkTasks()
}

// --- clipboard ---

func (m *model) grab(op clipboard.Op) {
	if op == clipboard.OpCut && m.lvl.RequireYank {
		m.notify("Cutting is disabled on this run")
		return
	}
	if op == clipboard.OpYank && m.lvl.RequireCut {
		m.notify("Copying is disabled on this run; move it")
		return
	}
	set := m.actionSet()
	if len(set) == 0 {
		return
	}
	nodes := make([]*vfs.Node, 0, len(set))
	for _, it := range set {
		if op == clipboard.OpCut {
			if reason := policy.Check(m.root, m.itemDir(it), it.Node, m.lvl.Protection, policy.OpCut, m.done); reason != "" {
				m.notify(reason)
				return
			}
		}
		nodes = append(nodes, it.Node)
	}

	m.cb = clipboard.Grab(m.root, nodes, op)
	m.cbWarning = false
	m.selected = make(map[string]bool)

	kind := level.ActionYank
	if op == clipboard.OpCut {
		kind = level.ActionCut
	}
	for _, n := range nodes {
		m.record(kind, n.Name)
	}

	if alert := policy.CheckGrab(nodes); alert.Triggered {
		m.cbWarning = true
		m.snd.Alert()
		m.notify(alert.Message)
		logger.Warn("honeypot grabbed on level %d", m.lvl.ID)
		return
	}
	m.notify(fmt.Sprintf("%s %d item(s)", op, len(nodes)))
}

func (m *model) clearClipboard() {
	if m.cb.Empty() {
		return
	}
	m.cb = clipboard.Clipboard{}
	m.cbWarning = false
	m.notify("Clipboard cleared")
}

func (m *model) clipboardNodes() []*vfs.Node {
	nodes := make([]*vfs.Node, 0, len(m.cb.Entries))
	for _, e := range m.cb.Entries {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

func (m *model) paste() {
	if m.cb.Empty() {
		m.notify("Clipboard is empty")
		return
	}
	verdict := policy.CheckPaste(m.clipboardNodes())
	if verdict.Fatal {
		m.gameOver(verdict.Message)
		return
	}
	if verdict.Triggered || m.cbWarning {
		m.cbWarning = true
		m.snd.Alert()
		m.notify(verdict.Message)
		return
	}

	report := clipboard.Paste(m.root, m.currentPath, m.cb)
	m.finishPaste(report, level.ActionPaste)
}

// forcePaste runs after the overwrite confirmation (or directly when
// nothing collides). A fatal trap still ends the run; a honeypot warning
// does not block a forced paste, it is surfaced afterwards.
func (m *model) forcePaste() {
	if m.cb.Empty() {
		m.notify("Clipboard is empty")
		return
	}
	verdict := policy.CheckPaste(m.clipboardNodes())
	if verdict.Fatal {
		m.gameOver(verdict.Message)
		return
	}
	report := clipboard.ForcePaste(m.root, m.currentPath, m.cb)
	if verdict.Triggered {
		m.forcedWarning = verdict.Message
		m.snd.Alert()
	}
	m.finishPaste(report, level.ActionForcePaste)
}

// pasteWouldOverwrite reports whether a forced paste into the current
// directory would replace an existing entry.
func (m *model) pasteWouldOverwrite() bool {
	dir := vfs.NodeByPath(m.root, m.currentPath)
	if dir == nil {
		return false
	}
	for _, e := range m.cb.Entries {
		for _, c := range dir.Children {
			if c.Name == e.Node.Name && c.Kind == e.Node.Kind {
				return true
			}
		}
	}
	return false
}

func (m *model) finishPaste(report clipboard.Report, kind level.ActionKind) {
	m.root = report.Root
	for i, e := range m.cb.Entries {
		if i >= report.Pasted {
			break
		}
		m.record(kind, e.Node.Name)
	}
	if report.Err != nil {
		m.notify(fmt.Sprintf("Paste stopped at %s: %v (%d pasted)", report.Failed, report.Err, report.Pasted))
		logger.Error("paste failed at %s: %v", report.Failed, report.Err)
	} else if m.forcedWarning != "" {
		m.notify(m.forcedWarning)
		m.forcedWarning = ""
	} else {
		m.notify(fmt.Sprintf("Pasted %d item(s)", report.Pasted))
	}
	if m.cb.Op == clipboard.OpCut {
		// A cut pastes once; a yank keeps the clipboard for repeats.
		m.cb = clipboard.Clipboard{}
		m.cbWarning = false
	}
	m.refresh()
	m.checkTasks()
}

// --- delete ---

// requestDelete captures the action set and opens the confirmation modal.
func (m *model) requestDelete() {
	set := m.actionSet()
	if len(set) == 0 {
		return
	}
	m.pendingIDs = nil
	for _, it := range set {
		m.pendingIDs = append(m.pendingIDs, it.Node.ID)
	}
	m.setMode(modeConfirmDelete)
}

// confirmDelete runs the delete gate chain in order: critical system
// paths, level traps, then protection rules. Any denial aborts the whole
// set.
func (m *model) confirmDelete() {
	defer func() { m.pendingIDs = nil }()

	var nodes []*vfs.Node
	for _, id := range m.pendingIDs {
		if n := vfs.NodeByID(m.root, id); n != nil {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		m.setMode(modeNormal)
		return
	}

	if policy.CheckCritical(m.currentPath, m.root.ID, nodes) {
		m.gameOver("CRITICAL SYSTEM DAMAGE. You deleted a protected system directory.")
		return
	}
	if verdict := policy.CheckDelete(nodes, m.lvl.Traps, m.done); verdict.Triggered {
		if verdict.Fatal {
			m.gameOver(verdict.Message)
			return
		}
		m.setMode(modeNormal)
		m.snd.Alert()
		m.notify(verdict.Message)
		return
	}
	for _, n := range nodes {
		dir := m.dirOf(n.ID)
		if reason := policy.Check(m.root, dir, n, m.lvl.Protection, policy.OpDelete, m.done); reason != "" {
			m.setMode(modeNormal)
			m.notify(reason)
			return
		}
	}

	for _, n := range nodes {
		dir := m.dirOf(n.ID)
		next, err := vfs.Remove(m.root, dir, n.ID)
		if err != nil {
			logger.Error("delete %s: %v", n.Name, err)
			continue
		}
		m.root = next
		m.record(level.ActionDelete, n.Name)
	}
	m.setMode(modeNormal)
	if m.searchOn {
		m.rerunSearch()
	}
	m.refresh()
	m.checkTasks()
}

// dirOf resolves the containing directory path for a live node ID.
func (m *model) dirOf(id string) vfs.Path {
	if p, ok := vfs.PathByID(m.root, id); ok {
		return p.Parent()
	}
	return m.currentPath
}

// --- rename / create ---

func (m *model) applyRename(newName string) {
	it := m.highlighted()
	if it == nil {
		return
	}
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == it.Node.Name {
		return
	}
	dir := m.itemDir(*it)
	if reason := policy.Check(m.root, dir, it.Node, m.lvl.Protection, policy.OpRename, m.done); reason != "" {
		m.notify(reason)
		return
	}
	next, err := vfs.Rename(m.root, dir, it.Node.ID, newName, time.Now())
	if err != nil {
		if errors.Is(err, vfs.ErrConflict) {
			m.notify(fmt.Sprintf("%s already exists here", newName))
		} else {
			m.notify(fmt.Sprintf("Rename failed: %v", err))
		}
		return
	}
	m.root = next
	m.record(level.ActionRename, newName)
	if m.searchOn {
		m.rerunSearch()
	}
	m.refresh()
	m.checkTasks()
}

// applyCreate makes files and directories from the input line. A trailing
// slash means directory; intermediate segments are created as needed.
func (m *model) applyCreate(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	dir := vfs.NodeByPath(m.root, m.currentPath)
	if dir == nil {
		return
	}
	if reason := policy.Check(m.root, m.currentPath.Parent(), dir, m.lvl.Protection, policy.OpAdd, m.done); reason != "" {
		m.notify(reason)
		return
	}
	result, err := vfs.CreatePath(m.root, m.currentPath, input, time.Now())
	if err != nil {
		m.notify(fmt.Sprintf("Create failed: %v", err))
		return
	}
	if result.Collision != nil {
		m.notify(fmt.Sprintf("%s already exists", result.Collision.Name))
		return
	}
	m.root = result.Root
	m.record(level.ActionCreate, result.CreatedName)
	m.refresh()
	m.checkTasks()
}

// --- filter / search ---

func (m *model) applyFilter(pattern string) {
	dir := vfs.NodeByPath(m.root, m.currentPath)
	if dir == nil {
		return
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		delete(m.filters, dir.ID)
	} else {
		m.filters[dir.ID] = pattern
		m.record(level.ActionFilter, pattern)
	}
	m.refresh()
	m.checkTasks()
}

func (m *model) applySearch(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		m.clearSearch()
		m.refresh()
		return
	}
	m.results = listing.Search(m.root, m.currentPath, query, m.showHidden)
	m.searchOn = true
	m.searchFrom = m.currentPath.Clone()
	m.cursor = 0
	m.record(level.ActionSearch, query)
	m.refresh()
	m.checkTasks()
}

// rerunSearch refreshes search results after a mutation so the result view
// never shows deleted nodes.
func (m *model) rerunSearch() {
	if !m.searchOn {
		return
	}
	fresh := make([]vfs.FlatEntry, 0, len(m.results))
	for _, e := range m.results {
		if n := vfs.NodeByID(m.root, e.Node.ID); n != nil {
			path, _ := vfs.PathByID(m.root, n.ID)
			fresh = append(fresh, vfs.FlatEntry{Node: n, Path: path, Display: e.Display})
		}
	}
	m.results = fresh
}

// --- pickers ---

// openZoxide lists remembered directories by frecency, filtered by the
// input line.
func (m *model) openZoxide() {
	if m.searchOn {
		m.setMode(modeSearchWarning)
		return
	}
	m.zoxPaths = m.zoxideCandidates("")
	m.pickerCursor = 0
	m.textInput.Placeholder = "jump to..."
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.setMode(modeZoxide)
}

func (m *model) zoxideCandidates(filter string) []string {
	ranked := zoxide.Ranked(m.cfg.Zoxide, time.Now())
	var paths []string
	for _, display := range ranked {
		if _, ok := m.pathFromDisplay(display); !ok {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(display), strings.ToLower(filter)) {
			continue
		}
		paths = append(paths, display)
	}
	return paths
}

// pathFromDisplay walks a display path like /home/guest/workspace down the
// live tree. Stale zoxide entries from other stages simply fail.
func (m *model) pathFromDisplay(display string) (vfs.Path, bool) {
	if display == "/" {
		return vfs.Path{m.root.ID}, true
	}
	path := vfs.Path{m.root.ID}
	current := m.root
	for _, name := range strings.Split(strings.Trim(display, "/"), "/") {
		var next *vfs.Node
		for _, c := range current.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil || !next.IsDir() {
			return nil, false
		}
		path = append(path, next.ID)
		current = next
	}
	return path, true
}

// openFzf fuzzy-finds files below the current directory.
func (m *model) openFzf() {
	if m.searchOn {
		m.setMode(modeSearchWarning)
		return
	}
	m.pickerItems = listing.FileCandidates(m.root, m.currentPath, m.showHidden)
	m.pickerCursor = 0
	m.textInput.Placeholder = "fuzzy find..."
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.setMode(modeFzf)
}

func (m *model) fzfResults() []vfs.FlatEntry {
	return listing.FuzzyRank(m.pickerItems, m.textInput.Value())
}

// fzfJump lands in the chosen file's directory with the cursor on it.
func (m *model) fzfJump(entry vfs.FlatEntry) {
	m.jump(entry.Path.Parent())
	for i, it := range m.visible {
		if it.Node.ID == entry.Node.ID {
			m.cursor = i
			break
		}
	}
	m.clampScroll()
}

// --- progress ---

func (m *model) checkTasks() {
	before := len(m.done)
	m.done = m.lvl.Progress(m.done, m.snapshot())
	if len(m.done) > before {
		m.snd.Complete()
		last := m.done[len(m.done)-1]
		if t := m.lvl.Task(last); t != nil && !t.Hidden {
			m.notify(fmt.Sprintf("Objective complete: %s", t.Description))
		} else {
			m.notify("Hidden objective complete")
		}
		logger.Info("level %d: task %s complete", m.lvl.ID, last)
	}
	if m.lvl.AllComplete(m.done) && m.completeAt.IsZero() {
		m.completeAt = time.Now()
		m.saveSettings()
		m.setMode(modeLevelComplete)
	}
}

func (m *model) gameOver(msg string) {
	m.gameOverMsg = msg
	m.snd.Alert()
	m.setMode(modeGameOver)
	logger.Info("level %d: run ended: %s", m.lvl.ID, msg)
}

// advance moves to the next stage once the completion splash has been on
// screen long enough. The final stage stays on its splash.
func (m *model) advance() {
	if m.levelIdx+1 >= len(m.campaign) {
		return
	}
	m.startLevel(m.levelIdx + 1)
}

// tick advances the clock and enforces the stage limits.
func (m *model) tick(now time.Time) {
	if m.mode == modeGameOver {
		return
	}
	if m.mode == modeLevelComplete {
		if !m.completeAt.IsZero() && now.Sub(m.completeAt) >= advanceDelay {
			m.advance()
		}
		return
	}
	m.elapsed = now.Sub(m.startedAt)
	if m.lvl.TimeLimit > 0 && m.elapsed >= m.lvl.TimeLimit {
		m.gameOver("OUT OF TIME. The audit sweep caught you mid-operation.")
		return
	}
	if m.lvl.MaxKeys > 0 && m.keystrokes > m.lvl.MaxKeys {
		m.gameOver("KEYSTROKE BUDGET EXCEEDED. Too much noise on the wire.")
	}
}

// remainingSeconds is the stage countdown, or -1 when untimed.
func (m *model) remainingSeconds() int {
	if m.lvl.TimeLimit == 0 {
		return -1
	}
	left := m.lvl.TimeLimit - m.elapsed
	if left < 0 {
		left = 0
	}
	return int(left.Seconds())
}

// sortedSelection renders marked names deterministically for the modals.
func (m *model) pendingNames() []string {
	var names []string
	for _, id := range m.pendingIDs {
		if n := vfs.NodeByID(m.root, id); n != nil {
			names = append(names, n.Name)
		}
	}
	sort.Strings(names)
	return names
}

// previewContent is a one-line peek at a file for the status area.
func previewContent(n *vfs.Node) string {
	line := n.Content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) > 60 {
		line = line[:60] + "..."
	}
	if line == "" {
		return "(empty)"
	}
	return line
}
