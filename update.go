package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkersey/subshell/internal/clipboard"
	"github.com/mkersey/subshell/internal/level"
	"github.com/mkersey/subshell/internal/listing"
)

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("subshell"),
		tickCmd(),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width == m.width && msg.Height == m.height {
			return m, nil
		}
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tickMsg:
		m.tick(time.Time(msg))
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Quit works everywhere; settings and habits persist.
	if key == "ctrl+c" {
		m.saveSettings()
		return m, tea.Quit
	}

	// The budget counts every key in live play, mistakes included.
	if m.mode != modeGameOver && m.mode != modeLevelComplete {
		m.keystrokes++
	}

	switch m.mode {
	case modeNormal:
		return m.handleNormalKey(key)
	case modeRename:
		return m.handleInputKey(msg, m.applyRename)
	case modeInputFile:
		return m.handleInputKey(msg, m.applyCreate)
	case modeFilter:
		return m.handleInputKey(msg, m.applyFilter)
	case modeSearch:
		return m.handleInputKey(msg, m.applySearch)
	case modeSort:
		return m.handleSortKey(key)
	case modeGCommand:
		return m.handleGCommandKey(key)
	case modeConfirmDelete:
		return m.handleConfirmDeleteKey(key)
	case modeOverwriteConfirm:
		return m.handleOverwriteKey(key)
	case modeZoxide:
		return m.handleZoxideKey(msg)
	case modeFzf:
		return m.handleFzfKey(msg)
	case modeQuestMap, modeHelp:
		return m.handleOverlayKey(key)
	case modeHint:
		return m.handleHintKey(key)
	case modeFilterWarning:
		return m.handleFilterWarningKey(key)
	case modeSearchWarning:
		return m.handleSearchWarningKey(key)
	case modeSortWarning:
		return m.handleSortWarningKey(key)
	case modeLevelComplete:
		return m.handleLevelCompleteKey(key)
	case modeGameOver:
		return m.handleGameOverKey(key)
	}
	return m, nil
}

func (m *model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.saveSettings()
		return m, tea.Quit

	case "j", "down":
		if len(m.visible) > 0 {
			m.cursor = (m.cursor + 1) % len(m.visible)
			m.clampScroll()
		}
	case "k", "up":
		if len(m.visible) > 0 {
			m.cursor = (m.cursor - 1 + len(m.visible)) % len(m.visible)
			m.clampScroll()
		}
	case "G":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
			m.clampScroll()
		}
	case "g":
		m.setMode(modeGCommand)

	case "l", "right", "enter":
		m.enter()
	case "h", "left":
		m.up()
	case "H":
		m.back()
	case "L":
		m.forward()

	case " ":
		if it := m.highlighted(); it != nil {
			if m.selected[it.Node.ID] {
				delete(m.selected, it.Node.ID)
			} else {
				m.selected[it.Node.ID] = true
			}
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.clampScroll()
			}
		}
	case "ctrl+a":
		for _, it := range m.visible {
			m.selected[it.Node.ID] = true
		}
	case "ctrl+r":
		for _, it := range m.visible {
			if m.selected[it.Node.ID] {
				delete(m.selected, it.Node.ID)
			} else {
				m.selected[it.Node.ID] = true
			}
		}

	case "x":
		m.grab(clipboard.OpCut)
	case "y":
		m.grab(clipboard.OpYank)
	case "Y":
		m.clearClipboard()
	case "p":
		m.paste()
	case "P":
		if m.cb.Empty() {
			m.notify("Clipboard is empty")
		} else if m.pasteWouldOverwrite() {
			m.setMode(modeOverwriteConfirm)
		} else {
			m.forcePaste()
		}

	case "d":
		m.requestDelete()
	case "D":
		if it := m.highlighted(); it != nil {
			m.pendingIDs = []string{it.Node.ID}
			m.setMode(modeConfirmDelete)
		}

	case "r":
		if it := m.highlighted(); it != nil {
			m.textInput.Placeholder = "new name"
			m.textInput.SetValue(it.Node.Name)
			m.textInput.CursorEnd()
			m.textInput.Focus()
			m.setMode(modeRename)
		}
	case "a":
		m.textInput.Placeholder = "name (end with / for a directory)"
		m.textInput.SetValue("")
		m.textInput.Focus()
		m.setMode(modeInputFile)

	case "f":
		m.textInput.Placeholder = "filter pattern"
		m.textInput.SetValue(m.activeFilter())
		m.textInput.CursorEnd()
		m.textInput.Focus()
		m.setMode(modeFilter)
	case "/":
		m.textInput.Placeholder = "search below here"
		m.textInput.SetValue("")
		m.textInput.Focus()
		m.setMode(modeSearch)
	case "esc":
		switch {
		case m.searchOn:
			m.clearSearch()
			m.refresh()
		case m.activeFilter() != "":
			m.clearFilter()
			m.refresh()
		case len(m.selected) > 0:
			m.selected = make(map[string]bool)
		default:
			m.statusMsg = ""
		}

	case "s":
		if m.searchOn {
			m.setMode(modeSortWarning)
		} else {
			m.setMode(modeSort)
		}

	case "z":
		m.openZoxide()
	case "Z":
		m.openFzf()

	case ".":
		m.showHidden = !m.showHidden
		if m.searchOn {
			m.rerunSearch()
		}
		m.refresh()

	case "m":
		m.setMode(modeQuestMap)
	case "?":
		m.setMode(modeHelp)
	case "i":
		m.setMode(modeHint)

	case "ctrl+y":
		m.copyPathToClipboard()
	}

	return m, nil
}

func (m *model) handleInputKey(msg tea.KeyMsg, apply func(string)) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.textInput.Value()
		m.textInput.Blur()
		m.setMode(modeNormal)
		apply(value)
		return m, nil
	case "esc":
		m.textInput.Blur()
		m.setMode(modeNormal)
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *model) handleSortKey(key string) (tea.Model, tea.Cmd) {
	prevBy, prevDir := m.sortBy, m.sortDir
	switch key {
	case "n":
		m.sortBy = listing.SortNatural
	case "a":
		m.sortBy = listing.SortAlphabetical
	case "m":
		m.sortBy = listing.SortModified
	case "s":
		m.sortBy = listing.SortSize
	case "e":
		m.sortBy = listing.SortExtension
	case "r":
		if m.sortDir == listing.Ascending {
			m.sortDir = listing.Descending
		} else {
			m.sortDir = listing.Ascending
		}
	case "esc", "enter", "q":
		m.setMode(modeNormal)
		return m, nil
	default:
		return m, nil
	}
	if m.sortBy != prevBy || m.sortDir != prevDir {
		m.record(level.ActionSort, m.sortBy.String())
		m.refresh()
		m.checkTasks()
	}
	m.setMode(modeNormal)
	return m, nil
}

func (m *model) handleGCommandKey(key string) (tea.Model, tea.Cmd) {
	m.setMode(modeNormal)
	switch key {
	case "g":
		m.cursor = 0
		m.scrollOffset = 0
	case "G":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
			m.clampScroll()
		}
	case "esc":
	default:
		if path, ok := level.JumpTargets()[key]; ok {
			m.jump(path)
		}
		// Unknown second key falls through with no effect.
	}
	return m, nil
}

func (m *model) handleConfirmDeleteKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "enter":
		m.confirmDelete()
	case "n", "esc", "q":
		m.pendingIDs = nil
		m.setMode(modeNormal)
	}
	return m, nil
}

func (m *model) handleOverwriteKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "enter":
		m.setMode(modeNormal)
		m.forcePaste()
	case "n", "esc", "q":
		m.setMode(modeNormal)
	}
	return m, nil
}

func (m *model) handleZoxideKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.textInput.Blur()
		m.setMode(modeNormal)
		return m, nil
	case "enter":
		m.textInput.Blur()
		m.setMode(modeNormal)
		if m.pickerCursor < len(m.zoxPaths) {
			if path, ok := m.pathFromDisplay(m.zoxPaths[m.pickerCursor]); ok {
				m.jump(path)
			}
		}
		return m, nil
	case "down", "ctrl+j":
		if m.pickerCursor < len(m.zoxPaths)-1 {
			m.pickerCursor++
		}
		return m, nil
	case "up", "ctrl+k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.zoxPaths = m.zoxideCandidates(m.textInput.Value())
	if m.pickerCursor >= len(m.zoxPaths) {
		m.pickerCursor = 0
	}
	return m, cmd
}

func (m *model) handleFzfKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.textInput.Blur()
		m.setMode(modeNormal)
		return m, nil
	case "enter":
		results := m.fzfResults()
		m.textInput.Blur()
		m.setMode(modeNormal)
		if m.pickerCursor < len(results) {
			m.fzfJump(results[m.pickerCursor])
		}
		return m, nil
	case "down", "ctrl+j":
		if m.pickerCursor < len(m.fzfResults())-1 {
			m.pickerCursor++
		}
		return m, nil
	case "up", "ctrl+k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.pickerCursor >= len(m.fzfResults()) {
		m.pickerCursor = 0
	}
	return m, cmd
}

func (m *model) handleOverlayKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "q", "m", "?", "enter":
		m.setMode(modeNormal)
	}
	return m, nil
}

func (m *model) handleHintKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "i", "enter":
		// Another press reveals the next staged hint.
		if m.hintIdx < len(m.lvl.Hints)-1 {
			m.hintIdx++
		} else {
			m.setMode(modeNormal)
		}
	case "esc", "q":
		m.setMode(modeNormal)
	}
	return m, nil
}

func (m *model) handleFilterWarningKey(key string) (tea.Model, tea.Cmd) {
	m.setMode(modeNormal)
	pending := m.pendingNav
	m.pendingNav = navUp
	if key == "y" {
		m.clearFilter()
		m.refresh()
		switch pending {
		case navBack:
			m.back()
		case navForward:
			m.forward()
		default:
			m.up()
		}
	}
	return m, nil
}

func (m *model) handleSearchWarningKey(key string) (tea.Model, tea.Cmd) {
	m.setMode(modeNormal)
	if key == "y" {
		m.clearSearch()
		m.refresh()
		m.notify("Search cleared")
	}
	return m, nil
}

func (m *model) handleSortWarningKey(key string) (tea.Model, tea.Cmd) {
	if key == "y" {
		m.clearSearch()
		m.refresh()
		m.setMode(modeSort)
	} else {
		m.setMode(modeNormal)
	}
	return m, nil
}

func (m *model) handleLevelCompleteKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.saveSettings()
		return m, tea.Quit
	case "enter", " ":
		if m.levelIdx+1 < len(m.campaign) {
			m.advance()
		}
	}
	return m, nil
}

func (m *model) handleGameOverKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "r":
		m.startLevel(m.levelIdx)
	case "q", "esc":
		m.saveSettings()
		return m, tea.Quit
	}
	return m, nil
}
