package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkersey/subshell/internal/listing"
	"github.com/mkersey/subshell/internal/utils"
	"github.com/mkersey/subshell/internal/vfs"
)

var (
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("105"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	clippedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Italic(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	var mainContent string
	switch m.mode {
	case modeGameOver:
		mainContent = m.renderGameOver()
	case modeLevelComplete:
		mainContent = m.renderLevelComplete()
	case modeQuestMap:
		mainContent = m.renderQuestMap()
	case modeHelp:
		mainContent = m.renderHelp()
	case modeHint:
		mainContent = m.renderHint()
	case modeConfirmDelete:
		mainContent = m.renderConfirmDelete()
	case modeOverwriteConfirm:
		mainContent = m.renderOverwriteConfirm()
	case modeZoxide:
		mainContent = m.renderPicker("Jump (frecency)", m.zoxPaths)
	case modeFzf:
		mainContent = m.renderFzfPicker()
	case modeSort:
		mainContent = m.renderSortMenu()
	case modeFilterWarning:
		mainContent = m.renderWarning("Filter active",
			"A filter is hiding entries in this directory.\nLeave anyway and clear it? (y/n)")
	case modeSearchWarning:
		mainContent = m.renderWarning("Search active",
			"Search results are pinned to the view.\nClear the search? (y/n)")
	case modeSortWarning:
		mainContent = m.renderWarning("Search active",
			"Sorting would reshuffle pinned search results.\nClear the search and sort? (y/n)")
	default:
		list := m.renderFileList(m.safeWidth() * 3 / 5)
		info := m.renderInfoPanel(m.safeWidth() - m.safeWidth()*3/5 - 2)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, list, info)
	}

	status := m.renderStatusBar()
	return lipgloss.JoinVertical(lipgloss.Left, header, mainContent, status)
}

func (m *model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(m.safeWidth())

	title := fmt.Sprintf("▣ subshell — L%d %s — %s",
		m.lvl.ID, m.lvl.Title, vfs.Resolve(m.root, m.currentPath))

	if m.searchOn {
		title += "  [search pinned]"
	}
	if f := m.activeFilter(); f != "" {
		title += fmt.Sprintf("  [filter: %s]", f)
	}
	return titleStyle.Render(title)
}

func (m *model) renderFileList(width int) string {
	height := m.contentHeight()
	var lines []string

	inputLine := ""
	switch m.mode {
	case modeRename, modeInputFile, modeFilter, modeSearch:
		inputLine = m.textInput.View()
	}
	if inputLine != "" {
		lines = append(lines, inputLine)
	}

	if len(m.visible) == 0 {
		lines = append(lines, dimStyle.Render("  (empty)"))
	}

	visibleHeight := height - 1 - len(lines)
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	end := m.scrollOffset + visibleHeight
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := m.scrollOffset; i < end; i++ {
		it := m.visible[i]
		n := it.Node

		marker := "  "
		if m.selected[n.ID] {
			marker = selectedStyle.Render("▸ ")
		}

		name := it.Display
		if n.IsDir() {
			name += "/"
		}

		icon := "📁"
		if !n.IsDir() {
			icon = utils.GetFileIcon(n.Name)
		}

		line := fmt.Sprintf("%s%s %s", marker, icon, name)

		var styled string
		switch {
		case i == m.cursor:
			styled = cursorStyle.Width(width - 2).Render(line)
		case m.cb.Contains(n.ID):
			styled = clippedStyle.Render(line)
		case n.Hidden():
			styled = hiddenStyle.Render(line)
		case n.IsDir():
			styled = dirStyle.Render(line)
		default:
			styled = fileStyle.Render(line)
		}
		lines = append(lines, styled)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m *model) renderInfoPanel(width int) string {
	height := m.contentHeight()
	var lines []string

	lines = append(lines, okStyle.Render("Objectives"))
	for _, t := range m.lvl.Tasks {
		done := utils.Contains(m.done, t.ID)
		if t.Hidden && !done {
			continue
		}
		mark := "[ ]"
		style := fileStyle
		if done {
			mark = "[✓]"
			style = okStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf(" %s %s", mark, t.Description)))
	}
	lines = append(lines, "")

	if !m.cb.Empty() {
		label := fmt.Sprintf("Clipboard (%s): %d item(s)", m.cb.Op, len(m.cb.Entries))
		if m.cbWarning {
			lines = append(lines, warnStyle.Render(label+"  ⚠ marked"))
		} else {
			lines = append(lines, clippedStyle.Render(label))
		}
		for _, e := range m.cb.Entries {
			lines = append(lines, dimStyle.Render("  • "+e.Node.Name))
			if len(lines) > height-6 {
				break
			}
		}
		lines = append(lines, "")
	}

	if it := m.highlighted(); it != nil {
		n := it.Node
		lines = append(lines, okStyle.Render("Selected"))
		lines = append(lines, fileStyle.Render(" "+n.Name))
		if n.IsDir() {
			lines = append(lines, dimStyle.Render(fmt.Sprintf(" directory, %d entries", len(n.Children))))
		} else {
			lines = append(lines, dimStyle.Render(fmt.Sprintf(" file, %s", utils.FormatFileSize(int64(n.Size())))))
			preview := previewContent(n)
			lines = append(lines, dimStyle.Render(" "+preview))
		}
		lines = append(lines, dimStyle.Render(" modified "+n.ModifiedAt.Format("2006-01-02 15:04")))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m *model) renderStatusBar() string {
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.safeWidth())

	left := m.statusMsg
	if left == "" {
		left = fmt.Sprintf("sort: %s %s  hidden: %v", m.sortBy, m.sortDir, m.showHidden)
	}

	var right []string
	if secs := m.remainingSeconds(); secs >= 0 {
		stamp := "⏱ " + utils.FormatTimer(secs)
		if secs <= 15 {
			stamp = warnStyle.Render(stamp)
		}
		right = append(right, stamp)
	}
	if m.lvl.MaxKeys > 0 {
		right = append(right, fmt.Sprintf("⌨ %d/%d", m.keystrokes, m.lvl.MaxKeys))
	}
	if len(m.selected) > 0 {
		right = append(right, fmt.Sprintf("%d marked", len(m.selected)))
	}
	right = append(right, "? help  i hint  m map")

	rightText := strings.Join(right, "  ")
	gap := m.safeWidth() - lipgloss.Width(left) - lipgloss.Width(rightText) - 4
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Render(left + strings.Repeat(" ", gap) + rightText)
}

func (m *model) renderModal(title, body string, borderColor string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1, 3).
		Width(utils.Min(m.safeWidth()-8, 70))

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + body
	return lipgloss.Place(m.safeWidth(), m.contentHeight()+2,
		lipgloss.Center, lipgloss.Center, modal.Render(content))
}

func (m *model) renderConfirmDelete() string {
	names := m.pendingNames()
	body := "Delete the following?\n"
	for _, name := range names {
		body += "  " + name + "\n"
	}
	body += "\n(y) delete   (n) cancel"
	return m.renderModal("Confirm delete", body, "196")
}

func (m *model) renderOverwriteConfirm() string {
	body := "Pasting will overwrite existing entries here.\n\n(y) overwrite   (n) cancel"
	return m.renderModal("Overwrite?", body, "214")
}

func (m *model) renderSortMenu() string {
	body := fmt.Sprintf(
		"(n) natural   (a) alphabetical   (m) modified\n(s) size      (e) extension     (r) reverse\n\ncurrent: %s %s",
		m.sortBy, m.sortDir)
	return m.renderModal("Sort", body, "62")
}

func (m *model) renderWarning(title, body string) string {
	return m.renderModal("⚠ "+title, body, "214")
}

func (m *model) renderPicker(title string, items []string) string {
	var b strings.Builder
	b.WriteString(m.textInput.View() + "\n\n")
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("(no matches)"))
	}
	for i, item := range items {
		if i > m.contentHeight()-6 {
			break
		}
		if i == m.pickerCursor {
			b.WriteString(cursorStyle.Render("> " + item))
		} else {
			b.WriteString("  " + item)
		}
		b.WriteString("\n")
	}
	return m.renderModal(title, b.String(), "62")
}

func (m *model) renderFzfPicker() string {
	matches := listing.FuzzyMatches(m.pickerItems, m.textInput.Value())
	items := make([]string, 0, len(matches))
	for _, match := range matches {
		items = append(items, utils.HighlightMatches(match.Entry.Display, match.MatchedIndexes))
	}
	return m.renderPicker("Fuzzy find", items)
}

func (m *model) renderQuestMap() string {
	var b strings.Builder
	b.WriteString(m.lvl.Description + "\n\n")
	for _, t := range m.lvl.Tasks {
		done := utils.Contains(m.done, t.ID)
		if t.Hidden && !done {
			continue
		}
		if done {
			b.WriteString(okStyle.Render(" ✓ "+t.Description) + "\n")
		} else {
			b.WriteString(" ○ " + t.Description + "\n")
		}
	}
	hiddenLeft := 0
	for _, t := range m.lvl.Tasks {
		if t.Hidden && !utils.Contains(m.done, t.ID) {
			hiddenLeft++
		}
	}
	if hiddenLeft > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" … and %d hidden objective(s)\n", hiddenLeft)))
	}
	if m.lvl.TimeLimit > 0 {
		b.WriteString(fmt.Sprintf("\nTime limit: %s", m.lvl.TimeLimit))
	}
	if m.lvl.MaxKeys > 0 {
		b.WriteString(fmt.Sprintf("\nKeystroke budget: %d", m.lvl.MaxKeys))
	}
	title := fmt.Sprintf("Level %d — %s", m.lvl.ID, m.lvl.Title)
	return m.renderModal(title, b.String(), "99")
}

func (m *model) renderHelp() string {
	body := strings.Join([]string{
		"j/k      move          h/l     up / enter",
		"H/L      history back / forward",
		"gg/G     top / bottom  g+key   jump (h,c,w,i,d,t,r)",
		"space    mark          ctrl+a  mark all   ctrl+r invert",
		"x/y      cut / yank    Y       clear clipboard",
		"p/P      paste / paste with overwrite",
		"d/D      delete marked / delete one",
		"r        rename        a       create (trailing / = dir)",
		"f        filter dir    /       search below here",
		"s        sort          .       toggle hidden",
		"z        jump by habit Z       fuzzy find files",
		"m        quest map     i       hint",
		"ctrl+y   copy path     q       quit",
	}, "\n")
	return m.renderModal("Keys", body, "62")
}

func (m *model) renderHint() string {
	if len(m.lvl.Hints) == 0 {
		return m.renderModal("Hint", "No hints for this one. You have everything you need.", "62")
	}
	if m.hintIdx >= len(m.lvl.Hints) {
		m.hintIdx = len(m.lvl.Hints) - 1
	}
	body := m.lvl.Hints[m.hintIdx]
	body += dimStyle.Render(fmt.Sprintf("\n\nhint %d/%d — (i) next, (esc) close", m.hintIdx+1, len(m.lvl.Hints)))
	return m.renderModal("Hint", body, "62")
}

func (m *model) renderLevelComplete() string {
	body := okStyle.Render("All objectives complete.") + "\n\n"
	if m.levelIdx+1 < len(m.campaign) {
		body += fmt.Sprintf("Next: Level %d — %s\n\n(enter) continue   (q) quit",
			m.campaign[m.levelIdx+1].ID, m.campaign[m.levelIdx+1].Title)
	} else {
		body += "That was the last stage. The subshell is yours.\n\n(q) quit"
	}
	return m.renderModal(fmt.Sprintf("Level %d clear", m.lvl.ID), body, "78")
}

func (m *model) renderGameOver() string {
	body := warnStyle.Render(m.gameOverMsg) + "\n\n(r) retry this level   (q) quit"
	return m.renderModal("RUN TERMINATED", body, "196")
}
