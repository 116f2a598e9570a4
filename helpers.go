package main

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/mkersey/subshell/internal/logger"
	"github.com/mkersey/subshell/internal/vfs"
)

// copyPathToClipboard puts the current virtual path on the OS clipboard.
// Clipboard failures (headless sessions) are logged, not surfaced as errors.
func (m *model) copyPathToClipboard() {
	display := vfs.Resolve(m.root, m.currentPath)
	if it := m.highlighted(); it != nil {
		if display == "/" {
			display = ""
		}
		display = display + "/" + it.Node.Name
	}
	if err := clipboard.WriteAll(display); err != nil {
		logger.Warn("clipboard write failed: %v", err)
		m.notify("Clipboard unavailable")
		return
	}
	m.notify(fmt.Sprintf("Copied %s", display))
}
