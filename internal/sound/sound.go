// Package sound emits terminal-bell feedback cues. Playback failures are
// swallowed; sound never affects game logic.
package sound

import (
	"fmt"
	"os"
)

// Player gates the feedback cues behind the config toggle. The zero value
// is muted.
type Player struct {
	Enabled bool
}

// New returns a player honoring the enabled flag.
func New(enabled bool) *Player {
	return &Player{Enabled: enabled}
}

// Alert rings the terminal bell for warnings and traps.
func (p *Player) Alert() {
	if p == nil || !p.Enabled {
		return
	}
	fmt.Fprint(os.Stderr, "\a")
}

// Complete signals a finished task. Terminals have one bell; the cue is the
// same, the distinction is for call sites.
func (p *Player) Complete() {
	if p == nil || !p.Enabled {
		return
	}
	fmt.Fprint(os.Stderr, "\a")
}
