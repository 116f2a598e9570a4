package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mkersey/subshell/internal/config"
	"github.com/mkersey/subshell/internal/level"
	"github.com/mkersey/subshell/internal/logger"
)

var version = "0.3.0"

func main() {
	var startLevel int
	var noSound bool

	rootCmd := &cobra.Command{
		Use:   "subshell",
		Short: "A terminal file-manager heist game",
		Long: `Subshell drops you into a simulated filesystem with vim-style keys.
Complete each stage's objectives without tripping the traps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			}
			defer logger.Close()

			cfg := config.Load()
			if noSound {
				cfg.SoundEnabled = false
			}
			if startLevel > cfg.MaxLevel {
				return fmt.Errorf("level %d is locked (reached %d)", startLevel, cfg.MaxLevel)
			}

			m := initialModel(cfg, startLevel)
			p := tea.NewProgram(&m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				logger.Error("program crashed: %v", err)
				return err
			}
			return nil
		},
	}

	rootCmd.Flags().IntVarP(&startLevel, "level", "l", 1, fmt.Sprintf("stage to start at (1-%d)", len(level.Campaign())))
	rootCmd.Flags().BoolVar(&noSound, "no-sound", false, "disable terminal bell feedback")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("subshell %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
