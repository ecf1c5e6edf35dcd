package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/dailywords/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	Long: `Launch the terminal user interface showing today's topics.

The list refreshes on its own at local midnight and whenever another
dailywords process rewrites the state file.

Key bindings:
  j/k, ↑/↓    Navigate list
  c           Copy today's topics to clipboard
  ctrl+d      Toggle debug mode
  r           Regenerate today's topics (debug mode only)
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Config:    cfg,
		Manager:   manager,
		StatePath: stateStore.Path(),
		Logger:    logger,
	})
}
