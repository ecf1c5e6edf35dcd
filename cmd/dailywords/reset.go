package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the stored selection",
	Long: `Clear the stored selection. The next show or TUI launch picks a new one.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := stateStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	fmt.Println("Stored selection cleared")
	return nil
}
