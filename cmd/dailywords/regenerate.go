package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var regenerateOpts struct {
	format  string
	noIndex bool
}

var regenerateCmd = &cobra.Command{
	Use:     "regenerate",
	Aliases: []string{"refresh"},
	Short:   "Pick a new set of topics for today",
	Long: `Pick a new set of topics for today, replacing the stored one.

This is the command-line equivalent of the TUI's debug refresh. A running
TUI picks up the new set automatically.`,
	RunE: runRegenerate,
}

func init() {
	rootCmd.AddCommand(regenerateCmd)

	addFormatFlags(regenerateCmd, &regenerateOpts.format, &regenerateOpts.noIndex)
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(regenerateOpts.format, regenerateOpts.noIndex)
	if err != nil {
		return err
	}

	sel, err := manager.ForceRegenerate()
	if err != nil {
		return fmt.Errorf("failed to save new selection: %w", err)
	}

	return formatter.Format(os.Stdout, sel)
}
