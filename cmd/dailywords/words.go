package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wordsOpts struct {
	count bool
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List the word bank",
	Long: `List every topic in the active word bank, in bank order.

The bank is the built-in list unless --words-file or [words] file in the
config points at a custom one.`,
	RunE: runWords,
}

func init() {
	rootCmd.AddCommand(wordsCmd)

	wordsCmd.Flags().BoolVar(&wordsOpts.count, "count", false,
		"Print only the number of topics")
}

func runWords(cmd *cobra.Command, args []string) error {
	bank := manager.Bank()

	if wordsOpts.count {
		fmt.Println(bank.Len())
		return nil
	}

	for _, w := range bank.Words() {
		fmt.Println(w)
	}
	return nil
}
