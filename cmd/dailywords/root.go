// Package main provides the CLI entrypoint for dailywords.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dailywords/internal/config"
	"github.com/jmylchreest/dailywords/internal/daily"
	"github.com/jmylchreest/dailywords/internal/store"
	"github.com/jmylchreest/dailywords/internal/words"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		stateFile  string
		wordsFile  string
		configPath string
	}
	logger *slog.Logger

	stateStore *store.FileKV
	manager    *daily.Manager
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dailywords",
	Short: "Ten learning topics a day, in your terminal",
	Long: `dailywords picks ten random learning topics once per day.

The selection is stored so it stays the same for the rest of the day,
and a fresh one is picked after local midnight.

Running dailywords without a subcommand launches the interactive TUI.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.stateFile != "" {
			cfg.Store.Path = globalOpts.stateFile
		}
		if globalOpts.wordsFile != "" {
			cfg.Words.File = globalOpts.wordsFile
		}

		bank, err := words.Load(cfg.Words.File)
		if err != nil {
			return fmt.Errorf("failed to load word bank: %w", err)
		}

		stateStore, err = store.NewFileKV(cfg.StatePath(), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize state store: %w", err)
		}

		manager, err = daily.NewManager(daily.Options{
			Bank:   bank,
			Store:  stateStore,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create selection manager: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if stateStore != nil {
			return stateStore.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.stateFile, "state-file", "",
		"Path to state file (default: ~/.local/share/dailywords/state.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.wordsFile, "words-file", "",
		"Path to a custom word bank, one topic per line")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/dailywords/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
