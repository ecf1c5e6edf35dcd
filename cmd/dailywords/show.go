package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dailywords/internal/adapter/output"
	"github.com/jmylchreest/dailywords/internal/daily"
)

var showOpts struct {
	format  string
	noIndex bool
	follow  bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print today's topics",
	Long: `Print today's topics, picking a new set if the stored one is from another day.

Examples:
  # Numbered list
  dailywords show

  # As JSON for scripts
  dailywords show --format json

  # Keep running and print the new set after every midnight
  dailywords show --follow`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	addFormatFlags(showCmd, &showOpts.format, &showOpts.noIndex)
	showCmd.Flags().BoolVarP(&showOpts.follow, "follow", "f", false,
		"Keep running and print the new selection at each midnight (once if [schedule] rearm is false)")
}

// addFormatFlags registers the output flags shared by show and regenerate.
func addFormatFlags(cmd *cobra.Command, format *string, noIndex *bool) {
	cmd.Flags().StringVarP(format, "format", "o", string(output.FormatPlain),
		"Output format ("+output.FormatNames()+")")
	cmd.Flags().BoolVar(noIndex, "no-index", false,
		"Omit the index prefix in plain output")
}

func newFormatter(format string, noIndex bool) (output.Formatter, error) {
	opts := output.DefaultFormatterOptions()
	opts.ShowIndex = !noIndex
	return output.NewFormatter(output.FormatType(format), opts)
}

func runShow(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(showOpts.format, showOpts.noIndex)
	if err != nil {
		return err
	}

	sel, err := manager.LoadOrCreate()
	if err != nil {
		logger.Warn("selection was not saved", "error", err)
	}
	if err := formatter.Format(os.Stdout, sel); err != nil {
		return err
	}

	if !showOpts.follow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return followSelection(ctx, manager, cfg.Schedule.Rearm, formatter, os.Stdout)
}

// followSelection prints the selection again at each midnight until ctx is
// cancelled. Without rearm it returns after the first midnight.
func followSelection(ctx context.Context, m *daily.Manager, rearm bool, formatter output.Formatter, w io.Writer) error {
	log := logger
	if log == nil {
		log = slog.Default()
	}

	printed := make(chan error, 1)
	scheduler := daily.NewScheduler(m, rearm, func(sel daily.Selection, err error) {
		if err != nil {
			log.Warn("selection was not saved", "error", err)
		}
		fmt.Fprintln(w)
		if err := formatter.Format(w, sel); err != nil {
			select {
			case printed <- err:
			default:
			}
		}
	}, log)

	scheduler.Start(ctx)
	defer scheduler.Stop()

	select {
	case <-ctx.Done():
		return nil
	case err := <-printed:
		return err
	case <-scheduler.Done():
		select {
		case err := <-printed:
			return err
		default:
			return nil
		}
	}
}
