package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/dailywords/internal/daily"
	"github.com/jmylchreest/dailywords/internal/store"
)

var statusOpts struct {
	json bool
}

// Status describes the stored selection and the next reset.
type Status struct {
	Today      string   `json:"today"`
	StoredDate string   `json:"stored_date,omitempty"`
	State      string   `json:"state"`
	Revision   string   `json:"revision,omitempty"`
	UpdatedAt  int64    `json:"updated_at,omitempty"`
	NextReset  int64    `json:"next_reset"`
	Words      []string `json:"words,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored selection state",
	Long: `Show whether the stored selection belongs to today, when it was last
written, and when the next automatic reset happens.

Nothing is written: a stale or missing selection is reported, not replaced.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := buildStatus(manager, stateStore)
	if err != nil {
		return err
	}

	if statusOpts.json {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	}

	fmt.Print(formatStatus(status, time.Now()))
	return nil
}

// buildStatus gathers status without modifying the store.
func buildStatus(m *daily.Manager, kv *store.FileKV) (Status, error) {
	now := m.Now()
	sel, reason := m.Inspect()

	status := Status{
		Today:     m.CurrentDateKey(),
		State:     string(reason),
		NextReset: daily.NextMidnight(now).Unix(),
		Words:     sel.Words,
	}

	date, ok, err := kv.Get(store.KeyDate)
	if err != nil {
		return status, fmt.Errorf("failed to read state: %w", err)
	}
	if ok {
		status.StoredDate = date
	}

	info, err := kv.Info()
	if err != nil {
		return status, fmt.Errorf("failed to read state: %w", err)
	}
	status.Revision = info.Revision
	if !info.UpdatedAt.IsZero() {
		status.UpdatedAt = info.UpdatedAt.Unix()
	}

	return status, nil
}

// formatStatus renders status as human-readable lines relative to now.
func formatStatus(s Status, now time.Time) string {
	out := fmt.Sprintf("Today:       %s\n", s.Today)

	stored := s.StoredDate
	if stored == "" {
		stored = "(none)"
	}
	out += fmt.Sprintf("Stored date: %s\n", stored)
	out += fmt.Sprintf("State:       %s\n", describeState(daily.Reason(s.State)))

	if s.UpdatedAt > 0 {
		updated := time.Unix(s.UpdatedAt, 0)
		out += fmt.Sprintf("Last write:  %s (%s)\n",
			humanize.RelTime(updated, now, "ago", "from now"), updated.Format(time.DateTime))
	}
	if s.Revision != "" {
		out += fmt.Sprintf("Revision:    %s\n", s.Revision)
	}

	reset := time.Unix(s.NextReset, 0)
	out += fmt.Sprintf("Next reset:  %s (%s)\n",
		humanize.RelTime(reset, now, "ago", "from now"), reset.Format(time.DateTime))

	return out
}

func describeState(r daily.Reason) string {
	switch r {
	case daily.ReasonCached:
		return "current"
	case daily.ReasonStale:
		return "stale (a new selection is picked on next load)"
	case daily.ReasonCorrupt:
		return "corrupt (a new selection is picked on next load)"
	case daily.ReasonMissing:
		return "empty (a new selection is picked on next load)"
	default:
		return string(r)
	}
}
