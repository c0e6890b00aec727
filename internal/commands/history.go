package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/actions"
	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/output"
)

// NewHistoryCmd creates the history command group.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the recorded error history",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var within time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded errors, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var events []models.ErrorEvent
			if err := withDB(func(db *DB) error {
				ev, err := actions.ListHistory(db, app.EffectiveLogSettings(), within)
				if err != nil {
					return err
				}
				events = ev
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Within string              `json:"within,omitempty"`
				Count  int                 `json:"count"`
				Events []models.ErrorEvent `json:"events"`
			}
			r := resp{Count: len(events), Events: events}
			if within > 0 {
				r.Within = within.String()
			}
			if r.Events == nil {
				r.Events = []models.ErrorEvent{}
			}
			return output.PrintSuccess(r)
		},
	}

	cmd.Flags().DurationVar(&within, "within", 0, "Only errors recorded in this trailing window (e.g. 10m)")
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded error",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := withDB(func(db *DB) error {
				return actions.ClearHistory(db)
			}); err != nil {
				return err
			}

			type resp struct {
				Cleared bool `json:"cleared"`
			}
			return output.PrintSuccess(resp{Cleared: true})
		},
	}
}
