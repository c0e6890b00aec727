package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/actions"
	"github.com/dotcommander/mishap/internal/analytics"
	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/output"
)

// NewAnalyzeCmd creates the analyze command, which summarizes the persisted history.
func NewAnalyzeCmd() *cobra.Command {
	var (
		lastN  int
		window time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize recorded errors and detect error patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := app.EffectiveLogSettings()
			if lastN > 0 {
				settings.PatternLastN = lastN
			}
			if window > 0 {
				settings.PatternWindow = window
			}

			var summary analytics.Summary
			if err := withDB(func(db *DB) error {
				s, err := actions.Analyze(db, settings)
				if err != nil {
					return err
				}
				summary = s
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(summary)
		},
	}

	cmd.Flags().IntVar(&lastN, "last", 0, "Number of recent errors to analyze (default from config)")
	cmd.Flags().DurationVar(&window, "window", 0, "Time window for rapid error detection (default from config)")
	return cmd
}
