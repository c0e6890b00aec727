package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/actions"
	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/output"
)

// NewRecordCmd creates the record command.
func NewRecordCmd() *cobra.Command {
	var (
		kf         kindFlags
		context    string
		retryCount int
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an error event and print how to present and recover from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kf.kind()
			if err != nil {
				return cmdErr(err)
			}

			var out actions.Outcome
			if err := withDB(func(db *DB) error {
				o, err := actions.RecordError(db, app.EffectiveLogSettings(), kind, context, retryCount)
				if err != nil {
					return err
				}
				out = o
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(out)
		},
	}

	kf.register(cmd)
	cmd.Flags().StringVar(&context, "context", "", "Where the error happened")
	cmd.Flags().IntVar(&retryCount, "retry", 0, "Number of retries already attempted")

	return cmd
}
