package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/actions"
	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/output"
	"github.com/dotcommander/mishap/internal/store"
)

const keyMaxEvents = "max-events"

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change persisted preferences",
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a preference (keys: max-events)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != keyMaxEvents {
				return cmdErr(fmt.Errorf("unknown preference %q (keys: %s)", args[0], keyMaxEvents))
			}

			var (
				value  int
				stored bool
			)
			if err := withDB(func(db *DB) error {
				n, err := store.NewPreferences(db).LoadMaxEvents()
				switch {
				case err == nil:
					value, stored = n, true
				case errors.Is(err, store.ErrPreferenceNotFound), errors.Is(err, store.ErrCorruptPreference):
					value = app.DefaultMaxEvents
				default:
					return err
				}
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Key    string `json:"key"`
				Value  int    `json:"value"`
				Stored bool   `json:"stored"`
				Min    int    `json:"min"`
				Max    int    `json:"max"`
			}
			return output.PrintSuccess(resp{
				Key:    keyMaxEvents,
				Value:  value,
				Stored: stored,
				Min:    app.MinMaxEvents,
				Max:    app.MaxMaxEvents,
			})
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a preference (keys: max-events)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != keyMaxEvents {
				return cmdErr(fmt.Errorf("unknown preference %q (keys: %s)", args[0], keyMaxEvents))
			}
			requested, err := strconv.Atoi(args[1])
			if err != nil {
				return cmdErr(fmt.Errorf("max-events must be an integer: %w", err))
			}

			var stored int
			if err := withDB(func(db *DB) error {
				n, err := actions.SetMaxEvents(db, requested)
				if err != nil {
					return err
				}
				stored = n
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Key       string `json:"key"`
				Requested int    `json:"requested"`
				Value     int    `json:"value"`
				Clamped   bool   `json:"clamped"`
			}
			return output.PrintSuccess(resp{
				Key:       keyMaxEvents,
				Requested: requested,
				Value:     stored,
				Clamped:   stored != requested,
			})
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config.yaml settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			type resp struct {
				Log      app.LogSettings                     `json:"log"`
				Recovery map[models.Category]app.RetryPolicy `json:"recovery"`
			}
			return output.PrintSuccess(resp{
				Log:      app.EffectiveLogSettings(),
				Recovery: app.EffectiveRetryPolicies(),
			})
		},
	}
}
