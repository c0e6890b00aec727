package commands

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/output"
	"github.com/dotcommander/mishap/internal/store"
)

// NewDBCmd creates the db command group.
func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Error history database utilities",
	}

	cmd.AddCommand(newDBPathCmd())
	return cmd
}

type dbPathResp struct {
	Path   string `json:"path"`
	Source string `json:"source"`
	Exists bool   `json:"exists"`

	SchemaVersion   int64 `json:"schema_version,omitempty"`
	StoredEvents    int   `json:"stored_events"`
	MaxEvents       int   `json:"max_events,omitempty"`
	HistoryRevision int64 `json:"history_revision"`
}

func newDBPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the resolved history database and what it holds",
		Long: "Print the resolved history database path and where the path came from.\n" +
			"When the file exists, also report its schema version, stored event count,\n" +
			"capacity and history revision. A missing database is not created.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}
			resp := dbPathResp{Path: path, Source: source}

			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return output.PrintSuccess(resp)
			} else if err != nil {
				return cmdErr(err)
			}
			resp.Exists = true

			if err := withDB(func(db *DB) error {
				current, _, err := store.SchemaVersion(db)
				if err != nil {
					return err
				}
				resp.SchemaVersion = current
				if resp.StoredEvents, err = store.CountEvents(db); err != nil {
					return err
				}
				if resp.HistoryRevision, err = store.HistoryRevision(db); err != nil {
					return err
				}
				resp.MaxEvents = store.NewPreferences(db).MaxEvents()
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(resp)
		},
	}
	return cmd
}
