package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/output"
	"github.com/dotcommander/mishap/internal/store"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, database connectivity and schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, dbSource, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				DBPath        string `json:"db_path"`
				DBSource      string `json:"db_source"`
				DBOK          bool   `json:"db_ok"`
				DBErr         string `json:"db_error,omitempty"`
				QueryOK       bool   `json:"query_ok"`
				QueryErr      string `json:"query_error,omitempty"`
				SchemaCurrent int64  `json:"schema_current,omitempty"`
				SchemaLatest  int64  `json:"schema_latest,omitempty"`
				MaxEvents     int    `json:"max_events,omitempty"`
				StoredEvents  int    `json:"stored_events"`
				Hint          string `json:"hint,omitempty"`

				Diagnostics []store.Diagnostic `json:"diagnostics,omitempty"`
			}
			result := resp{DBPath: dbPath, DBSource: dbSource}

			db, err := store.InitDBWithPath(dbPath)
			if err != nil {
				result.DBErr = err.Error()
				result.QueryErr = "db not available"
				result.Hint = "If this is running in a sandboxed environment, set db_path to a writable location or use --db-path."
				return output.PrintSuccess(result)
			}
			defer func() { _ = db.Close() }()
			result.DBOK = true

			if result.StoredEvents, err = store.CountEvents(db); err != nil {
				result.QueryErr = err.Error()
			} else {
				result.QueryOK = true
			}

			if current, latest, err := store.SchemaVersion(db); err == nil {
				result.SchemaCurrent, result.SchemaLatest = current, latest
			}
			result.MaxEvents = store.NewPreferences(db).MaxEvents()

			if diags, err := store.RunDiagnostics(db); err == nil {
				result.Diagnostics = diags
			}

			return output.PrintSuccess(result)
		},
	}
}
