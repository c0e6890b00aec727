package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/models"
)

// kindFlags are the flags shared by commands that take an error kind.
type kindFlags struct {
	code    string
	payload models.KindPayload
}

func (f *kindFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "kind", "", "Error kind code, see `mishap kinds` (required)")
	cmd.Flags().StringVar(&f.payload.Field, "field", "", "Field name for invalid_input and missing_required_field")
	cmd.Flags().StringVar(&f.payload.Item, "item", "", "Item name for duplicate_entry")
	cmd.Flags().StringVar(&f.payload.Name, "name", "", "Organization or feature name")
	cmd.Flags().IntVar(&f.payload.Count, "count", 0, "Item count for organization_in_use")
	cmd.Flags().IntVar(&f.payload.Status, "status", 0, "HTTP status for server_error")
	cmd.Flags().StringVar(&f.payload.Message, "message", "", "Server message for server_error")
	cmd.Flags().StringVar(&f.payload.Detail, "detail", "", "Detail text for unknown")
	_ = cmd.MarkFlagRequired("kind")

	codes := models.AllCodes()
	values := make([]string, len(codes))
	for i, c := range codes {
		values[i] = string(c)
	}
	_ = cmd.Flags().SetAnnotation("kind", flagEnumAnnotation, values)
}

// kind builds the error kind. Codes may use hyphens in place of underscores.
func (f *kindFlags) kind() (models.ErrorKind, error) {
	code := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(f.code)), "-", "_")
	return models.ParseKind(code, f.payload)
}
