package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/output"
)

type kindInfo struct {
	Code          models.Code     `json:"code"`
	Category      models.Category `json:"category"`
	Recoverable   bool            `json:"recoverable"`
	RequiredFlags []string        `json:"required_flags,omitempty"`
}

// requiredFlags reports which payload flag a code cannot do without.
func requiredFlags(c models.Code) []string {
	_, err := models.ParseKind(string(c), models.KindPayload{})
	var ke *models.InvalidKindError
	if errors.As(err, &ke) && ke.Field != "" {
		return []string{ke.Field}
	}
	return nil
}

func listKinds() []kindInfo {
	codes := models.AllCodes()
	out := make([]kindInfo, 0, len(codes))
	for _, c := range codes {
		out = append(out, kindInfo{
			Code:          c,
			Category:      c.Category(),
			Recoverable:   c.Recoverable(),
			RequiredFlags: requiredFlags(c),
		})
	}
	return out
}

// NewKindsCmd creates the kinds command listing the error taxonomy.
func NewKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List every error kind with its category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type resp struct {
				Categories []models.Category `json:"categories"`
				Count      int               `json:"count"`
				Kinds      []kindInfo        `json:"kinds"`
			}
			kinds := listKinds()
			return output.PrintSuccess(resp{
				Categories: models.Categories(),
				Count:      len(kinds),
				Kinds:      kinds,
			})
		},
	}
}
