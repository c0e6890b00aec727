package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/classify"
	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/output"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	var kf kindFlags

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show presentation and accessibility metadata for an error kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kf.kind()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Kind          models.Code             `json:"kind"`
				Category      models.Category         `json:"category"`
				Recoverable   bool                    `json:"recoverable"`
				Title         string                  `json:"title"`
				Message       string                  `json:"message"`
				Presentation  models.PresentationSpec `json:"presentation"`
				Accessibility models.Accessibility    `json:"accessibility"`
			}
			return output.PrintSuccess(resp{
				Kind:          kind.Code(),
				Category:      models.CategoryOf(kind),
				Recoverable:   models.IsRecoverable(kind),
				Title:         models.Title(kind),
				Message:       models.Message(kind),
				Presentation:  classify.Present(kind),
				Accessibility: classify.Describe(kind),
			})
		},
	}

	kf.register(cmd)
	return cmd
}
