package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/output"
	"github.com/dotcommander/mishap/internal/recovery"
)

// NewPlanCmd creates the plan command. It previews a recovery plan without recording anything.
func NewPlanCmd() *cobra.Command {
	var (
		kf         kindFlags
		retryCount int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the recovery plan for an error kind at a retry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kf.kind()
			if err != nil {
				return cmdErr(err)
			}
			if retryCount < 0 {
				return cmdErr(fmt.Errorf("--retry must not be negative"))
			}

			planner := recovery.DefaultPlanner()
			plan := planner.Plan(kind, retryCount)

			type resp struct {
				Kind         models.Code         `json:"kind"`
				Category     models.Category     `json:"category"`
				RetryCount   int                 `json:"retry_count"`
				Plan         models.RecoveryPlan `json:"plan"`
				RetryDelayMS int64               `json:"retry_delay_ms"`
				Policy       app.RetryPolicy     `json:"policy"`
			}
			return output.PrintSuccess(resp{
				Kind:         kind.Code(),
				Category:     models.CategoryOf(kind),
				RetryCount:   retryCount,
				Plan:         plan,
				RetryDelayMS: plan.RetryDelay.Milliseconds(),
				Policy:       planner.Policy(kind),
			})
		},
	}

	kf.register(cmd)
	cmd.Flags().IntVar(&retryCount, "retry", 0, "Number of retries already attempted")

	return cmd
}
