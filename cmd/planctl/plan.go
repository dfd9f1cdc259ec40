package main

import (
	"github.com/spf13/cobra"

	"github.com/fyerfyer/study-planner/internal/study"
)

func newPlanCmd(root *rootOptions) *cobra.Command {
	var req study.PlanRequest

	cmd := &cobra.Command{
		Use:   "plan <source>",
		Short: "Build a day-by-day study plan",
		Example: `  planctl plan notes.pdf --start 2024-01-01 --end 2024-01-14 --hours 1.5
  planctl plan https://example.com/article --start 2024-03-01 --end 2024-03-03 --hours 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Source = args[0]
			result, err := root.newEngine(cmd).BuildPlan(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&req.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&req.DailyHours, "hours", 1, "Study hours per day")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
