package main

import (
	"github.com/spf13/cobra"

	"github.com/fyerfyer/study-planner/internal/study"
)

func newQuizCmd(root *rootOptions) *cobra.Command {
	var (
		difficulty string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "quiz <source>",
		Short: "Generate fill-in-the-blank questions",
		Long: `Generate multiple-choice fill-in-the-blank questions.

Difficulty sets the number of questions: easy 5, medium 10, hard 15, pro 20.
A non-zero --seed makes the output reproducible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []study.Option
			if seed != 0 {
				opts = append(opts, study.WithSeed(seed))
			}
			questions := root.newEngine(cmd, opts...).GenerateQuiz(cmd.Context(), args[0], difficulty)
			return writeJSON(cmd.OutOrStdout(), questions)
		},
	}

	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "medium", "Quiz difficulty (easy/medium/hard/pro)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed, 0 seeds from the clock")
	return cmd
}
