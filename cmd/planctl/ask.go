package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <source> <question>",
		Short: "Answer a question from the document",
		Long: `Answer a question with the sentence that shares the most keywords with it.

Words after the source are joined into one question, so quoting is optional.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args[1:], " ")
			answer := root.newEngine(cmd).Answer(cmd.Context(), args[0], question)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}
}
