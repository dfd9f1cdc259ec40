package main

import (
	"encoding/json"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/study-planner/internal/study"
)

// rootOptions 所有子命令共享的参数
type rootOptions struct {
	verbose bool
}

// newRootCmd 构建命令树
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "planctl",
		Short: "planctl builds study plans, quizzes and answers from local documents or URLs",
		Long: `planctl runs the study planner engine without the HTTP server.

Sources may be .pdf, .docx or .txt files, or http(s) URLs.

Usage:
  planctl plan <source> --start 2024-01-01 --end 2024-01-31 --hours 2
  planctl quiz <source> --difficulty hard
  planctl ask <source> "What is photosynthesis?"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log engine progress to stderr")

	cmd.AddCommand(
		newPlanCmd(opts),
		newQuizCmd(opts),
		newAskCmd(opts),
	)
	return cmd
}

// newEngine 创建引擎，日志写到标准错误
func (o *rootOptions) newEngine(cmd *cobra.Command, extra ...study.Option) *study.Engine {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	if o.verbose {
		logger.SetLevel(logrus.InfoLevel)
	}
	return study.NewEngine(append([]study.Option{study.WithLogger(logger)}, extra...)...)
}

// writeJSON 以缩进格式输出JSON
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
