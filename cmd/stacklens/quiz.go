// cmd/stacklens/quiz.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/julianshen/stacklens/internal/catalog"
	"github.com/julianshen/stacklens/internal/output"
	"github.com/julianshen/stacklens/internal/quiz"
)

func quizCmd() *cobra.Command {
	var questionsFlag int

	cmd := &cobra.Command{
		Use:   "quiz [path|repo-url]",
		Short: "Test yourself on the detected stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalysis(cmd, args, func(ctx context.Context, s *session) error {
				n := s.cfg.Quiz.Questions
				if questionsFlag > 0 {
					n = questionsFlag
				}
				questions := quiz.Build(s.result.TechStack, catalog.Default().Questions, n)
				if len(questions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No quiz questions are available for this stack yet.")
					return nil
				}

				runner := quiz.NewRunner(quiz.WithAccessible(!term.IsTerminal(int(os.Stdin.Fd()))))
				result, err := runner.Run(ctx, questions)
				if err != nil {
					return err
				}

				r := output.NewReport(s.input)
				r.Quiz = &result
				return writeReport(cmd, s.cfg, r)
			})
		},
	}

	cmd.Flags().IntVar(&questionsFlag, "questions", 0, "number of questions (default from config)")
	return cmd
}
