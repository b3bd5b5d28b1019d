// cmd/stacklens/explain.go
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/stacklens/internal/catalog"
	"github.com/julianshen/stacklens/internal/explain"
	"github.com/julianshen/stacklens/internal/output"
)

func explainCmd() *cobra.Command {
	var filesFlag int

	cmd := &cobra.Command{
		Use:   "explain [path|repo-url]",
		Short: "Explain the project in plain language",
		Long: `Summarise what the project is built with, outline its main source files
and describe what each npm script runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalysis(cmd, args, func(ctx context.Context, s *session) error {
				exp, err := explain.Explain(ctx, s.result, os.DirFS(s.result.Root), explain.Options{
					MaxFiles: filesFlag,
					Describe: catalog.Default().Describe,
					Logger:   s.logger,
				})
				if err != nil {
					return err
				}

				r := output.NewReport(s.input)
				r.Explanation = exp
				return writeReport(cmd, s.cfg, r)
			})
		},
	}

	cmd.Flags().IntVar(&filesFlag, "files", explain.DefaultMaxFiles, "number of source files to outline")
	return cmd
}
