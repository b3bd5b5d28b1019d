// cmd/stacklens/analyze.go
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/julianshen/stacklens/internal/output"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [path|repo-url]",
		Short: "Detect the tech stack and check project hygiene",
		Long: `Scan a project directory (default ".") or a GitHub/GitLab repository URL and
report its structure, languages, frameworks, tools and code-quality insights.
Windows drive paths are translated under WSL and vice versa.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalysis(cmd, args, func(_ context.Context, s *session) error {
				r := output.NewReport(s.input)
				r.Analysis = s.result
				return writeReport(cmd, s.cfg, r)
			})
		},
	}
}
