// cmd/stacklens/recommend.go
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/julianshen/stacklens/internal/catalog"
	"github.com/julianshen/stacklens/internal/output"
	"github.com/julianshen/stacklens/internal/recommend"
)

func recommendCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "recommend [path|repo-url]",
		Short: "Suggest learning resources for the detected stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalysis(cmd, args, func(_ context.Context, s *session) error {
				limit := s.cfg.Recommend.Limit
				if limitFlag > 0 {
					limit = limitFlag
				}
				recs := recommend.Recommend(s.result.TechStack, catalog.Default().Resources, limit)

				r := output.NewReport(s.input)
				r.Recommendations = &recs
				return writeReport(cmd, s.cfg, r)
			})
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 0, "resources per technology (default from config)")
	return cmd
}

func awsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aws [path|repo-url]",
		Short: "Suggest AWS services that fit the detected stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalysis(cmd, args, func(_ context.Context, s *session) error {
				r := output.NewReport(s.input)
				r.AWS = recommend.AWSServices(s.result.TechStack, catalog.Default().Services)
				return writeReport(cmd, s.cfg, r)
			})
		},
	}
}
