// cmd/stacklens/target.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/stacklens/internal/analyzer"
	"github.com/julianshen/stacklens/internal/config"
	"github.com/julianshen/stacklens/internal/output"
	"github.com/julianshen/stacklens/internal/remote"
	"github.com/julianshen/stacklens/internal/scan"
)

// session carries what every analysis subcommand needs.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	input  string
	result *analyzer.AnalysisResult
}

// withAnalysis loads config, fetches the target if it is a repository URL,
// analyses it and calls fn. Any clone directory is removed after fn returns.
func withAnalysis(cmd *cobra.Command, args []string, fn func(ctx context.Context, s *session) error) error {
	input := "."
	if len(args) > 0 {
		input = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dir, cleanup, err := prepareTarget(ctx, input, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := scanOptions(cfg, logger)
	res, err := analyzer.Analyze(ctx, dir, analyzer.Options{Scan: &opts, Logger: logger})
	if err != nil {
		return err
	}
	return fn(ctx, &session{cfg: cfg, logger: logger, input: input, result: res})
}

// prepareTarget returns a local directory for input, cloning repository URLs.
func prepareTarget(ctx context.Context, input string, cfg *config.Config, logger *slog.Logger) (string, func(), error) {
	if !remote.IsRemote(input) {
		return input, func() {}, nil
	}

	ref, err := remote.Parse(input)
	if err != nil {
		return "", nil, err
	}

	opts := []remote.ClonerOption{
		remote.WithRetries(cfg.Remote.CloneRetries),
		remote.WithLogger(logger),
	}
	src, err := metadataSource(ref, cfg, nil)
	if err != nil {
		return "", nil, err
	}
	opts = append(opts, remote.WithSource(ref.Host, src))

	logger.Info("cloning repository", "repo", ref.String())
	return remote.NewCloner(opts...).Clone(ctx, ref)
}

// metadataSource returns the API client for the host ref lives on. Self-hosted
// instances are queried at their own API root, never the public one.
func metadataSource(ref remote.Ref, cfg *config.Config, httpClient *http.Client) (remote.MetadataSource, error) {
	baseURL := ref.APIBaseURL()
	switch ref.Host {
	case remote.GitHub:
		return remote.NewGitHubSource(os.Getenv(cfg.Remote.GitHubTokenEnv), baseURL, httpClient)
	case remote.GitLab:
		if baseURL == "" {
			baseURL = cfg.Remote.GitLabBaseURL
		}
		return remote.NewGitLabSource(os.Getenv(cfg.Remote.GitLabTokenEnv), baseURL, httpClient)
	}
	return nil, fmt.Errorf("unsupported repository host %q", ref.Hostname)
}

func scanOptions(cfg *config.Config, logger *slog.Logger) scan.Options {
	return scan.Options{
		MaxDepth:    cfg.Scan.MaxDepth,
		SkipDirs:    cfg.Scan.SkipDirs,
		Exclude:     cfg.Scan.Exclude,
		Concurrency: cfg.Scan.Concurrency,
		Logger:      logger,
	}
}

// writeReport formats r per config and writes it to the command's output.
func writeReport(cmd *cobra.Command, cfg *config.Config, r *output.Report) error {
	w := cmd.OutOrStdout()
	f, _ := w.(*os.File)
	formatter, err := output.New(cfg.Output.Format, cfg.Output.Color, f)
	if err != nil {
		return err
	}
	out, err := formatter.Format(r)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}
	_, err = w.Write(out)
	return err
}
