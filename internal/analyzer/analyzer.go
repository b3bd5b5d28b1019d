// Package analyzer runs the analysis pipeline over one project directory:
// resolve -> scan -> manifest -> classify -> assess -> summarize.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/julianshen/stacklens/internal/manifest"
	"github.com/julianshen/stacklens/internal/pathres"
	"github.com/julianshen/stacklens/internal/quality"
	"github.com/julianshen/stacklens/internal/scan"
	"github.com/julianshen/stacklens/internal/structure"
	"github.com/julianshen/stacklens/internal/techstack"
)

// AnalysisResult is everything the pipeline knows about a project.
type AnalysisResult struct {
	Structure   string              `json:"structure"`
	TechStack   techstack.TechStack `json:"techStack"`
	CodeQuality []quality.Insight   `json:"codeQuality"`

	// Root is the resolved project directory.
	Root string `json:"-"`
	// Files is the scanned file list, relative to Root.
	Files []string `json:"-"`
	// Manifest is nil when package.json is absent or unparseable.
	Manifest *manifest.Manifest `json:"-"`
}

// Options configures a pipeline run. The zero value scans with
// scan.DefaultOptions and detects the host path convention.
type Options struct {
	Scan     *scan.Options
	Resolver *pathres.Resolver
	Logger   *slog.Logger
}

// Analyze runs every stage against input. Only an unresolvable path (a
// *pathres.PathNotFoundError) or a scan failure stops the run; a broken
// manifest is reported as a quality insight instead.
func Analyze(ctx context.Context, input string, opts Options) (*AnalysisResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = pathres.New(pathres.WithLogger(logger))
	}
	scanOpts := scan.DefaultOptions()
	if opts.Scan != nil {
		scanOpts = *opts.Scan
	}
	if scanOpts.Logger == nil {
		scanOpts.Logger = logger
	}

	// Stage 1: Resolve
	root, err := resolver.Resolve(input)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	// Stage 2: Scan
	logger.Debug("scanning project", "root", root, "max_depth", scanOpts.MaxDepth)
	files, err := scan.Scan(ctx, root, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	logger.Debug("scan complete", "files", len(files))

	// Stage 3: Manifest
	var extra []quality.Insight
	m, err := manifest.Read(root)
	if err != nil {
		var perr *manifest.ParseError
		if errors.As(err, &perr) {
			extra = append(extra, quality.ManifestInsight(err))
		}
		logger.Warn("ignoring manifest", "error", err)
		m = nil
	}

	// Stage 4: Classify
	stack := techstack.Classify(files, m)

	// Stage 5: Assess
	insights := quality.NewAssessor(logger).Assess(files, stack, dirReader(root))
	insights = append(insights, extra...)

	// Stage 6: Summarize
	return &AnalysisResult{
		Structure:   structure.Summarize(files),
		TechStack:   stack,
		CodeQuality: insights,
		Root:        root,
		Files:       files,
		Manifest:    m,
	}, nil
}

// dirReader reads scanned files relative to the project root.
func dirReader(root string) quality.Reader {
	fsys := os.DirFS(root)
	return quality.ReaderFunc(func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	})
}
