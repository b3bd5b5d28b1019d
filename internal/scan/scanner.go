// Package scan lists the files of a project tree, pruning dependency caches,
// build output and VCS metadata, bounded by a maximum directory depth.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/pool"
)

// Options controls a scan.
type Options struct {
	// MaxDepth bounds recursion. The root is depth 0 and a directory at
	// depth d is read only when d <= MaxDepth.
	MaxDepth int
	// SkipDirs are directory names pruned at any depth (exact, case-sensitive).
	SkipDirs []string
	// Exclude holds doublestar patterns matched against relative file paths.
	Exclude []string
	// Concurrency bounds sibling directory reads per level. Values < 1 mean 1.
	Concurrency int
	Logger      *slog.Logger
}

// DefaultSkipDirs contains directory names that are always excluded from scanning.
var DefaultSkipDirs = []string{"node_modules", "dist", "build", ".git"}

// DefaultOptions returns the options used when the caller has no config.
func DefaultOptions() Options {
	return Options{
		MaxDepth:    5,
		SkipDirs:    DefaultSkipDirs,
		Concurrency: 4,
	}
}

// Scan lists the files under root. See ScanFS.
func Scan(ctx context.Context, root string, opts Options) ([]string, error) {
	return ScanFS(ctx, os.DirFS(root), opts)
}

// ScanFS returns the slash-separated paths of every file in fsys that lies
// within opts.MaxDepth, sorted ascending. Unreadable directories are logged
// and skipped; only an invalid exclude pattern or a cancelled context
// produces an error.
func ScanFS(ctx context.Context, fsys fs.FS, opts Options) ([]string, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("scan: invalid exclude pattern %q", pattern)
		}
	}

	w := &walker{
		fsys:        fsys,
		maxDepth:    opts.MaxDepth,
		exclude:     opts.Exclude,
		concurrency: max(opts.Concurrency, 1),
		skip:        make(map[string]bool, len(opts.SkipDirs)),
		logger:      opts.Logger,
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	for _, name := range opts.SkipDirs {
		w.skip[name] = true
	}

	files := w.walk(ctx, ".", 0)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}
	slices.Sort(files)
	w.logger.Debug("scan complete", "files", len(files), "max_depth", opts.MaxDepth)
	return files, nil
}

type walker struct {
	fsys        fs.FS
	maxDepth    int
	exclude     []string
	concurrency int
	skip        map[string]bool
	logger      *slog.Logger
}

// walk reads dir (at the given depth) and returns the files found in it and
// in every descendant directory the depth bound allows. Cycles through
// symlinked directories terminate because depth strictly increases.
func (w *walker) walk(ctx context.Context, dir string, depth int) []string {
	if depth > w.maxDepth || ctx.Err() != nil {
		return nil
	}

	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		w.logger.Warn("skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	var files, subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		rel := join(dir, name)

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := fs.Stat(w.fsys, rel)
			if err != nil {
				w.logger.Debug("skipping dangling symlink", "path", rel, "error", err)
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if w.skip[name] {
				continue
			}
			if depth+1 <= w.maxDepth {
				subdirs = append(subdirs, rel)
			}
			continue
		}
		if w.excluded(rel) {
			continue
		}
		files = append(files, rel)
	}

	if len(subdirs) == 0 {
		return files
	}

	p := pool.NewWithResults[[]string]().WithMaxGoroutines(w.concurrency)
	for _, sub := range subdirs {
		p.Go(func() []string {
			return w.walk(ctx, sub, depth+1)
		})
	}
	for _, nested := range p.Wait() {
		files = append(files, nested...)
	}
	return files
}

func (w *walker) excluded(rel string) bool {
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func join(dir, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}
