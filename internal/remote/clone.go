package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// GitFunc runs a git subcommand in dir.
type GitFunc func(ctx context.Context, dir string, args ...string) error

// Cloner makes shallow clones of remote repositories.
type Cloner struct {
	sources map[Host]MetadataSource
	retries uint64
	backoff time.Duration
	git     GitFunc
	tempDir string
	logger  *slog.Logger
}

// ClonerOption configures a Cloner.
type ClonerOption func(*Cloner)

// WithSource registers the metadata source for a host.
func WithSource(h Host, s MetadataSource) ClonerOption {
	return func(c *Cloner) { c.sources[h] = s }
}

// WithRetries sets how many times a failed clone is retried.
func WithRetries(n int) ClonerOption {
	return func(c *Cloner) {
		if n >= 0 {
			c.retries = uint64(n)
		}
	}
}

// WithBackoff sets the pause between clone attempts.
func WithBackoff(d time.Duration) ClonerOption {
	return func(c *Cloner) { c.backoff = d }
}

// WithGit replaces the git executable.
func WithGit(fn GitFunc) ClonerOption {
	return func(c *Cloner) { c.git = fn }
}

// WithTempDir sets the parent of clone directories.
func WithTempDir(dir string) ClonerOption {
	return func(c *Cloner) { c.tempDir = dir }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) ClonerOption {
	return func(c *Cloner) { c.logger = l }
}

// NewCloner creates a Cloner that retries three times, two seconds apart.
func NewCloner(opts ...ClonerOption) *Cloner {
	c := &Cloner{
		sources: map[Host]MetadataSource{},
		retries: 3,
		backoff: 2 * time.Second,
		git:     runGit,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Clone makes a depth-1 clone of ref and returns its directory. The caller
// runs cleanup when done with the directory.
// A failed metadata lookup falls back to the anonymous clone URL and the
// remote's default branch.
func (c *Cloner) Clone(ctx context.Context, ref Ref) (string, func(), error) {
	meta := Metadata{CloneURL: ref.CloneURL()}
	if src, ok := c.sources[ref.Host]; ok {
		m, err := src.Lookup(ctx, ref)
		switch {
		case err != nil:
			c.logger.Warn("repository lookup failed, cloning anonymously", "repo", ref.String(), "error", err)
		case m.CloneURL != "":
			meta = m
		default:
			meta.DefaultBranch = m.DefaultBranch
		}
	}

	parent, err := os.MkdirTemp(c.tempDir, "stacklens-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating clone directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(parent); err != nil {
			c.logger.Warn("removing clone directory", "dir", parent, "error", err)
		}
	}

	target := filepath.Join(parent, ref.Name)
	args := []string{"clone", "--depth", "1"}
	if meta.DefaultBranch != "" {
		args = append(args, "--branch", meta.DefaultBranch)
	}
	args = append(args, meta.CloneURL, target)

	attempt := 0
	err = retry.Do(ctx, retry.WithMaxRetries(c.retries, retry.NewConstant(c.backoff)), func(ctx context.Context) error {
		attempt++
		if err := os.RemoveAll(target); err != nil {
			return err
		}
		c.logger.Debug("cloning", "url", meta.CloneURL, "attempt", attempt)
		if err := c.git(ctx, parent, args...); err != nil {
			if !transient(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("cloning %s: %w", ref.String(), err)
	}
	return target, cleanup, nil
}

// permanentGitErrors are lower-cased fragments of git failures that another
// attempt cannot fix.
var permanentGitErrors = []string{
	"not found",
	"authentication failed",
	"could not read username",
	"invalid username or password",
	"permission denied",
	"access denied",
	"does not appear to be a git repository",
}

// transient reports whether a failed clone is worth retrying.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range permanentGitErrors {
		if strings.Contains(msg, frag) {
			return false
		}
	}
	return true
}

func runGit(ctx context.Context, dir string, args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("git: no subcommand provided")
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if _, err := cmd.Output(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("git %s: %s", args[0], string(exitErr.Stderr))
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}
