// Package pathres turns a user-supplied project path into one the current
// host can open. It translates between drive-letter paths (C:\src\app) and
// the /mnt/<letter>/ mount paths a WSL-style compatibility layer exposes.
package pathres

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Convention identifies how the host spells absolute paths.
type Convention int

const (
	// Posix is a plain POSIX host with no drive letters.
	Posix Convention = iota
	// Mount is a POSIX host that re-exposes drive letters under /mnt/<letter>.
	Mount
	// DriveLetter is a native Windows host.
	DriveLetter
)

func (c Convention) String() string {
	switch c {
	case Mount:
		return "mount"
	case DriveLetter:
		return "drive-letter"
	default:
		return "posix"
	}
}

const osReleasePath = "/proc/sys/kernel/osrelease"

// mountMarker is the kernel release substring that identifies a compatibility layer.
const mountMarker = "microsoft"

var (
	drivePattern = regexp.MustCompile(`^([A-Za-z]):[\\/](.*)$`)
	mountPattern = regexp.MustCompile(`^/mnt/([A-Za-z])(?:/(.*))?$`)
)

// PathNotFoundError reports that the resolved path is missing or is not a directory.
type PathNotFoundError struct {
	Input    string
	Resolved string
	Host     Convention
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("directory not found: %s (resolved from %q). %s", e.Resolved, e.Input, e.guidance())
}

func (e *PathNotFoundError) guidance() string {
	switch e.Host {
	case Mount:
		return `Windows drive paths are available under /mnt, e.g. C:\Users\me\app becomes /mnt/c/Users/me/app`
	case DriveLetter:
		return `mount-style paths are not available on Windows, e.g. /mnt/c/Users/me/app becomes C:\Users\me\app`
	default:
		return `use a POSIX path; drive-letter paths such as C:\Users\me\app only resolve inside WSL as /mnt/c/Users/me/app`
	}
}

// Resolver resolves input paths for one host convention.
type Resolver struct {
	host   Convention
	stat   func(string) (os.FileInfo, error)
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConvention overrides host detection.
func WithConvention(c Convention) Option {
	return func(r *Resolver) { r.host = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStat replaces os.Stat, mainly for tests that exercise the opposite convention.
func WithStat(stat func(string) (os.FileInfo, error)) Option {
	return func(r *Resolver) { r.stat = stat }
}

// New creates a Resolver for the current host.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		host:   DetectHost(runtime.GOOS, readOSRelease),
		stat:   os.Stat,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Host returns the convention the resolver translates into.
func (r *Resolver) Host() Convention { return r.host }

// DetectHost classifies the host from GOOS and the kernel release string.
func DetectHost(goos string, release func() (string, error)) Convention {
	if goos == "windows" {
		return DriveLetter
	}
	if release == nil {
		return Posix
	}
	s, err := release()
	if err != nil {
		return Posix
	}
	if strings.Contains(strings.ToLower(s), mountMarker) {
		return Mount
	}
	return Posix
}

func readOSRelease() (string, error) {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Translate converts input into the host convention without touching the filesystem.
func (r *Resolver) Translate(input string) string {
	input = strings.TrimSpace(input)
	switch r.host {
	case Mount:
		if m := drivePattern.FindStringSubmatch(input); m != nil {
			rest := strings.ReplaceAll(m[2], `\`, "/")
			return path.Clean("/mnt/" + strings.ToLower(m[1]) + "/" + rest)
		}
	case DriveLetter:
		if m := mountPattern.FindStringSubmatch(input); m != nil {
			rest := strings.ReplaceAll(m[2], "/", `\`)
			return strings.ToUpper(m[1]) + `:\` + strings.TrimSuffix(rest, `\`)
		}
	}
	if input == "" {
		input = "."
	}
	return filepath.Clean(input)
}

// Resolve translates input and verifies that it names an existing directory.
func (r *Resolver) Resolve(input string) (string, error) {
	resolved := r.Translate(input)
	if resolved != filepath.Clean(strings.TrimSpace(input)) {
		r.logger.Debug("translated path", "input", input, "resolved", resolved, "host", r.host.String())
	}

	info, err := r.stat(resolved)
	if err != nil || !info.IsDir() {
		return "", &PathNotFoundError{Input: input, Resolved: resolved, Host: r.host}
	}
	return resolved, nil
}
