// Package remote clones GitHub and GitLab repositories into a temporary
// directory so they can be analysed like local projects.
package remote

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Host identifies a supported code host.
type Host string

const (
	GitHub Host = "github"
	GitLab Host = "gitlab"
)

// Ref names a remote repository. Namespace may contain GitLab subgroups.
type Ref struct {
	Host      Host
	Hostname  string
	Namespace string
	Name      string
}

// Slug returns "namespace/name".
func (r Ref) Slug() string {
	return r.Namespace + "/" + r.Name
}

// CloneURL is the anonymous HTTPS clone URL used when no metadata is available.
func (r Ref) CloneURL() string {
	return "https://" + r.Hostname + "/" + r.Slug() + ".git"
}

// APIBaseURL returns the REST API root of a self-hosted instance, or "" for
// github.com and gitlab.com where the client defaults apply.
func (r Ref) APIBaseURL() string {
	switch {
	case r.Host == GitHub && r.Hostname != "github.com":
		return "https://" + r.Hostname + "/api/v3/"
	case r.Host == GitLab && r.Hostname != "gitlab.com":
		return "https://" + r.Hostname + "/api/v4"
	}
	return ""
}

func (r Ref) String() string {
	return r.Hostname + "/" + r.Slug()
}

// IsRemote reports whether input looks like a repository URL rather than a
// local path.
func IsRemote(input string) bool {
	s := strings.TrimSpace(input)
	for _, prefix := range []string{"https://", "http://", "ssh://", "git@"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// Parse accepts https, ssh:// and scp-style (git@host:ns/name.git) URLs for
// GitHub and GitLab hosts, including self-hosted ones whose hostname
// contains "github" or "gitlab".
func Parse(raw string) (Ref, error) {
	s := strings.TrimSpace(raw)
	var hostname, p string

	if strings.HasPrefix(s, "git@") {
		rest := strings.TrimPrefix(s, "git@")
		i := strings.Index(rest, ":")
		if i < 0 {
			return Ref{}, fmt.Errorf("invalid repository URL %q", raw)
		}
		hostname, p = rest[:i], rest[i+1:]
	} else {
		u, err := url.Parse(s)
		if err != nil {
			return Ref{}, fmt.Errorf("invalid repository URL %q: %w", raw, err)
		}
		if u.Scheme != "https" && u.Scheme != "http" && u.Scheme != "ssh" {
			return Ref{}, fmt.Errorf("invalid repository URL %q: unsupported scheme %q", raw, u.Scheme)
		}
		hostname, p = u.Hostname(), u.Path
	}

	hostname = strings.ToLower(hostname)
	var host Host
	switch {
	case strings.Contains(hostname, "github"):
		host = GitHub
	case strings.Contains(hostname, "gitlab"):
		host = GitLab
	default:
		return Ref{}, fmt.Errorf("unsupported repository host %q", hostname)
	}

	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	// GitLab web URLs put views such as /-/tree/main after the project path.
	if i := strings.Index(p, "/-/"); i >= 0 {
		p = p[:i]
	}
	parts := strings.Split(p, "/")
	if len(parts) < 2 || slices.Contains(parts, "") {
		return Ref{}, fmt.Errorf("invalid repository URL %q: expected <owner>/<name>", raw)
	}
	if host == GitHub {
		// github.com/owner/name/tree/main
		parts = parts[:2]
	}

	return Ref{
		Host:      host,
		Hostname:  hostname,
		Namespace: strings.Join(parts[:len(parts)-1], "/"),
		Name:      parts[len(parts)-1],
	}, nil
}
