package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expressRef = Ref{Host: GitHub, Hostname: "github.com", Namespace: "expressjs", Name: "express"}

type fakeSource struct {
	meta Metadata
	err  error
}

func (f fakeSource) Lookup(context.Context, Ref) (Metadata, error) { return f.meta, f.err }

// recordingGit fakes git clone by creating the target directory.
type recordingGit struct {
	calls    [][]string
	failures int
	failWith error
}

func (g *recordingGit) run(_ context.Context, _ string, args ...string) error {
	g.calls = append(g.calls, args)
	if len(g.calls) <= g.failures {
		if g.failWith != nil {
			return g.failWith
		}
		return errors.New("git clone: connection reset")
	}
	target := args[len(args)-1]
	if err := os.MkdirAll(target, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(target, "package.json"), []byte(`{}`), 0o644)
}

func TestCloneUsesMetadata(t *testing.T) {
	git := &recordingGit{}
	c := NewCloner(
		WithGit(git.run),
		WithTempDir(t.TempDir()),
		WithSource(GitHub, fakeSource{meta: Metadata{CloneURL: "https://example.test/express.git", DefaultBranch: "master"}}),
	)

	dir, cleanup, err := c.Clone(context.Background(), expressRef)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "package.json"))
	assert.Equal(t, "express", filepath.Base(dir))

	require.Len(t, git.calls, 1)
	assert.Equal(t, []string{"clone", "--depth", "1", "--branch", "master", "https://example.test/express.git", dir}, git.calls[0])

	cleanup()
	assert.NoDirExists(t, filepath.Dir(dir))
}

func TestCloneFallsBackWhenLookupFails(t *testing.T) {
	git := &recordingGit{}
	c := NewCloner(
		WithGit(git.run),
		WithTempDir(t.TempDir()),
		WithSource(GitHub, fakeSource{err: errors.New("rate limited")}),
	)

	dir, cleanup, err := c.Clone(context.Background(), expressRef)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, []string{"clone", "--depth", "1", "https://github.com/expressjs/express.git", dir}, git.calls[0])
}

func TestCloneRetries(t *testing.T) {
	git := &recordingGit{failures: 2}
	c := NewCloner(WithGit(git.run), WithTempDir(t.TempDir()), WithRetries(2), WithBackoff(0))

	dir, cleanup, err := c.Clone(context.Background(), expressRef)
	require.NoError(t, err)
	defer cleanup()
	assert.Len(t, git.calls, 3)
	assert.DirExists(t, dir)
}

func TestCloneGivesUpAndCleansUp(t *testing.T) {
	parent := t.TempDir()
	git := &recordingGit{failures: 10}
	c := NewCloner(WithGit(git.run), WithTempDir(parent), WithRetries(1), WithBackoff(0))

	_, cleanup, err := c.Clone(context.Background(), expressRef)
	require.Error(t, err)
	assert.Nil(t, cleanup)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Len(t, git.calls, 2)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCloneDoesNotRetryPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"missing repository", errors.New("git clone: remote: Repository not found.\nfatal: repository 'https://github.com/acme/gone.git/' not found")},
		{"bad credentials", errors.New("git clone: fatal: Authentication failed for 'https://github.com/acme/private.git/'")},
		{"no prompt", errors.New("git clone: fatal: could not read Username for 'https://github.com': terminal prompts disabled")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := t.TempDir()
			git := &recordingGit{failures: 10, failWith: tt.err}
			c := NewCloner(WithGit(git.run), WithTempDir(parent), WithRetries(3), WithBackoff(0))

			_, cleanup, err := c.Clone(context.Background(), expressRef)
			require.Error(t, err)
			assert.Nil(t, cleanup)
			assert.Len(t, git.calls, 1)

			entries, err := os.ReadDir(parent)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestTransient(t *testing.T) {
	assert.True(t, transient(errors.New("git clone: fatal: unable to access: Could not resolve host: github.com")))
	assert.True(t, transient(errors.New("git clone: connection reset")))
	assert.False(t, transient(errors.New("git clone: remote: Repository not found.")))
	assert.False(t, transient(fmt.Errorf("git clone: %w", context.Canceled)))
}

func TestGitHubSourceLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/expressjs/express", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"clone_url":"https://github.com/expressjs/express.git","default_branch":"master"}`))
	}))
	defer srv.Close()

	src, err := NewGitHubSource("secret", srv.URL, srv.Client())
	require.NoError(t, err)

	meta, err := src.Lookup(context.Background(), expressRef)
	require.NoError(t, err)
	assert.Equal(t, Metadata{CloneURL: "https://github.com/expressjs/express.git", DefaultBranch: "master"}, meta)
}

func TestGitHubSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	src, err := NewGitHubSource("", srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = src.Lookup(context.Background(), expressRef)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expressjs/express")
}

func TestGitLabSourceLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/api/v4/projects/"), r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("PRIVATE-TOKEN"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"http_url_to_repo":"https://gitlab.com/g/p.git","default_branch":"main"}`))
	}))
	defer srv.Close()

	src, err := NewGitLabSource("secret", srv.URL+"/api/v4", srv.Client())
	require.NoError(t, err)

	meta, err := src.Lookup(context.Background(), Ref{Host: GitLab, Hostname: "gitlab.com", Namespace: "g", Name: "p"})
	require.NoError(t, err)
	assert.Equal(t, Metadata{CloneURL: "https://gitlab.com/g/p.git", DefaultBranch: "main"}, meta)
}
