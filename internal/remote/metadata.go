package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"github.com/xanzy/go-gitlab"
)

// Metadata is what the host API tells us about a repository.
type Metadata struct {
	CloneURL      string
	DefaultBranch string
}

// MetadataSource looks up repository metadata on a code host.
type MetadataSource interface {
	Lookup(ctx context.Context, ref Ref) (Metadata, error)
}

// GitHubSource queries the GitHub REST API.
type GitHubSource struct {
	client *github.Client
}

// NewGitHubSource creates a GitHub source. An empty token makes anonymous
// requests; a non-empty baseURL points the client at another API root.
func NewGitHubSource(token, baseURL string, httpClient *http.Client) (*GitHubSource, error) {
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
		client.BaseURL = u
	}
	return &GitHubSource{client: client}, nil
}

// Lookup implements MetadataSource.
func (s *GitHubSource) Lookup(ctx context.Context, ref Ref) (Metadata, error) {
	repo, _, err := s.client.Repositories.Get(ctx, ref.Namespace, ref.Name)
	if err != nil {
		return Metadata{}, fmt.Errorf("github: %s: %w", ref.Slug(), err)
	}
	return Metadata{CloneURL: repo.GetCloneURL(), DefaultBranch: repo.GetDefaultBranch()}, nil
}

// GitLabSource queries the GitLab REST API.
type GitLabSource struct {
	client *gitlab.Client
}

// NewGitLabSource creates a GitLab source for the API at baseURL.
func NewGitLabSource(token, baseURL string, httpClient *http.Client) (*GitLabSource, error) {
	opts := []gitlab.ClientOptionFunc{}
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, gitlab.WithHTTPClient(httpClient))
	}
	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("gitlab client: %w", err)
	}
	return &GitLabSource{client: client}, nil
}

// Lookup implements MetadataSource.
func (s *GitLabSource) Lookup(ctx context.Context, ref Ref) (Metadata, error) {
	project, _, err := s.client.Projects.GetProject(ref.Slug(), nil, gitlab.WithContext(ctx))
	if err != nil {
		return Metadata{}, fmt.Errorf("gitlab: %s: %w", ref.Slug(), err)
	}
	return Metadata{CloneURL: project.HTTPURLToRepo, DefaultBranch: project.DefaultBranch}, nil
}
