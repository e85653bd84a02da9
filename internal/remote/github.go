package remote

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/liftoff/internal/github"
)

// GitHubFetcher uses the tag of the latest GitHub release as the version.
type GitHubFetcher struct {
	client github.Client
	owner  string
	repo   string
}

// NewGitHubFetcher creates a GitHubFetcher for "owner/repo".
func NewGitHubFetcher(client github.Client, ownerRepo string) (*GitHubFetcher, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, errors.Newf("invalid GitHub repository %q, want owner/repo", ownerRepo)
	}

	return &GitHubFetcher{client: client, owner: owner, repo: repo}, nil
}

// FetchVersion returns the latest release tag.
func (f *GitHubFetcher) FetchVersion(ctx context.Context) (string, error) {
	rel, err := f.client.GetLatestRelease(ctx, f.owner, f.repo)
	if err != nil {
		return "", errors.Wrapf(err, "fetching latest release of %s/%s", f.owner, f.repo)
	}

	tag := strings.TrimSpace(rel.TagName)
	if tag == "" {
		return "", ErrEmptyVersion
	}

	return tag, nil
}
