// Package github provides a GitHub releases client.
package github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"

	execpkg "github.com/smykla-skalski/liftoff/internal/exec"
)

// ghAuthTimeout is the timeout for gh auth token command
const ghAuthTimeout = 5 * time.Second

var (
	// ErrRateLimitExceeded is returned when GitHub API rate limit is exceeded
	ErrRateLimitExceeded = errors.New("github API rate limit exceeded")
	// ErrRepositoryNotFound is returned when repository or release is not found
	ErrRepositoryNotFound = errors.New("repository not found")
)

// Asset is a file attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
	Size        int
}

// Release represents a GitHub release
type Release struct {
	TagName    string
	Name       string
	HTMLURL    string
	ZipballURL string
	Assets     []Asset
}

// Client defines the interface for GitHub API operations
type Client interface {
	// GetLatestRelease retrieves the latest release for a repository
	GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error)
	// IsAuthenticated returns whether the client is authenticated
	IsAuthenticated() bool
}

// SDKClient implements Client using go-github SDK
type SDKClient struct {
	client        *github.Client
	authenticated bool
}

type clientOptions struct {
	httpClient *http.Client
	baseURL    string
	token      string
	runner     execpkg.CommandRunner
}

// Option configures an SDKClient.
type Option func(*clientOptions)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithToken sets the API token, skipping environment and gh CLI lookup.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = token }
}

// WithCommandRunner sets the runner used to ask the gh CLI for a token.
func WithCommandRunner(r execpkg.CommandRunner) Option {
	return func(o *clientOptions) { o.runner = r }
}

// NewClient creates a GitHub client. The token is taken from GH_TOKEN,
// GITHUB_TOKEN or `gh auth token`, in that order; without one the client
// makes anonymous requests.
func NewClient(opts ...Option) (*SDKClient, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.token == "" {
		o.token = getToken(o.runner)
	}

	client := github.NewClient(o.httpClient)

	if o.token != "" {
		client = client.WithAuthToken(o.token)
	}

	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		u, err := url.Parse(base)
		if err != nil {
			return nil, errors.Wrap(err, "parsing GitHub API URL")
		}

		client.BaseURL = u
	}

	return &SDKClient{client: client, authenticated: o.token != ""}, nil
}

// getToken retrieves GitHub token from environment or gh CLI
func getToken(runner execpkg.CommandRunner) string {
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}

	if runner == nil {
		return ""
	}

	if _, err := exec.LookPath("gh"); err != nil {
		return ""
	}

	result, err := runner.RunWithTimeout(ghAuthTimeout, "gh", "auth", "token")
	if err != nil {
		return ""
	}

	return strings.TrimSpace(result.Stdout)
}

// IsAuthenticated returns whether the client is authenticated
func (c *SDKClient) IsAuthenticated() bool {
	return c.authenticated
}

// GetLatestRelease retrieves the latest release for a repository
func (c *SDKClient) GetLatestRelease(
	ctx context.Context,
	owner, repo string,
) (*Release, error) {
	release, resp, err := c.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, c.handleError(resp, err)
	}

	result := &Release{
		TagName:    release.GetTagName(),
		Name:       release.GetName(),
		HTMLURL:    release.GetHTMLURL(),
		ZipballURL: release.GetZipballURL(),
	}

	for _, a := range release.Assets {
		result.Assets = append(result.Assets, Asset{
			Name:        a.GetName(),
			DownloadURL: a.GetBrowserDownloadURL(),
			Size:        a.GetSize(),
		})
	}

	return result, nil
}

// handleError converts GitHub API errors to our error types
func (*SDKClient) handleError(resp *github.Response, err error) error {
	if resp == nil {
		return errors.Wrap(err, "querying GitHub")
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.WithSecondaryError(ErrRepositoryNotFound, err)
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Rate.Remaining == 0 {
			return errors.WithHint(ErrRateLimitExceeded, "set GH_TOKEN or GITHUB_TOKEN to raise the limit")
		}

		return errors.Wrap(err, "querying GitHub")
	default:
		return errors.Wrap(err, "querying GitHub")
	}
}
