package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// TokenLookup resolves an access token for a host, typically backed by the
// credential store. The boolean reports whether a credential matched.
type TokenLookup func(host string) (string, bool)

// Client opens GitHub repositories. A zero token means unauthenticated
// access, which is fine for public repositories.
type Client struct {
	token  string
	lookup TokenLookup
}

// NewClient creates a GitHub source client. lookup may be nil; when set it is
// consulted before falling back to the static token.
func NewClient(token string, lookup TokenLookup) *Client {
	return &Client{token: token, lookup: lookup}
}

func (c *Client) tokenFor(host string) string {
	if c.lookup != nil {
		if tok, ok := c.lookup(host); ok {
			return tok
		}
	}
	return c.token
}

func (c *Client) apiClient(ctx context.Context, token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// Open fetches repository metadata and prepares archive-backed file access.
// The archive itself is downloaded lazily on the first file read.
func (c *Client) Open(ctx context.Context, owner, repo, branch string) (Repository, error) {
	token := c.tokenFor("github.com")
	gh := c.apiClient(ctx, token)

	meta, _, err := gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, mapAPIError(err, owner, repo)
	}

	if branch == "" {
		branch = meta.GetDefaultBranch()
	}

	return &githubRepo{
		meta: Metadata{
			Owner:         owner,
			Repo:          repo,
			Description:   meta.GetDescription(),
			DefaultBranch: meta.GetDefaultBranch(),
			HTMLURL:       meta.GetHTMLURL(),
		},
		archive: newArchive(owner, repo, branch, token),
	}, nil
}

// mapAPIError translates go-github errors into the pipeline taxonomy.
func mapAPIError(err error, owner, repo string) error {
	var ger *github.ErrorResponse
	if errors.As(err, &ger) && ger.Response != nil {
		switch ger.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s/%s", ErrRepositoryNotFound, owner, repo)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s/%s", ErrAuthenticationRequired, owner, repo)
		}
	}
	return fmt.Errorf("failed to fetch repository %s/%s: %w", owner, repo, err)
}

// githubRepo combines API metadata with archive-backed file access.
type githubRepo struct {
	meta    Metadata
	archive *Archive
}

func (r *githubRepo) Metadata() Metadata {
	return r.meta
}

func (r *githubRepo) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return r.archive.ReadFile(ctx, path)
}

func (r *githubRepo) RootEntries(ctx context.Context) ([]string, error) {
	return r.archive.Entries(ctx, "")
}

func (r *githubRepo) Close() error {
	return r.archive.Close()
}
