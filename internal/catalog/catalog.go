// Package catalog browses external script catalogs (the community-scripts
// ProxmoxVE catalog and the selfh.st app index) so their entries can be fed
// into the normal import pipeline.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Default upstream endpoints.
const (
	communityIndexURL = "https://raw.githubusercontent.com/community-scripts/ProxmoxVE/main/frontend/public/json/metadata.json"
	selfhstIndexURL   = "https://cdn.selfh.st/directory/apps.json"
)

// Entry is one browsable catalog entry. RepoURL is empty when the upstream
// record does not link a GitHub repository; such entries cannot be imported.
type Entry struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	RepoURL     string `json:"repoUrl,omitempty"`
	Catalog     string `json:"catalog"`
}

// Client fetches catalog indexes.
type Client struct {
	http         *http.Client
	communityURL string
	selfhstURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithEndpoints overrides the upstream index URLs.
func WithEndpoints(community, selfhst string) Option {
	return func(c *Client) {
		if community != "" {
			c.communityURL = community
		}
		if selfhst != "" {
			c.selfhstURL = selfhst
		}
	}
}

// NewClient creates a catalog client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:         http.DefaultClient,
		communityURL: communityIndexURL,
		selfhstURL:   selfhstIndexURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) fetchJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch catalog: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	return nil
}

type communityIndex struct {
	Scripts []struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Website     string `json:"website"`
		Repository  string `json:"repository"`
	} `json:"scripts"`
}

// Community lists the community-scripts catalog, sorted by name.
func (c *Client) Community(ctx context.Context) ([]Entry, error) {
	var idx communityIndex
	if err := c.fetchJSON(ctx, c.communityURL, &idx); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(idx.Scripts))
	for _, s := range idx.Scripts {
		entries = append(entries, Entry{
			Name:        s.Name,
			Slug:        s.Slug,
			Description: s.Description,
			RepoURL:     githubURL(s.Repository, s.Website),
			Catalog:     "community-scripts",
		})
	}
	sortEntries(entries)
	return entries, nil
}

type selfhstIndex []struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	GitHub      string `json:"github"`
}

// SelfHst lists the selfh.st app index, sorted by name.
func (c *Client) SelfHst(ctx context.Context) ([]Entry, error) {
	var idx selfhstIndex
	if err := c.fetchJSON(ctx, c.selfhstURL, &idx); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(idx))
	for _, a := range idx {
		repo := a.GitHub
		// selfh.st records GitHub as "owner/repo".
		if repo != "" && !strings.Contains(repo, "://") {
			repo = "https://github.com/" + repo
		}
		entries = append(entries, Entry{
			Name:        a.Name,
			Slug:        a.Slug,
			Description: a.Description,
			RepoURL:     repo,
			Catalog:     "selfh.st",
		})
	}
	sortEntries(entries)
	return entries, nil
}

// Search filters entries by a case-insensitive substring match on name,
// slug, and description.
func Search(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Slug), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry whose slug or name matches exactly,
// case-insensitively.
func Find(entries []Entry, key string) (Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Slug, key) || strings.EqualFold(e.Name, key) {
			return e, true
		}
	}
	return Entry{}, false
}

func githubURL(candidates ...string) string {
	for _, c := range candidates {
		if strings.Contains(c, "github.com/") {
			return c
		}
	}
	return ""
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
