// Package sourceurl parses GitHub repository URLs into their
// owner/repo/branch components.
package sourceurl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidSourceURL is returned when a string does not match the expected
// github.com/<owner>/<repo> shape.
var ErrInvalidSourceURL = errors.New("invalid source URL")

// DefaultBranch is assumed when a URL carries no /tree/<branch> suffix.
const DefaultBranch = "main"

// Ref identifies a repository at a branch.
type Ref struct {
	Owner  string
	Repo   string
	Branch string
}

// Parse extracts (owner, repo, branch) from a GitHub repository URL.
// Accepted forms:
//
//	https://github.com/owner/repo
//	https://github.com/owner/repo.git
//	https://github.com/owner/repo/tree/branch
//	github.com/owner/repo
//	git@github.com:owner/repo.git
//
// Branch defaults to "main". Non-GitHub hosts are rejected.
func Parse(raw string) (Ref, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Ref{}, fmt.Errorf("%w: empty string", ErrInvalidSourceURL)
	}

	// Normalize SSH form to a path we can parse uniformly.
	if strings.HasPrefix(s, "git@github.com:") {
		s = "https://github.com/" + strings.TrimPrefix(s, "git@github.com:")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidSourceURL, raw)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return Ref{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSourceURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return Ref{}, fmt.Errorf("%w: unsupported host %q", ErrInvalidSourceURL, u.Hostname())
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidSourceURL, raw)
	}

	ref := Ref{
		Owner:  parts[0],
		Repo:   strings.TrimSuffix(parts[1], ".git"),
		Branch: DefaultBranch,
	}
	if ref.Repo == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidSourceURL, raw)
	}

	// Optional /tree/<branch> suffix; anything after the branch is ignored.
	if len(parts) >= 4 && parts[2] == "tree" && parts[3] != "" {
		ref.Branch = parts[3]
	}

	return ref, nil
}

// URL returns the canonical browse URL for the ref, including the branch.
func (r Ref) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/tree/%s", r.Owner, r.Repo, r.Branch)
}

// CloneURL returns the HTTPS clone URL for the repository.
func (r Ref) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Repo)
}

// String implements fmt.Stringer.
func (r Ref) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Owner, r.Repo, r.Branch)
}
