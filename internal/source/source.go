// Package source provides read access to project repositories hosted on
// GitHub: metadata lookup through the REST API and file access through a
// downloaded archive snapshot.
package source

import (
	"context"
	"errors"
)

// ErrRepositoryNotFound is returned when the host answers the repository
// metadata call with a 404.
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrAuthenticationRequired is returned on 401/403 responses when no usable
// credential was applied.
var ErrAuthenticationRequired = errors.New("authentication required")

// Metadata is the subset of repository metadata the pipeline consumes.
type Metadata struct {
	Owner         string
	Repo          string
	Description   string
	DefaultBranch string
	HTMLURL       string
}

// Repository is a read-only view of one repository at one branch.
// ReadFile returns an error satisfying errors.Is(err, fs.ErrNotExist) for
// missing paths so callers can tell "not found" from transport failures.
// Callers must Close the repository when done to release the downloaded
// snapshot.
type Repository interface {
	Metadata() Metadata
	ReadFile(ctx context.Context, path string) ([]byte, error)
	RootEntries(ctx context.Context) ([]string, error)
	Close() error
}

// Opener resolves a parsed source ref into a Repository.
type Opener interface {
	Open(ctx context.Context, owner, repo, branch string) (Repository, error)
}
