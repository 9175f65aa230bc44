package importer

import (
	"errors"

	"github.com/pvekit/scriptport/internal/source"
	"github.com/pvekit/scriptport/internal/sourceurl"
)

// The operation error taxonomy. Network and filesystem errors are translated
// into these at the orchestrator boundary; callers (CLI, HTTP handlers) map
// them to exit codes and status codes.
var (
	ErrInvalidSourceURL       = sourceurl.ErrInvalidSourceURL
	ErrRepositoryNotFound     = source.ErrRepositoryNotFound
	ErrAuthenticationRequired = source.ErrAuthenticationRequired
	ErrManifestNotFound       = errors.New("manifest not found")
	ErrPersistenceFailure     = errors.New("persistence failure")
)
