package source

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// MemoryRepo is an in-memory Repository used as a test double throughout the
// pipeline packages.
type MemoryRepo struct {
	Meta  Metadata
	files map[string][]byte

	// ReadErr, when set, is returned by every ReadFile call. Lets tests
	// exercise the best-effort probe paths.
	ReadErr error

	// Closes counts Close calls so tests can assert snapshot release.
	Closes int
}

// NewMemoryRepo creates an empty in-memory repository.
func NewMemoryRepo(meta Metadata) *MemoryRepo {
	return &MemoryRepo{Meta: meta, files: make(map[string][]byte)}
}

// AddFile stores a file under the given repository-relative path.
func (m *MemoryRepo) AddFile(name string, content []byte) *MemoryRepo {
	m.files[strings.Trim(path.Clean(name), "/")] = content
	return m
}

func (m *MemoryRepo) Metadata() Metadata {
	return m.Meta
}

func (m *MemoryRepo) ReadFile(_ context.Context, name string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	content, ok := m.files[strings.Trim(path.Clean(name), "/")]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return content, nil
}

func (m *MemoryRepo) RootEntries(context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for name := range m.files {
		first := name
		if i := strings.Index(name, "/"); i >= 0 {
			first = name[:i]
		}
		seen[first] = true
	}

	entries := make([]string, 0, len(seen))
	for name := range seen {
		entries = append(entries, name)
	}
	sort.Strings(entries)
	return entries, nil
}

func (m *MemoryRepo) Close() error {
	m.Closes++
	return nil
}

// MemoryOpener is an Opener over a fixed set of repositories, keyed by
// "owner/repo".
type MemoryOpener struct {
	Repos map[string]*MemoryRepo

	// OpenErr, when set, is returned by every Open call.
	OpenErr error
}

func (o *MemoryOpener) Open(_ context.Context, owner, repo, _ string) (Repository, error) {
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	r, ok := o.Repos[owner+"/"+repo]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrRepositoryNotFound, owner, repo)
	}
	return r, nil
}
