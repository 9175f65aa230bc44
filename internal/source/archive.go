package source

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"context"
)

// Archive provides file access to a repository snapshot downloaded as a
// GitHub zipball. The download happens once, on first access; subsequent
// reads hit the local zip index. This trades one larger transfer for
// arbitrarily many cheap file probes during detection.
type Archive struct {
	owner  string
	repo   string
	ref    string
	token  string
	client *http.Client

	once     sync.Once
	initErr  error
	tempPath string
	reader   *zip.ReadCloser
	prefix   string
	index    map[string][]string // parent dir -> child names
}

func newArchive(owner, repo, ref, token string) *Archive {
	return &Archive{
		owner:  owner,
		repo:   repo,
		ref:    ref,
		token:  token,
		client: http.DefaultClient,
		index:  make(map[string][]string),
	}
}

func (a *Archive) ensure(ctx context.Context) error {
	a.once.Do(func() {
		a.initErr = a.download(ctx)
	})
	return a.initErr
}

func (a *Archive) download(ctx context.Context) error {
	tmp, err := os.CreateTemp("", fmt.Sprintf("scriptport-%s-%s-*.zip", a.owner, a.repo))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	a.tempPath = tmp.Name()

	if err := a.fetchZipball(ctx, tmp); err != nil {
		tmp.Close()
		os.Remove(a.tempPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(a.tempPath)
		return fmt.Errorf("failed to finish archive download: %w", err)
	}

	reader, err := zip.OpenReader(a.tempPath)
	if err != nil {
		os.Remove(a.tempPath)
		return fmt.Errorf("failed to open archive: %w", err)
	}
	a.reader = reader

	// Unlink immediately; the reader's descriptor keeps the data readable
	// and the file is reclaimed even if Close is never reached.
	os.Remove(a.tempPath)
	a.tempPath = ""

	a.buildIndex()
	return nil
}

// fetchZipball downloads the repository archive. Authenticated requests go
// through the API endpoint so private repositories work; anonymous ones use
// codeload directly.
func (a *Archive) fetchZipball(ctx context.Context, dst *os.File) error {
	var url string
	if a.token != "" {
		url = fmt.Sprintf("https://api.github.com/repos/%s/%s/zipball/%s", a.owner, a.repo, a.ref)
	} else {
		url = fmt.Sprintf("https://codeload.github.com/%s/%s/zip/%s", a.owner, a.repo, a.ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download archive for %s/%s: %w", a.owner, a.repo, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s/%s@%s", ErrRepositoryNotFound, a.owner, a.repo, a.ref)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s/%s", ErrAuthenticationRequired, a.owner, a.repo)
	default:
		return fmt.Errorf("failed to download archive: HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	_, err = io.Copy(dst, resp.Body)
	return err
}

// buildIndex strips the owner-repo-sha/ prefix GitHub adds to zip entries and
// records parent -> children relationships for directory listing.
func (a *Archive) buildIndex() {
	for _, f := range a.reader.File {
		name := strings.Trim(f.Name, "/")
		if a.prefix == "" {
			if i := strings.Index(name, "/"); i >= 0 {
				a.prefix = name[:i+1]
			} else if f.FileInfo().IsDir() {
				a.prefix = name + "/"
			}
		}
	}

	for _, f := range a.reader.File {
		clean := strings.Trim(strings.TrimPrefix(f.Name, a.prefix), "/")
		if clean == "" {
			continue
		}

		parent := path.Dir(clean)
		if parent == "." {
			parent = ""
		}
		child := path.Base(clean)

		children := a.index[parent]
		found := false
		for _, existing := range children {
			if existing == child {
				found = true
				break
			}
		}
		if !found {
			a.index[parent] = append(children, child)
		}
	}
}

// ReadFile returns the contents of one file in the snapshot. Missing paths
// yield fs.ErrNotExist.
func (a *Archive) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}

	name = strings.Trim(path.Clean(name), "/")
	if name == "." || strings.HasPrefix(name, "..") {
		return nil, fmt.Errorf("invalid path: %s", name)
	}

	file, err := a.reader.Open(a.prefix + name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	defer file.Close()

	return io.ReadAll(file)
}

// Entries lists the names directly under dir ("" for the repository root).
func (a *Archive) Entries(ctx context.Context, dir string) ([]string, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}

	dir = strings.Trim(path.Clean(dir), "/")
	if dir == "." {
		dir = ""
	}

	children, ok := a.index[dir]
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
	}
	out := make([]string, len(children))
	copy(out, children)
	return out, nil
}

// Close releases the zip reader and its descriptor. Safe to call before the
// archive was ever downloaded.
func (a *Archive) Close() error {
	var err error
	if a.reader != nil {
		err = a.reader.Close()
		a.reader = nil
	}
	if a.tempPath != "" {
		os.Remove(a.tempPath)
		a.tempPath = ""
	}
	return err
}
