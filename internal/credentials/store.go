// Package credentials manages git-provider credentials, stored encrypted at
// rest and matched against remote URLs by provider and base URL.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Known providers. Custom providers match by BaseURL only.
const (
	ProviderGitHub    = "github"
	ProviderGitLab    = "gitlab"
	ProviderGitea     = "gitea"
	ProviderBitbucket = "bitbucket"
	ProviderCustom    = "custom"
)

// Auth types.
const (
	AuthToken = "token"
	AuthBasic = "basic"
)

// ErrCredentialNotFound is returned when no credential matches an id.
var ErrCredentialNotFound = errors.New("credential not found")

// Credential is one stored git-provider credential.
type Credential struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	BaseURL   string    `json:"baseUrl,omitempty"`
	AuthType  string    `json:"authType"`
	Username  string    `json:"username,omitempty"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Redacted returns a copy safe for display: the token is masked.
func (c Credential) Redacted() Credential {
	if c.Token != "" {
		c.Token = "********"
	}
	return c
}

type document struct {
	Credentials []Credential `json:"credentials"`
}

// Store persists credentials as a single encrypted JSON document. Lookup
// order is array order; when multiple credentials match a URL, the first
// one wins.
type Store struct {
	path   string
	secret string
	mu     sync.Mutex
}

// NewStore creates a credential store at path, encrypted with secret.
func NewStore(path, secret string) *Store {
	return &Store{path: path, secret: secret}
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &document{Credentials: []Credential{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential store: %w", err)
	}

	plain, err := decrypt(s.secret, data)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse credential store: %w", err)
	}
	if doc.Credentials == nil {
		doc.Credentials = []Credential{}
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	plain, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode credential store: %w", err)
	}
	sealed, err := encrypt(s.secret, plain)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	if err := os.WriteFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write credential store: %w", err)
	}
	return nil
}

// List returns all credentials in storage order.
func (s *Store) List() ([]Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Credentials, nil
}

// Add stores a new credential, assigning id and timestamps.
func (s *Store) Add(c Credential) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Provider == "" {
		return Credential{}, errors.New("provider is required")
	}
	if c.AuthType == "" {
		c.AuthType = AuthToken
	}

	now := time.Now().UTC().Truncate(time.Second)
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	doc, err := s.load()
	if err != nil {
		return Credential{}, err
	}
	doc.Credentials = append(doc.Credentials, c)
	if err := s.save(doc); err != nil {
		return Credential{}, err
	}
	return c, nil
}

// Update replaces an existing credential by id and refreshes updatedAt.
func (s *Store) Update(c Credential) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return Credential{}, err
	}
	for i := range doc.Credentials {
		if doc.Credentials[i].ID == c.ID {
			c.CreatedAt = doc.Credentials[i].CreatedAt
			c.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			doc.Credentials[i] = c
			if err := s.save(doc); err != nil {
				return Credential{}, err
			}
			return c, nil
		}
	}
	return Credential{}, fmt.Errorf("%w: %s", ErrCredentialNotFound, c.ID)
}

// Remove deletes a credential by id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for i := range doc.Credentials {
		if doc.Credentials[i].ID == id {
			doc.Credentials = append(doc.Credentials[:i], doc.Credentials[i+1:]...)
			return s.save(doc)
		}
	}
	return fmt.Errorf("%w: %s", ErrCredentialNotFound, id)
}

// providerHosts maps known providers to their canonical public hosts.
var providerHosts = map[string]string{
	ProviderGitHub:    "github.com",
	ProviderGitLab:    "gitlab.com",
	ProviderBitbucket: "bitbucket.org",
}

// MatchURL finds the first credential applicable to the remote URL.
func (s *Store) MatchURL(remote string) (*Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, false
	}

	host := hostOf(remote)
	if host == "" {
		return nil, false
	}

	for i := range doc.Credentials {
		c := &doc.Credentials[i]
		if c.BaseURL != "" {
			if strings.EqualFold(hostOf(c.BaseURL), host) {
				return c, true
			}
			continue
		}
		if canonical, ok := providerHosts[c.Provider]; ok && strings.EqualFold(canonical, host) {
			return c, true
		}
	}
	return nil, false
}

// TokenForHost adapts MatchURL to the source.TokenLookup signature.
func (s *Store) TokenForHost(host string) (string, bool) {
	c, ok := s.MatchURL("https://" + host + "/")
	if !ok || c.Token == "" {
		return "", false
	}
	return c.Token, true
}

func hostOf(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
}
