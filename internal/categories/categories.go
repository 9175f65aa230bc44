// Package categories manages the catalog category namespace: a built-in set
// with IDs below 100 and user-defined categories at 100 and above, persisted
// as a YAML file.
package categories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// UserIDBase is the first ID available to user-defined categories.
const UserIDBase = 100

// ErrCategoryNotFound is returned when an ID resolves to no category.
var ErrCategoryNotFound = errors.New("category not found")

// Category is one catalog category.
type Category struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Builtin categories mirror the script catalog's fixed namespace.
var builtin = []Category{
	{ID: 1, Name: "Automation"},
	{ID: 2, Name: "Databases"},
	{ID: 3, Name: "Development"},
	{ID: 4, Name: "Media"},
	{ID: 5, Name: "Monitoring"},
	{ID: 6, Name: "Networking"},
	{ID: 7, Name: "Productivity"},
	{ID: 8, Name: "Storage"},
	{ID: 9, Name: "Miscellaneous"},
}

type userFile struct {
	Categories []Category `yaml:"categories"`
}

// Manager provides category lookup and user-category CRUD.
type Manager struct {
	path string
	mu   sync.Mutex
}

// NewManager creates a Manager storing user categories at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) loadUser() (*userFile, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return &userFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	var f userFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}
	return &f, nil
}

func (m *Manager) saveUser(f *userFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create category directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write categories: %w", err)
	}
	return nil
}

// List returns built-in and user categories, sorted by ID.
func (m *Manager) List() ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.loadUser()
	if err != nil {
		return nil, err
	}

	out := make([]Category, 0, len(builtin)+len(f.Categories))
	out = append(out, builtin...)
	out = append(out, f.Categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get resolves an ID to a category.
func (m *Manager) Get(id int) (Category, error) {
	all, err := m.List()
	if err != nil {
		return Category{}, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
}

// Add creates a user-defined category with the next free ID at or above
// UserIDBase.
func (m *Manager) Add(name string) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return Category{}, errors.New("category name is required")
	}

	f, err := m.loadUser()
	if err != nil {
		return Category{}, err
	}

	next := UserIDBase
	for _, c := range f.Categories {
		if c.ID >= next {
			next = c.ID + 1
		}
	}

	cat := Category{ID: next, Name: name}
	f.Categories = append(f.Categories, cat)
	if err := m.saveUser(f); err != nil {
		return Category{}, err
	}
	return cat, nil
}

// Remove deletes a user-defined category. Built-in IDs are rejected.
func (m *Manager) Remove(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < UserIDBase {
		return fmt.Errorf("category %d is built-in and cannot be removed", id)
	}

	f, err := m.loadUser()
	if err != nil {
		return err
	}
	for i, c := range f.Categories {
		if c.ID == id {
			f.Categories = append(f.Categories[:i], f.Categories[i+1:]...)
			return m.saveUser(f)
		}
	}
	return fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
}
