package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a template does not exist in the store.
var ErrNotFound = errors.New("template not found")

// Store keeps the templates in memory and persists every change to a JSON file.
type Store struct {
	mu        sync.RWMutex
	path      string
	templates []Template
	logger    *zap.Logger
}

// NewStore creates an empty store backed by path. Call Load to read the file.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory templates with the file contents.
// A missing file leaves the store empty. Invalid entries are skipped and logged.
func (s *Store) Load() error {
	if s.path == "" {
		return errors.New("templates file is not configured")
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.templates = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	loaded, skipped, err := Decode(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	for _, e := range skipped {
		s.logger.Warn("Skipping invalid template", zap.String("file", s.path), zap.Error(e))
	}

	s.mu.Lock()
	s.templates = loaded
	s.mu.Unlock()

	s.logger.Debug("Templates loaded", zap.String("file", s.path), zap.Int("count", len(loaded)))
	return nil
}

// Save writes all templates to the backing file.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return errors.New("templates file is not configured")
	}

	list := s.templates
	if list == nil {
		list = []Template{}
	}
	data, err := json.MarshalIndent(list, "", "    ")
	if err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}

	// Write next to the target and rename so readers never see a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Add appends a template and persists the store.
func (s *Store) Add(headerID, name string, indices []int) (Entry, error) {
	t := Template{HeaderID: headerID, Name: name, Indices: append([]int(nil), indices...)}
	if t.Indices == nil {
		t.Indices = []int{}
	}
	if err := t.Validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates = append(s.templates, t)
	if err := s.saveLocked(); err != nil {
		s.templates = s.templates[:len(s.templates)-1]
		return Entry{}, err
	}
	return Entry{Index: len(s.templates) - 1, Template: t}, nil
}

// RemoveAt deletes the template at index and persists the store.
func (s *Store) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.templates) {
		return ErrNotFound
	}
	previous := s.templates
	s.templates = append(append([]Template(nil), previous[:index]...), previous[index+1:]...)
	if err := s.saveLocked(); err != nil {
		s.templates = previous
		return err
	}
	return nil
}

// Remove deletes the first template equal to t and persists the store.
func (s *Store) Remove(t Template) error {
	s.mu.RLock()
	index := -1
	for i, candidate := range s.templates {
		if candidate.Equal(t) {
			index = i
			break
		}
	}
	s.mu.RUnlock()

	if index < 0 {
		return ErrNotFound
	}
	return s.RemoveAt(index)
}

// List returns every template with its position.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.templates))
	for i, t := range s.templates {
		out[i] = Entry{Index: i, Template: t}
	}
	return out
}

// ForFormat returns the templates whose fingerprint equals headerID.
func (s *Store) ForFormat(headerID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Entry{}
	for i, t := range s.templates {
		if t.HeaderID == headerID {
			out = append(out, Entry{Index: i, Template: t})
		}
	}
	return out
}

// Find returns the first template for headerID with the given name.
func (s *Store) Find(headerID, name string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.HeaderID == headerID && t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// Len returns the number of templates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}
