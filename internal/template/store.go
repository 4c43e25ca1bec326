package template

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a JSON-file-backed keyed collection of vendor templates.
// Last write wins; an unreadable file degrades to an empty set rather
// than failing the application.
type Store struct {
	mu        sync.RWMutex
	path      string
	templates []VendorTemplate
}

// OpenStore loads the template collection at path, creating parent
// directories on first save.
func OpenStore(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.templates); err != nil {
		log.Printf("template store %s unreadable, starting empty: %v", path, err)
		s.templates = nil
	}
	return s
}

// List returns a copy of all saved templates.
func (s *Store) List() []VendorTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]VendorTemplate, len(s.templates))
	copy(out, s.templates)
	return out
}

// FindByVendor looks a template up by vendor name, case-insensitively.
func (s *Store) FindByVendor(vendorName string) (VendorTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if strings.EqualFold(t.VendorName, vendorName) {
			return t, true
		}
	}
	return VendorTemplate{}, false
}

// SaveByVendor inserts or updates the template for a vendor name
// (case-insensitive key) and persists the collection.
func (s *Store) SaveByVendor(tmpl VendorTemplate) error {
	s.mu.Lock()
	replaced := false
	for i, t := range s.templates {
		if strings.EqualFold(t.VendorName, tmpl.VendorName) {
			tmpl.ID = t.ID
			s.templates[i] = tmpl
			replaced = true
			break
		}
	}
	if !replaced {
		s.templates = append(s.templates, tmpl)
	}
	s.mu.Unlock()

	return s.persist()
}

// DeleteByID removes a template by its ID and persists the collection.
// Deleting an unknown ID is a no-op.
func (s *Store) DeleteByID(id string) error {
	s.mu.Lock()
	for i, t := range s.templates {
		if t.ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	return s.persist()
}

func (s *Store) persist() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.templates, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
