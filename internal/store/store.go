// Package store persists the whole application state as one JSON document
// and serializes every mutation against it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"storyloom-backend/internal/domain"
)

// ErrStorageUnavailable is returned when the document cannot be read,
// parsed, or written.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Document is the single serialized blob holding all application state.
type Document struct {
	Revision int64             `json:"revision"`
	Users    []domain.User     `json:"users"`
	UserAuth []domain.UserAuth `json:"user_auth"`
	Stories  []domain.Story    `json:"stories"`
	Follows  []domain.Follow   `json:"follows"`
}

func emptyDocument() *Document {
	return &Document{
		Users:    []domain.User{},
		UserAuth: []domain.UserAuth{},
		Stories:  []domain.Story{},
		Follows:  []domain.Follow{},
	}
}

// Store owns the document. The in-memory copy is authoritative; disk is
// rewritten in full after every committed mutation.
type Store struct {
	path string
	mu   sync.RWMutex
	doc  *Document
}

// Open loads the document at path. A missing file initializes an empty
// schema and persists it immediately; an unparseable file is an error, never
// a silent reset.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.doc = emptyDocument()
			if err := s.persist(s.doc); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrStorageUnavailable, path, err)
	}
	s.doc = &doc
	return s, nil
}

// Path returns the location of the on-disk document.
func (s *Store) Path() string {
	return s.path
}

// Revision returns the number of committed updates.
func (s *Store) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Revision
}

// View runs fn against a consistent snapshot of the document. fn must not
// mutate the document or retain references past its return.
func (s *Store) View(fn func(doc *Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.doc)
}

// Update runs fn as a single transaction: the document is cloned, fn mutates
// the clone, and the clone is persisted before it becomes visible. The
// writer lock is held for the whole sequence, so concurrent updates cannot
// lose each other's changes. If fn or the write fails, both memory and disk
// keep the previous document.
func (s *Store) Update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.doc.clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	next.Revision++
	if err := s.persist(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (d *Document) clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%w: clone: %v", ErrStorageUnavailable, err)
	}
	var next Document
	if err := json.Unmarshal(data, &next); err != nil {
		return nil, fmt.Errorf("%w: clone: %v", ErrStorageUnavailable, err)
	}
	return &next, nil
}

// persist writes the document to a temporary file in the target directory
// and renames it over the previous version. A crash mid-write leaves either
// the old or the new document in place, never a truncated one.
func (s *Store) persist(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorageUnavailable, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write temp: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync temp: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: rename: %v", ErrStorageUnavailable, err)
	}
	return nil
}
