package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"permitbase/ordinance/pkg/ruleset"
)

// MemorySource serves rule-set documents from memory. It is used in tests
// and for embedding default rule sets into a binary. The fingerprint is a
// revision counter bumped on every Set, so stores layered on top observe
// document replacement the same way they observe file edits.
type MemorySource struct {
	mu        sync.RWMutex
	docs      map[string][]byte
	revisions map[string]int
}

// NewMemorySource creates an empty in-memory rule-set source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		docs:      make(map[string][]byte),
		revisions: make(map[string]int),
	}
}

// Set stores document bytes under a name, replacing any previous revision.
func (s *MemorySource) Set(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[name] = data
	s.revisions[name]++
}

// Delete removes the named document.
func (s *MemorySource) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, name)
	delete(s.revisions, name)
}

// Read returns the stored bytes for a name.
func (s *MemorySource) Read(ctx context.Context, name string) (*ruleset.SourceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[name]
	if !ok {
		return nil, &ruleset.NotFoundError{Name: name}
	}

	return &ruleset.SourceDocument{Data: data, Path: "memory://" + name + ".json"}, nil
}

// Fingerprint returns the current revision of the named document.
func (s *MemorySource) Fingerprint(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rev, ok := s.revisions[name]
	if !ok {
		return "", &ruleset.NotFoundError{Name: name}
	}

	return fmt.Sprintf("rev:%d", rev), nil
}

// Names lists the stored rule-set names, sorted.
func (s *MemorySource) Names(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
