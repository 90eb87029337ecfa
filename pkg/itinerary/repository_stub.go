package itinerary

import (
	"context"
	"sync"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu           sync.Mutex
	docs         map[string]Document
	ReplaceCalls int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{docs: map[string]Document{}}
}

func (s *RepositoryStub) Load(ctx context.Context, scopeKey string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[scopeKey]
	if !ok {
		return Document{Events: []Event{}, Version: 0}, nil
	}
	events := make([]Event, len(doc.Events))
	copy(events, doc.Events)
	return Document{Events: events, Version: doc.Version}, nil
}

func (s *RepositoryStub) Replace(ctx context.Context, scopeKey string, events []Event, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReplaceCalls++
	stored := s.docs[scopeKey]
	if stored.Version != expectedVersion {
		return 0, ErrVersionConflict
	}
	copied := make([]Event, len(events))
	copy(copied, events)
	s.docs[scopeKey] = Document{Events: copied, Version: expectedVersion + 1}
	return expectedVersion + 1, nil
}

// BumpVersion simulates a concurrent writer overwriting the stored document.
func (s *RepositoryStub) BumpVersion(scopeKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[scopeKey]
	doc.Version++
	s.docs[scopeKey] = doc
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = map[string]Document{}
	s.ReplaceCalls = 0
}
