// Package session keeps per-conversation pagination state in memory.
package session

import (
	"strings"
	"sync"
)

// State is the pagination position of one conversation.
type State struct {
	// Query is the last search term; meaningful only when HasQuery is set.
	Query    string
	HasQuery bool
	Offset   int
}

// Store maps conversation ids to pagination state.
type Store struct {
	mu     sync.Mutex
	states map[string]State
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{states: make(map[string]State)}
}

// Get returns the stored state for a conversation.
func (s *Store) Get(conversationID string) (State, bool) {
	if s == nil {
		return State{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[normalizeID(conversationID)]
	return state, ok
}

// Update applies fn to the current state under the store lock and saves the
// result. fn receives the zero State and false when nothing is stored yet.
func (s *Store) Update(conversationID string, fn func(current State, ok bool) State) State {
	if s == nil || fn == nil {
		return State{}
	}
	id := normalizeID(conversationID)
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.states[id]
	next := fn(current, ok)
	if next.Offset < 0 {
		next.Offset = 0
	}
	if !next.HasQuery {
		next.Query = ""
	}
	s.states[id] = next
	return next
}

// Forget drops the state for a conversation.
func (s *Store) Forget(conversationID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.states, normalizeID(conversationID))
	s.mu.Unlock()
}

// Len returns the number of tracked conversations.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func normalizeID(conversationID string) string {
	return strings.TrimSpace(conversationID)
}
