// Package history keeps the session-scoped query log. The log is append
// only and lives for the process lifetime; Clear is the only way to empty
// it.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind labels what a logged query did.
type Kind string

const (
	KindRecommend Kind = "recommend"
	KindAssess    Kind = "assess"
	KindIdentify  Kind = "identify"
	KindBatch     Kind = "batch"
)

// Entry is one logged query.
type Entry struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	MPN     string    `json:"mpn"`
	Results int       `json:"results"`
	At      time.Time `json:"at"`
}

// Store is a thread-safe in-memory query log.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add appends an entry and returns its generated ID.
func (s *Store) Add(kind Kind, mpn string, results int) string {
	e := Entry{
		ID:      uuid.NewString(),
		Kind:    kind,
		MPN:     mpn,
		Results: results,
		At:      s.now(),
	}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return e.ID
}

// List returns a copy of all entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of logged queries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}
