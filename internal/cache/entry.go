// Package cache holds the last successfully rendered report of a refresh loop.
package cache

import (
	"sync"
	"time"
)

type Entry struct {
	Text      string
	UpdatedAt time.Time
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.UpdatedAt) < ttl
}

// Store keeps one Entry. Set replaces the whole entry, so Load never observes
// a text from one render paired with the timestamp of another.
type Store struct {
	mu      sync.RWMutex
	entry   Entry
	present bool
}

// Load returns the current entry and false if nothing has been stored yet.
func (s *Store) Load() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.entry, s.present
}

func (s *Store) Set(text string, at time.Time) {
	s.mu.Lock()
	s.entry = Entry{Text: text, UpdatedAt: at}
	s.present = true
	s.mu.Unlock()
}
