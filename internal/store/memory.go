package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weathermap/internal/session"
)

var (
	// ErrNotFound is returned when no session exists for an ID.
	ErrNotFound = errors.New("session not found")
)

type entry struct {
	controller *session.Controller
	lastSeen   time.Time
}

// MemoryStore is a concurrency-safe in-memory registry of page sessions.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session ID
	data map[string]*entry

	// retention configuration
	maxSessions int           // max number of live sessions
	maxAge      time.Duration // idle time after which a session is pruned

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxSessions or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*entry),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// Save registers a session and evicts the least recently seen one when full.
func (s *MemoryStore) Save(c *session.Controller) {
	key := c.ID().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = &entry{controller: c, lastSeen: s.now()}

	// Enforce retention by count.
	for s.maxSessions > 0 && len(s.data) > s.maxSessions {
		var oldestKey string
		var oldest time.Time
		for k, e := range s.data {
			if k == key {
				continue
			}
			if oldestKey == "" || e.lastSeen.Before(oldest) {
				oldestKey, oldest = k, e.lastSeen
			}
		}
		if oldestKey == "" {
			break
		}
		delete(s.data, oldestKey)
	}
}

// Get returns a session and marks it as seen.
func (s *MemoryStore) Get(id string) (*session.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.controller, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Prune drops sessions idle for longer than maxAge and returns how many were removed.
func (s *MemoryStore) Prune() int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for k, e := range s.data {
		if e.lastSeen.Before(cutoff) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
