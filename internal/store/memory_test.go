package store

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/i474232898/weathermap/internal/session"
)

func newSession() *session.Controller {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.NewController(nil, logger, session.Options{RangeOptions: []int{3, 12}, DefaultRange: 12})
}

func TestMemoryStoreSaveGetDelete(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	c := newSession()
	s.Save(c)

	got, err := s.Get(c.ID().String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != c {
		t.Fatal("Get returned a different controller")
	}

	if err := s.Delete(c.ID().String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Get(c.ID().String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(c.ID().String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStoreEvictsLeastRecentlySeen(t *testing.T) {
	s := NewMemoryStore(2, 0)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	a, b, c := newSession(), newSession(), newSession()
	s.Save(a)
	clock = clock.Add(time.Minute)
	s.Save(b)
	clock = clock.Add(time.Minute)

	// Touching a makes b the oldest.
	if _, err := s.Get(a.ID().String()); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(time.Minute)
	s.Save(c)

	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Len())
	}
	if _, err := s.Get(b.ID().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected b to be evicted, got %v", err)
	}
	for _, keep := range []*session.Controller{a, c} {
		if _, err := s.Get(keep.ID().String()); err != nil {
			t.Errorf("session %s evicted: %v", keep.ID(), err)
		}
	}
}

func TestMemoryStorePrune(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	idle, active := newSession(), newSession()
	s.Save(idle)
	s.Save(active)

	clock = clock.Add(45 * time.Minute)
	if _, err := s.Get(active.ID().String()); err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(30 * time.Minute)
	if removed := s.Prune(); removed != 1 {
		t.Fatalf("expected 1 pruned session, got %d", removed)
	}
	if _, err := s.Get(idle.ID().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("idle session survived prune: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", s.Len())
	}
}

func TestMemoryStorePruneUnlimited(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.Save(newSession())
	if removed := s.Prune(); removed != 0 {
		t.Fatalf("unlimited store pruned %d sessions", removed)
	}
}
