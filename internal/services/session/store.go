package session

import (
	"sync"
	"time"
)

// Store tracks upstream session state per camera: when the session was last
// warmed and a per-camera gate that serializes warm-up handshakes. Entries
// are created lazily on first access and swept after sitting idle for the
// configured TTL, so a fleet with high camera churn stays bounded.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	rewarm   time.Duration
	idleTTL  time.Duration
}

type entry struct {
	gate      sync.Mutex
	lastWarm  time.Time
	lastTouch time.Time
}

// NewStore creates a Store with the given freshness window and idle TTL.
func NewStore(rewarm, idleTTL time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		rewarm:   rewarm,
		idleTTL:  idleTTL,
	}
}

// get returns the entry for playID, creating it if absent, and records the
// access so the sweep will not reap an active camera.
func (s *Store) get(playID string) *entry {
	e, ok := s.sessions[playID]
	if !ok {
		e = &entry{}
		s.sessions[playID] = e
	}
	e.lastTouch = time.Now()
	return e
}

// Gate returns the warm-up gate for playID. At most one handshake may be in
// flight per camera; concurrent callers lock the same mutex.
func (s *Store) Gate(playID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &s.get(playID).gate
}

// IsFresh reports whether the session for playID was warmed within the
// freshness window. A camera that was never warmed is infinitely stale.
func (s *Store) IsFresh(playID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[playID]
	if !ok {
		return false
	}
	e.lastTouch = time.Now()
	return time.Since(e.lastWarm) < s.rewarm
}

// LastWarm returns the time of the last successful warm-up for playID, or
// the zero time if it was never warmed.
func (s *Store) LastWarm(playID string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[playID]; ok {
		return e.lastWarm
	}
	return time.Time{}
}

// MarkWarmed records a successful warm-up for playID.
func (s *Store) MarkWarmed(playID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(playID).lastWarm = at
}

// Sweep evicts entries that have not been touched for the idle TTL and
// returns how many were dropped. Entries whose gate is currently held are
// left alone; they have a handshake in flight.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastTouch) < s.idleTTL {
			continue
		}
		if !e.gate.TryLock() {
			continue
		}
		e.gate.Unlock()
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

// Len returns the number of tracked camera sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
