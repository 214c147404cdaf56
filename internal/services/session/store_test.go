package session

import (
	"sync"
	"testing"
	"time"
)

func TestStore_NeverWarmedIsStale(t *testing.T) {
	s := NewStore(25*time.Second, time.Hour)

	if s.IsFresh("907") {
		t.Error("a camera that was never warmed must be stale")
	}
	if !s.LastWarm("907").IsZero() {
		t.Error("LastWarm for an unknown camera should be the zero time")
	}
}

func TestStore_FreshnessWindow(t *testing.T) {
	s := NewStore(25*time.Second, time.Hour)

	s.MarkWarmed("907", time.Now())
	if !s.IsFresh("907") {
		t.Error("a just-warmed session must be fresh")
	}

	s.MarkWarmed("907", time.Now().Add(-30*time.Second))
	if s.IsFresh("907") {
		t.Error("a session warmed 30s ago must be stale with a 25s window")
	}
}

func TestStore_GateIsStablePerCamera(t *testing.T) {
	s := NewStore(25*time.Second, time.Hour)

	if s.Gate("a") != s.Gate("a") {
		t.Error("repeated Gate calls for the same camera must return the same mutex")
	}
	if s.Gate("a") == s.Gate("b") {
		t.Error("distinct cameras must not share a gate")
	}
}

func TestStore_GateSerializes(t *testing.T) {
	s := NewStore(25*time.Second, time.Hour)

	var inside, maxInside int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate := s.Gate("907")
			gate.Lock()
			defer gate.Unlock()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("expected at most 1 holder inside the gate, observed %d", maxInside)
	}
}

func TestStore_SweepEvictsIdleEntries(t *testing.T) {
	s := NewStore(25*time.Second, 50*time.Millisecond)

	s.MarkWarmed("a", time.Now())
	s.MarkWarmed("b", time.Now())
	if s.Len() != 2 {
		t.Fatalf("expected 2 tracked sessions, got %d", s.Len())
	}

	time.Sleep(60 * time.Millisecond)
	s.Gate("b") // touch b so only a is idle

	if evicted := s.Sweep(time.Now()); evicted != 1 {
		t.Errorf("expected 1 eviction, got %d", evicted)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 tracked session after sweep, got %d", s.Len())
	}
	if s.LastWarm("b").IsZero() {
		t.Error("the touched session must survive the sweep")
	}
}

func TestStore_SweepSkipsHeldGates(t *testing.T) {
	s := NewStore(25*time.Second, time.Nanosecond)

	gate := s.Gate("busy")
	gate.Lock()
	defer gate.Unlock()

	time.Sleep(time.Millisecond)

	if evicted := s.Sweep(time.Now()); evicted != 0 {
		t.Errorf("expected no evictions while a handshake is in flight, got %d", evicted)
	}
	if s.Len() != 1 {
		t.Errorf("expected the busy session to survive, got %d tracked", s.Len())
	}
}
