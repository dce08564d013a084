package session

import (
	"testing"
	"time"
)

func TestStoreCreatesSessionLazily(t *testing.T) {
	store := NewStore(10, time.Minute)

	sess := store.Get("abc")
	if sess == nil {
		t.Fatal("expected a session to be created")
	}
	if sess.State != StateStart {
		t.Fatalf("new session state = %q, want %q", sess.State, StateStart)
	}
}

func TestStoreReturnsSameSession(t *testing.T) {
	store := NewStore(10, time.Minute)

	first := store.Get("abc")
	first.State = StateAwaitingDimension

	second := store.Get("abc")
	if second != first {
		t.Fatal("expected the same session instance")
	}
	if second.State != StateAwaitingDimension {
		t.Fatalf("state = %q, want %q", second.State, StateAwaitingDimension)
	}
}

func TestStoreSessionsAreIndependent(t *testing.T) {
	store := NewStore(10, time.Minute)

	a := store.Get("a")
	a.State = StateFinalized

	b := store.Get("b")
	if b.State != StateStart {
		t.Fatalf("session b state = %q, want %q", b.State, StateStart)
	}
}

func TestStoreEvictsExpiredSessions(t *testing.T) {
	store := NewStore(10, 30*time.Millisecond)

	first := store.Get("abc")
	first.State = StateFinalized

	time.Sleep(100 * time.Millisecond)

	second := store.Get("abc")
	if second.State != StateStart {
		t.Fatalf("expected a fresh session after expiry, got state %q", second.State)
	}
}

func TestStoreBoundsEntryCount(t *testing.T) {
	store := NewStore(2, time.Minute)

	store.Get("a")
	store.Get("b")
	store.Get("c")

	if n := store.Len(); n > 2 {
		t.Fatalf("store holds %d sessions, cap is 2", n)
	}
}

func TestSessionReset(t *testing.T) {
	sess := &Session{State: StateFinalized, Quantity: 5}
	sess.Reset()

	if sess.State != StateStart {
		t.Fatalf("state = %q, want %q", sess.State, StateStart)
	}
	if sess.Candidates != nil || sess.Selected != nil {
		t.Fatal("reset must clear candidates and selection")
	}
	if sess.Quantity != 1 {
		t.Fatalf("quantity = %d, want the default 1", sess.Quantity)
	}
}
