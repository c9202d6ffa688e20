package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// runContract exercises the Store behavior every backend must share.
func runContract(t *testing.T, newStore func(t *testing.T, maxIdentities int) Store) {
	t.Helper()

	ctx := context.Background()

	t.Run("fetch unknown identity", func(t *testing.T) {
		s := newStore(t, 0)

		encoded, ok, err := s.FetchCredential(ctx, "nobody")
		if err != nil {
			t.Fatalf("FetchCredential error: %v", err)
		}
		if ok || encoded != "" {
			t.Fatalf("want absent credential, got (%q, %v)", encoded, ok)
		}
	})

	t.Run("register and fetch", func(t *testing.T) {
		s := newStore(t, 0)

		if err := s.Register(ctx, "alice", "encoded-1"); err != nil {
			t.Fatalf("Register error: %v", err)
		}

		encoded, ok, err := s.FetchCredential(ctx, "alice")
		if err != nil {
			t.Fatalf("FetchCredential error: %v", err)
		}
		if !ok || encoded != "encoded-1" {
			t.Fatalf("got (%q, %v)", encoded, ok)
		}
	})

	t.Run("re-register overwrites", func(t *testing.T) {
		s := newStore(t, 0)

		if err := s.Register(ctx, "alice", "encoded-1"); err != nil {
			t.Fatalf("Register error: %v", err)
		}
		if err := s.Register(ctx, "alice", "encoded-2"); err != nil {
			t.Fatalf("Register error: %v", err)
		}

		encoded, ok, err := s.FetchCredential(ctx, "alice")
		if err != nil {
			t.Fatalf("FetchCredential error: %v", err)
		}
		if !ok || encoded != "encoded-2" {
			t.Fatalf("got (%q, %v)", encoded, ok)
		}
	})

	t.Run("register does not open a session", func(t *testing.T) {
		s := newStore(t, 0)

		if err := s.Register(ctx, "alice", "encoded-1"); err != nil {
			t.Fatalf("Register error: %v", err)
		}

		ok, err := s.IsAuthorized(ctx, "alice")
		if err != nil {
			t.Fatalf("IsAuthorized error: %v", err)
		}
		if ok {
			t.Fatal("register must not touch the session set")
		}
	})

	t.Run("open and close session idempotent", func(t *testing.T) {
		s := newStore(t, 0)

		// Closing a session that was never opened is not an error.
		if err := s.CloseSession(ctx, "alice"); err != nil {
			t.Fatalf("CloseSession error: %v", err)
		}

		for i := 0; i < 2; i++ {
			if err := s.OpenSession(ctx, "alice"); err != nil {
				t.Fatalf("OpenSession error: %v", err)
			}
		}
		ok, err := s.IsAuthorized(ctx, "alice")
		if err != nil {
			t.Fatalf("IsAuthorized error: %v", err)
		}
		if !ok {
			t.Fatal("expected session to be open")
		}

		for i := 0; i < 2; i++ {
			if err := s.CloseSession(ctx, "alice"); err != nil {
				t.Fatalf("CloseSession error: %v", err)
			}
		}
		ok, err = s.IsAuthorized(ctx, "alice")
		if err != nil {
			t.Fatalf("IsAuthorized error: %v", err)
		}
		if ok {
			t.Fatal("expected session to be closed")
		}
	})

	t.Run("capacity rejects new identities only", func(t *testing.T) {
		s := newStore(t, 2)

		if err := s.Register(ctx, "alice", "a1"); err != nil {
			t.Fatalf("Register error: %v", err)
		}
		if err := s.Register(ctx, "bob", "b1"); err != nil {
			t.Fatalf("Register error: %v", err)
		}

		err := s.Register(ctx, "carol", "c1")
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("want ErrCapacityExceeded, got %v", err)
		}
		if !errors.Is(err, ErrStorage) {
			t.Fatal("capacity rejection must still match ErrStorage")
		}
		if IsInjected(err) {
			t.Fatal("capacity rejection is a genuine failure, not injected")
		}

		// The rejected identity must not be visible (all-or-nothing).
		_, ok, err := s.FetchCredential(ctx, "carol")
		if err != nil {
			t.Fatalf("FetchCredential error: %v", err)
		}
		if ok {
			t.Fatal("rejected registration must leave no trace")
		}

		// Known identities stay writable at capacity.
		if err := s.Register(ctx, "alice", "a2"); err != nil {
			t.Fatalf("re-register at capacity: %v", err)
		}
		encoded, _, err := s.FetchCredential(ctx, "alice")
		if err != nil {
			t.Fatalf("FetchCredential error: %v", err)
		}
		if encoded != "a2" {
			t.Fatalf("got %q", encoded)
		}

		// And the other identity's credential is untouched.
		encoded, _, err = s.FetchCredential(ctx, "bob")
		if err != nil {
			t.Fatalf("FetchCredential error: %v", err)
		}
		if encoded != "b1" {
			t.Fatalf("bob's credential changed: %q", encoded)
		}
	})
}

func TestMemoryStoreContract(t *testing.T) {
	runContract(t, func(t *testing.T, maxIdentities int) Store {
		return NewMemoryStore(maxIdentities)
	})
}

func TestMemoryStoreConcurrentCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", n)
			for j := 0; j < 100; j++ {
				if err := s.Register(ctx, id, "encoded"); err != nil {
					t.Errorf("Register: %v", err)
					return
				}
				if err := s.OpenSession(ctx, id); err != nil {
					t.Errorf("OpenSession: %v", err)
					return
				}
				if _, err := s.IsAuthorized(ctx, id); err != nil {
					t.Errorf("IsAuthorized: %v", err)
					return
				}
				if err := s.CloseSession(ctx, id); err != nil {
					t.Errorf("CloseSession: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")
	genuine := NewError(OpOpenSession, cause)
	injected := NewInjected(OpOpenSession)

	if !errors.Is(genuine, ErrStorage) || !errors.Is(injected, ErrStorage) {
		t.Fatal("both kinds must match ErrStorage")
	}
	if !errors.Is(genuine, cause) {
		t.Fatal("genuine error must wrap its cause")
	}
	if IsInjected(genuine) {
		t.Fatal("genuine error reported as injected")
	}
	if !IsInjected(injected) {
		t.Fatal("injected error not reported as injected")
	}
	if IsInjected(errors.New("unrelated")) {
		t.Fatal("unrelated error reported as injected")
	}
}

func TestOperationsNames(t *testing.T) {
	want := []string{"register", "open_session", "close_session", "fetch_credential", "is_authorized"}
	got := Operations()
	if len(got) != len(want) {
		t.Fatalf("got %d operations", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operation %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
