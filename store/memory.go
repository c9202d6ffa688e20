package store

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory reference implementation of Store. The
// credential table and the session set are guarded by separate mutexes,
// held only for the duration of a single map operation; there is no
// combined lock across the two containers.
//
// When maxIdentities > 0, registering a previously unknown identity while
// the table is full fails with ErrCapacityExceeded. The bound never
// affects re-registration of a known identity.
type MemoryStore struct {
	maxIdentities int

	credMu      sync.Mutex
	credentials map[string]string

	sessMu   sync.Mutex
	sessions map[string]struct{}
}

// NewMemoryStore returns an empty store. maxIdentities <= 0 means
// unbounded.
func NewMemoryStore(maxIdentities int) *MemoryStore {
	return &MemoryStore{
		maxIdentities: maxIdentities,
		credentials:   make(map[string]string),
		sessions:      make(map[string]struct{}),
	}
}

// Register upserts the credential for identity.
func (s *MemoryStore) Register(_ context.Context, identity, encoded string) error {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	if _, known := s.credentials[identity]; !known {
		if s.maxIdentities > 0 && len(s.credentials) >= s.maxIdentities {
			return NewError(OpRegister, ErrCapacityExceeded)
		}
	}
	s.credentials[identity] = encoded
	return nil
}

// OpenSession adds identity to the session set.
func (s *MemoryStore) OpenSession(_ context.Context, identity string) error {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	s.sessions[identity] = struct{}{}
	return nil
}

// CloseSession removes identity from the session set.
func (s *MemoryStore) CloseSession(_ context.Context, identity string) error {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	delete(s.sessions, identity)
	return nil
}

// FetchCredential returns the stored encoding for identity.
func (s *MemoryStore) FetchCredential(_ context.Context, identity string) (string, bool, error) {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	encoded, ok := s.credentials[identity]
	return encoded, ok, nil
}

// IsAuthorized reports session-set membership for identity.
func (s *MemoryStore) IsAuthorized(_ context.Context, identity string) (bool, error) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	_, ok := s.sessions[identity]
	return ok, nil
}
