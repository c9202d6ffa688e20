package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStoreContract(t *testing.T) {
	runContract(t, func(t *testing.T, maxIdentities int) Store {
		return NewRedisStore(newTestRedis(t), "vgtest", maxIdentities)
	})
}

func TestRedisStorePrefixIsolation(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	first := NewRedisStore(client, "tenant-a", 0)
	second := NewRedisStore(client, "tenant-b", 0)

	if err := first.Register(ctx, "alice", "encoded-a"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := first.OpenSession(ctx, "alice"); err != nil {
		t.Fatalf("OpenSession error: %v", err)
	}

	_, ok, err := second.FetchCredential(ctx, "alice")
	if err != nil {
		t.Fatalf("FetchCredential error: %v", err)
	}
	if ok {
		t.Fatal("credential leaked across prefixes")
	}

	authorized, err := second.IsAuthorized(ctx, "alice")
	if err != nil {
		t.Fatalf("IsAuthorized error: %v", err)
	}
	if authorized {
		t.Fatal("session leaked across prefixes")
	}
}

func TestRedisStoreGenuineFailureTagging(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	s := NewRedisStore(client, "vgtest", 0)

	// Force genuine backend failures by closing the client.
	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	checks := []struct {
		op   string
		call func() error
	}{
		{OpRegister, func() error { return s.Register(ctx, "alice", "e") }},
		{OpOpenSession, func() error { return s.OpenSession(ctx, "alice") }},
		{OpCloseSession, func() error { return s.CloseSession(ctx, "alice") }},
		{OpFetchCredential, func() error {
			_, _, err := s.FetchCredential(ctx, "alice")
			return err
		}},
		{OpIsAuthorized, func() error {
			_, err := s.IsAuthorized(ctx, "alice")
			return err
		}},
	}

	for _, tc := range checks {
		t.Run(tc.op, func(t *testing.T) {
			err := tc.call()
			if !errors.Is(err, ErrStorage) {
				t.Fatalf("want ErrStorage, got %v", err)
			}
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("want *Error, got %T", err)
			}
			if se.Op != tc.op {
				t.Fatalf("want op %q, got %q", tc.op, se.Op)
			}
			if se.Injected {
				t.Fatal("genuine failure tagged as injected")
			}
		})
	}
}
