package faultinject

import (
	"context"

	"github.com/vaultgate/vaultgate/store"
)

// faultStore decorates a store.Store with per-operation triggers. When the
// trigger for an operation is armed the call returns an injected
// *store.Error and the wrapped store is not invoked at all, so an injected
// failure is indistinguishable from the call never having happened.
type faultStore struct {
	inner    store.Store
	injector *Injector
}

// Wrap decorates inner with inj. The decorator consults the trigger named
// after each operation (see store.Operations) before delegating.
func Wrap(inner store.Store, inj *Injector) store.Store {
	return &faultStore{inner: inner, injector: inj}
}

func (s *faultStore) Register(ctx context.Context, identity, encoded string) error {
	if s.injector.Armed(store.OpRegister) {
		return store.NewInjected(store.OpRegister)
	}
	return s.inner.Register(ctx, identity, encoded)
}

func (s *faultStore) OpenSession(ctx context.Context, identity string) error {
	if s.injector.Armed(store.OpOpenSession) {
		return store.NewInjected(store.OpOpenSession)
	}
	return s.inner.OpenSession(ctx, identity)
}

func (s *faultStore) CloseSession(ctx context.Context, identity string) error {
	if s.injector.Armed(store.OpCloseSession) {
		return store.NewInjected(store.OpCloseSession)
	}
	return s.inner.CloseSession(ctx, identity)
}

func (s *faultStore) FetchCredential(ctx context.Context, identity string) (string, bool, error) {
	if s.injector.Armed(store.OpFetchCredential) {
		return "", false, store.NewInjected(store.OpFetchCredential)
	}
	return s.inner.FetchCredential(ctx, identity)
}

func (s *faultStore) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	if s.injector.Armed(store.OpIsAuthorized) {
		return false, store.NewInjected(store.OpIsAuthorized)
	}
	return s.inner.IsAuthorized(ctx, identity)
}
