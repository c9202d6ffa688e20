// Package faultinject provides deterministic fault injection for the
// storage layer: a named-trigger registry and a store decorator that fails
// armed operations without touching the wrapped backend.
//
// The Injector is an explicit object passed by reference, not process
// state, so independent store instances (parallel tests, multiple
// simulator runs) never interfere.
package faultinject

import "sync"

// Injector is a concurrency-safe set of named triggers. Once armed, a
// trigger stays armed until Disarm or Reset. Names are a convention shared
// with callers; arming a name no decorator consults is a harmless no-op.
type Injector struct {
	mu    sync.RWMutex
	armed map[string]struct{}
}

// NewInjector returns an Injector with no armed triggers.
func NewInjector() *Injector {
	return &Injector{armed: make(map[string]struct{})}
}

// Arm makes every subsequent call matching name fail.
func (i *Injector) Arm(name string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.armed[name] = struct{}{}
}

// Armed reports whether name is currently armed.
func (i *Injector) Armed(name string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	_, ok := i.armed[name]
	return ok
}

// Disarm clears one trigger.
func (i *Injector) Disarm(name string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.armed, name)
}

// Reset clears all triggers.
func (i *Injector) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.armed = make(map[string]struct{})
}
