package store

import (
	"context"
	"sync"
)

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// Default returns the process-wide store used when no other store is
// supplied. It is created on first use.
func Default() *Store {
	defaultStoreOnce.Do(func() {
		defaultStore = New(WithName("default"))
	})
	return defaultStore
}

// Provider supplies the active store for an adapter.
type Provider interface {
	Store() *Store
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func() *Store

// Store implements Provider.
func (f ProviderFunc) Store() *Store {
	return f()
}

// Static returns a Provider that always yields s.
func Static(s *Store) Provider {
	return ProviderFunc(func() *Store { return s })
}

type contextKey struct{}

// NewContext returns a copy of ctx that carries s. Adapters created with that
// context use s instead of the default store.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the store carried by ctx, or Default() if there is none.
func FromContext(ctx context.Context) *Store {
	if ctx != nil {
		if s, ok := ctx.Value(contextKey{}).(*Store); ok && s != nil {
			return s
		}
	}
	return Default()
}

// ContextProvider returns a Provider that resolves the store from ctx.
func ContextProvider(ctx context.Context) Provider {
	return ProviderFunc(func() *Store { return FromContext(ctx) })
}
