package session

import (
	"context"
	"net/http"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying store.
func NewContext(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

// FromContext returns the Store carried by ctx.
func FromContext(ctx context.Context) (Store, bool) {
	store, ok := ctx.Value(contextKey{}).(Store)
	return store, ok && store != nil
}

// FromRequest returns the Store carried by the request context.
func FromRequest(r *http.Request) (Store, bool) {
	return FromContext(r.Context())
}
