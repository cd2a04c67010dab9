// Package session holds the per-user login state of the browser flow.
//
// The host application owns session storage and exposes it through Store.
// Manager reads and writes the well-known keys (tokens, identity, roles,
// redirect target and the anti-forgery state) on top of any Store.
//
//	m := session.NewManager(store)
//	state, err := m.GenerateState()
//	...
//	if !m.ValidateState(r.URL.Query().Get("state")) { ... }
//
// Middleware propagates the request's Store through its context with
// NewContext and FromRequest.
package session
