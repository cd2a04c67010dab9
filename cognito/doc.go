// Package cognito implements the browser login flow against a Cognito-style
// OAuth2/OIDC identity provider.
//
// An Auth value is created once per process from a Config and shared by all
// requests. Operations that touch login state take the request's
// session.Store explicitly:
//
//	auth, err := cognito.New(cfg)
//	loginURL, err := auth.LoginURL(store)          // stores a fresh state
//	err = auth.ProcessCallback(ctx, store, code)   // exchange, verify, persist
//	ok, err := auth.LoggedIn(ctx, store)           // false once expired
//	allowed := auth.HasPermission(store, "survey.*.read")
//
// Signing keys are fetched from the user pool's JWKS endpoint and cached
// for the max-age the endpoint advertises. Access tokens are verified with
// those keys; an expired token yields ErrExpiredToken and every other
// verification failure ErrInvalidToken. Failed calls to the identity
// provider yield a TRANSPORT_ERROR and are never retried. Processes that
// pass WithSharedKeyStore read keys fetched by their peers first.
//
// Query values in the login and logout URLs are substituted verbatim, so
// client IDs, scopes and callback URLs must not need escaping. Set
// Config.EscapeQuery to encode them instead.
package cognito
