// Package middleware guards routes behind the Cognito login flow.
//
// Session must run before everything that reads login state, including
// RequestLogger and the guards:
//
//	handler := middleware.Chain(
//	    middleware.Recovery(log),
//	    middleware.RequestID(),
//	    middleware.Session(loadStore),
//	    middleware.RequestLogger(log),
//	)(mux)
//
//	mux.Handle("/reports", middleware.RequireRoles(auth, []string{"reports.*.read"})(reports))
//
// RequireAuth redirects anonymous and expired sessions to the hosted login
// page and stores the requested URL for the callback route. RequireRoles also
// answers 403 when none of its patterns match. Each guard has a Gin variant.
package middleware
