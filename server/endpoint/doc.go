// Package endpoint serves the routes of the browser login flow.
//
//	routes := endpoint.Routes{Auth: auth, DefaultURL: "/home"}
//	routes.Register(engine)  // Gin
//	routes.Mount(mux)        // net/http
//
// The callback checks the state query parameter against the session before
// the authorization code is exchanged. On a mismatch the session is cleared
// and the browser is sent to the hosted logout page. The session store is
// read from the request context, see middleware.Session.
package endpoint
