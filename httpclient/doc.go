// Package httpclient provides the outbound HTTP client used to reach the
// identity provider.
//
// Every failure is classified into an *Error (timeout, connection, auth,
// not found, rate limit, validation, server). No retries are performed;
// callers decide how to surface a failure. AsTransport converts any client
// error into the TRANSPORT_ERROR application error.
//
//	client, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "https://idp.example.com/.well-known/jwks.json",
//	})
//
// Unwrap exposes the configured *http.Client for libraries such as
// golang.org/x/oauth2 that drive requests themselves.
package httpclient
