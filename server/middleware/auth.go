package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/cognitoauth/errors"
	"github.com/kbukum/cognitoauth/logger"
	"github.com/kbukum/cognitoauth/observability"
	"github.com/kbukum/cognitoauth/server"
	"github.com/kbukum/cognitoauth/session"
)

// Authenticator is the part of *cognito.Auth the guards depend on.
type Authenticator interface {
	LoggedIn(ctx context.Context, store session.Store) (bool, error)
	LoginURL(store session.Store) (string, error)
	SetRedirect(store session.Store, url string)
	HasPermission(store session.Store, patterns ...string) bool
}

type guardOptions struct {
	log     *logger.Logger
	metrics *observability.Metrics
}

// GuardOption configures RequireAuth and RequireRoles.
type GuardOption func(*guardOptions)

// WithLogger sets the logger used for rejected requests.
func WithLogger(l *logger.Logger) GuardOption {
	return func(o *guardOptions) { o.log = l }
}

// WithMetrics records the outcome of every role check.
func WithMetrics(m *observability.Metrics) GuardOption {
	return func(o *guardOptions) { o.metrics = m }
}

func newGuardOptions(opts []GuardOption) guardOptions {
	o := guardOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	o.log = o.log.WithComponent("guard")
	return o
}

// errNoSession is returned when no Session middleware ran for the request.
var errNoSession = apperrors.New(apperrors.ErrCodeInternal, "No session is attached to the request.", http.StatusInternalServerError)

// guard decides the fate of one request. It reports whether the handler may
// run; otherwise it has already written the response.
type guard struct {
	auth       Authenticator
	checkRoles bool
	patterns   []string
	opts       guardOptions
}

func (g *guard) check(w http.ResponseWriter, r *http.Request) bool {
	store, ok := session.FromRequest(r)
	if !ok {
		g.opts.log.Error("request reached a guard without a session", logger.Fields(logger.FieldURL, r.URL.Path))
		server.WriteError(w, errNoSession)
		return false
	}

	loggedIn, err := g.auth.LoggedIn(r.Context(), store)
	if err != nil {
		g.opts.log.Warn("session token rejected", logger.Fields(
			logger.FieldURL, r.URL.Path,
			logger.FieldError, err.Error(),
		))
		server.WriteError(w, err)
		return false
	}
	if !loggedIn {
		g.auth.SetRedirect(store, r.URL.RequestURI())
		login, err := g.auth.LoginURL(store)
		if err != nil {
			server.WriteError(w, err)
			return false
		}
		http.Redirect(w, r, login, http.StatusFound)
		return false
	}

	if !g.checkRoles {
		return true
	}
	allowed := g.auth.HasPermission(store, g.patterns...)
	if g.opts.metrics != nil {
		g.opts.metrics.RecordAuthorization(r.Context(), allowed)
	}
	if !allowed {
		g.opts.log.Info("role check denied", logger.Fields(
			logger.FieldURL, r.URL.Path,
			logger.FieldPattern, strings.Join(g.patterns, ","),
		))
		server.WriteError(w, apperrors.Forbidden(""))
		return false
	}
	return true
}

func (g *guard) middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.check(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (g *guard) ginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.check(c.Writer, c.Request) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuth sends anonymous and expired sessions to the hosted login page,
// remembering the requested URL as the post-login redirect. Token validation
// failures other than expiry are answered with their JSON error.
func RequireAuth(auth Authenticator, opts ...GuardOption) Middleware {
	g := &guard{auth: auth, opts: newGuardOptions(opts)}
	return g.middleware()
}

// RequireRoles behaves like RequireAuth and then answers 403 unless the
// session's roles satisfy at least one of patterns. No patterns denies all.
func RequireRoles(auth Authenticator, patterns []string, opts ...GuardOption) Middleware {
	g := &guard{auth: auth, checkRoles: true, patterns: patterns, opts: newGuardOptions(opts)}
	return g.middleware()
}

// GinRequireAuth is the Gin variant of RequireAuth.
func GinRequireAuth(auth Authenticator, opts ...GuardOption) gin.HandlerFunc {
	g := &guard{auth: auth, opts: newGuardOptions(opts)}
	return g.ginHandler()
}

// GinRequireRoles is the Gin variant of RequireRoles.
func GinRequireRoles(auth Authenticator, patterns []string, opts ...GuardOption) gin.HandlerFunc {
	g := &guard{auth: auth, checkRoles: true, patterns: patterns, opts: newGuardOptions(opts)}
	return g.ginHandler()
}
