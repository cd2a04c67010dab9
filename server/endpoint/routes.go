package endpoint

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

// Default route settings.
const (
	DefaultPrefix      = "/auth"
	DefaultRedirectURL = "/"
)

// Flow is the part of *cognito.Auth the routes depend on.
type Flow interface {
	ValidateState(store session.Store, state string) bool
	ProcessCallback(ctx context.Context, store session.Store, code string) error
	Redirect(store session.Store) (string, bool)
	Logout(store session.Store)
	LogoutURL(store session.Store) (string, error)
}

// ErrorHandler writes the response for a failed callback.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Routes serves the OAuth2 callback and logout endpoints:
//
//	GET {Prefix}/callback?code=..&state=..
//	GET {Prefix}/logout
type Routes struct {
	Auth Flow
	// DefaultURL is the post-login destination when none was stored.
	DefaultURL string
	// Prefix is the mount path of the routes.
	Prefix string
	// ErrorHandler answers net/http callbacks that fail. Defaults to a JSON
	// error body. Gin callbacks record the error with c.Error instead.
	ErrorHandler ErrorHandler
	Logger       *logger.Logger
	Metrics      *observability.Metrics
}

var errNoSession = apperrors.New(apperrors.ErrCodeInternal, "No session is attached to the request.", http.StatusInternalServerError)

func (rt Routes) withDefaults() Routes {
	if rt.DefaultURL == "" {
		rt.DefaultURL = DefaultRedirectURL
	}
	if rt.Prefix == "" {
		rt.Prefix = DefaultPrefix
	}
	rt.Prefix = "/" + strings.Trim(rt.Prefix, "/")
	if rt.Prefix == "/" {
		rt.Prefix = ""
	}
	if rt.ErrorHandler == nil {
		rt.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			server.WriteError(w, err)
		}
	}
	if rt.Logger == nil {
		rt.Logger = logger.Nop()
	}
	rt.Logger = rt.Logger.WithComponent("routes")
	return rt
}

// Register adds the routes to a Gin router.
func (rt Routes) Register(r gin.IRouter) {
	rt = rt.withDefaults()
	g := r.Group(rt.Prefix)
	g.GET("/callback", rt.ginHandler(rt.callback))
	g.GET("/logout", rt.ginHandler(rt.logout))
}

// Mount adds the routes to a ServeMux.
func (rt Routes) Mount(mux *http.ServeMux) {
	rt = rt.withDefaults()
	mux.Handle("GET "+rt.Prefix+"/callback", rt.httpHandler(rt.callback))
	mux.Handle("GET "+rt.Prefix+"/logout", rt.httpHandler(rt.logout))
}

// CallbackPath returns the path the callback is served on.
func (rt Routes) CallbackPath() string {
	return rt.withDefaults().Prefix + "/callback"
}

// LogoutPath returns the path the logout route is served on.
func (rt Routes) LogoutPath() string {
	return rt.withDefaults().Prefix + "/logout"
}

// step handles a request and returns where to redirect the browser.
type step func(r *http.Request, store session.Store) (string, error)

func (rt Routes) httpHandler(s step) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, ok := session.FromRequest(r)
		if !ok {
			rt.ErrorHandler(w, r, errNoSession)
			return
		}
		target, err := s(r, store)
		if err != nil {
			rt.ErrorHandler(w, r, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}

func (rt Routes) ginHandler(s step) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := session.FromRequest(c.Request)
		if !ok {
			_ = c.Error(errNoSession)
			server.RespondWithError(c, errNoSession)
			return
		}
		target, err := s(c.Request, store)
		if err != nil {
			_ = c.Error(err)
			server.RespondWithError(c, err)
			return
		}
		c.Redirect(http.StatusFound, target)
	}
}

// callback completes a login. A missing or foreign state logs the session
// out without looking at the code.
func (rt Routes) callback(r *http.Request, store session.Store) (string, error) {
	q := r.URL.Query()
	if !rt.Auth.ValidateState(store, q.Get("state")) {
		fields := logger.ErrorFields("callback", apperrors.StateMismatch())
		fields[logger.FieldRemoteAddr] = r.RemoteAddr
		rt.Logger.Warn("callback state mismatch", fields)
		if rt.Metrics != nil {
			rt.Metrics.RecordCallback(r.Context(), observability.OutcomeStateMismatch)
		}
		return rt.logout(r, store)
	}

	if err := rt.Auth.ProcessCallback(r.Context(), store, q.Get("code")); err != nil {
		rt.Logger.Error("callback failed", logger.ErrorFields("callback", err))
		return "", err
	}

	target, ok := rt.Auth.Redirect(store)
	if !ok {
		target = rt.DefaultURL
	}
	rt.Logger.Debug("callback complete", logger.Fields(logger.FieldRedirect, target))
	return target, nil
}

// logout clears the session and sends the browser to the hosted logout page.
func (rt Routes) logout(_ *http.Request, store session.Store) (string, error) {
	rt.Auth.Logout(store)
	return rt.Auth.LogoutURL(store)
}
