package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cognitoauth/session"
)

// Session attaches the store returned by load to every request context, where
// RequireAuth, RequireRoles and the auth routes look it up.
func Session(load func(*http.Request) session.Store) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store := load(r); store != nil {
				r = r.WithContext(session.NewContext(r.Context(), store))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GinSession is the Gin variant of Session.
func GinSession(load func(*gin.Context) session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store := load(c); store != nil {
			c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), store))
		}
		c.Next()
	}
}
