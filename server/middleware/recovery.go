package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/cognitoauth/errors"
	"github.com/kbukum/cognitoauth/logger"
	"github.com/kbukum/cognitoauth/server"
)

// Recovery recovers from panics, logs the stack and answers 500 with an
// INTERNAL_ERROR body.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logPanic(log, rec, r)
					server.WriteError(w, apperrors.Internal(fmt.Errorf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// GinRecovery is the Gin variant of Recovery.
func GinRecovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logPanic(log, rec, c.Request)
				server.RespondWithError(c, apperrors.Internal(fmt.Errorf("panic: %v", rec)))
			}
		}()
		c.Next()
	}
}

func logPanic(log *logger.Logger, rec any, r *http.Request) {
	log.Error("Panic recovered", map[string]interface{}{
		"error":                fmt.Sprintf("%v", rec),
		"stack":                string(debug.Stack()),
		"path":                 r.URL.Path,
		"method":               r.Method,
		logger.FieldRemoteAddr: r.RemoteAddr,
	})
}
