package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cognitoauth/logger"
	"github.com/kbukum/cognitoauth/session"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, duration and, when logged in, the username.
// Health-check paths are silently skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			logByStatus(log, requestFields(r, sw.status, time.Since(start)), sw.status)
		})
	}
}

// GinRequestLogger is the Gin variant of RequestLogger.
func GinRequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := requestFields(c.Request, status, time.Since(start))
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}
		logByStatus(log, fields, status)
	}
}

func requestFields(r *http.Request, status int, d time.Duration) map[string]interface{} {
	fields := map[string]interface{}{
		"method":             r.Method,
		"path":               r.URL.Path,
		logger.FieldStatus:   status,
		logger.FieldDuration: d.Milliseconds(),
	}
	if id := r.Header.Get(RequestIDHeader); id != "" {
		fields["request_id"] = id
	}
	if store, ok := session.FromRequest(r); ok {
		if name := session.NewManager(store).Username(); name != "" {
			fields[logger.FieldUsername] = name
		}
	}
	return fields
}

func isHealthEndpoint(path string) bool {
	switch path {
	case "/health", "/alive", "/ready", "/metrics":
		return true
	}
	return false
}

// logByStatus logs request fields at the level matching the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
