package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cognitoauth/observability"
)

// HealthReport is the body served by the health handlers.
type HealthReport struct {
	Status     observability.HealthStatus `json:"status"`
	Service    string                     `json:"service"`
	Timestamp  string                     `json:"timestamp"`
	Components []observability.Health     `json:"components"`
}

// CheckHealth runs every checker. The overall status is down if any component
// is down, degraded if any is degraded, and up otherwise.
func CheckHealth(ctx context.Context, serviceName string, checkers ...observability.HealthChecker) HealthReport {
	report := HealthReport{
		Status:     observability.HealthStatusUp,
		Service:    serviceName,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: make([]observability.Health, 0, len(checkers)),
	}
	for _, checker := range checkers {
		h := checker.CheckHealth(ctx)
		report.Components = append(report.Components, h)
		switch h.Status {
		case observability.HealthStatusDown:
			report.Status = observability.HealthStatusDown
		case observability.HealthStatusDegraded:
			if report.Status != observability.HealthStatusDown {
				report.Status = observability.HealthStatusDegraded
			}
		}
	}
	return report
}

func (r HealthReport) httpStatus() int {
	if r.Status == observability.HealthStatusDown {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Health returns a Gin handler reporting the health of checkers, such as
// *cognito.Auth reaching its signing keys.
func Health(serviceName string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := CheckHealth(c.Request.Context(), serviceName, checkers...)
		c.JSON(report.httpStatus(), report)
	}
}

// HealthHandler is the net/http variant of Health.
func HealthHandler(serviceName string, checkers ...observability.HealthChecker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := CheckHealth(r.Context(), serviceName, checkers...)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(report.httpStatus())
		_ = json.NewEncoder(w).Encode(report)
	})
}
