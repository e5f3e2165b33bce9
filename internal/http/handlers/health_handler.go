// README: Health endpoint reporting Postgres and Redis reachability.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]PingFunc
}

// NewHealthHandler takes named checks; a nil check reports "disabled".
func NewHealthHandler(checks map[string]PingFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for name, ping := range h.checks {
		switch {
		case ping == nil:
			body[name] = "disabled"
		case ping(ctx) != nil:
			body[name] = "unreachable"
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		default:
			body[name] = "ok"
		}
	}
	writeJSON(c, status, body)
}
