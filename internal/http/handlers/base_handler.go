// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/availability"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		writeError(c, 499, "request cancelled")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// parseDate accepts YYYY-MM-DD; empty means "not given".
func parseDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
