// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/begoneskadedjur/kundportal-sub014/internal/http/handlers"
	"github.com/begoneskadedjur/kundportal-sub014/internal/http/middleware"
)

func NewRouter(finder handlers.Finder, checks map[string]handlers.PingFunc, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(logger), middleware.Recovery(logger))

	availabilityHandler := handlers.NewAvailabilityHandler(finder)
	api := r.Group("/api/availability")
	api.POST("/slots", availabilityHandler.Slots)
	api.POST("/team-slots", availabilityHandler.TeamSlots)

	healthHandler := handlers.NewHealthHandler(checks)
	r.GET("/health", healthHandler.Get)

	return r
}
