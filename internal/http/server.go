// README: API gateway; builds the gin engine and delegates to module services.
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/begoneskadedjur/kundportal-sub014/internal/http/handlers"
)

type ServerDeps struct {
	Availability handlers.Finder
	// Checks are reported by GET /health, keyed by dependency name.
	Checks map[string]handlers.PingFunc
	Logger *zap.Logger
}

type Server struct {
	availability handlers.Finder
	checks       map[string]handlers.PingFunc
	logger       *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		availability: deps.Availability,
		checks:       deps.Checks,
		logger:       logger,
	}
}

func (s *Server) Routes() *gin.Engine {
	return NewRouter(s.availability, s.checks, s.logger)
}
