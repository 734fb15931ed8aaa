// Package api exposes the analysis engine over HTTP with JSON bodies.
// The server owns no state of its own: it routes into the orchestrator,
// the request manager, and the optional result archive.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cellscope/adapters/stats/engine"
	"cellscope/internal"
	"cellscope/internal/request"
	"cellscope/ports"
)

// Server wires the HTTP routes over the analysis engine
type Server struct {
	orchestrator *engine.Orchestrator
	manager      *request.Manager
	archive      ports.ResultArchive
	log          *internal.Logger
	router       *gin.Engine
}

// NewServer builds the route table. archive may be nil, in which case
// the analyses endpoints report 503.
func NewServer(orchestrator *engine.Orchestrator, manager *request.Manager, archive ports.ResultArchive, logger *internal.Logger) *Server {
	s := &Server{
		orchestrator: orchestrator,
		manager:      manager,
		archive:      archive,
		log:          logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/tests", s.handleRunTests())
		v1.POST("/summaries", s.handleSummarize())
		v1.GET("/summaries/latest", s.handleLatestSummary())
		v1.DELETE("/summaries", s.handleCancelSummary())
		v1.GET("/analyses", s.handleListAnalyses())
		v1.GET("/analyses/:id", s.handleGetAnalysis())
		v1.GET("/report", s.handleReport())
	}

	return r
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails
func (s *Server) Run(addr string) error {
	s.log.Info("http server listening on %s", addr)
	return s.router.Run(addr)
}
