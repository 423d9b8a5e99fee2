// Package httpapi exposes template search over HTTP.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driving"
)

// Server wraps a gin engine around the search service.
type Server struct {
	engine *gin.Engine
	search driving.TemplateSearchService
}

type searchRequest struct {
	Query string `json:"query"`
}

// NewServer builds the HTTP server and registers its routes.
func NewServer(search driving.TemplateSearchService) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	s := &Server{
		engine: engine,
		search: search,
	}

	engine.GET("/healthz", s.handleHealthz)
	engine.POST("/api/search-templates", s.handleSearchTemplates)

	return s
}

// Run starts listening on addr. Blocks until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler returns the underlying http.Handler, used in tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSearchTemplates ranks stored templates against the query and
// returns the top matches. A missing or blank query is a 400.
func (s *Server) handleSearchTemplates(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
		return
	}

	// k of 0 selects the service default of 5. The endpoint caps at 5
	// results; clients cannot raise the limit.
	results, err := s.search.SearchTemplates(c.Request.Context(), req.Query, 0)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if results == nil {
		results = []domain.RankedTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// corsMiddleware allows browser clients from any origin to call the
// search endpoint.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
