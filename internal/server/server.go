// Package server implements the farmcore HTTP API
//
// Every route below /api is authenticated with an organisation API key sent
// in the X-API-Key header. Writes run through the flows catalog; reads come
// from the report provider and the dyna flow dispatcher.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmcore/internal/core"
	"farmcore/internal/dynaflow"
	"farmcore/internal/entitymodel"
	"farmcore/internal/flows"
	"farmcore/internal/reports"
)

// APIKeyHeader carries the organisation API key.
const APIKeyHeader = "X-API-Key"

// Server implements the HTTP API
type Server struct {
	svc        *core.Service
	catalog    *flows.Catalog
	auth       *flows.Authenticator
	dispatcher *dynaflow.Dispatcher
	provider   *reports.Provider
	exporter   *reports.Exporter
	gatherer   prometheus.Gatherer
	logger     core.Logger
}

// Option customises a Server.
type Option func(*Server)

// WithReports enables the report routes. The exporter may be nil, in which
// case exports answer 501.
func WithReports(provider *reports.Provider, exporter *reports.Exporter) Option {
	return func(s *Server) {
		s.provider = provider
		s.exporter = exporter
	}
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the request logger.
func WithLogger(l core.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates the API server over svc. The dispatcher backs the dyna
// flow routes and flows.
func NewServer(svc *core.Service, dispatcher *dynaflow.Dispatcher, opts ...Option) *Server {
	s := &Server{
		svc:        svc,
		catalog:    flows.NewCatalog(svc, dispatcher),
		auth:       flows.NewAuthenticator(svc),
		dispatcher: dispatcher,
		logger:     svc.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/health", s.handleHealth)
	router.GET("/openapi.yaml", gin.WrapH(entitymodel.NewOpenAPIHandler()))
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api", s.authenticate())
	{
		api.GET("/session", s.getSession)

		// Pac lookups
		api.POST("/pac/:pacID/tac", s.addTac)
		api.POST("/pac/:pacID/flavor", s.addFlavor)
		api.POST("/pac/:pacID/land", s.addLand)

		// Plants
		api.POST("/land/:landID/plant", s.addPlant)
		api.PUT("/plant/:plantID", s.savePlant)
		api.DELETE("/plant/:plantID", s.deletePlant)

		// Tac
		api.POST("/tac/:tacID/org-api-key", s.addOrgAPIKey)
		api.POST("/tac/:tacID/dyna-flow", s.requestDynaFlow)

		// Dyna flows
		api.GET("/dyna-flow/:flowID", s.getDynaFlow)
		api.POST("/dyna-flow/:flowID/cancel", s.cancelDynaFlow)

		// Reports
		api.GET("/report", s.listReports)
		api.GET("/report/:name", s.runReport)
		api.POST("/report/:name/export", s.exportReport)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Service:       "farmcore",
		Status:        "healthy",
		SchemaVersion: entitymodel.Version(),
		Time:          s.svc.Now().UTC(),
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(started),
		)
	}
}
