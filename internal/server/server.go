package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fashionpod/fashionpod/internal/fashion"
	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/fashionpod/fashionpod/internal/vector"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const version = "0.1.0"

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AI is the part of the fashion facade the HTTP API exposes.
type AI interface {
	SearchWithEmbedding(ctx context.Context, query string, filter vector.Filter) ([]types.SearchResult, []float32, error)
	GetPersonalizedRecommendations(ctx context.Context, userID string, limit int) []types.Product
	GenerateProductDescription(ctx context.Context, in fashion.DescriptionInput) (string, error)
}

type SearchRecorder interface {
	Record(ctx context.Context, query string, userID *uuid.UUID, results int, vec []float32) error
}

type Options struct {
	DB        HealthChecker
	AI        AI
	SearchLog SearchRecorder
	Logger    *zap.Logger
	// Registry serves /metrics and receives the HTTP metrics. Optional.
	Registry *prometheus.Registry
}

type Server struct {
	router    *gin.Engine
	db        HealthChecker
	ai        AI
	searchLog SearchRecorder
	log       *zap.Logger
}

// NewServer creates a new server instance
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(log), newHTTPMetrics(reg).middleware())

	server := &Server{
		router:    router,
		db:        opts.DB,
		ai:        opts.AI,
		searchLog: opts.SearchLog,
		log:       log,
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.POST("/search", s.search)
		api.GET("/users/:id/recommendations", s.recommendations)
		api.POST("/products/description", s.productDescription)
		api.POST("/products/validate", s.validateProduct)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if s.db != nil {
		if err := s.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"error":  "database connection failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "fashionpod",
		"version": version,
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
