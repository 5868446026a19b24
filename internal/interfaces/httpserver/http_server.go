package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/channel"
	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/infrastructure/tokens"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/handlers"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/middlewares"
	v1 "github.com/funtube/funtube-server/internal/interfaces/httpserver/routes/v1"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg     *config.Config
	engine  *gin.Engine
	log     zerolog.Logger
	storage HealthChecker
}

// New constructs the HTTP server with default middleware and routes.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	users *user.Service,
	videos *video.Service,
	channels *channel.Service,
	verifier *tokens.Manager,
	storage HealthChecker,
) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.CORSMiddleware(cfg.ClientOrigins),
		middlewares.LoggingMiddleware(log),
		middlewares.MetricsMiddleware(),
	)

	handlerProvider := handlers.NewProvider(cfg, users, videos, channels, log)
	routeProvider := v1.NewRoutes(handlerProvider, verifier, users)

	server := &HttpServer{
		cfg:     cfg,
		engine:  engine,
		log:     log,
		storage: storage,
	}
	server.registerCoreRoutes(routeProvider)

	return server
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Engine exposes the router for tests.
func (s *HttpServer) Engine() *gin.Engine {
	return s.engine
}

func (s *HttpServer) registerCoreRoutes(routes *v1.Routes) {
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": s.cfg.ServiceName, "status": "ok"})
	})
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
	s.engine.GET("/healthz", healthHandler)
	s.engine.GET("/api/health", healthHandler)
	s.engine.GET("/readyz", func(c *gin.Context) {
		if s.storage != nil {
			if err := s.storage.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "storage unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Local storage serves media straight from disk.
	if s.cfg.IsLocalStorage() {
		s.engine.Static(s.cfg.LocalStorageBaseURL, s.cfg.LocalStoragePath)
	}

	routes.Register(s.engine)
}
