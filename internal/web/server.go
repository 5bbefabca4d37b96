package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"moviefinder/internal/config"
	"moviefinder/internal/logging"
	"moviefinder/internal/render"
	"moviefinder/internal/search"
	"moviefinder/internal/shell"
	"moviefinder/internal/tmdb"
)

const (
	sessionCookie    = "moviefinder_session"
	generationHeader = "X-Search-Generation"
	requestIDHeader  = "X-Request-ID"
	sweepInterval    = time.Minute
	shutdownTimeout  = 5 * time.Second
)

// Server serves the search page, its background search endpoint, and a
// small JSON API over the catalog.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	catalog    tmdb.Catalog
	dispatcher *search.Dispatcher
	renderer   *render.Renderer
	sessions   *shell.Sessions
	engine     *gin.Engine
	now        func() time.Time

	lock     *flock.Flock
	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// New builds the HTTP server around catalog.
func New(cfg *config.Config, catalog tmdb.Catalog, logger *slog.Logger) (*Server, error) {
	if cfg == nil || catalog == nil {
		return nil, errors.New("web server requires config and catalog")
	}
	logger = logging.NewComponentLogger(logger, "web")

	renderer, err := render.New(render.Images{
		BaseURL:     cfg.TMDB.ImageBaseURL,
		Placeholder: render.DefaultPlaceholderURL,
	})
	if err != nil {
		return nil, err
	}

	dispatcher := search.NewDispatcher(catalog, search.WithLogger(logger))
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog,
		dispatcher: dispatcher,
		renderer:   renderer,
		now:        time.Now,
	}
	s.sessions = shell.NewSessions(func() *shell.Shell {
		return shell.New(catalog, dispatcher, logger)
	}, cfg.SessionTTL())
	s.engine = s.routes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions exposes the live session registry.
func (s *Server) Sessions() *shell.Sessions {
	return s.sessions
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(s.serviceName()))
	engine.Use(requestID())
	engine.Use(requestLogger(s.logger))

	engine.GET("/", s.handleIndex)
	engine.POST("/search", s.handleSearch)
	engine.GET("/healthz", s.handleHealth)

	api := engine.Group("/api")
	if origins := s.cfg.Server.CORSOrigins; len(origins) > 0 {
		api.Use(cors.New(corsConfig(origins)))
	}
	api.GET("/genres", s.handleAPIGenres)
	api.GET("/search", s.handleAPISearch)
	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) serviceName() string {
	if name := strings.TrimSpace(s.cfg.Telemetry.ServiceName); name != "" {
		return name
	}
	return "moviefinder"
}

// Start takes the single-instance lock, binds the configured address, and
// serves until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if err := s.cfg.EnsureDirectories(); err != nil {
		return err
	}
	lock := flock.New(s.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another moviefinder server is already running (lock %s)", s.cfg.LockPath())
	}

	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		_ = lock.Unlock()
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Bind, err)
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.cfg.TMDBTimeout()*2 + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.mu.Lock()
	s.lock = lock
	s.listener = listener
	s.server = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logging.Error(err))
		}
	}()
	go s.sessions.Run(ctx, sweepInterval)
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("http server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", s.cfg.LockPath()),
	)
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the instance lock. It is safe to
// call more than once.
func (s *Server) Stop() {
	s.mu.Lock()
	srv, lock := s.server, s.lock
	s.server, s.lock, s.listener = nil, nil, nil
	s.mu.Unlock()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http server shutdown", logging.Error(err))
		}
	}
	if lock != nil {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release server lock", logging.Error(err))
		}
		s.logger.Info("http server stopped")
	}
}
