// Package server runs the Folio HTTP server.
package server

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

	"github.com/folioview/folio/internal/access"
	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/internal/blob"
	"github.com/folioview/folio/internal/catalog"
	"github.com/folioview/folio/internal/config"
	"github.com/folioview/folio/internal/home"
	"github.com/folioview/folio/internal/pdf"
	"github.com/folioview/folio/internal/server/endpoints"
	"github.com/folioview/folio/internal/session"
	"github.com/folioview/folio/internal/svcctx"
	"github.com/folioview/folio/internal/viewer"
)

// Server is the main Folio HTTP server. It owns the catalog store, the
// blob registry, the access gate, and the viewer session manager, and
// exposes them to endpoints through the request context.
type Server struct {
	httpServer *http.Server
	catalogs   *catalog.Store
	blobs      *blob.Registry
	sessions   *session.Store
	gate       *access.Gate
	viewers    *viewer.Manager
	rasterizer *pdf.Rasterizer
	configMgr  *config.Manager
	homeDir    *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the folio home directory for uploaded originals
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		return nil, fmt.Errorf("home directory is required")
	}

	settings := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		settings = cfg.ConfigManager.Get()
	}

	catalogs := catalog.NewStore()
	blobs := blob.NewRegistry(cfg.Home, cfg.Logger)
	sessions := session.NewStore()
	gate := access.NewGate(sessions, cfg.Logger)
	loader := pdf.NewLoader(blobs, cfg.Logger)
	rasterizer := pdf.NewRasterizer(settings.Render.Oversample, settings.Render.JPEGQuality, cfg.Logger)
	viewers := viewer.NewManager(viewer.Config{
		Opener:   loader,
		Renderer: rasterizer,
		Render:   settings.Render,
		Viewer:   settings.Viewer,
		Logger:   cfg.Logger,
	})

	// Deleting a catalog releases its uploaded original, if any.
	catalogs.OnDelete(func(rec catalog.Record) {
		if id, ok := blob.ParseRef(rec.SourceRef); ok {
			if err := blobs.Release(id); err != nil {
				cfg.Logger.Warn("failed to release blob", "catalog", rec.ID, "blob", id, "error", err)
			}
		}
	})

	s := &Server{
		catalogs:   catalogs,
		blobs:      blobs,
		sessions:   sessions,
		gate:       gate,
		viewers:    viewers,
		rasterizer: rasterizer,
		configMgr:  cfg.ConfigManager,
		homeDir:    cfg.Home,
		logger:     cfg.Logger,
	}

	// Render quality settings follow config hot reloads; new renders pick
	// them up, cached pages keep the quality they were rendered at.
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			rasterizer.Oversample = c.Render.Oversample
			rasterizer.JPEGQuality = c.Render.JPEGQuality
			cfg.Logger.Info("render settings reloaded from config",
				"oversample", c.Render.Oversample, "jpeg_quality", c.Render.JPEGQuality)
		})
	}

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Catalogs:      catalogs,
		Blobs:         blobs,
		Sessions:      sessions,
		Gate:          gate,
		Viewers:       viewers,
		ConfigManager: cfg.ConfigManager,
		Home:          cfg.Home,
		Logger:        cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withSession(s.withServices(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Install the demo catalogs on an empty store.
	s.catalogs.Seed()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Catalogs returns the catalog store.
func (s *Server) Catalogs() *catalog.Store {
	return s.catalogs
}

// Handler returns the fully wired HTTP handler. Used by tests to drive
// the server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withSession resolves the browser session cookie, minting one for
// requests under /api that arrive without it.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}
		id := session.Ensure(w, r)
		next.ServeHTTP(w, r.WithContext(svcctx.WithSessionID(r.Context(), id)))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until Start has wired the services.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
