package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"goboard/cache"
	"goboard/config"
	"goboard/db"
	"goboard/logger"

	"github.com/gorilla/mux"
)

// Server is the board HTTP API server.
type Server struct {
	router *mux.Router
	server *http.Server
	cfg    *config.Config
	store  db.PostStore
	views  *cache.ViewCounter // nil when Redis batching is disabled
	log    *logger.Logger
}

// NewServer builds a server around the given store. views may be nil,
// in which case view increments go straight to the store.
func NewServer(cfg *config.Config, store db.PostStore, views *cache.ViewCounter) *Server {
	s := &Server{
		router: mux.NewRouter(),
		cfg:    cfg,
		store:  store,
		views:  views,
		log:    logger.L(),
	}
	s.setupRoutes()
	return s
}

// Router exposes the handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and returns immediately. The server shuts
// down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Host + ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.GetReadTimeout(),
		WriteTimeout: s.cfg.Server.GetWriteTimeout(),
		IdleTimeout:  s.cfg.Server.GetIdleTimeout(),
	}

	go func() {
		s.log.Info("Starting API server", map[string]interface{}{
			"addr":         s.server.Addr,
			"cors_origins": s.cfg.CORS.AllowedOrigins,
			"docs":         "/docs",
			"openapi":      "/openapi.json",
		})

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("API server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.log.Info("Shutting down API server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}
	return nil
}

// CORSMiddleware adds CORS headers for the configured frontend origins.
// Changing the origin list requires a server restart.
func (s *Server) CORSMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(s.cfg.CORS.AllowedOrigins))
	for _, o := range s.cfg.CORS.AllowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
