// Package server is the search proxy: a stateless HTTP front for the catalog
// that never fails a search request.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/config"
	"github.com/tessro/auralyn/internal/saavn"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Searcher fetches one page of catalog results.
type Searcher interface {
	SearchSongs(ctx context.Context, query string, page int) (*saavn.Page, error)
}

// Server serves the proxy routes.
type Server struct {
	cfg      config.ServerConfig
	searcher Searcher
	log      *zap.Logger
	router   *mux.Router
}

// New wires the routes.
func New(cfg config.ServerConfig, searcher Searcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		searcher: searcher,
		log:      log.Named("server"),
		router:   mux.NewRouter(),
	}

	s.router.Use(requestID)
	s.router.Use(s.accessLog)
	s.router.Use(cors(cfg.CORSOrigins))

	s.router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/api/music/search", s.handleSearch).Methods(http.MethodGet)
	s.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured port until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("search proxy listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("upstream", s.cfg.UpstreamURL))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
