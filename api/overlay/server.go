package overlay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridlens/gridlens/core/logger"
)

// Server hosts the overlay API.
type Server struct {
	srv *http.Server
	log logger.Logger
}

// NewServer mounts the handler under /api/overlay.
func NewServer(addr string, h *Handler, log logger.Logger) *Server {
	r := chi.NewRouter()
	r.Mount("/api/overlay", h.Routes())
	return &Server{srv: &http.Server{Addr: addr, Handler: r}, log: log}
}

// Start begins serving requests. The server shuts down when the context is
// canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", ln.Addr())
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("serve: %v", err)
		}
	}()
	return nil
}
