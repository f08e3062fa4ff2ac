// Package server owns the HTTP listener: Start binds and serves, Stop closes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/janisto/cicd-demo-api/internal/config"
	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
)

// Server is a running HTTP server. Obtain one from Start and release it with Stop.
type Server struct {
	srv  *http.Server
	ln   net.Listener
	errc chan error
	done chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// Start binds cfg.Addr() and serves NewHandler(cfg, opts...) in the background.
// Bind errors are returned directly; later serve errors arrive on Err.
func Start(cfg *config.Config, opts ...Option) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           NewHandler(cfg, opts...),
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
			MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		},
		ln:   ln,
		errc: make(chan error, 1),
		done: make(chan struct{}),
	}

	go s.serve()

	port := s.Port()
	ctx := context.Background()
	applog.LogInfo(ctx, "server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("environment", cfg.Environment),
		zap.String("version", cfg.Version),
	)
	applog.LogInfo(ctx, "health check available", zap.String("url", "http://localhost:"+strconv.Itoa(port)+"/health"))
	return s, nil
}

func (s *Server) serve() {
	defer close(s.done)
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errc <- err
	}
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Port returns the bound TCP port, useful when the configured port was 0.
func (s *Server) Port() int {
	if tcp, ok := s.ln.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// URL returns the base URL for reaching the server on the loopback interface.
func (s *Server) URL() string {
	return "http://127.0.0.1:" + strconv.Itoa(s.Port())
}

// Err delivers a serve failure. It never receives after a clean Stop.
func (s *Server) Err() <-chan error {
	return s.errc
}

// Stop stops accepting connections and waits for in-flight requests until ctx
// expires, then force-closes. Calling Stop more than once returns the first result.
func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		if err := s.srv.Shutdown(ctx); err != nil {
			applog.LogError(ctx, "graceful shutdown incomplete, closing", err)
			if closeErr := s.srv.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
			s.stopErr = fmt.Errorf("shutdown: %w", err)
		}
		<-s.done
		applog.LogInfo(context.Background(), "server stopped")
	})
	return s.stopErr
}
