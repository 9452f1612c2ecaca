// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Package hosting runs the host process around a bridge: it serves the start
// page, reports when that service is available, and ties the game loop and
// the server to one shutdown.
package hosting

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	framebridge "github.com/YindSoft/ultralight-framebridge"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config for a Service.
type Config struct {
	// Addr to serve Assets on. Empty means there is no local server and the
	// service counts as available as soon as Run starts.
	Addr   string
	Assets fs.FS
	// ShutdownTimeout bounds the HTTP server drain. Defaults to 5s.
	ShutdownTimeout time.Duration
}

// Service implements framebridge.Lifecycle.
type Service struct {
	cfg    Config
	logger zerolog.Logger
	ready  *framebridge.Signal

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	addr string
}

// New returns a service that has not started yet.
func New(cfg Config, logger zerolog.Logger) *Service {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:    cfg,
		logger: logger.With().Str("component", "hosting").Logger(),
		ready:  framebridge.NewSignal(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ServiceAvailable reports whether the start page can be served.
func (s *Service) ServiceAvailable() bool { return s.ready.Fired() }

// Ready is closed once the service is available.
func (s *Service) Ready() <-chan struct{} { return s.ready.Done() }

// Done is closed once shutdown was requested.
func (s *Service) Done() <-chan struct{} { return s.ctx.Done() }

// RequestShutdown stops the service and ends Run.
func (s *Service) RequestShutdown() {
	if s.ctx.Err() == nil {
		s.logger.Info().Msg("shutdown requested")
	}
	s.cancel()
}

// Addr returns the address the server listens on, once it does.
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run starts the server in the background and runs game on the calling
// goroutine, which must be the main one for most game engines. When game
// returns, or ctx is done, everything is shut down.
func (s *Service) Run(ctx context.Context, game func() error) error {
	stop := context.AfterFunc(ctx, s.cancel)
	defer stop()

	g, gctx := errgroup.WithContext(s.ctx)
	if s.cfg.Addr == "" {
		s.ready.Fire()
	} else {
		ln, err := net.Listen("tcp", s.cfg.Addr)
		if err != nil {
			s.cancel()
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		g.Go(func() error { return s.serve(gctx, ln) })
	}

	gameErr := game()
	s.cancel()
	if err := g.Wait(); err != nil {
		return errors.Join(gameErr, err)
	}
	return gameErr
}

func (s *Service) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("serving start page")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.ready.Fire()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		s.RequestShutdown()
		return fmt.Errorf("serve: %w", err)
	}
}

// Router returns the HTTP handler: a health endpoint and the asset tree.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.cfg.Assets != nil {
		r.Handle("/*", http.FileServerFS(s.cfg.Assets))
	}
	return r
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
