// Package api serves recommendations and segment predictions over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a fitted analytics core.
type Server struct {
	core       *analytics.Core
	profiles   []model.SegmentProfile
	population model.SegmentProfile
}

// NewServer creates a server for core. The core is read-only, so handlers
// share it without locking.
func NewServer(core *analytics.Core) (*Server, error) {
	if core == nil {
		return nil, errors.New("analytics core is required")
	}
	return &Server{
		core:       core,
		profiles:   core.Profiles(),
		population: core.Population(),
	}, nil
}

// Routes returns the HTTP handler for every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/recommendations", s.recommendations)
		r.Get("/products", s.products)
		r.Route("/segments", func(r chi.Router) {
			r.Get("/predict", s.predict)
			r.Get("/profiles", s.segmentProfiles)
		})
	})

	return r
}

// ListenOptions configures ListenAndServe. A non-nil TLSConfig serves HTTPS.
type ListenOptions struct {
	TLSConfig    *tls.Config
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ListenAndServe serves Routes until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, opts ListenOptions) error {
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Routes(),
		TLSConfig:         opts.TLSConfig,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if srv.TLSConfig != nil {
			slog.Info("HTTPS server listening", "addr", opts.Addr)
			// Certificates come from TLSConfig.
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		slog.Info("HTTP server listening", "addr", opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("Shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()))
	})
}
