// Package api exposes word validation over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/petit-bac/internal/model"
)

const requestIDHeader = "X-Request-ID"

// WordValidator is the validation service the API fronts.
type WordValidator interface {
	ValidateWord(ctx context.Context, category, word string) model.ValidationOutcome
	AvailableValidators() []string
	ConfidenceThreshold() float64
}

// ListSizer reports how many words a category's fixed list holds.
type ListSizer interface {
	Size(category model.Category) int
}

// Options configures the router.
type Options struct {
	// Gatherer backs GET /metrics. The route is omitted when nil.
	Gatherer prometheus.Gatherer
	Lists    ListSizer
	// RequestTimeout bounds a single validation. Zero means no bound.
	RequestTimeout time.Duration
}

// New builds the router.
func New(svc WordValidator, opts Options) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery(), requestID())
	attachRoutes(g, svc, opts)
	return g
}

func attachRoutes(g *gin.Engine, svc WordValidator, opts Options) {
	h := newHandlers(svc, opts)

	g.GET("/healthz", h.Health)
	if opts.Gatherer != nil {
		g.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := g.Group("/api/v1")
	v1.GET("/validate", h.ValidateQuery)
	v1.POST("/validate", h.ValidateJSON)
	v1.GET("/categories", h.Categories)
}

// requestID tags every request with an ID, reusing the caller's when given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Serve runs handler on addr until ctx ends, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	slog.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
