package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Task is a background job that runs alongside the server and must return
// once its context is cancelled.
type Task func(ctx context.Context) error

// Options configures Serve.
type Options struct {
	Handler         http.Handler
	ShutdownTimeout time.Duration
}

// Run listens on addr and calls Serve.
func Run(ctx context.Context, addr string, opts Options, tasks ...Task) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}
	return Serve(ctx, ln, opts, tasks...)
}

// Serve answers HTTP on ln and runs tasks until ctx is cancelled or one of
// them fails, then shuts the server down gracefully.
func Serve(ctx context.Context, ln net.Listener, opts Options, tasks ...Task) error {
	logger := zerolog.Ctx(ctx)
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	srv := &http.Server{
		Handler:           opts.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	for _, task := range tasks {
		eg.Go(func() error { return task(egCtx) })
	}

	return eg.Wait()
}
