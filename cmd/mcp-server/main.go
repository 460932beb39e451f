// Command mcp-server exposes the bracket, area and symbolic tools as an HTTP
// endpoint for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server -addr :8080
//
// Settings come from $DENSITYAREAS_CONFIG, ./densityareas.yaml or
// ./densityareas.toml; -addr overrides the configured listen address.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"

	"github.com/jcrpanta/density-areas/internal/di"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mcp-server:", err)
		os.Exit(1)
	}
}

func run() error {
	var opts di.Options
	flag.StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8080)")
	flag.StringVar(&opts.ConfigPath, "config", "", "config file path")
	flag.BoolVar(&opts.Debug, "debug", false, "debug logging with source locations")
	flag.Parse()

	injector := di.New(opts)
	srv, err := do.Invoke[*http.Server](injector)
	if err != nil {
		return err
	}
	log := do.MustInvoke[*slog.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("server.listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
