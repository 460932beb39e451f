// Package di assembles the tool server from configuration with a samber/do
// injector.
package di

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/samber/do"

	"github.com/jcrpanta/density-areas/internal/config"
	"github.com/jcrpanta/density-areas/internal/logger"
	"github.com/jcrpanta/density-areas/internal/server"
	"github.com/jcrpanta/density-areas/internal/tools"
)

// Options are the command-line overrides the container starts from.
type Options struct {
	ConfigPath string
	Addr       string
	Debug      bool
	LogWriter  io.Writer
}

// New registers every provider. Nothing is built until it is invoked.
func New(opts Options) *do.Injector {
	i := do.New()
	do.ProvideValue(i, opts)
	do.Provide(i, provideConfig)
	do.Provide(i, provideLogger)
	do.Provide(i, provideTools)
	do.Provide(i, provideServer)
	return i
}

func provideConfig(i *do.Injector) (*config.Config, error) {
	opts, err := do.Invoke[Options](i)
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if opts.ConfigPath != "" {
		cfg, _, err = config.LoadFromPath(opts.ConfigPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	return cfg, nil
}

func provideLogger(i *do.Injector) (*slog.Logger, error) {
	opts, err := do.Invoke[Options](i)
	if err != nil {
		return nil, err
	}
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: opts.LogWriter,
		Debug:  opts.Debug,
	}); err != nil {
		return nil, err
	}
	return logger.L(), nil
}

func provideTools(i *do.Injector) (*tools.Handler, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	return tools.NewHandler(cfg.QuadratureOptions()...), nil
}

func provideServer(i *do.Injector) (*http.Server, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	log, err := do.Invoke[*slog.Logger](i)
	if err != nil {
		return nil, err
	}
	h, err := do.Invoke[*tools.Handler](i)
	if err != nil {
		return nil, err
	}
	return server.NewHTTPServer(cfg.Server, server.New(cfg.Server, h, log)), nil
}
