package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jcrpanta/density-areas/internal/config"
	"github.com/jcrpanta/density-areas/internal/logger"
	"github.com/jcrpanta/density-areas/quadrature"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what the persistent flags resolve to.
type app struct {
	configPath string
	debug      bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "densityareas",
		Short:        "Poisson brackets and symplectic areas of linear functionals on densities",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or ./"+config.ConfigFileName+")")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug logging to stderr")

	cmd.AddCommand(bracketCmd(a), areaCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configPath != "" {
		cfg, path, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
		Debug:  a.debug,
	}); err != nil {
		return err
	}
	logger.L().Debug("config.loaded", "path", path)
	return nil
}

// requestLogger tags every record of one command run.
func requestLogger(cmd *cobra.Command) (*slog.Logger, string) {
	id := uuid.NewString()
	return logger.L().With("request_id", id, "command", cmd.Name()), id
}

// quadFlags registers tolerance overrides on c. The returned function
// yields the configured options with any flags the user set applied.
func (a *app) quadFlags(c *cobra.Command) func() []quadrature.Option {
	var epsabs, epsrel float64
	var limit int
	c.Flags().Float64Var(&epsabs, "epsabs", quadrature.DefaultEpsAbs, "absolute tolerance")
	c.Flags().Float64Var(&epsrel, "epsrel", quadrature.DefaultEpsRel, "relative tolerance")
	c.Flags().IntVar(&limit, "limit", quadrature.DefaultLimit, "maximum subintervals per integral")

	return func() []quadrature.Option {
		o := quadrature.DefaultOptions()
		if a.cfg != nil {
			o = a.cfg.Quadrature
		}
		if c.Flags().Changed("epsabs") {
			o.EpsAbs = epsabs
		}
		if c.Flags().Changed("epsrel") {
			o.EpsRel = epsrel
		}
		if c.Flags().Changed("limit") {
			o.Limit = limit
		}
		return []quadrature.Option{quadrature.WithOptions(o)}
	}
}

// parseParams reads repeated name=value flags.
func parseParams(raw []string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for _, kv := range raw {
		name, val, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q (expected name=value)", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --param %q: %w", kv, err)
		}
		out[name] = f
	}
	return out, nil
}
