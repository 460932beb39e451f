package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcrpanta/density-areas/bracket"
)

type bracketOutput struct {
	RequestID string   `json:"request_id"`
	Manifold  string   `json:"manifold"`
	Mode      string   `json:"mode"`
	Result    string   `json:"result"`
	LaTeX     string   `json:"latex,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	AbsErr    *float64 `json:"abserr,omitempty"`
}

func bracketCmd(a *app) *cobra.Command {
	var manifold string
	var obs bracket.Observables
	var numerical bool
	var params []string
	var output string

	c := &cobra.Command{
		Use:   "bracket",
		Short: "Evaluate the Poisson bracket {F_f, F_h} on square, torus or sphere",
		Args:  cobra.NoArgs,
	}
	quadOpts := a.quadFlags(c)

	c.RunE = func(cmd *cobra.Command, _ []string) error {
		log, id := requestLogger(cmd)

		m, err := bracket.Lookup(manifold)
		if err != nil {
			return err
		}
		p, err := parseParams(params)
		if err != nil {
			return err
		}
		mode := bracket.ModeExact
		if numerical {
			mode = bracket.ModeNumerical
		}

		log.Debug("bracket.start", "manifold", m.Name, "mode", mode.String(),
			"tau", obs.Tau, "rho", obs.Rho, "f", obs.F, "h", obs.H)
		start := time.Now()
		res, err := m.Evaluate(obs, mode, bracket.WithParams(p), bracket.WithQuadrature(quadOpts()...))
		if err != nil {
			log.Error("bracket.failed", "err", err)
			return err
		}
		log.Info("bracket.done", "manifold", m.Name, "mode", mode.String(),
			"result", res.String(), "duration_ms", time.Since(start).Milliseconds())

		return printBracket(cmd.OutOrStdout(), res, m.Name, id, output)
	}

	c.Flags().StringVarP(&manifold, "manifold", "m", "square", "Manifold: square|torus|sphere")
	c.Flags().StringVar(&obs.Tau, "tau", "1", "Conformal factor tau")
	c.Flags().StringVar(&obs.Rho, "rho", "1", "Density rho")
	c.Flags().StringVar(&obs.F, "f", "", "Test function f (required)")
	c.Flags().StringVar(&obs.H, "h", "", "Test function h (required)")
	c.Flags().BoolVar(&numerical, "numerical", false, "Use double quadrature instead of closed-form integration")
	c.Flags().StringArrayVar(&params, "param", nil, "Bind a free symbol: name=value (repeatable)")
	c.Flags().StringVarP(&output, "output", "o", "text", "Output format: text|json|latex")

	_ = c.MarkFlagRequired("f")
	_ = c.MarkFlagRequired("h")
	return c
}

func printBracket(w io.Writer, res bracket.Result, manifold, id, format string) error {
	switch format {
	case "text", "":
		_, err := fmt.Fprintln(w, res.String())
		return err
	case "latex":
		ex, ok := res.(bracket.Exact)
		if !ok {
			return fmt.Errorf("latex output needs exact mode")
		}
		_, err := fmt.Fprintln(w, ex.LaTeX())
		return err
	case "json":
		out := bracketOutput{
			RequestID: id,
			Manifold:  manifold,
			Mode:      res.Mode().String(),
			Result:    res.String(),
		}
		switch r := res.(type) {
		case bracket.Exact:
			out.LaTeX = r.LaTeX()
			if v, ok := r.Float(); ok {
				out.Value = &v
			}
		case bracket.Numerical:
			out.Value = &r.Value
			out.AbsErr = &r.AbsErr
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unsupported output %q (expected text|json|latex)", format)
	}
}
