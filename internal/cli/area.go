package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcrpanta/density-areas/area"
	"github.com/jcrpanta/density-areas/quadrature"
	"github.com/jcrpanta/density-areas/symbolic"
)

type areaOutput struct {
	RequestID   string              `json:"request_id"`
	Field       string              `json:"field"`
	I1          quadrature.Interval `json:"i1"`
	I2          quadrature.Interval `json:"i2"`
	Value       float64             `json:"value"`
	AbsErr      float64             `json:"abserr"`
	Evaluations int                 `json:"evaluations"`
}

func areaCmd(a *app) *cobra.Command {
	var field string
	var i1, i2 string
	var params []string
	var output string

	c := &cobra.Command{
		Use:   "area",
		Short: "Compute the normalized symplectic area over theta, phi, s in I1 and t in I2",
		Args:  cobra.NoArgs,
	}
	quadOpts := a.quadFlags(c)

	c.RunE = func(cmd *cobra.Command, _ []string) error {
		log, id := requestLogger(cmd)

		lo, err := parseInterval(i1)
		if err != nil {
			return fmt.Errorf("--i1: %w", err)
		}
		hi, err := parseInterval(i2)
		if err != nil {
			return fmt.Errorf("--i2: %w", err)
		}

		var fn area.Field
		name := "placeholder"
		if field == "" && len(params) > 0 {
			return fmt.Errorf("%w: --param needs --field, the placeholder field has no parameters", area.ErrInvalidParam)
		}
		if field != "" {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			if fn, err = area.FieldFromExpr(field, p); err != nil {
				return err
			}
			name = field
		}

		log.Debug("area.start", "field", name, "i1", lo, "i2", hi)
		start := time.Now()
		res, err := area.Compute(fn, lo, hi, quadOpts()...)
		if err != nil {
			log.Error("area.failed", "err", err)
			return err
		}
		log.Info("area.done", "value", res.Value, "abserr", res.AbsErr,
			"evaluations", res.Evaluations, "duration_ms", time.Since(start).Milliseconds())

		return printArea(cmd.OutOrStdout(), areaOutput{
			RequestID:   id,
			Field:       name,
			I1:          lo,
			I2:          hi,
			Value:       res.Value,
			AbsErr:      res.AbsErr,
			Evaluations: res.Evaluations,
		}, output)
	}

	c.Flags().StringVar(&field, "field", "", "Field over theta, phi, s, t (default sin(theta)*cos(phi))")
	c.Flags().StringVar(&i1, "i1", "", "Interval for s: lo,hi (required)")
	c.Flags().StringVar(&i2, "i2", "", "Interval for t: lo,hi (required)")
	c.Flags().StringArrayVar(&params, "param", nil, "Bind a free symbol of --field: name=value (repeatable)")
	c.Flags().StringVarP(&output, "output", "o", "text", "Output format: text|json")

	_ = c.MarkFlagRequired("i1")
	_ = c.MarkFlagRequired("i2")
	return c
}

// parseInterval reads "lo,hi" where each end is a constant formula such as
// "pi/2".
func parseInterval(s string) (quadrature.Interval, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return quadrature.Interval{}, fmt.Errorf("invalid interval %q (expected lo,hi)", s)
	}
	var ends [2]float64
	for i, p := range parts {
		e, err := symbolic.Parse(strings.TrimSpace(p))
		if err != nil {
			return quadrature.Interval{}, err
		}
		v, ok := symbolic.Float(e)
		if !ok {
			return quadrature.Interval{}, fmt.Errorf("interval end %q is not a number", p)
		}
		ends[i] = v
	}
	return quadrature.Interval{Lo: ends[0], Hi: ends[1]}, nil
}

func printArea(w io.Writer, out areaOutput, format string) error {
	switch format {
	case "text", "":
		_, err := fmt.Fprintf(w, "%.15g ± %.3g\n", out.Value, out.AbsErr)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unsupported output %q (expected text|json)", format)
	}
}
