package quadrature

import (
	"fmt"
	"math"
)

// Defaults match the QUADPACK drivers' usual tolerances.
const (
	DefaultEpsAbs = 1.49e-8
	DefaultEpsRel = 1.49e-8
	DefaultLimit  = 50
)

const (
	panicEpsInvalid   = "quadrature: tolerance must be finite and non-negative"
	panicLimitInvalid = "quadrature: limit must be at least 1"
)

// Interval is a closed integration range. Lo > Hi is allowed and flips the
// sign of the integral.
type Interval struct {
	Lo float64 `yaml:"lo" toml:"lo" json:"lo"`
	Hi float64 `yaml:"hi" toml:"hi" json:"hi"`
}

// Options controls a single adaptive integration.
type Options struct {
	EpsAbs float64 `yaml:"epsabs" toml:"epsabs" json:"epsabs"`
	EpsRel float64 `yaml:"epsrel" toml:"epsrel" json:"epsrel"`
	Limit  int     `yaml:"limit" toml:"limit" json:"limit"`
}

// DefaultOptions returns epsabs = epsrel = 1.49e-8 and a limit of 50.
func DefaultOptions() Options {
	return Options{EpsAbs: DefaultEpsAbs, EpsRel: DefaultEpsRel, Limit: DefaultLimit}
}

// Validate rejects tolerances that can never be met.
func (o Options) Validate() error {
	if o.Limit < 1 {
		return fmt.Errorf("%w: limit %d < 1", ErrInvalidOptions, o.Limit)
	}
	if !finiteNonNegative(o.EpsAbs) || !finiteNonNegative(o.EpsRel) {
		return fmt.Errorf("%w: epsabs=%g epsrel=%g", ErrInvalidOptions, o.EpsAbs, o.EpsRel)
	}
	if o.EpsAbs <= 0 && o.EpsRel < math.Max(50*epmach, 5e-29) {
		return fmt.Errorf("%w: epsrel %g is below machine precision with epsabs=0", ErrInvalidOptions, o.EpsRel)
	}
	return nil
}

// Option mutates Options. Constructors panic on nonsensical values.
type Option func(*Options)

func WithEpsAbs(eps float64) Option {
	if !finiteNonNegative(eps) {
		panic(panicEpsInvalid)
	}
	return func(o *Options) { o.EpsAbs = eps }
}

func WithEpsRel(eps float64) Option {
	if !finiteNonNegative(eps) {
		panic(panicEpsInvalid)
	}
	return func(o *Options) { o.EpsRel = eps }
}

func WithLimit(n int) Option {
	if n < 1 {
		panic(panicLimitInvalid)
	}
	return func(o *Options) { o.Limit = n }
}

// WithOptions replaces every setting at once, typically from configuration.
// The values are checked when the integration starts.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
