package core

import (
	"fmt"
	"math"
	"strconv"
)

// Kind names a distribution family. The values double as the "type" tag of
// the JSON form.
type Kind string

const (
	KindUniform   Kind = "uniform"
	KindGaussian  Kind = "gaussian"
	KindLognormal Kind = "lognormal"
	KindPoisson   Kind = "poisson"
)

// Kinds lists the supported families in display order.
var Kinds = []Kind{KindUniform, KindGaussian, KindLognormal, KindPoisson}

// Z90 is the standard normal z-score of the 90th percentile.
const Z90 = 1.2816

// Distribution is one of Uniform, Gaussian, Lognormal or Poisson.
type Distribution interface {
	Kind() Kind
	String() string
	isDistribution()
}

// Uniform draws from [Min, Max).
type Uniform struct{ Min, Max float64 }

// Gaussian is a normal distribution with the given mean and standard deviation.
type Gaussian struct{ Mean, Stddev float64 }

// Lognormal is parameterised by its own 10th (Low) and 90th (High)
// percentiles rather than by the underlying normal's mu and sigma.
type Lognormal struct{ Low, High float64 }

// Poisson counts events with rate Lambda.
type Poisson struct{ Lambda float64 }

func (Uniform) Kind() Kind   { return KindUniform }
func (Gaussian) Kind() Kind  { return KindGaussian }
func (Lognormal) Kind() Kind { return KindLognormal }
func (Poisson) Kind() Kind   { return KindPoisson }

func (Uniform) isDistribution()   {}
func (Gaussian) isDistribution()  {}
func (Lognormal) isDistribution() {}
func (Poisson) isDistribution()   {}

func (d Uniform) String() string   { return formatSpec(KindUniform, d.Min, d.Max) }
func (d Gaussian) String() string  { return formatSpec(KindGaussian, d.Mean, d.Stddev) }
func (d Lognormal) String() string { return formatSpec(KindLognormal, d.Low, d.High) }
func (d Poisson) String() string   { return formatSpec(KindPoisson, d.Lambda) }

func formatSpec(kind Kind, params ...float64) string {
	out := string(kind) + ":"
	for i, p := range params {
		if i > 0 {
			out += ","
		}
		out += strconv.FormatFloat(p, 'g', -1, 64)
	}
	return out
}

func hasNaN(d Distribution) bool {
	var params []float64
	switch d := d.(type) {
	case Uniform:
		params = []float64{d.Min, d.Max}
	case Gaussian:
		params = []float64{d.Mean, d.Stddev}
	case Lognormal:
		params = []float64{d.Low, d.High}
	case Poisson:
		params = []float64{d.Lambda}
	}
	for _, p := range params {
		if math.IsNaN(p) {
			return true
		}
	}
	return false
}

// Params returns the underlying normal's mu and sigma.
func (d Lognormal) Params() (mu, sigma float64) {
	mu = (math.Log(d.Low) + math.Log(d.High)) / 2
	sigma = (math.Log(d.High) - math.Log(d.Low)) / (2 * Z90)
	return
}

// DefaultDistribution is assigned to variables the user has not configured.
func DefaultDistribution() Distribution {
	return Uniform{Min: 0, Max: 100}
}

// DefaultFor returns the starting parameters used when switching a variable
// to the given family.
func DefaultFor(kind Kind) (Distribution, error) {
	switch kind {
	case KindUniform:
		return Uniform{Min: 0, Max: 100}, nil
	case KindGaussian:
		return Gaussian{Mean: 50, Stddev: 10}, nil
	case KindLognormal:
		return Lognormal{Low: 10, High: 1000}, nil
	case KindPoisson:
		return Poisson{Lambda: 10}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDistribution, kind)
}

// Validate reports parameters that make a distribution degenerate or
// undefined. Sampling still proceeds for such distributions; hosts use this
// to warn.
func Validate(d Distribution) error {
	if d != nil && hasNaN(d) {
		return fmt.Errorf("%w: %s has a NaN parameter", ErrInvalidDistribution, d)
	}
	switch d := d.(type) {
	case Uniform:
		if d.Max < d.Min {
			return fmt.Errorf("%w: uniform max %g is below min %g", ErrInvalidDistribution, d.Max, d.Min)
		}
	case Gaussian:
		if d.Stddev < 0 {
			return fmt.Errorf("%w: gaussian stddev %g is negative", ErrInvalidDistribution, d.Stddev)
		}
	case Lognormal:
		if d.Low <= 0 || d.High <= 0 {
			return fmt.Errorf("%w: lognormal percentiles must be positive (low %g, high %g)", ErrInvalidDistribution, d.Low, d.High)
		}
		if d.High < d.Low {
			return fmt.Errorf("%w: lognormal high %g is below low %g", ErrInvalidDistribution, d.High, d.Low)
		}
	case Poisson:
		if d.Lambda < 0 {
			return fmt.Errorf("%w: poisson lambda %g is negative", ErrInvalidDistribution, d.Lambda)
		}
	case nil:
		return fmt.Errorf("%w: nil distribution", ErrInvalidDistribution)
	}
	return nil
}
