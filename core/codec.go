package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidDistribution is returned when a distribution specification
// cannot be decoded.
var ErrInvalidDistribution = errors.New("invalid distribution")

// distributionJSON is the tagged record exchanged with hosts, e.g.
// {"type":"uniform","min":0,"max":100}. Pointers distinguish a missing field
// from an explicit zero.
type distributionJSON struct {
	Type   Kind     `json:"type"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	Stddev *float64 `json:"stddev,omitempty"`
	Low    *float64 `json:"low,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Lambda *float64 `json:"lambda,omitempty"`
}

func (d Uniform) MarshalJSON() ([]byte, error) {
	return json.Marshal(distributionJSON{Type: KindUniform, Min: &d.Min, Max: &d.Max})
}

func (d Gaussian) MarshalJSON() ([]byte, error) {
	return json.Marshal(distributionJSON{Type: KindGaussian, Mean: &d.Mean, Stddev: &d.Stddev})
}

func (d Lognormal) MarshalJSON() ([]byte, error) {
	return json.Marshal(distributionJSON{Type: KindLognormal, Low: &d.Low, High: &d.High})
}

func (d Poisson) MarshalJSON() ([]byte, error) {
	return json.Marshal(distributionJSON{Type: KindPoisson, Lambda: &d.Lambda})
}

// UnmarshalDistribution decodes the tagged JSON record form. Every field of
// the named type is required.
func UnmarshalDistribution(data []byte) (Distribution, error) {
	var raw distributionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDistribution, err)
	}
	var errs []error
	get := func(field string, v *float64) float64 {
		if v == nil {
			errs = append(errs, fmt.Errorf("%w: %s requires field %q", ErrInvalidDistribution, raw.Type, field))
			return 0
		}
		return *v
	}

	var out Distribution
	switch raw.Type {
	case KindUniform:
		out = Uniform{Min: get("min", raw.Min), Max: get("max", raw.Max)}
	case KindGaussian:
		out = Gaussian{Mean: get("mean", raw.Mean), Stddev: get("stddev", raw.Stddev)}
	case KindLognormal:
		out = Lognormal{Low: get("low", raw.Low), High: get("high", raw.High)}
	case KindPoisson:
		out = Poisson{Lambda: get("lambda", raw.Lambda)}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDistribution, raw.Type)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// ParseDistribution parses the compact "kind:p1,p2" form used on the command
// line, e.g. "lognormal:10,1000" or "poisson:4". A bare kind selects
// DefaultFor(kind).
func ParseDistribution(s string) (Distribution, error) {
	kindStr, paramStr, hasParams := strings.Cut(strings.TrimSpace(s), ":")
	kind := Kind(strings.ToLower(strings.TrimSpace(kindStr)))
	if !hasParams {
		return DefaultFor(kind)
	}

	var params []float64
	for _, field := range strings.Split(paramStr, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: bad parameter %q in %q", ErrInvalidDistribution, field, s)
		}
		params = append(params, v)
	}

	want := 2
	if kind == KindPoisson {
		want = 1
	}
	switch kind {
	case KindUniform, KindGaussian, KindLognormal, KindPoisson:
		if len(params) != want {
			return nil, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrInvalidDistribution, kind, want, len(params))
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDistribution, kind)
	}

	switch kind {
	case KindUniform:
		return Uniform{Min: params[0], Max: params[1]}, nil
	case KindGaussian:
		return Gaussian{Mean: params[0], Stddev: params[1]}, nil
	case KindLognormal:
		return Lognormal{Low: params[0], High: params[1]}, nil
	default:
		return Poisson{Lambda: params[0]}, nil
	}
}
