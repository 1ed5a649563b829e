package core

import "math"

// Sample draws one value from d using src for all uniform draws.
func Sample(src Source, d Distribution) float64 {
	switch d := d.(type) {
	case Uniform:
		return d.Min + src.Float64()*(d.Max-d.Min)
	case Gaussian:
		return d.Mean + d.Stddev*StandardNormal(src)
	case Lognormal:
		mu, sigma := d.Params()
		return math.Exp(mu + sigma*StandardNormal(src))
	case Poisson:
		return samplePoisson(src, d.Lambda)
	}
	return math.NaN()
}

// StandardNormal returns a N(0,1) deviate using the Box-Muller transform.
// Both uniforms are redrawn while zero so the logarithm stays finite.
func StandardNormal(src Source) float64 {
	u1 := src.Float64()
	for u1 == 0 {
		u1 = src.Float64()
	}
	u2 := src.Float64()
	for u2 == 0 {
		u2 = src.Float64()
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// samplePoisson is Knuth's multiplication method. Run time grows linearly
// with lambda. The loop continues only while p > limit, so a NaN lambda
// stops after one draw and yields 0.
func samplePoisson(src Source, lambda float64) float64 {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= src.Float64()
		if !(p > limit) {
			break
		}
	}
	return float64(k - 1)
}
