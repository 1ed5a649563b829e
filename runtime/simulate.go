package runtime

import (
	"errors"
	"log/slog"
	"math"
	"slices"

	"github.com/panyam/fermi/core"
	"github.com/panyam/fermi/decl"
)

const (
	DefaultSamples = 10000
	DefaultBins    = 60
)

// ErrNoValidSamples is returned when every trial of a simulation was
// discarded.
var ErrNoValidSamples = errors.New("no valid samples produced")

// Histogram counts samples in equal width bins spanning [Min, Max].
type Histogram struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Bins []int   `json:"bins"`
}

// SimulationResult holds the retained samples in ascending order and the
// statistics derived from them. Percentiles use nearest-rank indexing,
// samples[floor(len*q)], without interpolation; for small sample counts this
// is biased towards the upper neighbour.
type SimulationResult struct {
	Samples   []float64 `json:"samples"`
	Mean      float64   `json:"mean"`
	Median    float64   `json:"median"`
	P5        float64   `json:"p5"`
	P10       float64   `json:"p10"`
	P90       float64   `json:"p90"`
	P95       float64   `json:"p95"`
	Histogram Histogram `json:"histogram"`

	// Trials is the number of trials attempted; Trials-len(Samples) were
	// dropped.
	Trials int `json:"trials"`
}

// Dropped is the number of trials that produced no usable value.
func (r *SimulationResult) Dropped() int {
	return r.Trials - len(r.Samples)
}

// Stat is a labelled summary value.
type Stat struct {
	Label string
	Value float64
}

// Summary lists the headline statistics in display order.
func (r *SimulationResult) Summary() []Stat {
	return []Stat{
		{"Mean", r.Mean},
		{"Median", r.Median},
		{"P5", r.P5},
		{"P10", r.P10},
		{"P90", r.P90},
		{"P95", r.P95},
	}
}

type options struct {
	src    core.Source
	logger *slog.Logger
	bins   int
}

// Option configures a simulation run.
type Option func(*options)

// WithSource sets the random source. The default is core.GlobalSource.
func WithSource(src core.Source) Option {
	return func(o *options) { o.src = src }
}

// WithSeed is shorthand for WithSource(core.NewSource(seed)).
func WithSeed(seed uint64) Option {
	return func(o *options) { o.src = core.NewSource(seed) }
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBins overrides the histogram bin count.
func WithBins(bins int) Option {
	return func(o *options) {
		if bins > 0 {
			o.bins = bins
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{src: core.GlobalSource{}, bins: DefaultBins}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Simulate runs n independent trials. Each trial draws every binding once
// and evaluates expr; trials whose evaluation fails or whose value is not
// finite are dropped without error. The run fails with ErrNoValidSamples
// only if nothing was kept.
//
// Simulate is synchronous and owns its sample buffer. Runs that share a
// Source across goroutines must use a core.LockedSource.
func Simulate(expr decl.Expr, bindings *core.Bindings, n int, opts ...Option) (*SimulationResult, error) {
	o := newOptions(opts)
	samples := make([]float64, 0, max(n, 0))
	vars := make(map[string]float64, bindings.Len())

	for range max(n, 0) {
		bindings.Draw(o.src, vars)
		value, err := decl.Evaluate(expr, vars)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		samples = append(samples, value)
	}

	o.logger.Debug("Simulation finished", "trials", n, "kept", len(samples), "dropped", max(n, 0)-len(samples))
	result, err := Reduce(samples, o.bins)
	if err != nil {
		return nil, err
	}
	result.Trials = max(n, 0)
	return result, nil
}

// Reduce sorts samples in place and derives the summary statistics and a
// histogram with the given number of bins.
func Reduce(samples []float64, bins int) (*SimulationResult, error) {
	if len(samples) == 0 {
		return nil, ErrNoValidSamples
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	slices.Sort(samples)

	n := len(samples)
	return &SimulationResult{
		Samples:   samples,
		Mean:      mean(samples),
		Median:    samples[n/2],
		P5:        nearestRank(samples, 0.05),
		P10:       nearestRank(samples, 0.10),
		P90:       nearestRank(samples, 0.90),
		P95:       nearestRank(samples, 0.95),
		Histogram: buildHistogram(samples, bins),
		Trials:    n,
	}, nil
}

// mean of finite samples is always finite: when the plain sum overflows it
// is recomputed from pre-divided terms.
func mean(samples []float64) float64 {
	n := float64(len(samples))
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	if !math.IsInf(sum, 0) {
		return sum / n
	}
	sum = 0
	for _, s := range samples {
		sum += s / n
	}
	return sum
}

func nearestRank(sorted []float64, q float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * q))
	return sorted[min(idx, len(sorted)-1)]
}

// buildHistogram expects sorted, non-empty input. When all samples are equal
// the width is zero and every sample lands in bin 0.
func buildHistogram(sorted []float64, bins int) Histogram {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	h := Histogram{Min: lo, Max: hi, Bins: make([]int, bins)}
	width := (hi - lo) / float64(bins)
	if !(width > 0) {
		h.Bins[0] = len(sorted)
		return h
	}
	last := bins - 1
	for _, s := range sorted {
		idx := last
		// NaN (Inf/Inf for extreme ranges) fails the comparison and lands
		// in the last bin.
		if f := math.Floor((s - lo) / width); f < float64(last) {
			idx = int(f)
		}
		h.Bins[idx]++
	}
	return h
}
