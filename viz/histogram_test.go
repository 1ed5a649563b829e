package viz

import (
	"math"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/panyam/fermi/runtime"
)

func sampleResult(t *testing.T, samples []float64, bins int) *runtime.SimulationResult {
	t.Helper()
	result, err := runtime.Reduce(samples, bins)
	assert.NilError(t, err)
	return result
}

func TestHistogramPlotter_Generate(t *testing.T) {
	samples := make([]float64, 600)
	for i := range samples {
		samples[i] = float64(i)
	}
	result := sampleResult(t, samples, runtime.DefaultBins)

	svg, err := NewHistogramPlotter(DefaultHistogramConfig()).Generate(result)
	assert.NilError(t, err)

	assert.Assert(t, strings.HasPrefix(svg, `<svg class="histogram" viewBox="0 0 600 204"`))
	assert.Equal(t, strings.Count(svg, "<rect "), runtime.DefaultBins)
	assert.Equal(t, strings.Count(svg, "<line "), 2)
	assert.Assert(t, is.Contains(svg, ">P10</text>"))
	assert.Assert(t, is.Contains(svg, ">P90</text>"))
	assert.Assert(t, is.Contains(svg, ">0</text>"))
	assert.Assert(t, is.Contains(svg, ">599</text>"))
	assert.Assert(t, is.Contains(svg, `fill="#5b8fb9"`))
	assert.Assert(t, is.Contains(svg, `stroke="#c55"`))
}

func TestHistogramPlotter_Layout(t *testing.T) {
	result := sampleResult(t, []float64{0, 1, 1, 2, 3, 4, 5, 6, 7, 10}, 5)
	data := NewHistogramPlotter(DefaultHistogramConfig()).layout(result)

	assert.Equal(t, len(data.Bars), 5)
	// Bins are [3 2 2 2 1]: the tallest bar fills the plot height.
	assert.Equal(t, data.Bars[0].Height, 180.0)
	assert.Equal(t, data.Bars[0].Y, 0.0)
	assert.Assert(t, math.Abs(data.Bars[4].Height-60) < 1e-9)
	assert.Equal(t, data.Bars[1].X, 120.0)
	assert.Equal(t, data.Bars[1].Width, 119.5)

	assert.Equal(t, len(data.Markers), 2)
	assert.Equal(t, data.Markers[0].X, result.P10/10*600)
	assert.Equal(t, data.Markers[1].X, result.P90/10*600)
}

func TestHistogramPlotter_DegenerateRange(t *testing.T) {
	result := sampleResult(t, []float64{5, 5, 5}, runtime.DefaultBins)
	data := NewHistogramPlotter(DefaultHistogramConfig()).layout(result)

	assert.Equal(t, data.Bars[0].Height, 180.0)
	for _, bar := range data.Bars[1:] {
		assert.Equal(t, bar.Height, 0.0)
	}
	assert.Equal(t, data.Markers[0].X, 300.0)
	assert.Equal(t, data.MinLabel, "5")
	assert.Equal(t, data.MaxLabel, "5")
}

func TestHistogramPlotter_CustomConfig(t *testing.T) {
	cfg := DefaultHistogramConfig()
	cfg.Width, cfg.Height, cfg.LabelPad = 300, 100, 20
	cfg.BarColor = "#123456"
	svg, err := NewHistogramPlotter(cfg).Generate(sampleResult(t, []float64{1, 2, 3}, 3))
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(svg, `viewBox="0 0 300 120"`))
	assert.Assert(t, is.Contains(svg, `fill="#123456"`))
	assert.Equal(t, strings.Count(svg, "<rect "), 3)
}
