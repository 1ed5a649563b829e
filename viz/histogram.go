// Package viz renders simulation results for display.
package viz

import (
	"html/template"
	"io"
	"math"
	"strings"

	"github.com/panyam/fermi/runtime"
)

// HistogramConfig holds styling and dimension configuration.
type HistogramConfig struct {
	Width       float64
	Height      float64 // Height of the bar area; labels go below it
	LabelPad    float64
	BarColor    string
	MarkerColor string
	LabelColor  string
}

// DefaultHistogramConfig returns sensible defaults.
func DefaultHistogramConfig() HistogramConfig {
	return HistogramConfig{
		Width: 600, Height: 180, LabelPad: 24,
		BarColor: "#5b8fb9", MarkerColor: "#c55", LabelColor: "#888",
	}
}

// Helper structs for template rendering
type histBar struct{ X, Y, Width, Height float64 }
type histMarker struct {
	X     float64
	Label string
}

type histTemplateData struct {
	Config   HistogramConfig
	Bars     []histBar
	Markers  []histMarker
	MinLabel string
	MaxLabel string
}

const histogramTemplate = `<svg class="histogram" viewBox="0 0 {{num .Config.Width}} {{num (add .Config.Height .Config.LabelPad)}}" xmlns="http://www.w3.org/2000/svg">
{{- range .Bars}}
  <rect x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" fill="{{$.Config.BarColor}}"></rect>
{{- end}}
{{- range .Markers}}
  <line x1="{{num .X}}" y1="0" x2="{{num .X}}" y2="{{num $.Config.Height}}" stroke="{{$.Config.MarkerColor}}" stroke-width="1.5" stroke-dasharray="4 2"></line>
{{- end}}
  <text x="2" y="{{num (add .Config.Height 16)}}" font-size="11" fill="{{.Config.LabelColor}}">{{.MinLabel}}</text>
  <text x="{{num (add .Config.Width -2)}}" y="{{num (add .Config.Height 16)}}" font-size="11" fill="{{.Config.LabelColor}}" text-anchor="end">{{.MaxLabel}}</text>
{{- range .Markers}}
  <text x="{{num .X}}" y="{{num (add $.Config.Height 16)}}" font-size="10" fill="{{$.Config.MarkerColor}}" text-anchor="middle">{{.Label}}</text>
{{- end}}
</svg>
`

// HistogramPlotter draws a SimulationResult's histogram as SVG with dashed
// markers at P10 and P90.
type HistogramPlotter struct {
	config   HistogramConfig
	template *template.Template
}

func NewHistogramPlotter(config HistogramConfig) *HistogramPlotter {
	tmpl := template.Must(template.New("histogram").Funcs(template.FuncMap{
		"add": func(a, b float64) float64 { return a + b },
		"num": func(v float64) string { return strings.TrimRight(strings.TrimRight(formatFixed(v), "0"), ".") },
	}).Parse(histogramTemplate))
	return &HistogramPlotter{config: config, template: tmpl}
}

// Render writes the SVG for result to w.
func (p *HistogramPlotter) Render(w io.Writer, result *runtime.SimulationResult) error {
	return p.template.Execute(w, p.layout(result))
}

// Generate returns the SVG for result as a string.
func (p *HistogramPlotter) Generate(result *runtime.SimulationResult) (string, error) {
	var sb strings.Builder
	if err := p.Render(&sb, result); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (p *HistogramPlotter) layout(result *runtime.SimulationResult) histTemplateData {
	cfg := p.config
	h := result.Histogram
	data := histTemplateData{
		Config:   cfg,
		MinLabel: FormatNumber(h.Min),
		MaxLabel: FormatNumber(h.Max),
	}
	if len(h.Bins) == 0 {
		return data
	}

	maxBin := 0
	for _, c := range h.Bins {
		maxBin = max(maxBin, c)
	}
	barW := cfg.Width / float64(len(h.Bins))
	for i, count := range h.Bins {
		barH := 0.0
		if maxBin > 0 {
			barH = float64(count) / float64(maxBin) * cfg.Height
		}
		data.Bars = append(data.Bars, histBar{
			X:      float64(i) * barW,
			Y:      cfg.Height - barH,
			Width:  math.Max(barW-0.5, 0.5),
			Height: barH,
		})
	}

	toX := func(v float64) float64 {
		if span := h.Max - h.Min; span > 0 {
			return (v - h.Min) / span * cfg.Width
		}
		return cfg.Width / 2
	}
	data.Markers = []histMarker{
		{X: toX(result.P10), Label: "P10"},
		{X: toX(result.P90), Label: "P90"},
	}
	return data
}
