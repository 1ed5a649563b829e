package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	gfn "github.com/panyam/goutils/fn"
	"github.com/spf13/cobra"

	"github.com/panyam/fermi/core"
	"github.com/panyam/fermi/decl"
	"github.com/panyam/fermi/parser"
	"github.com/panyam/fermi/runtime"
	"github.com/panyam/fermi/viz"
)

// splitAssignment splits "name=value" into its parts.
func splitAssignment(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", s)
	}
	return name, strings.TrimSpace(value), nil
}

// parseVars turns repeated --var name=3.5 flags into an evaluation map.
func parseVars(pairs []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, pair := range pairs {
		name, value, err := splitAssignment(pair)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// parseDists turns repeated --dist name=kind:p1,p2 flags into bindings.
func parseDists(pairs []string) (*core.Bindings, error) {
	out := core.NewBindings()
	for _, pair := range pairs {
		name, spec, err := splitAssignment(pair)
		if err != nil {
			return nil, err
		}
		d, err := core.ParseDistribution(spec)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		out.Set(name, d)
	}
	return out, nil
}

// simulationInput is a parsed formula with bindings aligned to its free
// variables.
type simulationInput struct {
	Formula  string
	Expr     decl.Expr
	Bindings *core.Bindings
}

// prepareFormula parses formula and binds each of its variables to the
// matching --dist entry, or to the default distribution. Distributions
// given for names the formula does not use are dropped.
func prepareFormula(formula string, dists *core.Bindings) (*simulationInput, error) {
	expr, err := parser.Parse(formula)
	if err != nil {
		return nil, err
	}
	vars := decl.ExtractVariables(expr)
	if missing := dists.Missing(vars); len(missing) > 0 {
		fmt.Fprintln(rootCmd.ErrOrStderr(), color.YellowString("Using default distribution %s for: %s",
			core.DefaultDistribution(), strings.Join(missing, ", ")))
	}
	bindings := dists.Sync(vars)
	for _, name := range bindings.Names() {
		d, _ := bindings.Get(name)
		if err := core.Validate(d); err != nil {
			fmt.Fprintln(rootCmd.ErrOrStderr(), color.YellowString("Warning: %s: %v", name, err))
		}
	}
	return &simulationInput{Formula: formula, Expr: expr, Bindings: bindings}, nil
}

type simulationFlags struct {
	dists   []string
	samples int
	seed    uint64
	bins    int
}

func (f *simulationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.dists, "dist", "d", nil, "Distribution for a variable as name=kind:params, e.g. price=gaussian:12,3 (repeatable)")
	cmd.Flags().IntVarP(&f.samples, "samples", "n", runtime.DefaultSamples, "Number of trials")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed (0 picks a random seed)")
	cmd.Flags().IntVar(&f.bins, "bins", runtime.DefaultBins, "Number of histogram bins")
}

// trials is the requested sample count, with zero or negative meaning the
// default.
func (f *simulationFlags) trials() int {
	if f.samples <= 0 {
		return runtime.DefaultSamples
	}
	return f.samples
}

func (f *simulationFlags) resolveSeed() (uint64, error) {
	if f.seed != 0 {
		return f.seed, nil
	}
	return core.NewSeed()
}

func printBindings(out io.Writer, b *core.Bindings) {
	width := 0
	for _, name := range b.Names() {
		width = max(width, len(name))
	}
	lines := gfn.Map(b.Names(), func(name string) string {
		d, _ := b.Get(name)
		return fmt.Sprintf("  %-*s  %s", width, name, d)
	})
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

func printSummary(out io.Writer, result *runtime.SimulationResult) {
	kept := fmt.Sprintf("Samples: %d of %d", len(result.Samples), result.Trials)
	if dropped := result.Dropped(); dropped > 0 {
		kept = color.YellowString("%s (%d dropped)", kept, dropped)
	}
	fmt.Fprintln(out, kept)
	for _, stat := range result.Summary() {
		fmt.Fprintf(out, "  %s %s\n", color.CyanString("%-6s", stat.Label), viz.FormatNumber(stat.Value))
	}
	fmt.Fprintf(out, "  %s %s .. %s\n", color.CyanString("%-6s", "Range"),
		viz.FormatNumber(result.Histogram.Min), viz.FormatNumber(result.Histogram.Max))
}
