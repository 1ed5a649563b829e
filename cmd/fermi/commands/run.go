package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/panyam/fermi/core"
	"github.com/panyam/fermi/runtime"
)

type runOutput struct {
	Name          string                    `json:"name"`
	Seed          uint64                    `json:"seed"`
	Distributions *core.Bindings            `json:"distributions"`
	Result        *runtime.SimulationResult `json:"result,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

func runCmd() *cobra.Command {
	var flags simulationFlags
	var asJSON, includeSamples bool

	cmd := &cobra.Command{
		Use:   "run <formula> [formula...]",
		Short: "Runs a Monte-Carlo simulation of one or more formulas",
		Long: `Samples every variable of the formula from its distribution, evaluates the
formula for each trial and reports the mean, median and percentiles of the
outcomes. Trials where the formula is undefined (e.g. log of a negative
number) are dropped.

Variables are bound with --dist name=kind:params where kind is one of
uniform:min,max  gaussian:mean,stddev  lognormal:p10,p90  poisson:lambda.
Unbound variables default to uniform:0,100.

With several formulas, they are simulated concurrently; formula i uses
seed+i so the whole run is reproducible from one seed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dists, err := parseDists(flags.dists)
			if err != nil {
				return err
			}
			seed, err := flags.resolveSeed()
			if err != nil {
				return err
			}

			var inputs []*simulationInput
			for _, formula := range args {
				in, err := prepareFormula(formula, dists)
				if err != nil {
					return fmt.Errorf("%q: %w", formula, err)
				}
				inputs = append(inputs, in)
			}

			outputs, err := simulateInputs(cmd, inputs, flags, seed)
			if err != nil {
				return err
			}
			if asJSON {
				if !includeSamples {
					for _, o := range outputs {
						if o.Result != nil {
							o.Result.Samples = nil
						}
					}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if len(outputs) == 1 {
					return enc.Encode(outputs[0])
				}
				return enc.Encode(outputs)
			}
			for i, o := range outputs {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printRunOutput(cmd.OutOrStdout(), o)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&includeSamples, "include-samples", false, "Include the sorted samples in JSON output")
	return cmd
}

func simulateInputs(cmd *cobra.Command, inputs []*simulationInput, flags simulationFlags, seed uint64) ([]*runOutput, error) {
	opts := []runtime.Option{runtime.WithBins(flags.bins), runtime.WithLogger(slog.Default())}
	if len(inputs) == 1 {
		in := inputs[0]
		result, err := runtime.Simulate(in.Expr, in.Bindings, flags.trials(), append(opts, runtime.WithSeed(seed))...)
		if err != nil {
			return nil, err
		}
		return []*runOutput{{Name: in.Formula, Seed: seed, Distributions: in.Bindings, Result: result}}, nil
	}

	scenarios := make([]runtime.Scenario, len(inputs))
	for i, in := range inputs {
		scenarios[i] = runtime.Scenario{Name: in.Formula, Expr: in.Expr, Bindings: in.Bindings, Samples: flags.trials()}
	}
	results, err := runtime.SimulateAll(cmd.Context(), seed, scenarios, opts...)
	if err != nil {
		return nil, err
	}
	outputs := make([]*runOutput, len(results))
	for i, res := range results {
		outputs[i] = &runOutput{Name: res.Name, Seed: res.Seed, Distributions: inputs[i].Bindings, Result: res.Result}
		if res.Err != nil {
			outputs[i].Error = res.Err.Error()
		}
	}
	return outputs, nil
}

func printRunOutput(out io.Writer, o *runOutput) {
	fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("Formula:"), o.Name)
	printBindings(out, o.Distributions)
	fmt.Fprintf(out, "Seed: %d\n", o.Seed)
	if o.Error != "" {
		fmt.Fprintln(out, color.RedString("Error: %s", o.Error))
		return
	}
	printSummary(out, o.Result)
}

func init() {
	AddCommand(runCmd())
}
