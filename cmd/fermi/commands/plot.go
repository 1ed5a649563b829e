package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panyam/fermi/runtime"
	"github.com/panyam/fermi/viz"
)

func plotCmd() *cobra.Command {
	var flags simulationFlags
	var outputFile string
	config := viz.DefaultHistogramConfig()

	cmd := &cobra.Command{
		Use:   "plot <formula>",
		Short: "Simulates a formula and writes its histogram as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dists, err := parseDists(flags.dists)
			if err != nil {
				return err
			}
			in, err := prepareFormula(args[0], dists)
			if err != nil {
				return err
			}
			seed, err := flags.resolveSeed()
			if err != nil {
				return err
			}
			result, err := runtime.Simulate(in.Expr, in.Bindings, flags.trials(),
				runtime.WithSeed(seed), runtime.WithBins(flags.bins))
			if err != nil {
				return err
			}

			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outputFile, err)
			}
			defer f.Close()
			if err := viz.NewHistogramPlotter(config).Render(f, result); err != nil {
				return fmt.Errorf("rendering histogram: %w", err)
			}
			printSummary(cmd.OutOrStdout(), result)
			fmt.Fprintf(cmd.OutOrStdout(), "Seed: %d\nWrote %s\n", seed, outputFile)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "histogram.svg", "Output file path for the plot")
	cmd.Flags().Float64Var(&config.Width, "width", config.Width, "Width of the plot")
	cmd.Flags().Float64Var(&config.Height, "height", config.Height, "Height of the bar area")
	return cmd
}

func init() {
	AddCommand(plotCmd())
}
