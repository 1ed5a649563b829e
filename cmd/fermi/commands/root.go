package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/panyam/fermi/runtime"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "fermi",
	Short: "Fermi estimates formulas over uncertain inputs by Monte-Carlo sampling",
	Long: `fermi evaluates an arithmetic formula whose unknowns are drawn from
probability distributions, and reports the distribution of outcomes.

Example:
  fermi run "population * meals_per_day * price" \
    --dist population=lognormal:500000,2000000 \
    --dist meals_per_day=uniform:2,4 \
    --dist price=gaussian:12,3`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := runtime.ParseLogLevel(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(runtime.NewLogger(cmd.ErrOrStderr(), level, os.Getenv("FERMI_ENV") == "dev"))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
