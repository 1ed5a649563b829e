package commands

import (
	"fmt"
	"strings"

	"github.com/panyam/fermi/decl"
	"github.com/panyam/fermi/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <formula>",
	Short: "Parses a formula and prints its fully parenthesised form",
	Long: `Parses a formula and prints it with explicit grouping, followed by its free
variables. Useful for checking precedence, e.g. "-2**2" parses as ((-2) ** 2).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := parser.Parse(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, expr)
		if vars := decl.ExtractVariables(expr); len(vars) > 0 {
			fmt.Fprintf(out, "Variables: %s\n", strings.Join(vars, ", "))
		}
		return nil
	},
}

var varsCmd = &cobra.Command{
	Use:   "vars <formula>",
	Short: "Lists the free variables of a formula in order of first use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := parser.Parse(args[0])
		if err != nil {
			return err
		}
		for _, name := range decl.ExtractVariables(expr) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	AddCommand(parseCmd)
	AddCommand(varsCmd)
}
