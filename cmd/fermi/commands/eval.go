package commands

import (
	"fmt"

	"github.com/panyam/fermi/decl"
	"github.com/panyam/fermi/parser"
	"github.com/spf13/cobra"
)

func evalCmd() *cobra.Command {
	var vars []string
	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluates a formula once with fixed variable values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := parser.Parse(args[0])
			if err != nil {
				return err
			}
			values, err := parseVars(vars)
			if err != nil {
				return err
			}
			result, err := decl.Evaluate(expr, values)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Variable value as name=number (repeatable)")
	return cmd
}

func init() {
	AddCommand(evalCmd())
}
