package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerShowTable bool

var registerCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register a name unless it is already in the registry",
	Long: `Check the registry for NAME and add it when it is missing.

Prints "Welcome back, NAME!" when the name is already registered and
"Thanks for signing up, NAME!" after adding it. The check and the insert are
separate requests, so two concurrent registrations of a new name can both
insert it.

Examples:
  signup register bob
  signup register carol --show-table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.workflow.Submit(cmd.Context(), args[0])
		if result.Message != "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		}
		if err != nil {
			return fmt.Errorf("registering %q: %w", args[0], err)
		}

		if registerShowTable {
			return printRows(cmd, result.Rows)
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().BoolVar(&registerShowTable, "show-table", false, "print the registry after registering")
	rootCmd.AddCommand(registerCmd)
}
