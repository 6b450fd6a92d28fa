package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/signup/internal/registry/domain"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print everyone in the registry",
	Long: `Print every registrant in the table. Rows are shown in the order the
backend returns them.

Examples:
  signup list
  signup list --json | jq '.[].name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		rows, err := a.workflow.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading registry: %w", err)
		}
		return printRows(cmd, rows)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print rows as JSON")
	rootCmd.AddCommand(listCmd)
}

func printRows(cmd *cobra.Command, rows []domain.Registrant) error {
	out := cmd.OutOrStdout()

	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No one has signed up yet.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("name", "data")
	for _, r := range rows {
		t.Row(r.Name, r.Data)
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}
