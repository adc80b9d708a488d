package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// simulationResult mirrors the server's /v1/simulate response.
type simulationResult struct {
	Valid                bool              `json:"valid"`
	StatementType        string            `json:"statement_type"`
	TablesAccessed       []string          `json:"tables_accessed,omitempty"`
	ColumnsAccessed      []string          `json:"columns_accessed,omitempty"`
	ColumnClassification map[string]string `json:"column_classification,omitempty"`
	RowsReturned         *uint64           `json:"rows_returned,omitempty"`
	RowsAffected         *uint64           `json:"rows_affected,omitempty"`
	ExecutionTimeMs      float64           `json:"execution_time_ms"`
	Error                *string           `json:"error,omitempty"`
}

func newSimulateCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate [statement]",
		Short: "Dry-run a statement against the sandbox",
		Long:  "Simulates a SQL statement against synthetic data. Nothing is executed for real and nothing is audited.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statement, err := statementFromArgsOrStdin(args)
			if err != nil {
				return err
			}

			var sim simulationResult
			if err := client.Do("POST", "/v1/simulate",
				map[string]interface{}{"statement": statement}, &sim); err != nil {
				return err
			}

			output, _ := cmd.Root().PersistentFlags().GetString("output")
			if output == "json" {
				return printJSON(cmd.OutOrStdout(), sim)
			}
			printSimulationTable(cmd.OutOrStdout(), &sim)
			return nil
		},
	}
}

func printSimulationTable(w io.Writer, sim *simulationResult) {
	fmt.Fprintf(w, "Valid: %t\n", sim.Valid)
	fmt.Fprintf(w, "Statement type: %s\n", sim.StatementType)
	if sim.Error != nil {
		fmt.Fprintf(w, "Error: %s\n", *sim.Error)
		return
	}
	if len(sim.TablesAccessed) > 0 {
		fmt.Fprintf(w, "Tables: %v\n", sim.TablesAccessed)
	}
	if sim.RowsReturned != nil {
		fmt.Fprintf(w, "Rows returned: %d\n", *sim.RowsReturned)
	}
	if sim.RowsAffected != nil {
		fmt.Fprintf(w, "Rows affected: %d\n", *sim.RowsAffected)
	}

	// Stable column order for scripting.
	names := make([]string, 0, len(sim.ColumnClassification))
	for name := range sim.ColumnClassification {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, sim.ColumnClassification[name])
	}
}
