package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// executionOutcome mirrors the server's /v1/query response.
type executionOutcome struct {
	Status     string            `json:"status"`
	Statement  string            `json:"statement"`
	Reason     string            `json:"reason,omitempty"`
	Governance *verdictJSON      `json:"governance,omitempty"`
	Risk       *riskJSON         `json:"risk,omitempty"`
	Simulation *simulationResult `json:"simulation,omitempty"`
	Data       *resultData       `json:"data,omitempty"`

	Remediation []string `json:"remediation,omitempty"`
}

type verdictJSON struct {
	DecisionName    string   `json:"decision_name"`
	Explanation     string   `json:"explanation"`
	ColumnsToFilter []string `json:"columns_to_filter,omitempty"`
}

type riskJSON struct {
	Score   int      `json:"risk_score"`
	Reasons []string `json:"reasons"`
}

type resultData struct {
	Columns      []string        `json:"columns,omitempty"`
	Rows         [][]interface{} `json:"rows,omitempty"`
	RowsAffected *int64          `json:"rows_affected,omitempty"`
	Truncated    bool            `json:"truncated,omitempty"`
}

// statementFromArgsOrStdin returns args[0], or the piped stdin content.
func statementFromArgsOrStdin(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if s := strings.TrimSpace(string(data)); s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("provide a SQL statement as an argument or via stdin pipe")
}

func newRunCmd(client *Client) *cobra.Command {
	var userInput string

	cmd := &cobra.Command{
		Use:   "run [statement]",
		Short: "Run a statement through the governed pipeline",
		Long:  "Simulates, governs, executes, and audits a SQL statement. Denials are reported, not errors.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statement, err := statementFromArgsOrStdin(args)
			if err != nil {
				return err
			}

			body := map[string]interface{}{"statement": statement}
			if userInput != "" {
				body["user_input"] = userInput
			}

			var outcome executionOutcome
			if err := client.Do("POST", "/v1/query", body, &outcome); err != nil {
				return err
			}

			output, _ := cmd.Root().PersistentFlags().GetString("output")
			if output == "json" {
				return printJSON(cmd.OutOrStdout(), outcome)
			}
			return printOutcomeTable(cmd.OutOrStdout(), &outcome)
		},
	}

	cmd.Flags().StringVar(&userInput, "input", "", "Natural-language request to record alongside the statement")
	return cmd
}

func printOutcomeTable(w io.Writer, outcome *executionOutcome) error {
	fmt.Fprintf(w, "Status: %s\n", outcome.Status)
	if outcome.Governance != nil {
		fmt.Fprintf(w, "Decision: %s\n", outcome.Governance.DecisionName)
		fmt.Fprintf(w, "Explanation: %s\n", outcome.Governance.Explanation)
	}
	if outcome.Reason != "" {
		fmt.Fprintf(w, "Reason: %s\n", outcome.Reason)
	}
	if outcome.Risk != nil {
		fmt.Fprintf(w, "Risk score: %d\n", outcome.Risk.Score)
	}
	for _, r := range outcome.Remediation {
		fmt.Fprintf(w, "Remediation: %s\n", r)
	}

	data := outcome.Data
	if data == nil {
		return nil
	}
	if data.RowsAffected != nil {
		fmt.Fprintf(w, "Rows affected: %d\n", *data.RowsAffected)
		return nil
	}
	if len(data.Columns) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, len(data.Rows))
		for i, row := range data.Rows {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = formatCell(v)
			}
			rows[i] = cells
		}
		if err := printTable(w, data.Columns, rows); err != nil {
			return err
		}
		if data.Truncated {
			fmt.Fprintln(w, "(result truncated by row limit)")
		}
	}
	return nil
}
