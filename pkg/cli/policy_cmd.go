package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"sqlgate/internal/policy"
)

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Work with policy files",
	}
	cmd.AddCommand(newPolicyCheckCmd())
	return cmd
}

// newPolicyCheckCmd validates a policy file locally, without a server. The
// same loader the server uses runs here, so a file that passes will load.
func newPolicyCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Validate a policy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := policy.Load(args[0])
			if err != nil {
				return fmt.Errorf("policy invalid: %w", err)
			}

			output, _ := cmd.Root().PersistentFlags().GetString("output")
			if output == "json" {
				summary := map[string]interface{}{
					"valid":           true,
					"deny_pii":        p.DenyPII,
					"mask_pii":        p.MaskPII,
					"blocked_columns": sortedKeys(p.BlockedColumns),
					"allowed_tables":  sortedKeys(p.AllowedTables),
				}
				if p.MaxRows != nil {
					summary["max_rows"] = *p.MaxRows
				}
				return printJSON(cmd.OutOrStdout(), summary)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Policy %s is valid.\n", args[0])
			if p.MaxRows != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  max rows: %d\n", *p.MaxRows)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  deny PII: %t\n", p.DenyPII)
			fmt.Fprintf(cmd.OutOrStdout(), "  mask PII: %t\n", p.MaskPII)
			fmt.Fprintf(cmd.OutOrStdout(), "  blocked columns: %v\n", sortedKeys(p.BlockedColumns))
			fmt.Fprintf(cmd.OutOrStdout(), "  allowed tables: %v\n", sortedKeys(p.AllowedTables))
			return nil
		},
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
