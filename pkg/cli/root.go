// Package cli implements the sqlgate command-line interface. Commands talk to
// a running sqlgate server over its HTTP API.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host   string
		output string
	)

	rootCmd := &cobra.Command{
		Use:           "sqlgate",
		Short:         "Governed SQL execution gateway CLI",
		Long:          "Command-line interface for the sqlgate governed SQL execution API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Precedence: flag > env > default.
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("SQLGATE_HOST"); v != "" {
					host = v
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("SQLGATE_OUTPUT"); v != "" {
					output = v
				}
			}
			return validateOutputFormat(output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "API host URL")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")

	client := NewClient(host)
	originalPreRun := rootCmd.PersistentPreRunE
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := originalPreRun(cmd, args); err != nil {
			return err
		}
		client.BaseURL = strings.TrimRight(host, "/")
		return nil
	}

	rootCmd.AddCommand(newRunCmd(client))
	rootCmd.AddCommand(newSimulateCmd(client))
	rootCmd.AddCommand(newAuditCmd(client))
	rootCmd.AddCommand(newPolicyCmd())

	return rootCmd
}
