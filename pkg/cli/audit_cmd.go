package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

type auditListResponse struct {
	Entries       []auditEntry `json:"entries"`
	TotalCount    int64        `json:"total_count"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

type auditEntry struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	UserInput *string `json:"user_input,omitempty"`
	Statement string  `json:"statement"`
	Decision  string  `json:"decision"`
	Reason    string  `json:"reason"`
	RiskScore *int64  `json:"risk_score,omitempty"`
}

func newAuditCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}
	cmd.AddCommand(newAuditListCmd(client))
	return cmd
}

func newAuditListCmd(client *Client) *cobra.Command {
	var (
		decision   string
		maxResults int
		pageToken  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := url.Values{}
			if decision != "" {
				params.Set("decision", decision)
			}
			if maxResults > 0 {
				params.Set("max_results", fmt.Sprintf("%d", maxResults))
			}
			if pageToken != "" {
				params.Set("page_token", pageToken)
			}
			path := "/v1/audit"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var resp auditListResponse
			if err := client.Do("GET", path, nil, &resp); err != nil {
				return err
			}

			output, _ := cmd.Root().PersistentFlags().GetString("output")
			if output == "json" {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			rows := make([][]string, len(resp.Entries))
			for i, e := range resp.Entries {
				risk := ""
				if e.RiskScore != nil {
					risk = fmt.Sprintf("%d", *e.RiskScore)
				}
				rows[i] = []string{e.CreatedAt, e.Decision, risk, e.Statement, e.Reason}
			}
			if err := printTable(cmd.OutOrStdout(),
				[]string{"CREATED", "DECISION", "RISK", "STATEMENT", "REASON"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d\n", resp.TotalCount)
			if resp.NextPageToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Next page token: %s\n", resp.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&decision, "decision", "", "Filter by decision (allowed, denied, execution_failed)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Page size")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Opaque token for the next page")
	return cmd
}
