package domain

import "time"

// ExecutionStatus is the tagged status of an ExecutionOutcome. Callers should
// branch on this field only.
type ExecutionStatus string

// Terminal kernel statuses.
const (
	StatusAllowed         ExecutionStatus = "ALLOWED"
	StatusDenied          ExecutionStatus = "DENIED"
	StatusExecutionFailed ExecutionStatus = "EXECUTION_FAILED"
)

// ResultData is the payload of a successfully executed statement: columns and
// rows for a SELECT, affected-row count for an UPDATE.
type ResultData struct {
	Columns      []string        `json:"columns,omitempty"`
	Rows         [][]interface{} `json:"rows,omitempty"`
	RowsAffected *int64          `json:"rows_affected,omitempty"`
	Truncated    bool            `json:"truncated,omitempty"`
}

// ExecutionOutcome is the tagged result of one trip through the execution
// kernel. Data is present only when Status is ALLOWED.
type ExecutionOutcome struct {
	Status      ExecutionStatus   `json:"status"`
	Statement   string            `json:"statement"`
	Simulation  *SimulationResult `json:"simulation,omitempty"`
	Governance  *Verdict          `json:"governance,omitempty"`
	Risk        *RiskAssessment   `json:"risk,omitempty"`
	Remediation []string          `json:"remediation,omitempty"`
	Data        *ResultData       `json:"data,omitempty"`
	Reason      string            `json:"reason,omitempty"`
}

// EpisodicRecord is one entry in the kernel's short-term memory: every valid
// simulation the kernel has seen recently, oldest first.
type EpisodicRecord struct {
	Statement  string
	Simulation *SimulationResult
	Timestamp  time.Time
}
