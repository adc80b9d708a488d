package domain

import "time"

// Audit decisions recorded for terminal kernel outcomes.
const (
	AuditAllowed         = "ALLOWED"
	AuditDenied          = "DENIED"
	AuditExecutionFailed = "EXECUTION_FAILED"
)

// AuditEntry is a single write-once audit log record. Entries are never
// updated or deleted by this subsystem.
type AuditEntry struct {
	ID             string
	UserInput      *string
	Statement      string
	Decision       string // "ALLOWED", "DENIED", "EXECUTION_FAILED"
	Reason         string
	SimulationJSON string // serialized SimulationResult snapshot
	RiskScore      *int64
	CreatedAt      time.Time
}

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	Decision *string
	Page     PageRequest
}
