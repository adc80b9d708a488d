package domain

// StatementType classifies a candidate statement by its leading keyword.
type StatementType int

// Supported statement types. Anything that is not a SELECT or UPDATE is
// rejected at simulation time.
const (
	StmtUnsupported StatementType = iota
	StmtSelect
	StmtUpdate
)

func (t StatementType) String() string {
	switch t {
	case StmtSelect:
		return "SELECT"
	case StmtUpdate:
		return "UPDATE"
	default:
		return "UNSUPPORTED"
	}
}

// Category is the sensitivity classification of a column name.
type Category string

// Column sensitivity categories. Assignment is a pure function of the column
// name; data values are never inspected.
const (
	CategoryPII       Category = "PII"
	CategoryFinancial Category = "FINANCIAL"
	CategoryPublic    Category = "PUBLIC"
)

// SimulationResult is the structural metadata learned by dry-running a
// candidate statement against the sandbox. It is created once per statement
// and never mutated afterwards.
//
// Valid == false implies Error is set and every execution-shape field is zero.
type SimulationResult struct {
	Valid                bool                `json:"valid"`
	StatementType        StatementType       `json:"-"`
	StatementTypeName    string              `json:"statement_type"`
	TablesAccessed       []string            `json:"tables_accessed,omitempty"`
	ColumnsAccessed      []string            `json:"columns_accessed,omitempty"`
	ColumnClassification map[string]Category `json:"column_classification,omitempty"`
	RowsReturned         *uint64             `json:"rows_returned,omitempty"`
	RowsAffected         *uint64             `json:"rows_affected,omitempty"`
	ExecutionTimeMs      float64             `json:"execution_time_ms"`
	Error                *string             `json:"error,omitempty"`
}

// InvalidSimulation builds a failed SimulationResult carrying the engine
// message verbatim.
func InvalidSimulation(stmtType StatementType, errMsg string) *SimulationResult {
	return &SimulationResult{
		Valid:             false,
		StatementType:     stmtType,
		StatementTypeName: stmtType.String(),
		Error:             &errMsg,
	}
}

// HasPII reports whether any accessed column classified as PII.
func (s *SimulationResult) HasPII() bool {
	for _, c := range s.ColumnClassification {
		if c == CategoryPII {
			return true
		}
	}
	return false
}

// PIIColumns returns the accessed columns classified as PII, preserving the
// order of ColumnsAccessed.
func (s *SimulationResult) PIIColumns() []string {
	var cols []string
	for _, name := range s.ColumnsAccessed {
		if s.ColumnClassification[name] == CategoryPII {
			cols = append(cols, name)
		}
	}
	return cols
}
