package domain

import (
	"sort"
	"strings"
)

// Policy is an immutable governance snapshot supplied by the external policy
// interpreter. Column and table names are normalized to lower case before any
// comparison; a nil MaxRows means no row quota; an empty AllowedTables set
// means unrestricted table access.
//
// Policy values are never mutated after Normalize — updates produce a new
// snapshot swapped in atomically by the caller.
type Policy struct {
	MaxRows        *uint64
	DenyPII        bool
	MaskPII        bool
	BlockedColumns map[string]struct{}
	AllowedTables  map[string]struct{}
}

// Normalize lower-cases and trims every column and table name in the policy.
// It returns the receiver for chaining at construction sites.
func (p *Policy) Normalize() *Policy {
	p.BlockedColumns = normalizeSet(p.BlockedColumns)
	p.AllowedTables = normalizeSet(p.AllowedTables)
	return p
}

// Validate checks the policy for structural sanity. Called once at kernel
// construction so a malformed policy fails fast, never per-request.
func (p *Policy) Validate() error {
	for col := range p.BlockedColumns {
		if strings.TrimSpace(col) == "" {
			return ErrValidation("blocked_columns must not contain empty names")
		}
	}
	for tbl := range p.AllowedTables {
		if strings.TrimSpace(tbl) == "" {
			return ErrValidation("allowed_tables must not contain empty names")
		}
	}
	return nil
}

// IsColumnBlocked reports whether the (case-insensitive) column is in the
// blocked set.
func (p *Policy) IsColumnBlocked(column string) bool {
	if len(p.BlockedColumns) == 0 {
		return false
	}
	_, ok := p.BlockedColumns[strings.ToLower(strings.TrimSpace(column))]
	return ok
}

// IsTableAllowed reports whether the (case-insensitive) table is permitted.
// An empty allow-list permits every table.
func (p *Policy) IsTableAllowed(table string) bool {
	if len(p.AllowedTables) == 0 {
		return true
	}
	_, ok := p.AllowedTables[strings.ToLower(strings.TrimSpace(table))]
	return ok
}

// BlockedIntersection returns the columns that appear in both the accessed
// list and the blocked set, sorted lexicographically for deterministic
// explanations.
func (p *Policy) BlockedIntersection(columns []string) []string {
	var hit []string
	seen := make(map[string]struct{})
	for _, col := range columns {
		norm := strings.ToLower(strings.TrimSpace(col))
		if _, dup := seen[norm]; dup {
			continue
		}
		if p.IsColumnBlocked(col) {
			hit = append(hit, norm)
			seen[norm] = struct{}{}
		}
	}
	sort.Strings(hit)
	return hit
}

// SetFromSlice builds a membership set from a list of names.
func SetFromSlice(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func normalizeSet(in map[string]struct{}) map[string]struct{} {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(in))
	for name := range in {
		norm := strings.ToLower(strings.TrimSpace(name))
		if norm == "" {
			// Keep the empty entry so Validate can reject it.
			out[name] = struct{}{}
			continue
		}
		out[norm] = struct{}{}
	}
	return out
}
