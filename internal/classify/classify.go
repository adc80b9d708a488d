// Package classify assigns sensitivity categories to column names via
// keyword heuristics. Classification is a pure function of the name string —
// data values are never inspected.
package classify

import (
	"strings"

	"sqlgate/internal/domain"
)

// Keyword lists are ordered: PII keywords are checked strictly before
// FINANCIAL keywords, so a name containing tokens from both categories
// classifies as PII.
var piiKeywords = []string{
	"ssn", "aadhaar", "passport", "credit_card", "phone", "email",
	"address", "driver_license", "pan",
}

var financialKeywords = []string{
	"credit", "debit", "account", "bank", "ifsc", "upi", "balance",
}

// Column returns the sensitivity category for a single column name.
// Matching is case-insensitive substring containment; unmatched names
// default to PUBLIC.
func Column(name string) domain.Category {
	lower := strings.ToLower(name)
	for _, kw := range piiKeywords {
		if strings.Contains(lower, kw) {
			return domain.CategoryPII
		}
	}
	for _, kw := range financialKeywords {
		if strings.Contains(lower, kw) {
			return domain.CategoryFinancial
		}
	}
	return domain.CategoryPublic
}

// Columns classifies every name in the input, preserving each name as a map
// key exactly once.
func Columns(names []string) map[string]domain.Category {
	out := make(map[string]domain.Category, len(names))
	for _, name := range names {
		out[name] = Column(name)
	}
	return out
}
