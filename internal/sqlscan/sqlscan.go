// Package sqlscan provides lexical SQL heuristics for the governance
// pipeline: statement typing, table extraction, and SET-clause column
// extraction.
//
// The scan is deliberately a heuristic, not a parser. It is isolated behind
// this narrow interface so it can be replaced with a real parser without
// touching the kernel's decision logic.
package sqlscan

import (
	"strings"

	"sqlgate/internal/domain"
)

// ClassifyStatement inspects the leading keyword (case-insensitive, ignoring
// leading whitespace) and returns the statement type. Only SELECT and UPDATE
// are supported.
func ClassifyStatement(statement string) domain.StatementType {
	trimmed := strings.TrimSpace(statement)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return domain.StmtUnsupported
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT":
		return domain.StmtSelect
	case "UPDATE":
		return domain.StmtUpdate
	default:
		return domain.StmtUnsupported
	}
}

// joinKeywords are treated as separators during the table scan so that
// "a JOIN b" yields both identifiers.
var joinKeywords = map[string]bool{
	"INNER": true,
	"LEFT":  true,
	"RIGHT": true,
	"FULL":  true,
	"CROSS": true,
	"OUTER": true,
}

// clauseTerminators end table-name collection inside a FROM/JOIN clause.
var clauseTerminators = map[string]bool{
	"WHERE": true, "GROUP": true, "ORDER": true, "HAVING": true,
	"LIMIT": true, "SET": true, "ON": true, "UNION": true,
	"SELECT": true, "(": true,
}

// ExtractTables scans the statement for table names referenced after
// UPDATE, FROM, and JOIN anchors. Names are normalized upper-case,
// deduplicated, and returned in order of first appearance. Commas and JOIN
// keywords are treated as separators.
func ExtractTables(statement string) []string {
	tokens := tokenize(statement)

	var tables []string
	seen := make(map[string]struct{})
	collecting := false

	add := func(tok string) {
		name := strings.ToUpper(strings.Trim(tok, `"`))
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		tables = append(tables, name)
	}

	for i := 0; i < len(tokens); i++ {
		upper := strings.ToUpper(tokens[i])
		switch {
		case upper == "FROM" || upper == "UPDATE":
			collecting = true
		case upper == "JOIN":
			collecting = true
		case collecting:
			if tokens[i] == "," {
				continue
			}
			if _, isJoin := joinKeywords[upper]; isJoin {
				continue
			}
			if clauseTerminators[upper] {
				collecting = false
				continue
			}
			add(tokens[i])
			// Only the first identifier after an anchor is a table name;
			// what follows is an alias or the next clause. Keep collecting
			// across commas for comma-separated FROM lists.
			if i+1 < len(tokens) && tokens[i+1] != "," {
				collecting = false
			}
		}
	}
	return tables
}

// ExtractAssignedColumns returns the column names assigned in an UPDATE's SET
// clause: the substring between SET and WHERE (or end of statement), split on
// commas, keeping the left side of each "=".
func ExtractAssignedColumns(statement string) []string {
	upper := strings.ToUpper(statement)
	setIdx := indexOfKeyword(upper, "SET")
	if setIdx < 0 {
		return nil
	}
	clause := statement[setIdx+len("SET"):]
	if whereIdx := indexOfKeyword(strings.ToUpper(clause), "WHERE"); whereIdx >= 0 {
		clause = clause[:whereIdx]
	}

	var cols []string
	for _, assignment := range strings.Split(clause, ",") {
		left, _, ok := strings.Cut(assignment, "=")
		if !ok {
			continue
		}
		name := strings.Trim(strings.TrimSpace(left), `"`)
		if name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}

// indexOfKeyword finds a keyword at a word boundary in an upper-cased string.
// Returns -1 when absent.
func indexOfKeyword(upper, keyword string) int {
	for start := 0; ; {
		idx := strings.Index(upper[start:], keyword)
		if idx < 0 {
			return -1
		}
		abs := start + idx
		beforeOK := abs == 0 || isBoundary(upper[abs-1])
		afterIdx := abs + len(keyword)
		afterOK := afterIdx >= len(upper) || isBoundary(upper[afterIdx])
		if beforeOK && afterOK {
			return abs
		}
		start = abs + len(keyword)
	}
}

func isBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '(' || b == ')' || b == ','
}

// tokenize splits a statement into words and standalone comma tokens.
func tokenize(statement string) []string {
	replaced := strings.NewReplacer(",", " , ", "(", " ( ", ")", " ) ", ";", " ").Replace(statement)
	return strings.Fields(replaced)
}
