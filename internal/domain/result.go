package domain

import "strings"

// MaskedValue replaces the values of masked columns in a SELECT result.
const MaskedValue = "***MASKED***"

// Truncate caps the row set at limit, marking the result truncated when rows
// were dropped. Negative limits are ignored.
func (d *ResultData) Truncate(limit int) {
	if limit < 0 || len(d.Rows) <= limit {
		return
	}
	d.Rows = d.Rows[:limit]
	d.Truncated = true
}

// FilterColumns removes the named columns (case-insensitive) from both the
// column list and every row positionally, preserving the relative order of
// the remaining columns. Filtering the same set twice is a no-op the second
// time.
func (d *ResultData) FilterColumns(names []string) {
	if len(names) == 0 || len(d.Columns) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[strings.ToLower(n)] = struct{}{}
	}

	keep := make([]int, 0, len(d.Columns))
	for i, col := range d.Columns {
		if _, blocked := drop[strings.ToLower(col)]; !blocked {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(d.Columns) {
		return
	}

	cols := make([]string, len(keep))
	for j, i := range keep {
		cols[j] = d.Columns[i]
	}
	d.Columns = cols

	for r, row := range d.Rows {
		filtered := make([]interface{}, len(keep))
		for j, i := range keep {
			if i < len(row) {
				filtered[j] = row[i]
			}
		}
		d.Rows[r] = filtered
	}
}

// MaskColumns replaces the values of the named columns (case-insensitive)
// with MaskedValue in every row. Column names and positions are unchanged.
func (d *ResultData) MaskColumns(names []string) {
	if len(names) == 0 || len(d.Columns) == 0 {
		return
	}
	mask := make(map[string]struct{}, len(names))
	for _, n := range names {
		mask[strings.ToLower(n)] = struct{}{}
	}

	for i, col := range d.Columns {
		if _, hit := mask[strings.ToLower(col)]; !hit {
			continue
		}
		for _, row := range d.Rows {
			if i < len(row) {
				row[i] = MaskedValue
			}
		}
	}
}
