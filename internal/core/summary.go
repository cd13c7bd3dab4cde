package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateColumn is the column every metadata file must carry.
const DateColumn = "date"

// MonthKey formats a time as the YYYY-MM bucket key used throughout.
const monthKeyLayout = "2006-01"

// dateLayouts are tried in order when deriving a row's month bucket.
// Rows whose date matches none of these are dropped as ambiguous rather
// than failing the whole load.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006/01/02",
	"2006",
}

// Summary describes the outcome of validating a metadata table.
type Summary struct {
	TotalRows   int
	ValidRows   int
	DroppedRows int
}

// Text renders the human-readable summary shown on the dashboard.
// No warning is emitted when nothing was dropped.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Metadata has %d rows.", s.TotalRows)
	if s.DroppedRows > 0 {
		fmt.Fprintf(&b, " %d were dropped due to ambiguous/missing date information."+
			" A future version of this app may be able to extract months from ambiguous dates.", s.DroppedRows)
	}
	return b.String()
}

// Dataset is a validated metadata table. Months holds the derived YYYY-MM
// bucket for each row of Table, positionally aligned with Table.Rows.
type Dataset struct {
	Table   *Table
	Months  []string
	Summary Summary
}

// ValidateAndSummarize checks for the date column, derives each row's month
// bucket and drops rows whose date cannot be parsed. A missing date column
// is fatal; unparseable individual dates are not. The input table is not
// mutated.
func ValidateAndSummarize(t *Table) (*Dataset, error) {
	dateIdx, ok := t.ColumnIndex(DateColumn)
	if !ok {
		return nil, ErrMissingDateColumn
	}

	total := t.NumRows()
	keep := make([]int, 0, total)
	months := make([]string, 0, total)
	for i, row := range t.Rows {
		month, ok := ParseMonth(row[dateIdx])
		if !ok {
			continue
		}
		keep = append(keep, i)
		months = append(months, month)
	}

	return &Dataset{
		Table:  t.filtered(keep),
		Months: months,
		Summary: Summary{
			TotalRows:   total,
			ValidRows:   len(keep),
			DroppedRows: total - len(keep),
		},
	}, nil
}

// ParseMonth derives the YYYY-MM bucket key from a raw date field.
// Returns false for empty, ambiguous or unparseable values.
func ParseMonth(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format(monthKeyLayout), true
		}
	}
	return "", false
}

// SortMonths orders YYYY-MM bucket keys chronologically by parsing each key
// back into a date. Lexical order happens to coincide for zero-padded keys
// but is not assumed. Keys that fail to parse sort last.
func SortMonths(months []string) []string {
	type bucket struct {
		key string
		ts  time.Time
		ok  bool
	}
	buckets := make([]bucket, len(months))
	for i, m := range months {
		ts, err := time.Parse(monthKeyLayout, m)
		buckets[i] = bucket{key: m, ts: ts, ok: err == nil}
	}
	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.ts.Before(b.ts)
	})
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.key
	}
	return out
}
