package core

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDateColumn = errors.New("metadata must have a date column")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrNoHeader          = errors.New("metadata has no header row")
)

// Table holds parsed tabular metadata: an ordered column set and string rows.
// Rows all have exactly len(Columns) fields.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a Table and its column lookup index. Duplicate column
// names keep the first occurrence, as a TSV header may repeat names.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoHeader
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(r), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows, index: index}, nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// UniqueCount returns the number of distinct non-empty values in a column.
// Empty fields are treated as missing and not counted as a value.
func (t *Table) UniqueCount(name string) (int, error) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		if r[i] == "" {
			continue
		}
		seen[r[i]] = struct{}{}
	}
	return len(seen), nil
}

// filtered returns a new Table sharing the column set and keeping only the
// rows whose index is in keep (in order).
func (t *Table) filtered(keep []int) *Table {
	rows := make([][]string, 0, len(keep))
	for _, i := range keep {
		rows = append(rows, t.Rows[i])
	}
	return &Table{Columns: t.Columns, Rows: rows, index: t.index}
}
