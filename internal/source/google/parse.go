package google

import (
	"fmt"

	"github.com/victorlin/metadata-explorer/internal/core"
)

// tableFromValues converts a values matrix (as returned by the Sheets API)
// into a Table. The first row is the header; short rows are padded with
// empty fields, since the API omits trailing blank cells.
func tableFromValues(values [][]interface{}) (*core.Table, error) {
	if len(values) == 0 {
		return nil, core.ErrNoHeader
	}
	header := toStrings(values[0], len(values[0]))
	rows := make([][]string, 0, len(values)-1)
	for _, v := range values[1:] {
		if len(v) > len(header) {
			return nil, fmt.Errorf("row has %d cells, header has %d", len(v), len(header))
		}
		rows = append(rows, toStrings(v, len(header)))
	}
	return core.NewTable(header, rows)
}

func toStrings(row []interface{}, width int) []string {
	out := make([]string, width)
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}
