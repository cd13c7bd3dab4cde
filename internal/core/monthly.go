package core

import (
	"fmt"
	"sort"
)

// OtherLabel is the catch-all label for collapsed low-frequency categories.
const OtherLabel = "other"

// MonthSeries is a per-month record count, months in chronological order.
// Months and Counts correspond positionally and have equal length.
type MonthSeries struct {
	Months []string
	Counts []int
}

// PerMonth counts valid rows per month bucket. Only months actually present
// appear; calendar gaps are not filled in.
func (d *Dataset) PerMonth() MonthSeries {
	countByMonth := make(map[string]int)
	for _, m := range d.Months {
		countByMonth[m]++
	}

	months := make([]string, 0, len(countByMonth))
	for m := range countByMonth {
		months = append(months, m)
	}
	months = SortMonths(months)

	counts := make([]int, len(months))
	for i, m := range months {
		counts[i] = countByMonth[m]
	}
	return MonthSeries{Months: months, Counts: counts}
}

// StackedSeries is a dense month × category matrix for a stacked bar chart.
// Labels are ordered by first occurrence in the data; Series and Colors are
// keyed/aligned to Labels, and every label has one count per month
// (explicit zeros included).
type StackedSeries struct {
	Months []string
	Labels []string
	Series map[string][]int
	Colors []string
}

// StackedPerMonth buckets valid rows by month and by the values of the
// given column, collapsing everything outside the top `limit` most frequent
// values into OtherLabel. At most limit+1 labels result. Column values are
// used as opaque text, so numeric columns stack as categorical labels.
func (d *Dataset) StackedPerMonth(column string, limit int) (*StackedSeries, error) {
	colIdx, ok := d.Table.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if limit < 1 {
		return nil, fmt.Errorf("category limit must be positive, got %d", limit)
	}

	// Every valid row may have been dropped for a bad date. That is still a
	// chartable dataset, just an empty one.
	if d.Table.NumRows() == 0 {
		return &StackedSeries{
			Months: []string{},
			Labels: []string{},
			Series: map[string][]int{},
			Colors: []string{},
		}, nil
	}

	top := topValues(d.Table.Rows, colIdx, limit)

	// Relabel each row, tracking label order of first occurrence.
	adjusted := make([]string, len(d.Table.Rows))
	var labels []string
	seen := make(map[string]bool)
	for i, row := range d.Table.Rows {
		label := row[colIdx]
		if !top[label] {
			label = OtherLabel
		}
		adjusted[i] = label
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	months := SortMonths(uniqueMonths(d.Months))
	monthPos := make(map[string]int, len(months))
	for i, m := range months {
		monthPos[m] = i
	}

	series := make(map[string][]int, len(labels))
	for _, label := range labels {
		series[label] = make([]int, len(months))
	}
	for i, label := range adjusted {
		series[label][monthPos[d.Months[i]]]++
	}

	colors, err := Palette(len(labels))
	if err != nil {
		return nil, err
	}
	return &StackedSeries{Months: months, Labels: labels, Series: series, Colors: colors}, nil
}

// topValues ranks the distinct values of a column by descending frequency
// and returns the top `limit` as a set. Frequency ties at the cutoff are
// broken by first occurrence in the data.
func topValues(rows [][]string, colIdx, limit int) map[string]bool {
	freq := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, row := range rows {
		v := row[colIdx]
		if _, ok := freq[v]; !ok {
			firstSeen[v] = i
		}
		freq[v]++
	}

	values := make([]string, 0, len(freq))
	for v := range freq {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if freq[values[i]] != freq[values[j]] {
			return freq[values[i]] > freq[values[j]]
		}
		return firstSeen[values[i]] < firstSeen[values[j]]
	})

	if len(values) > limit {
		values = values[:limit]
	}
	top := make(map[string]bool, len(values))
	for _, v := range values {
		top[v] = true
	}
	return top
}

func uniqueMonths(months []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range months {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// ColumnOption describes a column offered for stacking.
type ColumnOption struct {
	Name        string
	UniqueCount int
}

// minSelectableUnique filters out columns too uniform to be worth coloring
// by.
const minSelectableUnique = 3

// ColumnOptions lists the columns of a validated dataset that are suitable
// as stacking categories: at least three distinct non-empty values, sorted
// ascending by distinct-value count. Ties keep column order.
func (d *Dataset) ColumnOptions() []ColumnOption {
	var opts []ColumnOption
	for _, name := range d.Table.Columns {
		n, err := d.Table.UniqueCount(name)
		if err != nil || n < minSelectableUnique {
			continue
		}
		opts = append(opts, ColumnOption{Name: name, UniqueCount: n})
	}
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].UniqueCount < opts[j].UniqueCount
	})
	return opts
}
