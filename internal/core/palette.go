package core

import "fmt"

// category20 is the fixed qualitative palette used for stacked charts
// (the Category20 scheme).
var category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// MaxPaletteSize is the largest distinct-label count the palette supports.
// The category limit plus the "other" label must stay within it.
const MaxPaletteSize = 20

// Palette returns n distinct colors. n must be between 1 and MaxPaletteSize.
func Palette(n int) ([]string, error) {
	if n < 1 || n > MaxPaletteSize {
		return nil, fmt.Errorf("palette supports 1 to %d distinct colors, got %d", MaxPaletteSize, n)
	}
	out := make([]string, n)
	copy(out, category20[:n])
	return out, nil
}
