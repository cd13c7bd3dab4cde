// Package tsv reads tab-separated metadata files into core tables,
// transparently decompressing the formats the public datasets are
// published in (.gz, .xz, .zst).
package tsv

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/victorlin/metadata-explorer/internal/core"
)

// Parse reads tab-separated text with a header row into a Table.
// Rows whose field count differs from the header are a parse error,
// surfaced at the load boundary.
func Parse(r io.Reader) (*core.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, core.ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, record)
	}

	return core.NewTable(header, rows)
}

// ParseNamed parses a possibly-compressed TSV stream, choosing the
// decompressor from the filename extension. Unknown extensions are read
// as plain text.
func ParseNamed(r io.Reader, name string) (*core.Table, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gr.Close()
		return Parse(gr)
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open xz stream: %w", err)
		}
		return Parse(xr)
	case ".zst":
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		return Parse(zr)
	default:
		return Parse(r)
	}
}
