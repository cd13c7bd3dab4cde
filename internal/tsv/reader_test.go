package tsv

import (
	"bytes"
	"compress/gzip"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/victorlin/metadata-explorer/internal/core"
)

const sample = "strain\tdate\tregion\nA/1\t2021-01-05\tasia\nB/2\t2021-02-10\teurope\n"

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"strain", "date", "region"}) {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
	if tbl.Rows[1][2] != "europe" {
		t.Fatalf("unexpected cell: %q", tbl.Rows[1][2])
	}
}

func TestParseValuesMayContainCommasAndQuotes(t *testing.T) {
	tbl, err := Parse(strings.NewReader("name\tnote\nA\tlab \"X\", ward 3\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Rows[0][1] != `lab "X", ward 3` {
		t.Fatalf("unexpected cell: %q", tbl.Rows[0][1])
	}
}

func TestParseRejectsRaggedRows(t *testing.T) {
	if _, err := Parse(strings.NewReader("a\tb\n1\t2\t3\n")); err == nil {
		t.Fatal("expected error for row with extra fields")
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); !errors.Is(err, core.ErrNoHeader) {
		t.Fatal("expected ErrNoHeader for empty input")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	tbl, err := Parse(strings.NewReader("strain\tdate\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.NumRows() != 0 {
		t.Fatalf("rows = %d, want 0", tbl.NumRows())
	}
}

func TestParseNamedGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(sample)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	tbl, err := ParseNamed(&buf, "metadata.tsv.gz")
	if err != nil {
		t.Fatalf("ParseNamed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
}

func TestParseNamedZstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := zw.Write([]byte(sample)); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}
	tbl, err := ParseNamed(&buf, "metadata_all.tsv.zst")
	if err != nil {
		t.Fatalf("ParseNamed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
}

func TestParseNamedXz(t *testing.T) {
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := xw.Write([]byte(sample)); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := xw.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	tbl, err := ParseNamed(&buf, "metadata.tsv.xz")
	if err != nil {
		t.Fatalf("ParseNamed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
}

func TestParseNamedPlain(t *testing.T) {
	tbl, err := ParseNamed(strings.NewReader(sample), "metadata.tsv")
	if err != nil {
		t.Fatalf("ParseNamed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
}
