package core

import (
	"errors"
	"testing"
)

func TestNewTableRejectsRaggedRows(t *testing.T) {
	_, err := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	if err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestNewTableRequiresHeader(t *testing.T) {
	_, err := NewTable(nil, nil)
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestColumnIndexDuplicateHeaderKeepsFirst(t *testing.T) {
	tbl := mustTable(t, []string{"date", "x", "date"}, nil)
	i, ok := tbl.ColumnIndex("date")
	if !ok || i != 0 {
		t.Fatalf("ColumnIndex(date) = %d,%v", i, ok)
	}
}

func TestUniqueCountIgnoresEmpty(t *testing.T) {
	tbl := mustTable(t, []string{"region"}, [][]string{{"asia"}, {""}, {"asia"}, {"europe"}})
	n, err := tbl.UniqueCount("region")
	if err != nil {
		t.Fatalf("UniqueCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("UniqueCount = %d, want 2", n)
	}
	if _, err := tbl.UniqueCount("nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}
