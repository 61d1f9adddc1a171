package ui

import (
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	table := NewTable([]TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "NAME"},
	})
	table.AddRow("1", "Go")
	table.AddRow("12", "Kubernetes")

	lines := strings.Split(strings.TrimRight(table.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "ID") || !strings.Contains(lines[0], "NAME") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], " 1  Go") {
		t.Errorf("expected right-aligned id, got %q", lines[2])
	}
}

func TestTableAddRowPadsAndTruncates(t *testing.T) {
	table := NewTable([]TableColumn{
		{Header: "A", Max: 4},
		{Header: "B"},
	})
	table.AddRow("abcdefgh")

	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
	row := table.Rows[0]
	if len(row) != 2 {
		t.Fatalf("expected row padded to 2 cells, got %d", len(row))
	}
	if row[0] != "abc…" {
		t.Errorf("expected truncated cell, got %q", row[0])
	}
	if row[1] != "" {
		t.Errorf("expected empty missing cell, got %q", row[1])
	}
}

func TestPadString(t *testing.T) {
	tests := []struct {
		in    string
		width int
		align string
		want  string
	}{
		{"ab", 4, "left", "ab  "},
		{"ab", 4, "right", "  ab"},
		{"ab", 5, "center", " ab  "},
		{"abcdef", 3, "left", "abcdef"},
	}

	for _, tt := range tests {
		if got := padString(tt.in, tt.width, tt.align); got != tt.want {
			t.Errorf("padString(%q, %d, %q) = %q, want %q", tt.in, tt.width, tt.align, got, tt.want)
		}
	}
}
