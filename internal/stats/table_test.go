package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/vocatype/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Key", "Errors", "Level"}
	rows := [][]string{
		{"a", "12", "3"},
		{"<space>", "2", "1"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Key     Errors Level" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a           12     3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>      2     1" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderKeyTableOrdersWorstFirst(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.KeyErrorAggregate{{Key: "a", Errors: 1}, {Key: " ", Errors: 25}}
	if err := RenderKeyTable(&buf, aggs); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "<space>") > strings.Index(out, "a    ") {
		t.Fatalf("expected space row first:\n%s", out)
	}
	if !strings.Contains(out, "25     4") {
		t.Fatalf("expected severe level for space:\n%s", out)
	}
}
