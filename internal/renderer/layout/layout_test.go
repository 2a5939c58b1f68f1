package layout

import (
	"testing"

	"github.com/dshills/mzedit/internal/renderer/core"
)

func TestNewTabExpander(t *testing.T) {
	te := NewTabExpander(4)
	if te.TabWidth() != 4 {
		t.Errorf("expected tab width 4, got %d", te.TabWidth())
	}

	// Invalid width defaults to 4
	te = NewTabExpander(0)
	if te.TabWidth() != 4 {
		t.Errorf("expected default tab width 4, got %d", te.TabWidth())
	}

	te.SetTabWidth(0)
	if te.TabWidth() != 1 {
		t.Errorf("expected minimum tab width 1, got %d", te.TabWidth())
	}
}

func TestNextTabStop(t *testing.T) {
	te := NewTabExpander(4)
	tests := []struct {
		col, want int
	}{
		{0, 4},
		{1, 4},
		{3, 4},
		{4, 8},
		{7, 8},
	}
	for _, tt := range tests {
		if got := te.NextTabStop(tt.col); got != tt.want {
			t.Errorf("NextTabStop(%d) = %d, want %d", tt.col, got, tt.want)
		}
	}
}

func TestVisualColumn(t *testing.T) {
	te := NewTabExpander(4)
	tests := []struct {
		s    string
		col  int
		want int
	}{
		{"abc", 2, 2},
		{"\tx", 1, 4},
		{"a\tx", 2, 4},
		{"\t\tx", 2, 8},
		{"日本x", 2, 4},
		{"ab", 5, 2},
		{"a\tb", -1, 5},
	}
	for _, tt := range tests {
		if got := te.VisualColumn(tt.s, tt.col); got != tt.want {
			t.Errorf("VisualColumn(%q, %d) = %d, want %d", tt.s, tt.col, got, tt.want)
		}
	}
	if got := te.ExpandedWidth("\tab"); got != 6 {
		t.Errorf("ExpandedWidth = %d, want 6", got)
	}
}

func TestRuneColumn(t *testing.T) {
	te := NewTabExpander(4)
	tests := []struct {
		s    string
		vis  int
		want int
	}{
		{"abc", 1, 1},
		{"\tx", 0, 0},
		{"\tx", 3, 0},
		{"\tx", 4, 1},
		{"日本x", 3, 1},
		{"ab", 4, 4},
	}
	for _, tt := range tests {
		if got := te.RuneColumn(tt.s, tt.vis); got != tt.want {
			t.Errorf("RuneColumn(%q, %d) = %d, want %d", tt.s, tt.vis, got, tt.want)
		}
	}
}

func TestLayout(t *testing.T) {
	te := NewTabExpander(4)
	red := core.DefaultStyle().WithForeground(core.ColorRed)
	base := core.DefaultStyle()

	l := Layout("\tx(日", []core.Style{base, red, red}, base, te)

	if l.Width() != 8 {
		t.Fatalf("expected width 8, got %d", l.Width())
	}
	if got := core.StringFromCells(l.Cells); got != "    x(日" {
		t.Errorf("unexpected text %q", got)
	}

	wantStarts := []int{0, 4, 5, 6, 8}
	for i, want := range wantStarts {
		if l.Starts[i] != want {
			t.Errorf("Starts[%d] = %d, want %d", i, l.Starts[i], want)
		}
	}

	if !l.Cells[5].Style.Equals(red) {
		t.Error("bracket cell should carry its rune's style")
	}
	if !l.Cells[6].Style.Equals(base) {
		t.Error("runes without a style should use the base style")
	}
	if !l.Cells[7].IsContinuation() {
		t.Error("wide rune should be followed by a continuation cell")
	}

	if got := l.VisualColumn(3); got != 6 {
		t.Errorf("VisualColumn(3) = %d, want 6", got)
	}
	if got := l.VisualColumn(6); got != 10 {
		t.Errorf("VisualColumn(6) = %d, want 10", got)
	}
}
