package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex  string
		want Color
		err  bool
	}{
		{"#FF0000", Opaque(255, 0, 0), false},
		{"#0f0", Opaque(0, 255, 0), false},
		{"#1e1e2e", Opaque(0x1e, 0x1e, 0x2e), false},
		{"nope", Color{}, true},
		{"#12345", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ColorFromHex(tt.hex)
		if tt.err {
			if err == nil {
				t.Errorf("ColorFromHex(%q): expected error", tt.hex)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q): unexpected error %v", tt.hex, err)
			continue
		}
		if !got.Equals(tt.want) {
			t.Errorf("ColorFromHex(%q): expected %v, got %v", tt.hex, tt.want, got)
		}
	}
}

func TestColorMix(t *testing.T) {
	accent := Color{R: 200, G: 0, B: 100, A: 50}
	bg := Opaque(0, 100, 200)

	tests := []struct {
		weight float64
		want   Color
	}{
		{1, accent},
		{0, bg},
		{0.5, Color{R: 100, G: 50, B: 150, A: 153}},
		{2, accent},
		{-1, bg},
	}

	for _, tt := range tests {
		if got := accent.Mix(bg, tt.weight); got != tt.want {
			t.Errorf("Mix(%v): expected %v, got %v", tt.weight, tt.want, got)
		}
	}
}

func TestColorOver(t *testing.T) {
	half := Color{R: 255, G: 0, B: 0, A: 128}
	got := half.Over(ColorBlack)
	if got.R != 128 || got.G != 0 || got.A != 255 {
		t.Errorf("expected #800000, got %v", got)
	}

	if ColorDefault.Over(ColorWhite) != ColorWhite {
		t.Error("default color should show the backdrop")
	}
}

func TestColorLighter(t *testing.T) {
	got := ColorRed.Lighter(110)
	if got.R != 255 || got.G == 0 || got.G > 30 || got.G != got.B {
		t.Errorf("expected a slightly paler red, got %v", got)
	}

	gray := Opaque(100, 100, 100).Lighter(150)
	if gray.R != 150 {
		t.Errorf("expected value scaled to 150, got %v", gray)
	}
}

func TestColorString(t *testing.T) {
	if s := Opaque(1, 2, 3).String(); s != "#010203" {
		t.Errorf("expected #010203, got %s", s)
	}
	if s := (Color{R: 1, A: 50}).String(); s != "#01000032" {
		t.Errorf("expected #01000032, got %s", s)
	}
	if s := ColorDefault.String(); s != "default" {
		t.Errorf("expected default, got %s", s)
	}
}

func TestStyleMerge(t *testing.T) {
	base := DefaultStyle().WithForeground(ColorWhite).WithBackground(ColorBlack)
	top := DefaultStyle().WithUnderline(ColorRed, true)

	got := base.Merge(top)
	if !got.Foreground.Equals(ColorWhite) {
		t.Errorf("foreground should be kept, got %v", got.Foreground)
	}
	if !got.Attributes.Has(AttrCurly) {
		t.Error("curly underline should be added")
	}
	if !got.Underline.Equals(ColorRed) {
		t.Errorf("expected red underline, got %v", got.Underline)
	}
}

func TestStyleMergeTranslucentBackground(t *testing.T) {
	base := DefaultStyle().WithBackground(ColorBlack)
	top := DefaultStyle().WithBackground(ColorWhite.WithAlpha(128))

	got := base.Merge(top)
	if got.Background.A != 255 || got.Background.R != 128 {
		t.Errorf("expected composited gray, got %v", got.Background)
	}
}

func TestStyleIsDefault(t *testing.T) {
	if !DefaultStyle().IsDefault() {
		t.Error("DefaultStyle should be default")
	}
	if DefaultStyle().WithAttributes(AttrBold).IsDefault() {
		t.Error("bold style should not be default")
	}
}

func TestCellsFromString(t *testing.T) {
	cells := CellsFromString("a世", DefaultStyle())
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	if !cells[2].IsContinuation() {
		t.Error("expected continuation after wide rune")
	}
	if s := StringFromCells(cells); s != "a世" {
		t.Errorf("expected round trip, got %q", s)
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"7", 3, " 7 "},
		{"12", 5, " 12  "},
		{"12ms", 4, "12ms"},
		{"1234ms", 4, "1234"},
		{"", 2, "  "},
	}

	for _, tt := range tests {
		if got := Center(tt.s, tt.width); got != tt.want {
			t.Errorf("Center(%q, %d): expected %q, got %q", tt.s, tt.width, tt.want, got)
		}
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(1, 2, 3, 4)
	if r.Width() != 4 || r.Height() != 3 {
		t.Errorf("expected 4x3, got %dx%d", r.Width(), r.Height())
	}
	if (ScreenRect{Left: 5, Right: 1}).Width() != 0 {
		t.Error("inverted rect should have zero width")
	}
}
