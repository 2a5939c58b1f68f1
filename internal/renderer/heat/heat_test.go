package heat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/theme"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name        string
		stat, total float64
		want        float64
	}{
		{"half", 5, 10, 0.5},
		{"max", 10, 10, 1},
		{"zero total", 0, 0, 0},
		{"nonzero over zero total", 3, 0, 0},
		{"negative total", 3, -1, 0},
		{"above total", 20, 10, 1},
		{"negative stat", -5, 10, 0},
		{"nan", math.NaN(), 10, 0},
		{"inf total", 5, math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.stat, tt.total), 1e-9)
		})
	}
}

func TestAccent(t *testing.T) {
	assert.Equal(t, core.Opaque(191, 0, 0), Accent(true))

	light := Accent(false)
	assert.Equal(t, uint8(255), light.R)
	assert.Equal(t, light.G, light.B)
	assert.Greater(t, light.G, uint8(0))
	assert.Equal(t, uint8(255), light.A)
}

func TestColorEndpoints(t *testing.T) {
	bg := core.ColorWhite

	assert.Equal(t, Accent(false), Color(1, bg, false))
	assert.Equal(t, bg.WithAlpha(BackgroundAlpha), Color(0, bg, false))

	mid := Color(0.5, core.Opaque(0, 0, 0), true)
	assert.Equal(t, core.Color{R: 96, G: 0, B: 0, A: 153}, mid)
}

func TestColorStaysBetweenEndpoints(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ratio := rapid.Float64Range(-2, 3).Draw(rt, "ratio")
		bg := core.Opaque(
			rapid.Uint8().Draw(rt, "r"),
			rapid.Uint8().Draw(rt, "g"),
			rapid.Uint8().Draw(rt, "b"),
		)
		dark := rapid.Bool().Draw(rt, "dark")

		c := Color(ratio, bg, dark)
		a := Accent(dark)
		within := func(v, x, y uint8) bool {
			return v >= min(x, y) && v <= max(x, y)
		}
		if !within(c.R, a.R, bg.R) || !within(c.G, a.G, bg.G) || !within(c.B, a.B, bg.B) {
			rt.Fatalf("color %v outside [%v, %v]", c, a, bg)
		}
	})
}

func TestMaxTotals(t *testing.T) {
	stats := map[int]Stats{
		0: {Constraints: 4, Variables: 1, Millis: 20},
		3: {Constraints: 2, Variables: 9, Millis: 5},
	}
	assert.Equal(t, Totals{Constraints: 4, Variables: 9, Millis: 20}, MaxTotals(stats))
	assert.Equal(t, Totals{}, MaxTotals(nil))
}

func TestOverlayRow(t *testing.T) {
	o := NewOverlay()
	assert.False(t, o.HasData())
	assert.Equal(t, 0, o.Width())

	stats := map[int]Stats{
		0: {Constraints: 10, Variables: 0, Millis: 3},
		2: {Constraints: 5, Variables: 0, Millis: 12},
	}
	o.Set(stats, MaxTotals(stats))
	require.True(t, o.HasData())
	assert.Equal(t, Columns*CellWidth, o.Width())

	row, ok := o.Row(0, core.ColorWhite, false)
	require.True(t, ok)
	assert.Equal(t, "10", row[0].Text)
	assert.Equal(t, "0", row[1].Text)
	assert.Equal(t, "3ms", row[2].Text)
	assert.InDelta(t, 1.0, row[0].Ratio, 1e-9)
	assert.InDelta(t, 0.0, row[1].Ratio, 1e-9) // zero total
	assert.InDelta(t, 0.25, row[2].Ratio, 1e-9)

	_, ok = o.Row(1, core.ColorWhite, false)
	assert.False(t, ok)

	// Stats passed in are copied.
	stats[1] = Stats{Constraints: 1}
	_, ok = o.Stats(1)
	assert.False(t, ok)
}

func TestOverlayVisibility(t *testing.T) {
	o := NewOverlay()
	o.Set(map[int]Stats{0: {Constraints: 1}}, Totals{Constraints: 1})

	o.SetVisible(false)
	assert.False(t, o.Visible())
	assert.Equal(t, 0, o.Width())

	o.SetVisible(true)
	o.Clear()
	assert.False(t, o.HasData())
	assert.Equal(t, Totals{}, o.Totals())
}

func TestOverlayRemap(t *testing.T) {
	o := NewOverlay()
	o.Set(map[int]Stats{
		0: {Constraints: 1},
		1: {Constraints: 2},
		2: {Constraints: 3},
		3: {Constraints: 4},
	}, Totals{Constraints: 4})

	// Line 1 is gone, lines 2 and 3 both land on line 1.
	o.Remap(func(line int) (int, bool) {
		switch line {
		case 0:
			return 0, true
		case 1:
			return 0, false
		}
		return 1, true
	})

	s, ok := o.Stats(0)
	require.True(t, ok)
	assert.Equal(t, 1, s.Constraints)

	s, ok = o.Stats(1)
	require.True(t, ok)
	assert.Equal(t, 3, s.Constraints, "first line to arrive keeps the slot")

	_, ok = o.Stats(2)
	assert.False(t, ok)
	assert.Equal(t, 4, o.Totals().Constraints)
}

func TestRenderRow(t *testing.T) {
	p := theme.Default().Light
	o := NewOverlay()
	o.Set(map[int]Stats{0: {Constraints: 7, Variables: 2, Millis: 40}}, Totals{Constraints: 7, Variables: 4, Millis: 80})

	cells := o.RenderRow(0, p, false)
	require.Len(t, cells, Columns*CellWidth)
	assert.Equal(t, "   7      2    40ms  ", core.StringFromCells(cells))

	// The hottest cell is the accent composited over the background.
	assert.Equal(t, Accent(false).Over(p.Background), cells[0].Style.Background)

	blank := o.RenderRow(5, p, false)
	require.Len(t, blank, Columns*CellWidth)
	assert.Equal(t, p.Background, blank[0].Style.Background)
}

func TestRenderHeader(t *testing.T) {
	cells := RenderHeader(theme.Default().Dark)
	assert.Equal(t, " Cons   Vars   Time  ", core.StringFromCells(cells))
}
