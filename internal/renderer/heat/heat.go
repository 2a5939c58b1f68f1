// Package heat renders per-line compiler statistics as a color ramp next
// to the line numbers.
package heat

import (
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/theme"
)

const (
	// Columns is the number of heat cells per line.
	Columns = 3

	// CellWidth is the width of one heat cell in terminal columns.
	CellWidth = 7

	// BackgroundAlpha is the alpha of the background end of the ramp.
	BackgroundAlpha = 50
)

// Header holds the column captions.
var Header = [Columns]string{"Cons", "Vars", "Time"}

// Stats are the compiler statistics for one line.
type Stats struct {
	Constraints int
	Variables   int
	Millis      int
}

// Totals are the document-wide maxima used to scale Stats.
type Totals struct {
	Constraints int
	Variables   int
	Millis      int
}

// MaxTotals computes the per-column maxima of stats.
func MaxTotals(stats map[int]Stats) Totals {
	var t Totals
	for _, s := range stats {
		t.Constraints = max(t.Constraints, s.Constraints)
		t.Variables = max(t.Variables, s.Variables)
		t.Millis = max(t.Millis, s.Millis)
	}
	return t
}

// Ratio returns stat/total clamped to [0, 1]. A total of zero or less
// yields 0, as does any NaN.
func Ratio(stat, total float64) float64 {
	if total <= 0 || math.IsNaN(stat) || math.IsNaN(total) {
		return 0
	}
	r := stat / total
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(0, math.Min(1, r))
}

// Accent returns the hot end of the ramp.
func Accent(dark bool) core.Color {
	if dark {
		return core.Opaque(191, 0, 0)
	}
	return core.ColorRed.Lighter(110)
}

// Color blends the accent with a translucent background by ratio:
// ratio 1 is the accent, ratio 0 the background.
func Color(ratio float64, bg core.Color, dark bool) core.Color {
	return Accent(dark).Mix(bg.WithAlpha(BackgroundAlpha), ratio)
}

// Cell is one rendered heat cell.
type Cell struct {
	Text  string
	Ratio float64
	Color core.Color
}

// Overlay holds the statistics of one document.
type Overlay struct {
	mu      sync.RWMutex
	stats   map[int]Stats
	totals  Totals
	visible bool
}

// NewOverlay creates an empty, visible overlay.
func NewOverlay() *Overlay {
	return &Overlay{stats: make(map[int]Stats), visible: true}
}

// Set replaces the statistics. Lines are 0-based.
func (o *Overlay) Set(stats map[int]Stats, totals Totals) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stats = make(map[int]Stats, len(stats))
	for line, s := range stats {
		o.stats[line] = s
	}
	o.totals = totals
}

// Remap moves the statistics to the lines reported by mapLine. Lines it
// rejects lose their statistics. When two lines land on the same line
// the one that came first keeps it. Totals are left alone.
func (o *Overlay) Remap(mapLine func(int) (int, bool)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.stats) == 0 {
		return
	}

	lines := make([]int, 0, len(o.stats))
	for line := range o.stats {
		lines = append(lines, line)
	}
	slices.Sort(lines)

	next := make(map[int]Stats, len(o.stats))
	for _, line := range lines {
		to, ok := mapLine(line)
		if !ok {
			continue
		}
		if _, taken := next[to]; taken {
			continue
		}
		next[to] = o.stats[line]
	}
	o.stats = next
}

// Clear removes all statistics.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stats = make(map[int]Stats)
	o.totals = Totals{}
}

// SetVisible shows or hides the overlay.
func (o *Overlay) SetVisible(visible bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = visible
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.visible
}

// HasData reports whether any line has statistics.
func (o *Overlay) HasData() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.stats) > 0
}

// Totals returns the current maxima.
func (o *Overlay) Totals() Totals {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.totals
}

// Stats returns the statistics recorded for a line.
func (o *Overlay) Stats(line int) (Stats, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	s, ok := o.stats[line]
	return s, ok
}

// Width returns the columns the overlay occupies, 0 when hidden or empty.
func (o *Overlay) Width() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.visible || len(o.stats) == 0 {
		return 0
	}
	return Columns * CellWidth
}

// Row computes the heat cells of a line. It returns false when the line
// has no statistics.
func (o *Overlay) Row(line int, bg core.Color, dark bool) ([Columns]Cell, bool) {
	o.mu.RLock()
	s, ok := o.stats[line]
	t := o.totals
	o.mu.RUnlock()

	var row [Columns]Cell
	if !ok {
		return row, false
	}

	values := [Columns]int{s.Constraints, s.Variables, s.Millis}
	totals := [Columns]int{t.Constraints, t.Variables, t.Millis}
	for i := range row {
		r := Ratio(float64(values[i]), float64(totals[i]))
		row[i] = Cell{
			Text:  strconv.Itoa(values[i]),
			Ratio: r,
			Color: Color(r, bg, dark),
		}
	}
	row[2].Text += "ms"
	return row, true
}

// RenderRow draws a line's heat cells. Lines without statistics render
// as blank background.
func (o *Overlay) RenderRow(line int, p theme.Palette, dark bool) []core.Cell {
	out := make([]core.Cell, 0, Columns*CellWidth)
	row, ok := o.Row(line, p.Background, dark)
	if !ok {
		blank := core.NewStyledCell(' ', p.TextStyle())
		for range Columns * CellWidth {
			out = append(out, blank)
		}
		return out
	}

	for _, c := range row {
		style := p.TextStyle().WithBackground(c.Color.Over(p.Background))
		out = append(out, core.CellsFromString(core.Center(c.Text, CellWidth), style)...)
	}
	return out
}

// RenderHeader draws the column captions.
func RenderHeader(p theme.Palette) []core.Cell {
	out := make([]core.Cell, 0, Columns*CellWidth)
	for _, h := range Header {
		out = append(out, core.CellsFromString(core.Center(h, CellWidth), p.TextStyle())...)
	}
	return out
}
