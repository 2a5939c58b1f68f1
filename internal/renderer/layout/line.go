// Package layout turns line text into screen cells, expanding tabs and
// wide characters.
package layout

import (
	"github.com/dshills/mzedit/internal/renderer/core"
)

// LineLayout represents the visual layout of a single document line.
type LineLayout struct {
	// Cells are the visual cells after tab expansion.
	Cells []core.Cell

	// Starts maps each rune column to its first visual column. It has
	// one extra entry holding the total width.
	Starts []int
}

// Width returns the visual width of the line.
func (l *LineLayout) Width() int {
	return len(l.Cells)
}

// VisualColumn converts a rune column to a visual column. Columns past
// the end extrapolate one cell per rune.
func (l *LineLayout) VisualColumn(col int) int {
	if col < 0 {
		return 0
	}
	if col < len(l.Starts) {
		return l.Starts[col]
	}
	return l.Width() + col - (len(l.Starts) - 1)
}

// Layout computes the cells for a line. styles holds one style per rune;
// runes without one use base.
func Layout(text string, styles []core.Style, base core.Style, tabs *TabExpander) *LineLayout {
	l := &LineLayout{
		Cells:  make([]core.Cell, 0, len(text)),
		Starts: make([]int, 0, len(text)+1),
	}

	i := 0
	for _, r := range text {
		style := base
		if i < len(styles) {
			style = styles[i]
		}
		l.Starts = append(l.Starts, len(l.Cells))

		switch {
		case r == '\t':
			stop := tabs.NextTabStop(len(l.Cells))
			for len(l.Cells) < stop {
				l.Cells = append(l.Cells, core.NewStyledCell(' ', style))
			}
		case runeCells(r) == 0:
			// Control characters take no room.
		default:
			cell := core.NewStyledCell(r, style)
			l.Cells = append(l.Cells, cell)
			if cell.Width == 2 {
				cont := core.ContinuationCell()
				cont.Style = style
				l.Cells = append(l.Cells, cont)
			}
		}
		i++
	}
	l.Starts = append(l.Starts, len(l.Cells))
	return l
}

func runeCells(r rune) int {
	return core.RuneWidth(r)
}
