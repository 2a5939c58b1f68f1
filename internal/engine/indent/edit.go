package indent

import (
	"unicode/utf8"

	"github.com/dshills/mzedit/internal/engine/document"
)

// InsertIndent replaces the selection with one indent unit: a tab, or
// enough spaces to reach the next stop.
func InsertIndent(doc Document, sel document.Selection, cfg Config) (document.Selection, error) {
	start, end := sel.Start(), sel.End()
	text := "\t"
	if !cfg.UseTabs {
		p := doc.OffsetToPoint(start)
		line := []rune(doc.Line(p.Line))
		before := string(line[:min(p.Column, len(line))])
		text = spaces(SpacesToStop(before, cfg.size()))
	}
	if err := doc.Replace(start, end, text); err != nil {
		return sel, err
	}
	return document.Cursor(start + utf8.RuneCountInString(text)), nil
}

// Tab handles the Tab key. An empty selection, or one that covers only
// part of a single line, gets an indent unit inserted; anything else is
// shifted right.
func Tab(doc Document, sel document.Selection, cfg Config) (document.Selection, error) {
	if sel.IsEmpty() || (sameLine(doc, sel) && partialLine(doc, sel)) {
		return InsertIndent(doc, sel, cfg)
	}
	return Shift(doc, sel, 1, cfg)
}

// Backtab handles Shift+Tab.
func Backtab(doc Document, sel document.Selection, cfg Config) (document.Selection, error) {
	return Shift(doc, sel, -1, cfg)
}

func sameLine(doc Document, sel document.Selection) bool {
	return doc.OffsetToPoint(sel.Start()).Line == doc.OffsetToPoint(sel.End()).Line
}

func partialLine(doc Document, sel document.Selection) bool {
	line := doc.OffsetToPoint(sel.Start()).Line
	first := doc.LineStart(line)
	last := first + utf8.RuneCountInString(doc.Line(line))
	return sel.Start() != first || sel.End() != last
}

// Lines returns the first and last line touched by sel. A selection that
// ends at the start of a later line does not include that line.
func Lines(doc Document, sel document.Selection) (first, last int) {
	sp := doc.OffsetToPoint(sel.Start())
	ep := doc.OffsetToPoint(sel.End())
	first, last = sp.Line, ep.Line
	if last > first && ep.Column == 0 {
		last--
	}
	return first, last
}

// Shift changes the indentation of every line touched by sel by amount
// levels. Widths never go below zero. The selection endpoints stay on
// their lines.
func Shift(doc Document, sel document.Selection, amount int, cfg Config) (document.Selection, error) {
	size := cfg.size()
	first, last := Lines(doc, sel)
	anchor := doc.OffsetToPoint(sel.Anchor)
	head := doc.OffsetToPoint(sel.Head)

	err := doc.Group("shift", func() error {
		for l := first; l <= last; l++ {
			line := doc.Line(l)
			width, n := Width(line, size)
			repl := Build(width+size*amount, cfg)

			oldLead := string([]rune(line)[:n])
			if repl == oldLead {
				continue
			}
			start := doc.LineStart(l)
			if err := doc.Replace(start, start+n, repl); err != nil {
				return err
			}

			newN := utf8.RuneCountInString(repl)
			anchor = reanchor(anchor, l, n, newN)
			head = reanchor(head, l, n, newN)
		}
		return nil
	})
	if err != nil {
		return sel, err
	}

	return document.Selection{
		Anchor: doc.PointToOffset(anchor),
		Head:   doc.PointToOffset(head),
	}, nil
}

// reanchor moves a point on line whose indent changed from oldN to newN
// characters. Points after the indent keep their place in the text.
func reanchor(p document.Point, line, oldN, newN int) document.Point {
	if p.Line != line {
		return p
	}
	if p.Column >= oldN {
		p.Column += newN - oldN
	} else {
		p.Column = min(p.Column, newN)
	}
	return p
}

// Newline replaces the selection with a line break followed by the
// leading whitespace of the cursor's line.
func Newline(doc Document, sel document.Selection) (document.Selection, error) {
	line := doc.OffsetToPoint(sel.Head).Line
	text := "\n" + Leading(doc.Line(line))
	start, end := sel.Start(), sel.End()

	err := doc.Group("newline", func() error {
		return doc.Replace(start, end, text)
	})
	if err != nil {
		return sel, err
	}
	return document.Cursor(start + utf8.RuneCountInString(text)), nil
}

func spaces(n int) string {
	return Build(n, Config{})
}
