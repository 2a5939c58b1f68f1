package editor

import (
	"github.com/dshills/mzedit/internal/engine/brackets"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/renderer/overlay"
)

// Selection returns the current selection.
func (e *Editor) Selection() document.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel
}

// Cursor returns the cursor position.
func (e *Editor) Cursor() document.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.OffsetToPoint(e.sel.Head)
}

// SetCursor moves the cursor to offset and clears the selection.
func (e *Editor) SetCursor(offset int) {
	e.SetSelection(document.Cursor(offset))
}

// SetCursorPoint moves the cursor to a line and column.
func (e *Editor) SetCursorPoint(p document.Point) {
	e.SetCursor(e.doc.PointToOffset(p))
}

// SetSelection replaces the selection. Offsets are clamped to the
// document.
func (e *Editor) SetSelection(sel document.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.setSelection(sel)
	e.goalCol = e.doc.OffsetToPoint(e.sel.Head).Column
}

func (e *Editor) setSelection(sel document.Selection) {
	n := e.doc.Len()
	e.sel = document.Selection{
		Anchor: max(0, min(sel.Anchor, n)),
		Head:   max(0, min(sel.Head, n)),
	}
	e.refreshCursorSpans()
}

// BracketMatch returns the result of the last cursor match.
func (e *Editor) BracketMatch() brackets.Match {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.match
}

// refreshCursorSpans rebuilds the spans that follow the cursor. Spans of
// other kinds are left alone.
func (e *Editor) refreshCursorSpans() {
	p := e.doc.OffsetToPoint(e.sel.Head)

	var current []overlay.Span
	if e.cfg.Editor.HighlightCurrentLine {
		start := e.doc.LineStart(p.Line)
		current = append(current, overlay.Span{Kind: overlay.KindCurrentLine, Start: start, End: start, FullWidth: true})
	}
	e.spans.Replace(overlay.KindCurrentLine, current)

	e.match = e.brackets.MatchAt(p.Line, p.Column)
	var spans []overlay.Span
	switch e.match.Kind {
	case brackets.Matched:
		spans = []overlay.Span{
			{Kind: overlay.KindBracketMatch, Start: e.match.Open(), End: e.match.Open() + 1},
			{Kind: overlay.KindBracketMatch, Start: e.match.Close(), End: e.match.Close() + 1},
		}
	case brackets.Unmatched:
		spans = []overlay.Span{
			{Kind: overlay.KindBracketMismatch, Start: e.match.At, End: e.match.At + 1},
		}
	}
	e.spans.ReplaceKinds([]overlay.Kind{overlay.KindBracketMatch, overlay.KindBracketMismatch}, spans)
}

// Spans returns every highlight span.
func (e *Editor) Spans() []overlay.Span {
	return e.spans.Spans()
}

// SpansOfKind returns the highlight spans of one kind.
func (e *Editor) SpansOfKind(k overlay.Kind) []overlay.Span {
	return e.spans.SpansOfKind(k)
}

// LineCount returns the number of lines.
func (e *Editor) LineCount() int {
	return e.doc.LineCount()
}

// Line returns the text of line i.
func (e *Editor) Line(i int) string {
	return e.doc.Line(i)
}

// LineStart returns the offset of line i.
func (e *Editor) LineStart(i int) int {
	return e.doc.LineStart(i)
}

// SpansForLine returns the spans on the line occupying [lineStart, lineEnd].
func (e *Editor) SpansForLine(lineStart, lineEnd int) []overlay.LineSpan {
	return e.spans.SpansForLine(lineStart, lineEnd)
}

// moveTo places a collapsed cursor. keepGoal preserves the column that
// vertical moves aim for.
func (e *Editor) moveTo(off int, keepGoal bool) {
	e.setSelection(document.Cursor(off))
	if !keepGoal {
		e.goalCol = e.doc.OffsetToPoint(e.sel.Head).Column
	}
}

func (e *Editor) moveVertical(lines int) {
	p := e.doc.OffsetToPoint(e.sel.Head)
	line := max(0, min(p.Line+lines, e.doc.LineCount()-1))
	col := min(e.goalCol, e.doc.LineLen(line))
	e.moveTo(e.doc.PointToOffset(document.Point{Line: line, Column: col}), true)
}
