// Package overlay holds the highlight spans drawn over editor text:
// the current line, bracket matches and diagnostics.
package overlay

import (
	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/theme"
)

// Kind tags a span with what produced it. Spans are replaced by kind, so
// recomputing one layer never disturbs the others.
type Kind uint8

const (
	KindCurrentLine Kind = iota
	KindBracketMatch
	KindBracketMismatch
	KindDiagnosticWarning
	KindDiagnosticError
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCurrentLine:
		return "current-line"
	case KindBracketMatch:
		return "bracket-match"
	case KindBracketMismatch:
		return "bracket-mismatch"
	case KindDiagnosticWarning:
		return "diagnostic-warning"
	case KindDiagnosticError:
		return "diagnostic-error"
	default:
		return "unknown"
	}
}

// Priority represents the rendering priority of spans.
// Higher priority spans are rendered on top.
type Priority uint8

const (
	PriorityLow      Priority = 50
	PriorityNormal   Priority = 100
	PriorityHigh     Priority = 150
	PriorityCritical Priority = 200
)

// Priority returns the rendering priority of the kind.
func (k Kind) Priority() Priority {
	switch k {
	case KindCurrentLine:
		return PriorityLow
	case KindBracketMatch, KindBracketMismatch:
		return PriorityNormal
	case KindDiagnosticWarning:
		return PriorityHigh
	default:
		return PriorityCritical
	}
}

// Span is a highlighted range of absolute document offsets [Start, End).
type Span struct {
	Kind  Kind
	Start int
	End   int

	// FullWidth extends the highlight to the right edge of the view.
	FullWidth bool
}

// Overlaps reports whether the span covers any of [start, end). An empty
// full-width span overlaps the line range that contains it.
func (s Span) Overlaps(start, end int) bool {
	if s.Start == s.End {
		return s.Start >= start && s.Start <= end
	}
	return s.Start < end && s.End > start
}

// LineSpan is a span clipped to one line, in columns.
type LineSpan struct {
	Kind      Kind
	StartCol  int
	EndCol    int
	FullWidth bool
}

// StyleFor returns the style a kind is drawn with in the given palette.
// The palette is passed explicitly so that switching dark mode only means
// redrawing with the other palette.
func StyleFor(k Kind, p theme.Palette) core.Style {
	s := core.DefaultStyle()
	switch k {
	case KindCurrentLine:
		return s.WithBackground(p.CurrentLine)
	case KindBracketMatch:
		return s.WithBackground(p.BracketMatch)
	case KindBracketMismatch:
		return s.WithBackground(p.BracketMismatch)
	case KindDiagnosticWarning:
		return s.WithUnderline(p.Warning, true)
	case KindDiagnosticError:
		return s.WithUnderline(p.Error, true)
	}
	return s
}
