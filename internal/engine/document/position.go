package document

import "fmt"

// Offset is an absolute character position in the document.
// Each line separator counts as one character.
type Offset = int

// Point represents a line and column position.
// Both Line and Column are 0-indexed; Column counts characters.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Selection is a cursor with an optional selected region.
// Anchor is where the selection started, Head is where the cursor is.
// An empty selection (Anchor == Head) is a plain cursor.
type Selection struct {
	Anchor Offset
	Head   Offset
}

// Cursor returns an empty selection at offset.
func Cursor(offset Offset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// Start returns the smaller endpoint.
func (s Selection) Start() Offset {
	return min(s.Anchor, s.Head)
}

// End returns the larger endpoint.
func (s Selection) End() Offset {
	return max(s.Anchor, s.Head)
}

// IsEmpty returns true if nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d->%d)", s.Anchor, s.Head)
}
