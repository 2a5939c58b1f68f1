// Package viewport tracks which part of the document is on screen.
package viewport

import "sync"

// Viewport represents the visible portion of the document.
type Viewport struct {
	mu sync.RWMutex

	// Position in the document (first visible line and column)
	topLine    int
	leftColumn int

	// Size in screen cells
	width  int
	height int

	// Scroll margins (keep cursor this far from edges)
	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int

	lineCount int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:        max(width, 1),
		height:       max(height, 1),
		marginTop:    2,
		marginBottom: 2,
		marginLeft:   4,
		marginRight:  4,
		lineCount:    1,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// LeftColumn returns the first visible column.
func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// SetLineCount sets the number of lines in the document and clamps the
// top line to it.
func (v *Viewport) SetLineCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(n, 1)
	if v.topLine >= v.lineCount {
		v.topLine = v.lineCount - 1
	}
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(top, bottom, left, right int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marginTop = top
	v.marginBottom = bottom
	v.marginLeft = left
	v.marginRight = right
}

// VisibleLineRange returns the first and last visible document lines.
func (v *Viewport) VisibleLineRange() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLine()
}

func (v *Viewport) bottomLine() int {
	return min(v.topLine+v.height, v.lineCount) - 1
}

// IsLineVisible returns true if the line is within the viewport.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line <= v.bottomLine()
}

// LineToScreenRow converts a document line to a viewport row, or -1.
func (v *Viewport) LineToScreenRow(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if line < v.topLine || line >= v.topLine+v.height {
		return -1
	}
	return line - v.topLine
}

// ScrollTo makes line the first visible line.
func (v *Viewport) ScrollTo(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = max(0, min(line, v.lineCount-1))
}

// ScrollToReveal scrolls minimally so that (line, col) is visible with
// the configured margins. col is a visual column. Returns true if the
// viewport moved.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	top, left := v.topLine, v.leftColumn
	mTop := min(v.marginTop, (v.height-1)/2)
	mBottom := min(v.marginBottom, (v.height-1)/2)
	mLeft := min(v.marginLeft, (v.width-1)/2)
	mRight := min(v.marginRight, (v.width-1)/2)

	if line < top+mTop {
		top = max(0, line-mTop)
	} else if line > top+v.height-1-mBottom {
		top = line - v.height + 1 + mBottom
	}
	top = max(0, min(top, v.lineCount-1))

	if col < left+mLeft {
		left = max(0, col-mLeft)
	} else if col > left+v.width-1-mRight {
		left = col - v.width + 1 + mRight
	}

	moved := top != v.topLine || left != v.leftColumn
	v.topLine, v.leftColumn = top, left
	return moved
}

// PageDown scrolls one screen forward.
func (v *Viewport) PageDown() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = max(0, min(v.topLine+v.height, v.lineCount-1))
}

// PageUp scrolls one screen back.
func (v *Viewport) PageUp() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = max(0, v.topLine-v.height)
}
