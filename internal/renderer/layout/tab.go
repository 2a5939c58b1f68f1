package layout

// TabExpander provides tab expansion utilities.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// SetTabWidth sets the tab width.
func (t *TabExpander) SetTabWidth(width int) {
	if width < 1 {
		width = 1
	}
	t.tabWidth = width
}

// NextTabStop returns the next tab stop column after the given column.
func (t *TabExpander) NextTabStop(col int) int {
	return col + t.tabWidth - (col % t.tabWidth)
}

// ExpandedWidth calculates the visual width of a string with tab expansion.
func (t *TabExpander) ExpandedWidth(s string) int {
	return t.VisualColumn(s, -1)
}

// VisualColumn converts a rune column of s to a visual column. A negative
// or too large column yields the width of the whole string.
func (t *TabExpander) VisualColumn(s string, runeCol int) int {
	vis := 0
	i := 0
	for _, r := range s {
		if i == runeCol {
			return vis
		}
		vis = t.advance(vis, r)
		i++
	}
	return vis
}

// RuneColumn converts a visual column of s to the rune column of the
// character covering it. Columns past the end map past the last rune.
func (t *TabExpander) RuneColumn(s string, visualCol int) int {
	vis := 0
	i := 0
	for _, r := range s {
		next := t.advance(vis, r)
		if visualCol < next {
			return i
		}
		vis = next
		i++
	}
	return i + max(0, visualCol-vis)
}

func (t *TabExpander) advance(col int, r rune) int {
	if r == '\t' {
		return t.NextTabStop(col)
	}
	return col + max(runeCells(r), 0)
}
