// Package indent implements tab insertion, block shifting and
// auto-indentation for documents indented with tabs or spaces.
//
// Every operation takes the current selection and returns where the
// selection should be after the edit. Multi-line rewrites are applied as
// a single edit group so they undo in one step.
package indent

import (
	"strings"
	"unicode"

	"github.com/dshills/mzedit/internal/engine/document"
)

// Config holds indentation settings.
type Config struct {
	// IndentSize is the width of one indent level in columns.
	IndentSize int

	// UseTabs selects tab characters for indentation.
	UseTabs bool
}

// DefaultConfig returns two-space indentation.
func DefaultConfig() Config {
	return Config{IndentSize: 2}
}

func (c Config) size() int {
	if c.IndentSize < 1 {
		return 1
	}
	return c.IndentSize
}

// Document is the editable text the engine operates on.
type Document interface {
	LineCount() int
	Line(i int) string
	LineStart(i int) int
	OffsetToPoint(off int) document.Point
	PointToOffset(p document.Point) int
	Replace(start, end int, text string) error
	Group(name string, fn func() error) error
}

// Width measures the leading whitespace of line. A tab advances to the
// next multiple of size strictly beyond the current column and any other
// whitespace advances by one. It returns the width in columns and the
// number of whitespace characters.
func Width(line string, size int) (width, n int) {
	if size < 1 {
		size = 1
	}
	for _, r := range line {
		switch {
		case r == '\t':
			width = size * ((width + size) / size)
		case unicode.IsSpace(r):
			width++
		default:
			return width, n
		}
		n++
	}
	return width, n
}

// Build returns the whitespace for an indent of width columns.
func Build(width int, cfg Config) string {
	width = max(0, width)
	if !cfg.UseTabs {
		return strings.Repeat(" ", width)
	}
	size := cfg.size()
	return strings.Repeat("\t", width/size) + strings.Repeat(" ", width%size)
}

// Leading returns the run of whitespace at the start of line.
func Leading(line string) string {
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	return line[:len(line)-len(rest)]
}

// SpacesToStop returns how many spaces a soft tab inserts given the text
// of the line before the cursor. The count restarts after every tab and
// stops at the first non-whitespace character; the result is always
// between 1 and size.
func SpacesToStop(before string, size int) int {
	if size < 1 {
		size = 1
	}
	dist := 0
	for _, r := range before {
		if r == '\t' {
			dist = 0
		} else if unicode.IsSpace(r) {
			dist++
		} else {
			break
		}
	}
	n := dist % size
	if n == 0 {
		n = size
	}
	return n
}
