// Package statusline draws the bottom row: the file, its diagnostic
// counts and the cursor position, or a transient message.
package statusline

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dshills/mzedit/internal/renderer/backend"
	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/theme"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine holds what the bottom row shows. It is safe for concurrent
// use; the check runner updates it from its own goroutine.
type StatusLine struct {
	mu sync.Mutex

	filename   string
	modified   bool
	line       int // 1-indexed
	col        int // 1-indexed
	totalLines int

	errors   int
	warnings int
	checking bool

	message     string
	messageType MessageType
}

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{}
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modified = modified
}

// SetPosition updates the cursor position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line = line
	s.col = col
}

// SetTotalLines updates the total line count.
func (s *StatusLine) SetTotalLines(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalLines = total
}

// SetDiagnostics updates the error and warning counts.
func (s *StatusLine) SetDiagnostics(errors, warnings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = errors
	s.warnings = warnings
}

// SetChecking shows or hides the running-check indicator.
func (s *StatusLine) SetChecking(checking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checking = checking
}

// SetMessage displays a status message in place of the bar.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.SetMessage("", MessageNone)
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message, s.messageType
}

// Render draws the status line at row.
func (s *StatusLine) Render(b backend.Backend, row, width int, p theme.Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.message != "" {
		s.renderMessage(b, row, width, p)
		return
	}
	s.renderStatusBar(b, row, width, p)
}

func (s *StatusLine) renderStatusBar(b backend.Backend, row, width int, p theme.Palette) {
	barStyle := core.DefaultStyle().WithBackground(p.Selection).WithForeground(p.Foreground)
	for x := 0; x < width; x++ {
		b.SetCell(x, row, core.NewStyledCell(' ', barStyle))
	}

	name := filepath.Base(s.filename)
	if s.filename == "" {
		name = "[No Name]"
	}
	if s.modified {
		name += " [+]"
	}

	right := s.formatRight()
	col := 1
	for _, r := range name {
		if col >= width-len(right)-2 {
			break
		}
		b.SetCell(col, row, core.NewStyledCell(r, barStyle))
		col++
	}

	start := width - len(right) - 1
	if start <= col {
		return
	}
	x := start
	for _, r := range right {
		b.SetCell(x, row, core.NewStyledCell(r, barStyle))
		x++
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row, width int, p theme.Palette) {
	msgStyle := p.TextStyle()
	switch s.messageType {
	case MessageError:
		msgStyle = msgStyle.WithForeground(p.Error).WithAttributes(core.AttrBold)
	case MessageWarning:
		msgStyle = msgStyle.WithForeground(p.Warning)
	}

	x := 0
	for _, r := range s.message {
		if x >= width {
			break
		}
		b.SetCell(x, row, core.NewStyledCell(r, msgStyle))
		x++
	}
	for ; x < width; x++ {
		b.SetCell(x, row, core.NewStyledCell(' ', msgStyle))
	}
}

// formatRight formats the diagnostics and position shown on the right.
func (s *StatusLine) formatRight() string {
	line := max(s.line, 1)
	col := max(s.col, 1)

	out := fmt.Sprintf("Ln %d, Col %d", line, col)
	if s.totalLines > 0 {
		switch {
		case line == 1:
			out += " | Top"
		case line >= s.totalLines:
			out += " | Bot"
		default:
			out += fmt.Sprintf(" | %d%%", line*100/s.totalLines)
		}
	}
	if s.errors > 0 || s.warnings > 0 {
		out = fmt.Sprintf("E%d W%d  ", s.errors, s.warnings) + out
	}
	if s.checking {
		out = "checking  " + out
	}
	return out
}
