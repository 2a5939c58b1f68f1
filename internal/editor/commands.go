package editor

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/engine/indent"
	"github.com/dshills/mzedit/internal/input"
	"github.com/dshills/mzedit/internal/logging"
)

// Execute runs one command against the editor.
func (e *Editor) Execute(a input.Action) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}

	var escape []func()
	err := e.execute(a)
	if a.Command == input.CmdEscape {
		escape = append(escape, e.escapeSubs...)
	}
	e.mu.Unlock()

	if err != nil && !errors.Is(err, ErrUnsupportedCommand) {
		e.logger.Debug("command failed", logging.FieldCommand, a.Command, logging.FieldError, err)
	}
	for _, fn := range escape {
		fn()
	}
	return err
}

func (e *Editor) execute(a input.Action) error {
	cfg := e.cfg.Indent()

	switch a.Command {
	case input.CmdInsertRune:
		if err := e.replaceSelection(string(a.Rune)); err != nil {
			return err
		}
		e.afterTyping(a.Rune)
		return nil

	case input.CmdInsertIndent:
		return e.applyIndent(indent.Tab(e.doc, e.sel, cfg))
	case input.CmdShiftLeft:
		return e.applyIndent(indent.Backtab(e.doc, e.sel, cfg))
	case input.CmdShiftRight:
		return e.applyIndent(indent.Shift(e.doc, e.sel, 1, cfg))
	case input.CmdNewlineAutoIndent:
		return e.applyIndent(indent.Newline(e.doc, e.sel))

	case input.CmdBackspace:
		return e.deleteBackward()
	case input.CmdDelete:
		return e.deleteForward()

	case input.CmdMoveLeft:
		e.hideCompletion()
		if !e.sel.IsEmpty() {
			e.moveTo(e.sel.Start(), false)
		} else {
			e.moveTo(e.sel.Head-1, false)
		}
	case input.CmdMoveRight:
		e.hideCompletion()
		if !e.sel.IsEmpty() {
			e.moveTo(e.sel.End(), false)
		} else {
			e.moveTo(e.sel.Head+1, false)
		}
	case input.CmdMoveUp:
		e.hideCompletion()
		e.moveVertical(-1)
	case input.CmdMoveDown:
		e.hideCompletion()
		e.moveVertical(1)
	case input.CmdPageUp:
		e.hideCompletion()
		e.moveVertical(-e.pageSize)
	case input.CmdPageDown:
		e.hideCompletion()
		e.moveVertical(e.pageSize)
	case input.CmdLineStart:
		e.hideCompletion()
		e.moveTo(e.lineHome(), false)
	case input.CmdLineEnd:
		e.hideCompletion()
		p := e.doc.OffsetToPoint(e.sel.Head)
		e.moveTo(e.doc.LineStart(p.Line)+e.doc.LineLen(p.Line), false)

	case input.CmdTriggerCompletion:
		start, word := e.wordBefore(e.sel.Head)
		e.openCompletion(start, word)
	case input.CmdAcceptCompletion:
		return e.acceptCompletion()
	case input.CmdCompletionNext:
		e.cycleCompletion(1)
	case input.CmdCompletionPrev:
		e.cycleCompletion(-1)
	case input.CmdDismissCompletion:
		e.hideCompletion()

	case input.CmdEscape:
		e.hideCompletion()

	case input.CmdUndo:
		return e.history(e.doc.Undo)
	case input.CmdRedo:
		return e.history(e.doc.Redo)

	case input.CmdNone:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, a.Command)
	}
	return nil
}

func (e *Editor) applyIndent(sel document.Selection, err error) error {
	e.hideCompletion()
	if err != nil {
		return err
	}
	e.setSelection(sel)
	e.goalCol = e.doc.OffsetToPoint(e.sel.Head).Column
	return nil
}

// lineHome moves to the first non-blank character, or to column 0 when
// already there.
func (e *Editor) lineHome() int {
	p := e.doc.OffsetToPoint(e.sel.Head)
	start := e.doc.LineStart(p.Line)
	lead := utf8.RuneCountInString(indent.Leading(e.doc.Line(p.Line)))
	if p.Column == lead {
		return start
	}
	return start + lead
}

func (e *Editor) replaceSelection(text string) error {
	start, end := e.sel.Start(), e.sel.End()
	if err := e.doc.Replace(start, end, text); err != nil {
		return err
	}
	e.moveTo(start+utf8.RuneCountInString(text), false)
	return nil
}

func (e *Editor) deleteBackward() error {
	if !e.sel.IsEmpty() {
		e.hideCompletion()
		return e.replaceSelection("")
	}
	if e.sel.Head == 0 {
		return nil
	}
	head := e.sel.Head
	if err := e.doc.Delete(head-1, head); err != nil {
		return err
	}
	e.moveTo(head-1, false)
	if e.completion.Visible {
		start, word := e.wordBefore(e.sel.Head)
		if len([]rune(word)) >= minPrefix {
			e.openCompletion(start, word)
		} else {
			e.hideCompletion()
		}
	}
	return nil
}

func (e *Editor) deleteForward() error {
	e.hideCompletion()
	if !e.sel.IsEmpty() {
		return e.replaceSelection("")
	}
	head := e.sel.Head
	if head >= e.doc.Len() {
		return nil
	}
	if err := e.doc.Delete(head, head+1); err != nil {
		return err
	}
	e.moveTo(head, false)
	return nil
}

// history runs Undo or Redo and places the cursor on the changed line.
func (e *Editor) history(fn func() error) error {
	e.hideCompletion()
	col := e.doc.OffsetToPoint(e.sel.Head).Column
	e.lastChange = document.Change{Line: -1}
	if err := fn(); err != nil {
		return err
	}
	line := e.doc.OffsetToPoint(e.sel.Head).Line
	if e.lastChange.Line >= 0 {
		line = min(e.lastChange.Line, e.doc.LineCount()-1)
	}
	col = min(col, e.doc.LineLen(line))
	e.moveTo(e.doc.PointToOffset(document.Point{Line: line, Column: col}), false)
	return nil
}
