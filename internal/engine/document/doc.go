// Package document provides the line-indexed text model that the editing
// engine operates on.
//
// A Document stores its content as an ordered sequence of lines. Positions
// are expressed either as absolute character offsets (runes, with every line
// separator counting as one character) or as a Point (0-indexed line and
// column). The package provides:
//
//   - Offset <-> Point conversion
//   - Replace/Insert/Delete edits that report which lines changed
//   - Atomic edit groups that undo and redo as a single step
//   - An ordered list of change subscribers
//
// Change notifications describe a splice of the line sequence: the lines
// [Line, Line+Removed) of the previous content were replaced by the lines
// [Line, Line+Inserted) of the new content. Consumers that keep per-line
// caches apply the same splice to stay aligned with the document.
//
// Basic usage:
//
//	doc := document.New("constraint x < y;\nsolve satisfy;")
//	doc.Subscribe(func(c document.Change) {
//	    // invalidate caches for c.Line .. c.Line+c.Inserted
//	})
//	_ = doc.Group("indent", func() error {
//	    _, err := doc.Insert(0, "  ")
//	    return err
//	})
//	_ = doc.Undo()
package document
