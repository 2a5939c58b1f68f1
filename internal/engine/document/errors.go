package document

import "errors"

// Errors returned by document operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrLineOutOfRange indicates a line index outside [0, LineCount()).
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrGroupNotOpen indicates EndGroup was called without BeginGroup.
	ErrGroupNotOpen = errors.New("no edit group open")
)
