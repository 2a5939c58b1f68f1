package editor

import "errors"

var (
	// ErrClosed is returned by operations on a closed editor.
	ErrClosed = errors.New("editor is closed")

	// ErrUnsupportedCommand is returned for commands the host handles,
	// such as save and quit.
	ErrUnsupportedCommand = errors.New("command not handled by the editor")
)
