package input

import "errors"

// Parse errors
var (
	ErrEmptySpec      = errors.New("empty key specification")
	ErrInvalidSpec    = errors.New("invalid key specification")
	ErrUnknownCommand = errors.New("unknown command")
)
