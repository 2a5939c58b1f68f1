package analysis

import "errors"

var (
	// ErrNoCompiler is returned when no compiler executable is configured.
	ErrNoCompiler = errors.New("no compiler configured")

	// ErrCompilerFailed is returned when the compiler exits without
	// producing any messages.
	ErrCompilerFailed = errors.New("compiler failed")
)
