package logging

// Structured logging keys.
const (
	FieldEditor   = "editor"
	FieldPath     = "path"
	FieldLine     = "line"
	FieldColumn   = "col"
	FieldOffset   = "offset"
	FieldCount    = "count"
	FieldDropped  = "dropped"
	FieldSeverity = "severity"
	FieldMessage  = "message"
	FieldError    = "error"
	FieldCommand  = "command"
	FieldRevision = "revision"
	FieldTheme    = "theme"
	FieldVersion  = "version"
)
