package input

// Command is an abstract editor action.
type Command uint8

const (
	CmdNone Command = iota
	CmdInsertRune
	CmdInsertIndent
	CmdShiftLeft
	CmdShiftRight
	CmdNewlineAutoIndent
	CmdBackspace
	CmdDelete
	CmdMoveLeft
	CmdMoveRight
	CmdMoveUp
	CmdMoveDown
	CmdLineStart
	CmdLineEnd
	CmdPageUp
	CmdPageDown
	CmdTriggerCompletion
	CmdAcceptCompletion
	CmdCompletionNext
	CmdCompletionPrev
	CmdDismissCompletion
	CmdEscape
	CmdUndo
	CmdRedo
	CmdSave
	CmdQuit
)

var commandNames = map[Command]string{
	CmdNone:              "none",
	CmdInsertRune:        "insert-rune",
	CmdInsertIndent:      "insert-indent",
	CmdShiftLeft:         "shift-left",
	CmdShiftRight:        "shift-right",
	CmdNewlineAutoIndent: "newline",
	CmdBackspace:         "backspace",
	CmdDelete:            "delete",
	CmdMoveLeft:          "move-left",
	CmdMoveRight:         "move-right",
	CmdMoveUp:            "move-up",
	CmdMoveDown:          "move-down",
	CmdLineStart:         "line-start",
	CmdLineEnd:           "line-end",
	CmdPageUp:            "page-up",
	CmdPageDown:          "page-down",
	CmdTriggerCompletion: "complete",
	CmdAcceptCompletion:  "accept-completion",
	CmdCompletionNext:    "completion-next",
	CmdCompletionPrev:    "completion-prev",
	CmdDismissCompletion: "dismiss-completion",
	CmdEscape:            "escape",
	CmdUndo:              "undo",
	CmdRedo:              "redo",
	CmdSave:              "save",
	CmdQuit:              "quit",
}

// String returns the command's binding name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// CommandFromName returns the command with the given binding name.
func CommandFromName(name string) (Command, bool) {
	for c, n := range commandNames {
		if n == name {
			return c, true
		}
	}
	return CmdNone, false
}

// Action is a resolved command. Rune is set for CmdInsertRune.
type Action struct {
	Command Command
	Rune    rune
}
