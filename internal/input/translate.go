package input

import "github.com/dshills/mzedit/internal/renderer/backend"

// Translate resolves a key event. While the completion popup is visible
// it owns Enter, Tab, Backtab, Escape and the vertical arrows.
func (k *Keymap) Translate(ev backend.Event, completionVisible bool) (Action, bool) {
	if ev.Type != backend.EventKey {
		return Action{}, false
	}
	if completionVisible {
		switch ev.Key {
		case backend.KeyEnter, backend.KeyTab:
			return Action{Command: CmdAcceptCompletion}, true
		case backend.KeyBacktab, backend.KeyUp:
			return Action{Command: CmdCompletionPrev}, true
		case backend.KeyDown:
			return Action{Command: CmdCompletionNext}, true
		case backend.KeyEscape:
			return Action{Command: CmdDismissCompletion}, true
		}
	}
	return k.Lookup(ev)
}
