package input

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/mzedit/internal/renderer/backend"
)

// Keymap maps key presses to commands. Unbound printable runes insert
// themselves.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[Binding]Command
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[Binding]Command)}
}

// DefaultKeymap returns the standard bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	defaults := []struct {
		spec string
		cmd  Command
	}{
		{"Tab", CmdInsertIndent},
		{"Shift+Tab", CmdShiftLeft},
		{"Alt+Right", CmdShiftRight},
		{"Alt+Left", CmdShiftLeft},
		{"Enter", CmdNewlineAutoIndent},
		{"Backspace", CmdBackspace},
		{"Delete", CmdDelete},
		{"Left", CmdMoveLeft},
		{"Right", CmdMoveRight},
		{"Up", CmdMoveUp},
		{"Down", CmdMoveDown},
		{"Home", CmdLineStart},
		{"End", CmdLineEnd},
		{"PageUp", CmdPageUp},
		{"PageDown", CmdPageDown},
		{"Ctrl+Space", CmdTriggerCompletion},
		{"Escape", CmdEscape},
		{"Ctrl+Z", CmdUndo},
		{"Ctrl+Y", CmdRedo},
		{"Ctrl+S", CmdSave},
		{"Ctrl+Q", CmdQuit},
	}
	for _, d := range defaults {
		if err := km.Bind(d.spec, d.cmd); err != nil {
			panic(fmt.Sprintf("input: bad default binding %q: %v", d.spec, err))
		}
	}
	return km
}

// Bind binds a key specification to a command.
func (k *Keymap) Bind(spec string, cmd Command) error {
	b, err := ParseBinding(spec)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[b] = cmd
	return nil
}

// BindNames applies a map of key specification to command name, as read
// from a configuration file. Every entry is tried; the first error is
// returned.
func (k *Keymap) BindNames(names map[string]string) error {
	specs := make([]string, 0, len(names))
	for spec := range names {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	var first error
	for _, spec := range specs {
		cmd, ok := CommandFromName(names[spec])
		if !ok {
			if first == nil {
				first = fmt.Errorf("%w: %q for %s", ErrUnknownCommand, names[spec], spec)
			}
			continue
		}
		if err := k.Bind(spec, cmd); err != nil && first == nil {
			first = fmt.Errorf("binding %q: %w", spec, err)
		}
	}
	return first
}

// Lookup returns the command bound to a key event.
func (k *Keymap) Lookup(ev backend.Event) (Action, bool) {
	if ev.Type != backend.EventKey {
		return Action{}, false
	}
	b := bindingFromEvent(ev)

	k.mu.RLock()
	cmd, ok := k.bindings[b]
	k.mu.RUnlock()
	if ok {
		return Action{Command: cmd}, true
	}

	if b.Key == backend.KeyRune && b.Mod&(backend.ModCtrl|backend.ModAlt) == 0 {
		return Action{Command: CmdInsertRune, Rune: ev.Rune}, true
	}
	return Action{}, false
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.bindings)
}
