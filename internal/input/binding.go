package input

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/mzedit/internal/renderer/backend"
)

// Binding identifies a key press.
type Binding struct {
	Key  backend.Key
	Rune rune
	Mod  backend.ModMask
}

// String returns the binding in "Ctrl+Z" form.
func (b Binding) String() string {
	var sb strings.Builder
	if b.Mod.Has(backend.ModCtrl) {
		sb.WriteString("Ctrl+")
	}
	if b.Mod.Has(backend.ModAlt) {
		sb.WriteString("Alt+")
	}
	if b.Mod.Has(backend.ModShift) {
		sb.WriteString("Shift+")
	}
	if b.Key == backend.KeyRune {
		sb.WriteRune(b.Rune)
	} else {
		sb.WriteString(keyNames[b.Key])
	}
	return sb.String()
}

var keyNames = map[backend.Key]string{
	backend.KeyEscape:    "Escape",
	backend.KeyEnter:     "Enter",
	backend.KeyTab:       "Tab",
	backend.KeyBacktab:   "Backtab",
	backend.KeyBackspace: "Backspace",
	backend.KeyDelete:    "Delete",
	backend.KeyHome:      "Home",
	backend.KeyEnd:       "End",
	backend.KeyPageUp:    "PageUp",
	backend.KeyPageDown:  "PageDown",
	backend.KeyUp:        "Up",
	backend.KeyDown:      "Down",
	backend.KeyLeft:      "Left",
	backend.KeyRight:     "Right",
}

// bindingFromEvent normalizes a key event. Terminals report Ctrl+letter
// as dedicated keys, which are folded back to the letter with ModCtrl.
func bindingFromEvent(ev backend.Event) Binding {
	switch ev.Key {
	case backend.KeyRune:
		return Binding{Key: backend.KeyRune, Rune: ev.Rune, Mod: ev.Mod &^ backend.ModShift}
	case backend.KeyCtrlSpace:
		return Binding{Key: backend.KeyRune, Rune: ' ', Mod: backend.ModCtrl}
	case backend.KeyCtrlQ:
		return Binding{Key: backend.KeyRune, Rune: 'q', Mod: backend.ModCtrl}
	case backend.KeyCtrlS:
		return Binding{Key: backend.KeyRune, Rune: 's', Mod: backend.ModCtrl}
	case backend.KeyCtrlY:
		return Binding{Key: backend.KeyRune, Rune: 'y', Mod: backend.ModCtrl}
	case backend.KeyCtrlZ:
		return Binding{Key: backend.KeyRune, Rune: 'z', Mod: backend.ModCtrl}
	case backend.KeyBacktab:
		return Binding{Key: backend.KeyBacktab}
	}
	return Binding{Key: ev.Key, Mod: ev.Mod}
}

// ParseBinding parses a key specification.
//
// Supported formats:
//   - Single character: "a", "}", "1"
//   - Named keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+S", "Alt+Left", "Shift+Tab"
//   - Vim-style: "<C-s>", "<CR>", "<Esc>", "<S-Tab>"
func ParseBinding(spec string) (Binding, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Binding{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKey(spec, backend.ModNone)
}

// parseVimStyle parses notation like "C-s", "S-Tab", "CR".
func parseVimStyle(inner string) (Binding, error) {
	parts := strings.Split(strings.TrimSpace(inner), "-")
	var mods backend.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			mods |= backend.ModCtrl
		case "a", "m":
			mods |= backend.ModAlt
		case "s":
			mods |= backend.ModShift
		default:
			return Binding{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return parseKey(parts[len(parts)-1], mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Binding, error) {
	parts := strings.Split(spec, "+")
	var mods backend.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control", "c":
			mods |= backend.ModCtrl
		case "alt", "opt", "option", "meta", "m":
			mods |= backend.ModAlt
		case "shift", "s":
			mods |= backend.ModShift
		default:
			return Binding{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return parseKey(parts[len(parts)-1], mods)
}

// parseKey parses a key name or single character with known modifiers.
func parseKey(name string, mods backend.ModMask) (Binding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Binding{}, ErrInvalidSpec
	}

	var k backend.Key
	switch strings.ToLower(name) {
	case "cr", "return", "enter":
		k = backend.KeyEnter
	case "esc", "escape":
		k = backend.KeyEscape
	case "tab":
		if mods.Has(backend.ModShift) {
			return Binding{Key: backend.KeyBacktab}, nil
		}
		k = backend.KeyTab
	case "backtab":
		return Binding{Key: backend.KeyBacktab}, nil
	case "bs", "backspace":
		k = backend.KeyBackspace
	case "del", "delete":
		k = backend.KeyDelete
	case "home":
		k = backend.KeyHome
	case "end":
		k = backend.KeyEnd
	case "pageup", "pgup":
		k = backend.KeyPageUp
	case "pagedown", "pgdn":
		k = backend.KeyPageDown
	case "up":
		k = backend.KeyUp
	case "down":
		k = backend.KeyDown
	case "left":
		k = backend.KeyLeft
	case "right":
		k = backend.KeyRight
	case "space":
		return Binding{Key: backend.KeyRune, Rune: ' ', Mod: mods &^ backend.ModShift}, nil
	}
	if k != backend.KeyNone {
		return Binding{Key: k, Mod: mods}, nil
	}

	runes := []rune(name)
	if len(runes) != 1 {
		return Binding{}, fmt.Errorf("%w: %q", ErrInvalidSpec, name)
	}
	r := runes[0]
	if mods.Has(backend.ModCtrl) {
		r = unicode.ToLower(r)
	}
	return Binding{Key: backend.KeyRune, Rune: r, Mod: mods &^ backend.ModShift}, nil
}
