// Package input translates terminal key events into editor commands.
//
// The editor never sees toolkit key events. The Keymap resolves a key
// event to a Command, and Translate redirects keys to the completion
// popup while it is open.
//
// Bindings are written as strings:
//
//	"Ctrl+Z"      Ctrl with a key
//	"Shift+Tab"   Backtab
//	"<C-y>"       Vim-style notation
//	"Enter"       a named key
//	"a"           a single character
package input
