// Package theme defines editor color themes with light and dark variants
// and loads them from YAML files.
package theme

import (
	"sort"
	"sync"

	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/highlight"
)

// Palette is the set of colors for one mode of a theme.
type Palette struct {
	Background       core.Color
	Foreground       core.Color
	LineNumber       core.Color
	LineNumberActive core.Color
	CurrentLine      core.Color
	Selection        core.Color
	Error            core.Color
	Warning          core.Color
	BracketMatch     core.Color
	BracketMismatch  core.Color

	// Tokens maps syntax token types to foreground colors.
	Tokens map[highlight.TokenType]core.Color
}

// TokenStyle returns the style for a syntax token.
func (p Palette) TokenStyle(t highlight.TokenType) core.Style {
	fg, ok := p.Tokens[t]
	if !ok {
		fg = p.Foreground
	}
	return core.DefaultStyle().WithForeground(fg)
}

// TextStyle returns the plain text style.
func (p Palette) TextStyle() core.Style {
	return core.DefaultStyle().WithForeground(p.Foreground).WithBackground(p.Background)
}

// Theme is a named pair of palettes.
type Theme struct {
	Name  string
	Light Palette
	Dark  Palette
}

// Palette returns the palette for the given mode.
func (t *Theme) Palette(dark bool) Palette {
	if dark {
		return t.Dark
	}
	return t.Light
}

// Default returns the built-in theme.
func Default() *Theme {
	return &Theme{
		Name: "default",
		Light: Palette{
			Background:       core.MustHex("#ffffff"),
			Foreground:       core.MustHex("#000000"),
			LineNumber:       core.MustHex("#a0a0a0"),
			LineNumberActive: core.MustHex("#000000"),
			CurrentLine:      core.MustHex("#f0f0f0"),
			Selection:        core.MustHex("#b4d5fe"),
			Error:            core.MustHex("#ff0000"),
			Warning:          core.MustHex("#ffa500"),
			BracketMatch:     core.MustHex("#b4eeb4"),
			BracketMismatch:  core.MustHex("#ffb6c1"),
			Tokens: map[highlight.TokenType]core.Color{
				highlight.TokenComment:         core.MustHex("#008000"),
				highlight.TokenString:          core.MustHex("#a31515"),
				highlight.TokenNumber:          core.MustHex("#098658"),
				highlight.TokenKeyword:         core.MustHex("#0000ff"),
				highlight.TokenTypeBuiltin:     core.MustHex("#267f99"),
				highlight.TokenFunctionBuiltin: core.MustHex("#795e26"),
			},
		},
		Dark: Palette{
			Background:       core.MustHex("#181818"),
			Foreground:       core.MustHex("#d4d4d4"),
			LineNumber:       core.MustHex("#5a5a5a"),
			LineNumberActive: core.MustHex("#d4d4d4"),
			CurrentLine:      core.MustHex("#262626"),
			Selection:        core.MustHex("#264f78"),
			Error:            core.MustHex("#f44747"),
			Warning:          core.MustHex("#cca700"),
			BracketMatch:     core.MustHex("#2e5c2e"),
			BracketMismatch:  core.MustHex("#7a2e2e"),
			Tokens: map[highlight.TokenType]core.Color{
				highlight.TokenComment:         core.MustHex("#6a9955"),
				highlight.TokenString:          core.MustHex("#ce9178"),
				highlight.TokenNumber:          core.MustHex("#b5cea8"),
				highlight.TokenKeyword:         core.MustHex("#569cd6"),
				highlight.TokenTypeBuiltin:     core.MustHex("#4ec9b0"),
				highlight.TokenFunctionBuiltin: core.MustHex("#dcdcaa"),
			},
		},
	}
}

// Registry manages available themes.
type Registry struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current string
}

// NewRegistry creates a registry holding the built-in theme.
func NewRegistry() *Registry {
	r := &Registry{themes: make(map[string]*Theme)}
	r.Register(Default())
	r.current = "default"
	return r
}

// Register adds or replaces a theme.
func (r *Registry) Register(t *Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[t.Name] = t
}

// Get returns a theme by name.
func (r *Registry) Get(name string) (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[name]
	return t, ok
}

// Current returns the active theme.
func (r *Registry) Current() *Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.themes[r.current]
}

// SetCurrent activates a registered theme. It returns false if the name
// is unknown.
func (r *Registry) SetCurrent(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.themes[name]; !ok {
		return false
	}
	r.current = name
	return true
}

// Names returns the sorted theme names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
