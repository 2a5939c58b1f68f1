package theme

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/highlight"
)

// ErrNoName is returned for a theme file without a name.
var ErrNoName = errors.New("theme has no name")

type fileTheme struct {
	Name  string      `yaml:"name"`
	Light filePalette `yaml:"light"`
	Dark  filePalette `yaml:"dark"`
}

type filePalette struct {
	Background       string            `yaml:"background"`
	Foreground       string            `yaml:"foreground"`
	LineNumber       string            `yaml:"line_number"`
	LineNumberActive string            `yaml:"line_number_active"`
	CurrentLine      string            `yaml:"current_line"`
	Selection        string            `yaml:"selection"`
	Error            string            `yaml:"error"`
	Warning          string            `yaml:"warning"`
	BracketMatch     string            `yaml:"bracket_match"`
	BracketMismatch  string            `yaml:"bracket_mismatch"`
	Tokens           map[string]string `yaml:"tokens"`
}

// LoadFile reads a YAML theme file.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML theme. Colors left out fall back to the
// built-in theme.
func Parse(data []byte) (*Theme, error) {
	var ft fileTheme
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	if ft.Name == "" {
		return nil, ErrNoName
	}

	base := Default()
	light, err := ft.Light.resolve(base.Light)
	if err != nil {
		return nil, fmt.Errorf("light: %w", err)
	}
	dark, err := ft.Dark.resolve(base.Dark)
	if err != nil {
		return nil, fmt.Errorf("dark: %w", err)
	}
	return &Theme{Name: ft.Name, Light: light, Dark: dark}, nil
}

func (fp filePalette) resolve(base Palette) (Palette, error) {
	p := base
	fields := []struct {
		key string
		val string
		dst *core.Color
	}{
		{"background", fp.Background, &p.Background},
		{"foreground", fp.Foreground, &p.Foreground},
		{"line_number", fp.LineNumber, &p.LineNumber},
		{"line_number_active", fp.LineNumberActive, &p.LineNumberActive},
		{"current_line", fp.CurrentLine, &p.CurrentLine},
		{"selection", fp.Selection, &p.Selection},
		{"error", fp.Error, &p.Error},
		{"warning", fp.Warning, &p.Warning},
		{"bracket_match", fp.BracketMatch, &p.BracketMatch},
		{"bracket_mismatch", fp.BracketMismatch, &p.BracketMismatch},
	}
	for _, f := range fields {
		if f.val == "" {
			continue
		}
		c, err := core.ColorFromHex(f.val)
		if err != nil {
			return p, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = c
	}

	p.Tokens = make(map[highlight.TokenType]core.Color, len(base.Tokens))
	for k, v := range base.Tokens {
		p.Tokens[k] = v
	}
	for scope, hex := range fp.Tokens {
		typ := highlight.TokenTypeFromString(scope)
		if typ == highlight.TokenNone {
			return p, fmt.Errorf("unknown token scope %q", scope)
		}
		c, err := core.ColorFromHex(hex)
		if err != nil {
			return p, fmt.Errorf("tokens.%s: %w", scope, err)
		}
		p.Tokens[typ] = c
	}
	return p, nil
}
