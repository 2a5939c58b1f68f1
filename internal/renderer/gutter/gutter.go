// Package gutter renders the line-number column to the left of the text.
// Line numbers are colored by diagnostic state and cursor position.
package gutter

import (
	"sync"

	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/theme"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// MinLineNumberWidth is the minimum number of digit columns.
	MinLineNumberWidth int

	// Padding is the number of blank columns after the numbers.
	Padding int
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinLineNumberWidth: 3,
		Padding:            1,
	}
}

// CellStyle describes how to style a gutter cell.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleCurrentLine
	StyleDim
	StyleError
	StyleWarning
)

// StyleForClass maps a diagnostic gutter class to a cell style.
func StyleForClass(c diagnostic.GutterClass) CellStyle {
	switch c {
	case diagnostic.GutterError:
		return StyleError
	case diagnostic.GutterWarning:
		return StyleWarning
	case diagnostic.GutterCurrent:
		return StyleCurrentLine
	default:
		return StyleNormal
	}
}

// Resolve returns the terminal style of a cell style in a palette.
func (s CellStyle) Resolve(p theme.Palette) core.Style {
	base := core.DefaultStyle().WithBackground(p.Background)
	switch s {
	case StyleCurrentLine:
		return base.WithForeground(p.LineNumberActive)
	case StyleError:
		return base.WithForeground(p.Error)
	case StyleWarning:
		return base.WithForeground(p.Warning)
	case StyleDim:
		return base.WithForeground(p.LineNumber).WithAttributes(core.AttrDim)
	default:
		return base.WithForeground(p.LineNumber)
	}
}

// Classifier decides the gutter class of a line.
type Classifier interface {
	GutterStyleFor(line, current int) diagnostic.GutterClass
}

// Gutter manages the gutter area rendering.
type Gutter struct {
	mu sync.RWMutex

	config Config

	width       int
	lineCount   int
	currentLine int

	classifier Classifier
}

// New creates a new gutter with the given configuration.
func New(config Config) *Gutter {
	return &Gutter{
		config:    config,
		lineCount: 1,
		width:     calculateWidth(config, 1),
	}
}

// Width returns the current gutter width.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// Config returns the current configuration.
func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the gutter configuration.
func (g *Gutter) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.width = calculateWidth(config, g.lineCount)
}

// SetLineCount updates the total line count (affects width calculation).
func (g *Gutter) SetLineCount(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineCount = count
	g.width = calculateWidth(g.config, count)
}

// SetCurrentLine updates the current cursor line.
func (g *Gutter) SetCurrentLine(line int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentLine = line
}

// SetClassifier sets the source of per-line diagnostic classes.
func (g *Gutter) SetClassifier(c Classifier) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.classifier = c
}

// StyleForLine returns the cell style of a line number.
func (g *Gutter) StyleForLine(line int) CellStyle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.styleForLine(line)
}

func (g *Gutter) styleForLine(line int) CellStyle {
	if g.classifier != nil {
		return StyleForClass(g.classifier.GutterStyleFor(line, g.currentLine))
	}
	if line == g.currentLine {
		return StyleCurrentLine
	}
	return StyleNormal
}

// RenderLine renders the gutter for a single line. exists is false for
// rows past the end of the document, which show a dim '~'.
func (g *Gutter) RenderLine(line int, exists bool, p theme.Palette) []core.Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return nil
	}

	var text string
	style := StyleDim
	if exists {
		text = FormatNumber(line + 1)
		style = g.styleForLine(line)
	} else {
		text = "~"
	}

	numWidth := g.width - g.config.Padding
	cells := core.CellsFromString(PadLeft(text, numWidth), style.Resolve(p))
	pad := core.NewStyledCell(' ', StyleNormal.Resolve(p))
	for len(cells) < g.width {
		cells = append(cells, pad)
	}
	return cells
}

// calculateWidth calculates the total gutter width.
func calculateWidth(config Config, lineCount int) int {
	if !config.ShowLineNumbers {
		return 0
	}
	return CalculateWidth(lineCount, config.MinLineNumberWidth) + max(config.Padding, 0)
}
