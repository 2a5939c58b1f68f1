package renderer

import (
	"sync"

	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/renderer/backend"
	"github.com/dshills/mzedit/internal/renderer/core"
	"github.com/dshills/mzedit/internal/renderer/gutter"
	"github.com/dshills/mzedit/internal/renderer/heat"
	"github.com/dshills/mzedit/internal/renderer/highlight"
	"github.com/dshills/mzedit/internal/renderer/layout"
	"github.com/dshills/mzedit/internal/renderer/overlay"
	"github.com/dshills/mzedit/internal/renderer/statusline"
	"github.com/dshills/mzedit/internal/renderer/theme"
	"github.com/dshills/mzedit/internal/renderer/viewport"
)

// Source provides everything the renderer reads from an editor.
type Source interface {
	LineCount() int
	Line(i int) string
	LineStart(i int) int
	Cursor() document.Point
	SpansForLine(lineStart, lineEnd int) []overlay.LineSpan
	GutterStyleFor(line, current int) diagnostic.GutterClass
}

// CompletionSource is implemented by sources that offer a completion
// popup.
type CompletionSource interface {
	CompletionItems() (items []string, selected int, visible bool)
}

// popupRows is the most completion items shown at once.
const popupRows = 8

// Options configures the renderer.
type Options struct {
	ShowLineNumbers bool
	TabWidth        int
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers: true,
		TabWidth:        2,
	}
}

// Renderer is the main rendering facade.
type Renderer struct {
	mu sync.Mutex

	opts    Options
	backend backend.Backend
	width   int
	height  int

	source  Source
	heat    *heat.Overlay
	status  *statusline.StatusLine
	palette theme.Palette
	dark    bool

	viewport *viewport.Viewport
	gutter   *gutter.Gutter
	tabs     *layout.TabExpander
	lexer    *highlight.Lexer

	frameCount uint64
}

// New creates a new renderer with the given backend and options.
func New(b backend.Backend, opts Options) *Renderer {
	width, height := b.Size()
	gcfg := gutter.DefaultConfig()
	gcfg.ShowLineNumbers = opts.ShowLineNumbers

	return &Renderer{
		opts:     opts,
		backend:  b,
		width:    width,
		height:   height,
		palette:  theme.Default().Light,
		viewport: viewport.NewViewport(width, height),
		gutter:   gutter.New(gcfg),
		tabs:     layout.NewTabExpander(opts.TabWidth),
		lexer:    highlight.NewLexer(),
	}
}

// SetSource sets the editor to draw.
func (r *Renderer) SetSource(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = src
	r.gutter.SetClassifier(src)
}

// SetHeat sets the statistics overlay. nil hides it.
func (r *Renderer) SetHeat(h *heat.Overlay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heat = h
}

// SetStatusLine reserves the bottom row for s. nil gives the row back
// to the text.
func (r *Renderer) SetStatusLine(s *statusline.StatusLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = s
}

// SetPalette sets the colors used for the next frame.
func (r *Renderer) SetPalette(p theme.Palette, dark bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.palette = p
	r.dark = dark
}

// SetTabWidth sets the display width of a tab.
func (r *Renderer) SetTabWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.TabWidth = width
	r.tabs.SetTabWidth(width)
}

// Resize updates the screen size.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
}

// Viewport returns the viewport.
func (r *Renderer) Viewport() *viewport.Viewport {
	return r.viewport
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// GutterWidth returns the width of everything left of the text.
func (r *Renderer) GutterWidth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gutterWidth()
}

func (r *Renderer) gutterWidth() int {
	return r.gutter.Width() + r.heatWidth()
}

func (r *Renderer) heatWidth() int {
	if r.heat == nil {
		return 0
	}
	return r.heat.Width()
}

// Render draws one frame.
func (r *Renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.source == nil {
		r.backend.Clear()
		r.backend.HideCursor()
		r.backend.Show()
		return
	}

	src := r.source
	lineCount := src.LineCount()
	cursor := src.Cursor()

	r.gutter.SetLineCount(lineCount)
	r.gutter.SetCurrentLine(cursor.Line)

	header := 0
	if r.heatWidth() > 0 {
		header = 1
	}
	footer := 0
	if r.status != nil {
		footer = 1
	}
	rows := max(r.height-header-footer, 1)
	left := r.gutterWidth()
	textWidth := max(r.width-left, 1)

	r.viewport.Resize(textWidth, rows)
	r.viewport.SetLineCount(lineCount)
	cursorVis := r.tabs.VisualColumn(src.Line(cursor.Line), cursor.Column)
	r.viewport.ScrollToReveal(cursor.Line, cursorVis)

	if header > 0 {
		r.renderHeader()
	}

	top := r.viewport.TopLine()
	state := r.lexerStateAt(top)
	for row := 0; row < rows; row++ {
		line := top + row
		y := row + header
		if line >= lineCount {
			r.renderFiller(line, y)
			continue
		}
		state = r.renderLine(line, y, state)
	}

	if footer > 0 {
		r.status.SetPosition(cursor.Line+1, cursorVis+1)
		r.status.SetTotalLines(lineCount)
		r.status.Render(r.backend, r.height-1, r.width, r.palette)
	}
	if cs, ok := src.(CompletionSource); ok {
		r.renderPopup(cs, cursor, cursorVis, header, rows)
	}
	r.renderCursor(cursor, cursorVis, header)
	r.backend.Show()
	r.frameCount++
}

// lexerStateAt scans the lines above line to find the lexer state that
// line starts in.
func (r *Renderer) lexerStateAt(line int) highlight.LexerState {
	state := highlight.LexerStateNormal
	for i := 0; i < line; i++ {
		_, state = r.lexer.HighlightLine(r.source.Line(i), state)
	}
	return state
}

func (r *Renderer) renderHeader() {
	x := 0
	blank := core.NewStyledCell(' ', r.palette.TextStyle())
	for ; x < r.gutter.Width(); x++ {
		r.backend.SetCell(x, 0, blank)
	}
	for _, c := range heat.RenderHeader(r.palette) {
		r.backend.SetCell(x, 0, c)
		x++
	}
	for ; x < r.width; x++ {
		r.backend.SetCell(x, 0, blank)
	}
}

func (r *Renderer) renderPrefix(line, y int, exists bool) int {
	x := 0
	for _, c := range r.gutter.RenderLine(line, exists, r.palette) {
		r.backend.SetCell(x, y, c)
		x++
	}
	if r.heatWidth() > 0 {
		for _, c := range r.heat.RenderRow(line, r.palette, r.dark) {
			r.backend.SetCell(x, y, c)
			x++
		}
	}
	return x
}

func (r *Renderer) renderFiller(line, y int) {
	x := r.renderPrefix(line, y, false)
	blank := core.NewStyledCell(' ', r.palette.TextStyle())
	for ; x < r.width; x++ {
		r.backend.SetCell(x, y, blank)
	}
}

func (r *Renderer) renderLine(line, y int, state highlight.LexerState) highlight.LexerState {
	text := r.source.Line(line)
	tokens, next := r.lexer.HighlightLine(text, state)

	n := len([]rune(text))
	rowStyle := r.palette.TextStyle()
	styles := make([]core.Style, n)
	for i := range styles {
		styles[i] = rowStyle
	}
	for _, tok := range tokens {
		ts := r.palette.TokenStyle(tok.Type)
		for i := max(tok.StartCol, 0); i < tok.EndCol && i < n; i++ {
			styles[i] = styles[i].Merge(ts)
		}
	}

	start := r.source.LineStart(line)
	for _, span := range r.source.SpansForLine(start, start+n) {
		st := overlay.StyleFor(span.Kind, r.palette)
		if span.FullWidth {
			rowStyle = rowStyle.Merge(st)
			for i := range styles {
				styles[i] = styles[i].Merge(st)
			}
			continue
		}
		for i := max(span.StartCol, 0); i < span.EndCol && i < n; i++ {
			styles[i] = styles[i].Merge(st)
		}
	}

	lay := layout.Layout(text, styles, rowStyle, r.tabs)
	x := r.renderPrefix(line, y, true)
	leftCol := r.viewport.LeftColumn()
	for vis := leftCol; x < r.width; vis++ {
		cell := core.NewStyledCell(' ', rowStyle)
		if vis < len(lay.Cells) {
			cell = lay.Cells[vis]
		}
		r.backend.SetCell(x, y, cell)
		x++
	}
	return next
}

func (r *Renderer) renderCursor(cursor document.Point, vis, header int) {
	row := r.viewport.LineToScreenRow(cursor.Line)
	x := r.gutterWidth() + vis - r.viewport.LeftColumn()
	if row < 0 || x < r.gutterWidth() || x >= r.width {
		r.backend.HideCursor()
		return
	}
	r.backend.ShowCursor(x, row+header)
}

// renderPopup draws the completion list below the cursor, or above it
// when there is no room below.
func (r *Renderer) renderPopup(cs CompletionSource, cursor document.Point, vis, header, rows int) {
	items, selected, visible := cs.CompletionItems()
	if !visible || len(items) == 0 {
		return
	}
	row := r.viewport.LineToScreenRow(cursor.Line)
	if row < 0 {
		return
	}

	n := min(len(items), popupRows)
	first := 0
	if selected >= n {
		first = selected - n + 1
	}

	width := 0
	for _, item := range items {
		width = max(width, len([]rune(item)))
	}
	width += 2

	top := row + 1
	if top+n > rows {
		top = row - n
	}
	if top < 0 {
		return
	}
	x0 := min(r.gutterWidth()+vis-r.viewport.LeftColumn(), r.width-width)
	x0 = max(x0, 0)

	base := r.palette.TextStyle().WithBackground(r.palette.CurrentLine)
	active := r.palette.TextStyle().WithBackground(r.palette.Selection).WithAttributes(core.AttrBold)
	for i := 0; i < n; i++ {
		idx := first + i
		style := base
		if idx == selected {
			style = active
		}
		text := []rune(" " + items[idx])
		for dx := 0; dx < width && x0+dx < r.width; dx++ {
			ch := ' '
			if dx < len(text) {
				ch = text[dx]
			}
			r.backend.SetCell(x0+dx, top+i+header, core.NewStyledCell(ch, style))
		}
	}
}
