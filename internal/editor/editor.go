package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/mzedit/internal/config"
	"github.com/dshills/mzedit/internal/engine/brackets"
	"github.com/dshills/mzedit/internal/engine/debounce"
	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/logging"
	"github.com/dshills/mzedit/internal/renderer/heat"
	"github.com/dshills/mzedit/internal/renderer/highlight"
	"github.com/dshills/mzedit/internal/renderer/overlay"
	"github.com/dshills/mzedit/internal/renderer/theme"
)

// SettleEvent is delivered once edits have stopped for the quiet interval.
type SettleEvent struct {
	Editor   uuid.UUID
	Revision uint64
	At       time.Time
}

// SettleFunc handles settle events.
type SettleFunc func(SettleEvent)

// Editor is one open model file.
type Editor struct {
	mu sync.Mutex

	id     uuid.UUID
	path   string
	logger *log.Logger
	clock  debounce.Clock

	doc      *document.Document
	docSub   document.Subscription
	lexer    *highlight.Lexer
	brackets *brackets.Model
	diags    *diagnostic.Overlay
	symbols  *diagnostic.Symbols
	heat     *heat.Overlay
	spans    *overlay.Manager
	settle   *debounce.Debouncer

	cfg    config.Config
	themes *theme.Registry
	theme  *theme.Theme

	sel        document.Selection
	goalCol    int
	pageSize   int
	lastChange document.Change
	match      brackets.Match
	completion Completion

	settleSubs []SettleFunc
	escapeSubs []func()

	closed bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithPath sets the file the editor shows.
func WithPath(path string) Option {
	return func(e *Editor) {
		e.path = path
	}
}

// WithLogger sets the parent logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the clock driving the settle timer.
func WithClock(c debounce.Clock) Option {
	return func(e *Editor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithConfig sets the initial configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Editor) {
		e.cfg = cfg
	}
}

// WithThemes sets the theme registry.
func WithThemes(r *theme.Registry) Option {
	return func(e *Editor) {
		if r != nil {
			e.themes = r
		}
	}
}

// New creates an editor holding text.
func New(text string, opts ...Option) *Editor {
	e := &Editor{
		id:       uuid.New(),
		logger:   logging.Default(),
		clock:    debounce.RealClock{},
		cfg:      config.Default(),
		themes:   theme.NewRegistry(),
		pageSize: 20,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logging.FieldEditor, e.id.String()[:8])

	e.doc = document.New(text)
	e.lexer = highlight.NewLexer()
	e.brackets = brackets.NewModel(e.doc, e.lexer)
	e.diags = diagnostic.NewOverlay()
	e.symbols = diagnostic.NewSymbols()
	e.heat = heat.NewOverlay()
	e.spans = overlay.NewManager()
	e.settle = debounce.New(e.fireSettled, debounce.WithClock(e.clock), debounce.WithDelay(e.cfg.DebounceDelay()))
	e.docSub = e.doc.Subscribe(e.onChange)

	e.applyConfig(e.cfg)
	e.refreshCursorSpans()
	return e
}

// onChange keeps derived state aligned with the document. It runs
// synchronously inside every document edit.
func (e *Editor) onChange(c document.Change) {
	e.brackets.Splice(c.Line, c.Removed, c.Inserted)
	if e.diags.Remap(e.doc, c.MapOffset) {
		e.syncDiagnosticSpans()
	}
	e.heat.Remap(c.MapLine)
	e.lastChange = c
	e.settle.Call()
}

func (e *Editor) fireSettled() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	subs := append([]SettleFunc(nil), e.settleSubs...)
	ev := SettleEvent{Editor: e.id, Revision: e.doc.Revision(), At: e.clock.Now()}
	e.mu.Unlock()

	e.logger.Debug("content settled", logging.FieldRevision, ev.Revision)
	for _, fn := range subs {
		fn(ev)
	}
}

// OnSettled registers a settle handler. Handlers run in registration
// order on the timer's goroutine.
func (e *Editor) OnSettled(fn SettleFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settleSubs = append(e.settleSubs, fn)
}

// OnEscape registers a handler for the Escape command.
func (e *Editor) OnEscape(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.escapeSubs = append(e.escapeSubs, fn)
}

// Close cancels any pending settle event and detaches from the document.
// It is safe to call more than once.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.settle.Close()
	e.docSub.Unsubscribe()
	e.logger.Debug("editor closed")
	return nil
}

// ID returns the editor's instance id.
func (e *Editor) ID() uuid.UUID {
	return e.id
}

// Path returns the file the editor shows.
func (e *Editor) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// SetPath changes the file the editor shows.
func (e *Editor) SetPath(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.path = path
}

// Document returns the underlying document.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// Text returns the document content.
func (e *Editor) Text() string {
	return e.doc.Text()
}

// SetText replaces the content, keeping unchanged lines.
func (e *Editor) SetText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if err := e.doc.SetText(text); err != nil {
		return err
	}
	e.setSelection(e.sel)
	return nil
}

// SettlePending reports whether a settle event is scheduled.
func (e *Editor) SettlePending() bool {
	return e.settle.IsPending()
}

// FlushSettle fires a pending settle event immediately.
func (e *Editor) FlushSettle() {
	e.settle.Flush()
}

// Config returns the configuration in effect.
func (e *Editor) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetConfig applies a new configuration to the live editor.
func (e *Editor) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var loaded *theme.Theme
	if cfg.Theme.Path != "" {
		t, err := theme.LoadFile(cfg.Theme.Path)
		if err != nil {
			return fmt.Errorf("loading theme: %w", err)
		}
		loaded = t
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if loaded != nil {
		e.themes.Register(loaded)
	}
	e.applyConfig(cfg)
	e.refreshCursorSpans()
	e.logger.Debug("config applied",
		"indent", cfg.Editor.IndentSize,
		"tabs", cfg.Editor.UseTabs,
		"dark", cfg.Editor.DarkMode,
		logging.FieldTheme, e.theme.Name)
	return nil
}

func (e *Editor) applyConfig(cfg config.Config) {
	e.cfg = cfg
	e.settle.SetDelay(cfg.DebounceDelay())
	e.heat.SetVisible(cfg.Editor.ShowHeat)

	t, ok := e.themes.Get(cfg.Theme.Name)
	switch {
	case ok:
		e.theme = t
	case e.theme == nil:
		e.theme = e.themes.Current()
		fallthrough
	default:
		e.logger.Warn("unknown theme", logging.FieldTheme, cfg.Theme.Name)
	}
}

// Theme returns the active theme.
func (e *Editor) Theme() *theme.Theme {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme
}

// Dark reports whether dark mode is on.
func (e *Editor) Dark() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Editor.DarkMode
}

// Palette returns the colors for the current mode.
func (e *Editor) Palette() theme.Palette {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme.Palette(e.cfg.Editor.DarkMode)
}

// SetPageSize sets how many lines PageUp and PageDown move.
func (e *Editor) SetPageSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageSize = max(n, 1)
}
