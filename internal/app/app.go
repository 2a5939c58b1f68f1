// Package app wires the editor to a terminal: it owns the event loop,
// runs model checks when edits settle and applies configuration changes
// while running.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/dshills/mzedit/internal/analysis"
	"github.com/dshills/mzedit/internal/config"
	"github.com/dshills/mzedit/internal/config/watcher"
	"github.com/dshills/mzedit/internal/editor"
	"github.com/dshills/mzedit/internal/engine/debounce"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/input"
	"github.com/dshills/mzedit/internal/logging"
	"github.com/dshills/mzedit/internal/renderer"
	"github.com/dshills/mzedit/internal/renderer/backend"
	"github.com/dshills/mzedit/internal/renderer/statusline"
)

// Application is the terminal front end for one model file.
type Application struct {
	mu sync.Mutex

	opts    Options
	cfg     config.Config
	logger  *log.Logger
	logFile io.Closer

	editor   *editor.Editor
	keymap   *input.Keymap
	compiler *analysis.Compiler
	watcher  *watcher.Watcher
	docSub   document.Subscription

	backend  backend.Backend
	renderer *renderer.Renderer
	status   *statusline.StatusLine

	modified    atomic.Bool
	running     atomic.Bool
	done        chan struct{}
	closeOnce   sync.Once
	checks      sync.WaitGroup
	cancelCheck context.CancelFunc
}

// Options configures the application.
type Options struct {
	// Path is the model file. It need not exist yet.
	Path string

	// ConfigPath is the configuration file; empty uses the default path.
	ConfigPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogFile overrides the configured log file. The terminal owns
	// stderr, so without a file nothing is logged.
	LogFile string

	// WatchConfig reloads the configuration file when it changes.
	WatchConfig bool

	// NoCheck disables running the compiler when edits settle.
	NoCheck bool

	// Clock drives the settle timer; nil uses the wall clock.
	Clock debounce.Clock
}

// New loads the configuration and the model and creates the editor.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:   opts,
		done:   make(chan struct{}),
		status: statusline.New(),
	}

	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	path := app.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	if err := app.initLogger(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	text, err := readModel(app.opts.Path)
	if err != nil {
		return err
	}

	edOpts := []editor.Option{
		editor.WithPath(app.opts.Path),
		editor.WithConfig(cfg),
		editor.WithLogger(app.logger),
	}
	if app.opts.Clock != nil {
		edOpts = append(edOpts, editor.WithClock(app.opts.Clock))
	}
	app.editor = editor.New(text, edOpts...)
	app.docSub = app.editor.Document().Subscribe(func(document.Change) {
		app.modified.Store(true)
		app.status.SetModified(true)
	})
	app.editor.OnSettled(app.onSettled)
	app.editor.OnEscape(app.status.ClearMessage)
	app.status.SetFilename(app.opts.Path)

	app.keymap = input.DefaultKeymap()
	if err := app.keymap.BindNames(cfg.Keys); err != nil {
		app.logger.Warn("ignoring key bindings", logging.FieldError, err)
	}

	app.compiler = analysis.NewCompiler(cfg.Compiler.Path)
	app.compiler.Timeout = cfg.CompilerTimeout()

	if app.opts.WatchConfig {
		w, err := watcher.New(path, cfg, watcher.WithLogger(app.logger))
		if err != nil {
			app.logger.Warn("config watch disabled", logging.FieldPath, path, logging.FieldError, err)
		} else {
			w.OnReload(func(cfg config.Config) { app.post(configMsg{cfg: cfg}) })
			w.OnError(func(err error) { app.post(configErrMsg{err: err}) })
			app.watcher = w
		}
	}

	app.logger.Info("editor ready", logging.FieldPath, app.opts.Path, logging.FieldCount, app.editor.LineCount())
	return nil
}

func (app *Application) initLogger() error {
	level := app.cfg.Log.Level
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	file := app.cfg.Log.File
	if app.opts.LogFile != "" {
		file = app.opts.LogFile
	}
	if file == "" {
		app.logger = logging.Discard()
		return nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	app.logFile = f
	app.logger = logging.NewWithWriter(f, level)
	return nil
}

func (app *Application) closeLog() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// readModel returns the text of path. A missing file starts empty.
func readModel(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	case err != nil:
		return "", &FileError{Op: "open", Path: path, Err: err}
	}
	return string(data), nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until the user quits or Shutdown is called.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		<-app.done
		return nil
	}

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	r := renderer.New(b, renderer.Options{
		ShowLineNumbers: app.cfg.Editor.LineNumbers,
		TabWidth:        app.cfg.Editor.IndentSize,
	})
	r.SetSource(app.editor)
	r.SetHeat(app.editor.Heat())
	r.SetStatusLine(app.status)
	r.SetPalette(app.editor.Palette(), app.editor.Dark())
	w, h := b.Size()
	app.resize(r, w, h)

	app.mu.Lock()
	app.renderer = r
	app.mu.Unlock()

	// Check once on open so diagnostics show before the first edit.
	if app.opts.Path != "" {
		app.startCheck(app.editor.Document().Revision())
	}

	return app.eventLoop()
}

// Shutdown stops the event loop and releases resources. It is safe to
// call more than once.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)

		app.mu.Lock()
		if app.cancelCheck != nil {
			app.cancelCheck()
		}
		app.mu.Unlock()

		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		app.docSub.Unsubscribe()
		_ = app.editor.Close()
		app.checks.Wait()

		app.logger.Info("editor closed")
		app.closeLog()
	})
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Editor returns the editor.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Status returns the status line.
func (app *Application) Status() *statusline.StatusLine {
	return app.status
}

// Modified reports whether the model has unsaved edits.
func (app *Application) Modified() bool {
	return app.modified.Load()
}

// post queues an interrupt for the event loop. It is a no-op before Run.
func (app *Application) post(data any) {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil || !app.running.Load() {
		return
	}
	b.PostEvent(backend.InterruptEvent(data))
}

func (app *Application) resize(r *renderer.Renderer, width, height int) {
	r.Resize(width, height)
	app.editor.SetPageSize(max(height-2, 1))
}
