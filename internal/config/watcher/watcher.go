// Package watcher reloads the configuration file when it changes.
//
// The containing directory is watched rather than the file itself, so
// editors that save by writing a temporary file and renaming it over the
// original are still seen. Bursts of events are coalesced before the
// file is read again.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dshills/mzedit/internal/config"
	"github.com/dshills/mzedit/internal/engine/debounce"
	"github.com/dshills/mzedit/internal/logging"
)

// DefaultDebounce is the quiet interval before a reload.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned by operations on a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Handler receives a freshly loaded configuration.
type Handler func(cfg config.Config)

// ErrorHandler receives reload failures. The previous configuration
// stays in effect.
type ErrorHandler func(err error)

// LoadFunc reads the configuration at path.
type LoadFunc func(path string) (config.Config, error)

// Watcher monitors a configuration file and reloads it on change.
type Watcher struct {
	mu sync.Mutex

	path    string
	fsw     *fsnotify.Watcher
	load    LoadFunc
	logger  *log.Logger
	delay   time.Duration
	clock   debounce.Clock
	pending *debounce.Debouncer

	handlers []Handler
	onError  []ErrorHandler
	current  config.Config
	reloads  int

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet interval before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithClock sets the clock that times the quiet interval.
func WithClock(c debounce.Clock) Option {
	return func(w *Watcher) {
		w.clock = c
	}
}

// WithLoader replaces config.Load.
func WithLoader(fn LoadFunc) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.load = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching the configuration file at path. initial is the
// configuration currently in effect.
func New(path string, initial config.Config, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		load:    config.Load,
		logger:  logging.Default(),
		delay:   DefaultDebounce,
		clock:   debounce.RealClock{},
		current: initial,
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.pending = debounce.New(w.reloadQuietly, debounce.WithDelay(w.delay), debounce.WithClock(w.clock))

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// OnReload registers a handler. Handlers run in registration order.
func (w *Watcher) OnReload(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// OnError registers a handler for failed reloads.
func (w *Watcher) OnError(h ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, h)
}

// Current returns the configuration in effect.
func (w *Watcher) Current() config.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Reloads returns how many reloads succeeded.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Reload reads the file now and notifies handlers. On failure the error
// handlers run and the error is returned.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	cfg, err := w.load(w.path)

	w.mu.Lock()
	if err != nil {
		errHandlers := append([]ErrorHandler(nil), w.onError...)
		w.mu.Unlock()
		w.logger.Warn("config reload failed", logging.FieldPath, w.path, logging.FieldError, err)
		for _, h := range errHandlers {
			h(err)
		}
		return err
	}
	w.current = cfg
	w.reloads++
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()

	w.logger.Info("config reloaded", logging.FieldPath, w.path)
	for _, h := range handlers {
		h(cfg)
	}
	return nil
}

func (w *Watcher) reloadQuietly() {
	_ = w.Reload()
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.pending.Close()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.pending.Call()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", logging.FieldPath, w.path, logging.FieldError, err)
		}
	}
}

// relevant reports whether ev may have changed the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Remove)
}
