package app

import (
	"context"
	"errors"

	"github.com/dshills/mzedit/internal/analysis"
	"github.com/dshills/mzedit/internal/config"
	"github.com/dshills/mzedit/internal/editor"
	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/input"
	"github.com/dshills/mzedit/internal/logging"
	"github.com/dshills/mzedit/internal/renderer/backend"
	"github.com/dshills/mzedit/internal/renderer/statusline"
)

// Interrupt payloads posted to the event loop from other goroutines.
type (
	settledMsg struct {
		revision uint64
	}
	checkMsg struct {
		revision uint64
		result   *analysis.Result
		err      error
	}
	configMsg struct {
		cfg config.Config
	}
	configErrMsg struct {
		err error
	}
)

// eventLoop is the main application loop. Every state change happens on
// this goroutine; timers and the check runner reach it through
// interrupts.
func (app *Application) eventLoop() error {
	events := app.startInputPolling()
	app.render()

	for {
		select {
		case <-app.done:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				return err
			}
			app.render()
		}
	}
}

func (app *Application) render() {
	app.mu.Lock()
	r := app.renderer
	app.mu.Unlock()
	if r != nil {
		r.Render()
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.mu.Lock()
		r := app.renderer
		app.mu.Unlock()
		if r != nil {
			app.resize(r, ev.Width, ev.Height)
		}
		return nil
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventInterrupt:
		app.handleInterrupt(ev.Data)
		return nil
	default:
		return nil
	}
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	action, ok := app.keymap.Translate(ev, app.editor.Completion().Visible)
	if !ok {
		return nil
	}

	switch action.Command {
	case input.CmdQuit:
		return ErrQuit
	case input.CmdSave:
		if err := app.Save(); err != nil {
			app.logger.Error("save failed", logging.FieldError, err)
			app.status.SetMessage(err.Error(), statusline.MessageError)
		}
		return nil
	}

	if err := app.editor.Execute(action); err != nil && !errors.Is(err, editor.ErrUnsupportedCommand) {
		app.status.SetMessage(err.Error(), statusline.MessageWarning)
	}
	return nil
}

func (app *Application) handleInterrupt(data any) {
	switch msg := data.(type) {
	case settledMsg:
		app.startCheck(msg.revision)
	case checkMsg:
		app.applyCheck(msg)
	case configMsg:
		app.applyConfig(msg.cfg)
	case configErrMsg:
		app.status.SetMessage("config: "+msg.err.Error(), statusline.MessageError)
	}
}

// onSettled runs on the settle timer's goroutine.
func (app *Application) onSettled(ev editor.SettleEvent) {
	app.post(settledMsg{revision: ev.Revision})
}

// startCheck runs the compiler on the current text in the background,
// cancelling any check still in flight.
func (app *Application) startCheck(revision uint64) {
	if app.opts.NoCheck {
		return
	}

	app.mu.Lock()
	if app.cancelCheck != nil {
		app.cancelCheck()
	}
	ctx, cancel := context.WithCancel(context.Background())
	app.cancelCheck = cancel
	compiler := *app.compiler
	app.mu.Unlock()

	text := app.editor.Text()
	path := app.editor.Path()
	app.status.SetChecking(true)

	app.checks.Add(1)
	go func() {
		defer app.checks.Done()
		res, err := compiler.CheckSource(ctx, path, text)
		if ctx.Err() != nil {
			return
		}
		app.post(checkMsg{revision: revision, result: res, err: err})
	}()
}

// applyCheck shows a finished check unless the text changed since it
// started.
func (app *Application) applyCheck(msg checkMsg) {
	app.status.SetChecking(false)
	if current := app.editor.Document().Revision(); msg.revision != current {
		app.logger.Debug("discarding stale check", logging.FieldRevision, msg.revision)
		return
	}

	if msg.err != nil {
		app.logger.Warn("model check failed", logging.FieldError, msg.err)
		app.status.SetMessage(msg.err.Error(), statusline.MessageError)
		return
	}

	dropped := app.editor.ApplyAnalysis(msg.result)
	app.updateDiagnosticCounts()
	if len(msg.result.Messages) > 0 {
		app.status.SetMessage(msg.result.Messages[0], statusline.MessageError)
	}
	app.logger.Info("model checked",
		logging.FieldCount, len(msg.result.Records),
		logging.FieldDropped, len(dropped),
		logging.FieldRevision, msg.revision)
}

func (app *Application) updateDiagnosticCounts() {
	var errs, warns int
	for _, d := range app.editor.Diagnostics() {
		if d.Severity == diagnostic.SeverityWarning {
			warns++
		} else {
			errs++
		}
	}
	app.status.SetDiagnostics(errs, warns)
}

// applyConfig applies a reloaded configuration file.
func (app *Application) applyConfig(cfg config.Config) {
	if err := app.editor.SetConfig(cfg); err != nil {
		app.logger.Warn("rejected config", logging.FieldError, err)
		app.status.SetMessage("config: "+err.Error(), statusline.MessageError)
		return
	}

	keymap := input.DefaultKeymap()
	if err := keymap.BindNames(cfg.Keys); err != nil {
		app.logger.Warn("ignoring key bindings", logging.FieldError, err)
	}

	app.mu.Lock()
	app.cfg = cfg
	app.keymap = keymap
	app.compiler.Path = cfg.Compiler.Path
	app.compiler.Timeout = cfg.CompilerTimeout()
	r := app.renderer
	app.mu.Unlock()

	app.logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	if r != nil {
		r.SetPalette(app.editor.Palette(), app.editor.Dark())
		r.SetTabWidth(cfg.Editor.IndentSize)
	}
	app.status.SetMessage("configuration reloaded", statusline.MessageInfo)
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// PollEvent is blocking, so this goroutine may not exit immediately on
// shutdown. backend.Shutdown unblocks it.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)

		for app.running.Load() {
			ev := app.backend.PollEvent()
			if !app.running.Load() {
				return
			}

			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	return events
}
