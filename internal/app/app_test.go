package app

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mzedit/internal/config"
	"github.com/dshills/mzedit/internal/engine/debounce"
	"github.com/dshills/mzedit/internal/renderer/backend"
	"github.com/dshills/mzedit/internal/renderer/statusline"
)

// fakeCompiler writes a script that reports the first line of the model
// it is given as an error on that line.
func fakeCompiler(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler")
	}
	script := `#!/bin/sh
for f; do :; done
msg=$(head -n 1 "$f")
printf '{"type":"error","location":{"filename":"%s","firstLine":1,"firstColumn":1,"lastLine":1,"lastColumn":1},"message":"%s"}\n' "$f" "$msg"
exit 1
`
	path := filepath.Join(dir, "minizinc")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(t.TempDir(), "missing.toml")
	}
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)
	return app
}

// runApp starts the event loop on a null backend and returns the backend
// and the channel Run's result arrives on.
func runApp(t *testing.T, app *Application) (*backend.NullBackend, <-chan error) {
	t.Helper()
	b := backend.NewNullBackend(60, 10)
	require.NoError(t, app.SetBackend(b))

	done := make(chan error, 1)
	go func() { done <- app.Run() }()
	require.Eventually(t, app.IsRunning, time.Second, time.Millisecond)
	return b, done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestNewWithMissingModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.mzn")
	app := newTestApp(t, Options{Path: path})

	assert.Equal(t, "", app.Editor().Text())
	assert.Equal(t, path, app.Editor().Path())
	assert.False(t, app.Modified())
	assert.False(t, app.IsRunning())
}

func TestNewLoadsConfigAndModel(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	writeFile(t, cfgPath, "[editor]\nindent_size = 4\n\n[keys]\n\"Ctrl+D\" = \"delete\"\n")
	model := filepath.Join(dir, "m.mzn")
	writeFile(t, model, "var int: x;\n")

	app := newTestApp(t, Options{Path: model, ConfigPath: cfgPath})

	assert.Equal(t, 4, app.Config().Editor.IndentSize)
	assert.Equal(t, "var int: x;\n", app.Editor().Text())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, cfgPath, "[editor]\nindent_size = 0\n")

	_, err := New(Options{ConfigPath: cfgPath})
	var initErr *InitError
	require.True(t, errors.As(err, &initErr), "got %v", err)
	assert.Equal(t, "config", initErr.Component)
	assert.ErrorIs(t, err, config.ErrInvalidIndentSize)
}

func TestNewWritesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mzedit.log")
	app := newTestApp(t, Options{LogFile: logPath, LogLevel: "debug"})
	app.Shutdown()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "editor ready")
	assert.Contains(t, string(data), "editor closed")
}

func TestTypeSaveQuit(t *testing.T) {
	model := filepath.Join(t.TempDir(), "m.mzn")
	app := newTestApp(t, Options{Path: model, NoCheck: true})
	b, done := runApp(t, app)

	b.PostEvent(backend.KeyEvent(backend.KeyRune, 'a', backend.ModNone))
	b.PostEvent(backend.KeyEvent(backend.KeyRune, 'b', backend.ModNone))
	b.PostEvent(backend.KeyEvent(backend.KeyCtrlS, 0, backend.ModCtrl))
	b.PostEvent(backend.KeyEvent(backend.KeyCtrlQ, 0, backend.ModCtrl))

	assert.ErrorIs(t, waitRun(t, done), ErrQuit)

	data, err := os.ReadFile(model)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
	assert.False(t, app.Modified())
	assert.True(t, strings.HasPrefix(b.Row(0), "  1 ab"), "row 0 = %q", b.Row(0))
}

func TestShutdownStopsRun(t *testing.T) {
	app := newTestApp(t, Options{NoCheck: true})
	_, done := runApp(t, app)

	app.Shutdown()
	assert.NoError(t, waitRun(t, done))
	app.Shutdown()
}

func TestRunTwice(t *testing.T) {
	app := newTestApp(t, Options{NoCheck: true})
	_, done := runApp(t, app)

	assert.ErrorIs(t, app.Run(), ErrAlreadyRunning)
	assert.ErrorIs(t, app.SetBackend(nil), ErrAlreadyRunning)

	app.Shutdown()
	waitRun(t, done)
}

func TestSaveWithoutPath(t *testing.T) {
	app := newTestApp(t, Options{})
	assert.ErrorIs(t, app.Save(), ErrNoFilePath)

	path := filepath.Join(t.TempDir(), "out.mzn")
	require.NoError(t, app.SaveAs(path))
	assert.Equal(t, path, app.Editor().Path())

	msg, typ := app.Status().Message()
	assert.Equal(t, statusline.MessageInfo, typ)
	assert.Contains(t, msg, "out.mzn")
}

func TestCheckOnOpenAndSettle(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	writeFile(t, cfgPath, "[compiler]\npath = \""+fakeCompiler(t, dir)+"\"\n")
	model := filepath.Join(dir, "m.mzn")
	writeFile(t, model, "x = 1;\nsolve satisfy;\n")

	clock := debounce.NewManualClock(time.Now())
	app := newTestApp(t, Options{Path: model, ConfigPath: cfgPath, Clock: clock})
	b, done := runApp(t, app)

	firstMessage := func() string {
		diags := app.Editor().Diagnostics()
		if len(diags) == 0 {
			return ""
		}
		return diags[0].Message
	}
	require.Eventually(t, func() bool { return firstMessage() == "Error: x = 1;" }, 5*time.Second, 10*time.Millisecond)

	b.PostEvent(backend.KeyEvent(backend.KeyRune, 'y', backend.ModNone))
	require.Eventually(t, func() bool { return clock.Pending() > 0 }, time.Second, time.Millisecond)
	clock.Advance(time.Second)

	require.Eventually(t, func() bool { return firstMessage() == "Error: yx = 1;" }, 5*time.Second, 10*time.Millisecond)

	b.PostEvent(backend.KeyEvent(backend.KeyCtrlQ, 0, backend.ModCtrl))
	assert.ErrorIs(t, waitRun(t, done), ErrQuit)
}

func TestApplyConfig(t *testing.T) {
	app := newTestApp(t, Options{NoCheck: true})

	cfg := config.Default()
	cfg.Editor.DarkMode = true
	cfg.Compiler.Path = "/opt/minizinc/bin/minizinc"
	app.applyConfig(cfg)

	assert.True(t, app.Editor().Dark())
	assert.Equal(t, "/opt/minizinc/bin/minizinc", app.compiler.Path)
	msg, _ := app.Status().Message()
	assert.Equal(t, "configuration reloaded", msg)

	cfg.Editor.IndentSize = -1
	app.applyConfig(cfg)
	_, typ := app.Status().Message()
	assert.Equal(t, statusline.MessageError, typ)
	assert.Equal(t, 2, app.Config().Editor.IndentSize)
}

func TestStaleCheckIsDiscarded(t *testing.T) {
	app := newTestApp(t, Options{NoCheck: true})
	rev := app.Editor().Document().Revision()
	require.NoError(t, app.Editor().Document().Insert(0, "x"))

	app.applyCheck(checkMsg{revision: rev, err: errors.New("boom")})
	msg, _ := app.Status().Message()
	assert.Empty(t, msg)
}
