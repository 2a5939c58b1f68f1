package app

import (
	"os"

	"github.com/dshills/mzedit/internal/logging"
	"github.com/dshills/mzedit/internal/renderer/statusline"
)

// Save writes the model to its file.
func (app *Application) Save() error {
	path := app.editor.Path()
	if path == "" {
		return ErrNoFilePath
	}
	return app.SaveAs(path)
}

// SaveAs writes the model to path and makes path the model's file.
func (app *Application) SaveAs(path string) error {
	if path == "" {
		return ErrNoFilePath
	}
	if err := os.WriteFile(path, []byte(app.editor.Text()), 0o644); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}

	app.editor.SetPath(path)
	app.modified.Store(false)
	app.status.SetFilename(path)
	app.status.SetModified(false)
	app.status.SetMessage("saved "+path, statusline.MessageInfo)
	app.logger.Info("saved", logging.FieldPath, path)
	return nil
}
