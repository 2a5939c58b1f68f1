// Package editor wires the editing engine into one editor instance.
//
// An Editor owns a document and keeps its derived state current:
//
//   - the bracket token cache follows every document change
//   - cursor moves recompute the current-line and bracket highlights
//   - compiler results replace the diagnostic highlights and heat data
//   - edits restart the settle timer; when it fires, settle handlers run
//     in registration order so the host can re-run analysis
//
// The Editor also implements renderer.Source.
package editor
