// Package renderer draws an editor onto a terminal backend.
//
// A frame is laid out left to right as:
//
//	┌────────┬───────────────┬──────────────────────────┐
//	│ gutter │ heat (opt.)   │ text                     │
//	└────────┴───────────────┴──────────────────────────┘
//
// When the heat columns are shown, the first screen row carries their
// captions. All colors come from the palette handed to SetPalette; the
// renderer keeps no global theme state.
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b, renderer.DefaultOptions())
//	r.SetSource(ed)
//	r.Render()
package renderer
