package editor

import (
	"path/filepath"

	"github.com/dshills/mzedit/internal/analysis"
	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/logging"
	"github.com/dshills/mzedit/internal/renderer/gutter"
	"github.com/dshills/mzedit/internal/renderer/heat"
	"github.com/dshills/mzedit/internal/renderer/overlay"
)

var diagnosticKinds = []overlay.Kind{overlay.KindDiagnosticWarning, overlay.KindDiagnosticError}

// ApplyDiagnostics replaces the active diagnostics with recs. Records
// naming lines that do not exist are dropped and returned.
func (e *Editor) ApplyDiagnostics(recs []diagnostic.Record) []diagnostic.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	return e.applyDiagnostics(recs)
}

func (e *Editor) applyDiagnostics(recs []diagnostic.Record) []diagnostic.Record {
	dropped := e.diags.Apply(e.doc, recs)
	for _, r := range dropped {
		e.logger.Debug("dropped diagnostic",
			logging.FieldLine, r.FirstLine,
			logging.FieldSeverity, r.Severity(),
			logging.FieldMessage, r.Message)
	}

	n := e.syncDiagnosticSpans()
	e.logger.Debug("diagnostics applied",
		logging.FieldCount, n,
		logging.FieldDropped, len(dropped))
	return dropped
}

// syncDiagnosticSpans rebuilds the underline spans from the active
// diagnostics and returns how many there are.
func (e *Editor) syncDiagnosticSpans() int {
	diags := e.diags.Diagnostics()
	spans := make([]overlay.Span, 0, len(diags))
	for _, d := range diags {
		kind := overlay.KindDiagnosticError
		if d.Severity == diagnostic.SeverityWarning {
			kind = overlay.KindDiagnosticWarning
		}
		spans = append(spans, overlay.Span{Kind: kind, Start: d.Start, End: d.End})
	}
	e.spans.ReplaceKinds(diagnosticKinds, spans)
	return len(diags)
}

// ClearDiagnostics removes every diagnostic.
func (e *Editor) ClearDiagnostics() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.diags.Clear()
	e.spans.ReplaceKinds(diagnosticKinds, nil)
}

// ApplyAnalysis installs a compiler result: diagnostics, the symbol
// index used by tooltips and the heat statistics.
func (e *Editor) ApplyAnalysis(res *analysis.Result) []diagnostic.Record {
	if res == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	dropped := e.applyDiagnostics(res.Records)
	e.symbols.Replace(res.Symbols)
	if res.HasProfile() {
		e.heat.Set(res.Profile, res.Totals())
	} else {
		e.heat.Clear()
	}
	return dropped
}

// Diagnostics returns the active diagnostics.
func (e *Editor) Diagnostics() []diagnostic.Diagnostic {
	return e.diags.Diagnostics()
}

// SetSymbols replaces the location to name index.
func (e *Editor) SetSymbols(entries map[string]string) {
	e.symbols.Replace(entries)
}

// TooltipAt returns the text to show for offset. Diagnostics win; a
// symbol recorded at the start of the word under offset is the fallback.
func (e *Editor) TooltipAt(offset int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", false
	}
	if msg, ok := e.diags.TooltipAt(offset); ok {
		return msg, true
	}
	if e.symbols.Len() == 0 {
		return "", false
	}

	offset = max(0, min(offset, e.doc.Len()))
	start := offset
	for start > 0 {
		r, err := e.doc.TextRange(start-1, start)
		if err != nil || r == "" || !isWordRune([]rune(r)[0]) {
			break
		}
		start--
	}
	p := e.doc.OffsetToPoint(start)
	return e.symbols.Lookup(filepath.Base(e.path), p.Line+1, p.Column+1)
}

// GutterStyleFor classifies a line for the gutter.
func (e *Editor) GutterStyleFor(line, current int) diagnostic.GutterClass {
	return e.diags.GutterStyleFor(line, current)
}

// GutterWidth returns the width of the line number column plus the heat
// columns when shown.
func (e *Editor) GutterWidth() int {
	cfg := gutter.DefaultConfig()
	return gutter.CalculateWidth(e.doc.LineCount(), cfg.MinLineNumberWidth) + cfg.Padding + e.heat.Width()
}

// Heat returns the statistics overlay.
func (e *Editor) Heat() *heat.Overlay {
	return e.heat
}

// SetHeat replaces the per-line statistics. Lines are 0-based.
func (e *Editor) SetHeat(stats map[int]heat.Stats, totals heat.Totals) {
	e.heat.Set(stats, totals)
}
