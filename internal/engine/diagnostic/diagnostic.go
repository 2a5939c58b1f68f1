// Package diagnostic maps compiler error and warning records onto document
// offsets and answers gutter and tooltip queries about them.
package diagnostic

import (
	"fmt"
	"slices"
	"sync"
)

// Severity is the importance of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the severity label used in tooltips.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Error"
}

// Record is a raw diagnostic as reported by the compiler.
// Lines and columns are 1-based and the column order is not guaranteed.
type Record struct {
	FirstLine int
	LastLine  int
	FirstCol  int
	LastCol   int
	Message   string
	IsWarning bool
}

// Severity returns the severity of the record.
func (r Record) Severity() Severity {
	if r.IsWarning {
		return SeverityWarning
	}
	return SeverityError
}

// Diagnostic is a record resolved to absolute document offsets.
// The range [Start, End) is half-open.
type Diagnostic struct {
	Start    int
	End      int
	Message  string
	Severity Severity

	// FirstLine and LastLine are the covered 0-based lines.
	FirstLine int
	LastLine  int
}

// Contains reports whether offset lies within the diagnostic.
// The end is inclusive so a cursor resting after the last character
// still reports the message.
func (d Diagnostic) Contains(offset int) bool {
	return offset >= d.Start && offset <= d.End
}

// Lines is the document view needed to resolve records.
type Lines interface {
	LineCount() int
	LineStart(i int) int
	Len() int
}

// GutterClass classifies a line for gutter rendering.
type GutterClass int

const (
	GutterNormal GutterClass = iota
	GutterCurrent
	GutterWarning
	GutterError
)

// String returns the class name.
func (g GutterClass) String() string {
	switch g {
	case GutterCurrent:
		return "current"
	case GutterWarning:
		return "warning"
	case GutterError:
		return "error"
	}
	return "normal"
}

// Overlay holds the active diagnostic set of one document.
type Overlay struct {
	mu        sync.RWMutex
	diags     []Diagnostic
	errLines  map[int]struct{}
	warnLines map[int]struct{}
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{
		errLines:  make(map[int]struct{}),
		warnLines: make(map[int]struct{}),
	}
}

// Apply replaces the active diagnostics with recs resolved against doc.
// Records referencing lines outside the document are skipped and returned.
func (o *Overlay) Apply(doc Lines, recs []Record) []Record {
	var (
		diags   = make([]Diagnostic, 0, len(recs))
		errs    = make(map[int]struct{})
		warns   = make(map[int]struct{})
		dropped []Record
	)

	for _, r := range recs {
		d, ok := Resolve(doc, r)
		if !ok {
			dropped = append(dropped, r)
			continue
		}
		diags = append(diags, d)

		set := errs
		if d.Severity == SeverityWarning {
			set = warns
		}
		for l := d.FirstLine; l <= d.LastLine; l++ {
			set[l] = struct{}{}
		}
	}

	o.mu.Lock()
	o.diags = diags
	o.errLines = errs
	o.warnLines = warns
	o.mu.Unlock()

	return dropped
}

// Resolve converts a record to a diagnostic. It fails if either line
// does not exist in doc.
func Resolve(doc Lines, r Record) (Diagnostic, bool) {
	n := doc.LineCount()
	first, last := r.FirstLine-1, r.LastLine-1
	if first < 0 || first >= n || last < 0 || last >= n {
		return Diagnostic{}, false
	}

	firstCol := max(0, min(r.FirstCol, r.LastCol)-1)
	lastCol := max(r.FirstCol, r.LastCol)

	length := doc.Len()
	start := clamp(doc.LineStart(first)+firstCol, 0, length)
	end := clamp(doc.LineStart(last)+lastCol, 0, length)
	if end < start {
		start, end = end, start
	}

	sev := r.Severity()
	return Diagnostic{
		Start:     start,
		End:       end,
		Message:   fmt.Sprintf("%s: %s", sev, r.Message),
		Severity:  sev,
		FirstLine: min(first, last),
		LastLine:  max(first, last),
	}, true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Remap moves the diagnostics through an edit of doc. mapOffset returns
// the new position of an offset from before the edit. A diagnostic whose
// text was deleted entirely is dropped. It reports whether any
// diagnostics were active.
func (o *Overlay) Remap(doc Lines, mapOffset func(int) int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.diags) == 0 {
		return false
	}

	var (
		diags = o.diags[:0]
		errs  = make(map[int]struct{})
		warns = make(map[int]struct{})
	)
	for _, d := range o.diags {
		start, end := mapOffset(d.Start), mapOffset(d.End)
		if d.End > d.Start && end <= start {
			continue
		}
		d.Start, d.End = start, end
		d.FirstLine = lineOf(doc, start)
		d.LastLine = lineOf(doc, max(start, end-1))
		diags = append(diags, d)

		set := errs
		if d.Severity == SeverityWarning {
			set = warns
		}
		for l := d.FirstLine; l <= d.LastLine; l++ {
			set[l] = struct{}{}
		}
	}
	o.diags = diags
	o.errLines = errs
	o.warnLines = warns
	return true
}

// lineOf returns the line holding offset.
func lineOf(doc Lines, offset int) int {
	lo, hi := 0, doc.LineCount()-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if doc.LineStart(mid) <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Clear removes all diagnostics.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.diags = nil
	o.errLines = make(map[int]struct{})
	o.warnLines = make(map[int]struct{})
}

// Diagnostics returns a copy of the active diagnostics in input order.
func (o *Overlay) Diagnostics() []Diagnostic {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.diags)
}

// Len returns the number of active diagnostics.
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.diags)
}

// TooltipAt returns the message of the first diagnostic containing offset.
func (o *Overlay) TooltipAt(offset int) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, d := range o.diags {
		if d.Contains(offset) {
			return d.Message, true
		}
	}
	return "", false
}

// ErrorLines returns the sorted lines covered by errors.
func (o *Overlay) ErrorLines() []int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return sortedKeys(o.errLines)
}

// WarningLines returns the sorted lines covered by warnings.
func (o *Overlay) WarningLines() []int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return sortedKeys(o.warnLines)
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// GutterStyleFor classifies line given the cursor's current line.
// Error takes precedence over Warning, which takes precedence over Current.
func (o *Overlay) GutterStyleFor(line, current int) GutterClass {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, ok := o.errLines[line]; ok {
		return GutterError
	}
	if _, ok := o.warnLines[line]; ok {
		return GutterWarning
	}
	if line == current {
		return GutterCurrent
	}
	return GutterNormal
}
