package document

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Change describes a splice of the line sequence caused by one edit.
// Lines [Line, Line+Removed) of the previous content were replaced by
// lines [Line, Line+Inserted) of the current content.
type Change struct {
	Line     int
	Removed  int
	Inserted int
	Revision uint64

	// Offset is where the edit starts. OldLen characters were replaced
	// by NewLen characters.
	Offset int
	OldLen int
	NewLen int

	// Column is the start column on Line. EndColumn is the column on the
	// last removed line where the replaced text ended.
	Column    int
	EndColumn int
}

// Delta returns the net change in line count.
func (c Change) Delta() int {
	return c.Inserted - c.Removed
}

// MapOffset returns where off sits after the change. Offsets inside the
// replaced text collapse to its start. An offset at the end of the
// replaced text, including an insertion point, moves past the new text.
func (c Change) MapOffset(off int) int {
	switch {
	case off < c.Offset:
		return off
	case off >= c.Offset+c.OldLen:
		return off + c.NewLen - c.OldLen
	default:
		return c.Offset
	}
}

// MapLine returns the line that held the start of line after the change.
// It reports false when the change deleted the start of the line.
func (c Change) MapLine(line int) (int, bool) {
	last := c.Line + c.Removed - 1
	switch {
	case line < c.Line:
		return line, true
	case line > last:
		return line + c.Delta(), true
	case line == c.Line && c.Column > 0:
		return line, true
	case line == c.Line && c.OldLen > 0:
		return line, true
	case line == last && c.EndColumn == 0:
		// The start of the line is the insertion point or the end of the
		// replaced text, so it moves past the new text.
		return c.Line + c.Inserted - 1, true
	}
	return 0, false
}

// ChangeFunc receives change notifications.
type ChangeFunc func(Change)

// Subscription identifies a registered change listener.
type Subscription struct {
	doc *Document
	id  uint64
}

// Unsubscribe removes the listener. It is safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.doc == nil {
		return
	}
	s.doc.unsubscribe(s.id)
}

type subscriber struct {
	id uint64
	fn ChangeFunc
}

// Document is a thread-safe, line-indexed text document.
type Document struct {
	mu sync.RWMutex

	lines  []string
	starts []int // starts[i] is the offset of line i
	length int

	revision uint64

	subs    []subscriber
	nextSub uint64

	history
}

// New creates a document holding text.
func New(text string) *Document {
	d := &Document{}
	d.lines = splitLines(normalize(text))
	d.reindex()
	return d
}

// normalize converts CRLF and lone CR separators to LF.
func normalize(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// reindex recomputes line starts and total length. Caller holds the write lock.
func (d *Document) reindex() {
	if cap(d.starts) < len(d.lines) {
		d.starts = make([]int, len(d.lines))
	}
	d.starts = d.starts[:len(d.lines)]
	off := 0
	for i, l := range d.lines {
		d.starts[i] = off
		off += utf8.RuneCountInString(l) + 1
	}
	d.length = off - 1
}

// Revision returns a counter incremented by every applied edit.
func (d *Document) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the text of line i without its separator.
// Returns "" if i is out of range.
func (d *Document) Line(i int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// LineLen returns the number of characters in line i, or 0 if out of range.
func (d *Document) LineLen(i int) int {
	return utf8.RuneCountInString(d.Line(i))
}

// LineStart returns the offset of the first character of line i.
// Indices past the end clamp to Len, negative indices to 0.
func (d *Document) LineStart(i int) Offset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	switch {
	case i < 0:
		return 0
	case i >= len(d.lines):
		return d.length
	}
	return d.starts[i]
}

// Len returns the total number of characters, separators included.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.length
}

// Text returns the full document content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.lines, "\n")
}

// TextRange returns the text in [start, end).
func (d *Document) TextRange(start, end Offset) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := d.checkRange(start, end); err != nil {
		return "", err
	}
	return d.textRange(start, end), nil
}

// OffsetToPoint converts an offset to a line/column point.
// The offset is clamped to [0, Len].
func (d *Document) OffsetToPoint(off Offset) Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.offsetToPoint(off)
}

// PointToOffset converts a point to an offset.
// The line is clamped to the document and the column to the line.
func (d *Document) PointToOffset(p Point) Offset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pointToOffset(p)
}

func (d *Document) offsetToPoint(off Offset) Point {
	off = max(0, min(off, d.length))
	// Binary search for the last line starting at or before off.
	lo, hi := 0, len(d.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Line: lo, Column: off - d.starts[lo]}
}

func (d *Document) pointToOffset(p Point) Offset {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(d.lines) {
		return d.length
	}
	col := max(0, min(p.Column, utf8.RuneCountInString(d.lines[p.Line])))
	return d.starts[p.Line] + col
}

func (d *Document) checkRange(start, end Offset) error {
	if start < 0 || end > d.length || start > d.length || end < 0 {
		return ErrOffsetOutOfRange
	}
	if end < start {
		return ErrRangeInvalid
	}
	return nil
}

func (d *Document) textRange(start, end Offset) string {
	sp := d.offsetToPoint(start)
	ep := d.offsetToPoint(end)
	if sp.Line == ep.Line {
		l := d.lines[sp.Line]
		return l[byteIndex(l, sp.Column):byteIndex(l, ep.Column)]
	}
	var b strings.Builder
	first := d.lines[sp.Line]
	b.WriteString(first[byteIndex(first, sp.Column):])
	for i := sp.Line + 1; i < ep.Line; i++ {
		b.WriteByte('\n')
		b.WriteString(d.lines[i])
	}
	last := d.lines[ep.Line]
	b.WriteByte('\n')
	b.WriteString(last[:byteIndex(last, ep.Column)])
	return b.String()
}

// byteIndex returns the byte index of the col-th rune of s.
func byteIndex(s string, col int) int {
	if col <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == col {
			return i
		}
		n++
	}
	return len(s)
}

// Replace replaces the text in [start, end) with text.
func (d *Document) Replace(start, end Offset, text string) error {
	text = normalize(text)
	d.mu.Lock()
	if err := d.checkRange(start, end); err != nil {
		d.mu.Unlock()
		return err
	}
	if start == end && text == "" {
		d.mu.Unlock()
		return nil
	}
	e := edit{Offset: start, Old: d.textRange(start, end), New: text}
	c := d.apply(e)
	d.record(e)
	subs := d.snapshotSubs()
	d.mu.Unlock()

	notify(subs, c)
	return nil
}

// Insert inserts text at offset.
func (d *Document) Insert(off Offset, text string) error {
	return d.Replace(off, off, text)
}

// Delete removes the text in [start, end).
func (d *Document) Delete(start, end Offset) error {
	return d.Replace(start, end, "")
}

// apply performs e against the line table and returns the resulting change.
// Caller holds the write lock and has validated the range.
func (d *Document) apply(e edit) Change {
	end := e.Offset + utf8.RuneCountInString(e.Old)
	sp := d.offsetToPoint(e.Offset)
	ep := d.offsetToPoint(end)

	first := d.lines[sp.Line]
	last := d.lines[ep.Line]
	joined := first[:byteIndex(first, sp.Column)] + e.New + last[byteIndex(last, ep.Column):]
	repl := splitLines(joined)

	removed := ep.Line - sp.Line + 1
	tail := append([]string(nil), d.lines[ep.Line+1:]...)
	d.lines = append(append(d.lines[:sp.Line], repl...), tail...)
	d.reindex()
	d.revision++

	return Change{
		Line:      sp.Line,
		Removed:   removed,
		Inserted:  len(repl),
		Revision:  d.revision,
		Offset:    e.Offset,
		OldLen:    end - e.Offset,
		NewLen:    utf8.RuneCountInString(e.New),
		Column:    sp.Column,
		EndColumn: ep.Column,
	}
}

// Subscribe registers fn to receive change notifications.
// Listeners are called in subscription order, outside the document lock.
func (d *Document) Subscribe(fn ChangeFunc) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextSub++
	d.subs = append(d.subs, subscriber{id: d.nextSub, fn: fn})
	return Subscription{doc: d, id: d.nextSub}
}

func (d *Document) unsubscribe(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return
		}
	}
}

func (d *Document) snapshotSubs() []subscriber {
	if len(d.subs) == 0 {
		return nil
	}
	return append([]subscriber(nil), d.subs...)
}

func notify(subs []subscriber, c Change) {
	for _, s := range subs {
		s.fn(c)
	}
}
