package overlay

import (
	"slices"
	"sort"
	"sync"
)

// Manager holds the active highlight spans of one editor.
type Manager struct {
	mu    sync.RWMutex
	spans []Span
}

// NewManager creates an empty span manager.
func NewManager() *Manager {
	return &Manager{}
}

// Replace drops every span of the given kind and installs spans in their
// place. Spans in the new list whose kind differs are ignored. Spans of
// other kinds are carried over untouched.
func (m *Manager) Replace(kind Kind, spans []Span) {
	m.ReplaceKinds([]Kind{kind}, spans)
}

// ReplaceKinds is Replace for a set of kinds swapped in one step.
func (m *Manager) ReplaceKinds(kinds []Kind, spans []Span) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]Span, 0, len(m.spans)+len(spans))
	for _, s := range m.spans {
		if !slices.Contains(kinds, s.Kind) {
			next = append(next, s)
		}
	}
	for _, s := range spans {
		if slices.Contains(kinds, s.Kind) {
			next = append(next, s)
		}
	}
	m.spans = next
}

// Clear removes all spans.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = nil
}

// Count returns the number of spans.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.spans)
}

// Spans returns a copy of all spans in insertion order.
func (m *Manager) Spans() []Span {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.spans)
}

// SpansOfKind returns the spans of one kind in insertion order.
func (m *Manager) SpansOfKind(kind Kind) []Span {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Span
	for _, s := range m.spans {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// SpansForLine returns the spans touching the line that occupies offsets
// [lineStart, lineEnd], clipped to columns and sorted by priority with
// the lowest first.
func (m *Manager) SpansForLine(lineStart, lineEnd int) []LineSpan {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []LineSpan
	for _, s := range m.spans {
		if !s.Overlaps(lineStart, lineEnd) {
			continue
		}
		start := max(s.Start, lineStart) - lineStart
		end := min(s.End, lineEnd) - lineStart
		out = append(out, LineSpan{
			Kind:      s.Kind,
			StartCol:  start,
			EndCol:    end,
			FullWidth: s.FullWidth,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind.Priority() < out[j].Kind.Priority()
	})
	return out
}
