package brackets

import "sync"

// lineData is the cached tokenizer output for one line.
type lineData struct {
	tokens []Token
	end    State
}

// Model caches the delimiter tokens of every line of a document.
// Entries are keyed by line index and kept aligned with the document
// through Splice.
type Model struct {
	mu    sync.RWMutex
	src   Lines
	tok   Tokenizer
	lines []lineData
}

// NewModel creates a model over src and tokenizes every line.
// A nil tokenizer falls back to Plain.
func NewModel(src Lines, tok Tokenizer) *Model {
	if tok == nil {
		tok = Plain
	}
	m := &Model{src: src, tok: tok}
	m.Rebuild()
	return m
}

// Rebuild discards the cache and tokenizes the whole document.
func (m *Model) Rebuild() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuild()
}

func (m *Model) rebuild() {
	n := m.src.LineCount()
	m.lines = make([]lineData, n)
	var st State
	for i := 0; i < n; i++ {
		toks, end := m.tok.BracketTokens(m.src.Line(i), st)
		m.lines[i] = lineData{tokens: toks, end: end}
		st = end
	}
}

// SetTokenizer replaces the tokenizer and rebuilds the cache.
func (m *Model) SetTokenizer(tok Tokenizer) {
	if tok == nil {
		tok = Plain
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = tok
	m.rebuild()
}

// LineCount returns the number of cached lines.
func (m *Model) LineCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines)
}

// OnLineChanged recomputes the tokens of line i. If the line's end state
// changes, following lines are recomputed until the state settles.
// Out-of-range indices are ignored.
func (m *Model) OnLineChanged(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.lines) {
		return
	}
	m.refresh(i, i+1)
}

// Splice applies a line-sequence change: removed lines starting at line
// are replaced by inserted lines, which are then tokenized.
func (m *Model) Splice(line, removed, inserted int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if line < 0 || line > len(m.lines) || removed < 0 || inserted < 0 ||
		line+removed > len(m.lines) {
		m.rebuild()
		return
	}

	fresh := make([]lineData, inserted)
	tail := m.lines[line+removed:]
	lines := make([]lineData, 0, line+inserted+len(tail))
	lines = append(lines, m.lines[:line]...)
	lines = append(lines, fresh...)
	lines = append(lines, tail...)
	m.lines = lines

	// The cache missed a change; start over.
	if len(m.lines) != m.src.LineCount() {
		m.rebuild()
		return
	}
	if inserted == 0 {
		if line < len(m.lines) {
			m.refresh(line, line)
		}
		return
	}
	m.refresh(line, line+inserted)
}

// refresh recomputes lines [from, to) unconditionally and then keeps going
// while a line's end state differs from the cached one.
// Caller holds the write lock.
func (m *Model) refresh(from, to int) {
	var st State
	if from > 0 {
		st = m.lines[from-1].end
	}
	for i := from; i < len(m.lines); i++ {
		old := m.lines[i].end
		toks, end := m.tok.BracketTokens(m.src.Line(i), st)
		m.lines[i] = lineData{tokens: toks, end: end}
		st = end
		if i+1 >= to && end == old {
			return
		}
	}
}

// BracketsAt returns the tokens of line i, ordered by position.
// Out-of-range indices return nil.
func (m *Model) BracketsAt(i int) []Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.lines) {
		return nil
	}
	return m.lines[i].tokens
}
