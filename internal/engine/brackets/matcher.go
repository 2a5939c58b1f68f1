package brackets

// MatchKind classifies the result of MatchAt.
type MatchKind int

const (
	// NoBracket means no delimiter is adjacent to the cursor.
	NoBracket MatchKind = iota
	// Matched means a partner delimiter was found.
	Matched
	// Unmatched means the delimiter has no partner.
	Unmatched
)

// String returns the kind name.
func (k MatchKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Unmatched:
		return "unmatched"
	}
	return "none"
}

// Match is the result of a cursor match query. Offsets are absolute and
// each denotes a one character span.
type Match struct {
	Kind MatchKind

	// At is the offset of the delimiter next to the cursor.
	At int

	// Partner is the offset of the matching delimiter when Kind is Matched.
	Partner int
}

// Open returns the offset of the opening delimiter of a matched pair.
func (m Match) Open() int {
	return min(m.At, m.Partner)
}

// Close returns the offset of the closing delimiter of a matched pair.
func (m Match) Close() int {
	return max(m.At, m.Partner)
}

// MatchOpen scans forward for closer starting at token index from of line.
// Any opener deepens nesting and any other closer unwinds it, regardless of
// delimiter kind. Returns the absolute offset of the match.
func (m *Model) MatchOpen(line, from int, closer rune) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if line < 0 || line >= len(m.lines) {
		return 0, false
	}

	depth := 0
	for l := line; l < len(m.lines); l++ {
		toks := m.lines[l].tokens
		start := 0
		if l == line {
			start = max(from, 0)
		}
		for i := start; i < len(toks); i++ {
			switch {
			case toks[i].IsOpen():
				depth++
			case toks[i].Char == closer && depth == 0:
				return m.src.LineStart(l) + toks[i].Pos, true
			default:
				depth--
			}
		}
	}
	return 0, false
}

// MatchClose scans backward for opener starting at token index from of
// line and continuing through the last token of each earlier line.
func (m *Model) MatchClose(line, from int, opener rune) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if line < 0 || line >= len(m.lines) {
		return 0, false
	}

	depth := 0
	for l := line; l >= 0; l-- {
		toks := m.lines[l].tokens
		start := len(toks) - 1
		if l == line {
			start = min(from, len(toks)-1)
		}
		for i := start; i >= 0; i-- {
			switch {
			case toks[i].IsClose():
				depth++
			case toks[i].Char == opener && depth == 0:
				return m.src.LineStart(l) + toks[i].Pos, true
			default:
				depth--
			}
		}
	}
	return 0, false
}

// MatchAt finds the delimiter adjacent to the cursor at column col of line
// and looks for its partner. The character before the cursor is checked
// first, then the character after it.
func (m *Model) MatchAt(line, col int) Match {
	toks := m.BracketsAt(line)
	if len(toks) == 0 {
		return Match{Kind: NoBracket}
	}

	idx := -1
	for _, c := range []int{col - 1, col} {
		for i, t := range toks {
			if t.Pos == c {
				idx = i
				break
			}
		}
		if idx >= 0 {
			break
		}
	}
	if idx < 0 {
		return Match{Kind: NoBracket}
	}

	tok := toks[idx]
	at := m.src.LineStart(line) + tok.Pos

	var (
		partner int
		ok      bool
	)
	if tok.IsOpen() {
		partner, ok = m.MatchOpen(line, idx+1, Partner(tok.Char))
	} else {
		partner, ok = m.MatchClose(line, idx-1, Partner(tok.Char))
	}
	if !ok {
		return Match{Kind: Unmatched, At: at}
	}
	return Match{Kind: Matched, At: at, Partner: partner}
}
