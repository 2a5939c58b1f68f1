// Package brackets maintains a per-line cache of delimiter tokens and
// matches opening and closing delimiters across line boundaries.
package brackets

// Token is a delimiter at a column within one line.
type Token struct {
	// Char is one of ( ) { } [ ].
	Char rune

	// Pos is the 0-indexed character column within the line.
	Pos int
}

// IsOpen reports whether the token is an opening delimiter.
func (t Token) IsOpen() bool {
	return IsOpen(t.Char)
}

// IsClose reports whether the token is a closing delimiter.
func (t Token) IsClose() bool {
	return IsClose(t.Char)
}

// IsOpen reports whether r is an opening delimiter.
func IsOpen(r rune) bool {
	return r == '(' || r == '{' || r == '['
}

// IsClose reports whether r is a closing delimiter.
func IsClose(r rune) bool {
	return r == ')' || r == '}' || r == ']'
}

// IsBracket reports whether r is any delimiter.
func IsBracket(r rune) bool {
	return IsOpen(r) || IsClose(r)
}

// Partner returns the counterpart of a delimiter, or 0 if r is not one.
func Partner(r rune) rune {
	switch r {
	case '(':
		return ')'
	case ')':
		return '('
	case '{':
		return '}'
	case '}':
		return '{'
	case '[':
		return ']'
	case ']':
		return '['
	}
	return 0
}

// State is the tokenizer state carried from the end of one line to the
// start of the next, for example "inside a block comment". The zero value
// is the normal state.
type State int

// Tokenizer extracts delimiter tokens from one line of text.
// Delimiters inside strings and comments must be excluded, and the
// returned tokens must be sorted by position.
type Tokenizer interface {
	BracketTokens(line string, prev State) ([]Token, State)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(line string, prev State) ([]Token, State)

// BracketTokens calls f.
func (f TokenizerFunc) BracketTokens(line string, prev State) ([]Token, State) {
	return f(line, prev)
}

// Plain is a Tokenizer that reports every delimiter character.
var Plain Tokenizer = TokenizerFunc(func(line string, prev State) ([]Token, State) {
	var out []Token
	col := 0
	for _, r := range line {
		if IsBracket(r) {
			out = append(out, Token{Char: r, Pos: col})
		}
		col++
	}
	return out, prev
})

// Lines is the read-only view of a document the model needs.
type Lines interface {
	LineCount() int
	Line(i int) string
	LineStart(i int) int
}
