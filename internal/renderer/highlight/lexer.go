package highlight

import (
	"unicode"

	"github.com/dshills/mzedit/internal/engine/brackets"
)

// Keywords is the MiniZinc reserved word list.
var Keywords = []string{
	"annotation", "any", "constraint", "diff", "div", "else", "elseif",
	"endif", "enum", "function", "if", "in", "include", "intersect", "let",
	"maximize", "minimize", "mod", "not", "of", "op", "output", "par",
	"predicate", "satisfy", "solve", "subset", "superset", "symdiff",
	"test", "then", "type", "union", "var", "where", "xor",
}

var builtinTypes = []string{
	"ann", "array", "bool", "float", "int", "list", "opt", "record", "set",
	"string", "tuple",
}

var builtinFunctions = []string{
	"abs", "alldifferent", "all_different", "assert", "bool2int", "card",
	"ceil", "concat", "count", "dom", "exists", "fix", "floor", "forall",
	"index_set", "int2float", "length", "lb", "max", "min", "product",
	"show", "sqrt", "sum", "ub",
}

// Lexer tokenizes MiniZinc one line at a time.
// It is stateless apart from its word tables and safe for concurrent use.
type Lexer struct {
	words map[string]TokenType
}

// NewLexer creates a MiniZinc lexer.
func NewLexer() *Lexer {
	l := &Lexer{words: make(map[string]TokenType)}
	for _, w := range builtinFunctions {
		l.words[w] = TokenFunctionBuiltin
	}
	for _, w := range builtinTypes {
		l.words[w] = TokenTypeBuiltin
	}
	for _, w := range Keywords {
		l.words[w] = TokenKeyword
	}
	l.words["true"] = TokenKeyword
	l.words["false"] = TokenKeyword
	return l
}

// HighlightLine tokenizes a single line given the state at its start.
func (l *Lexer) HighlightLine(line string, prev LexerState) ([]Token, LexerState) {
	return l.scan([]rune(line), prev)
}

// BracketTokens returns the delimiters of line that are outside strings
// and comments.
func (l *Lexer) BracketTokens(line string, prev brackets.State) ([]brackets.Token, brackets.State) {
	rs := []rune(line)
	toks, state := l.scan(rs, LexerState(prev))
	var out []brackets.Token
	for _, t := range toks {
		if t.Type == TokenBracket {
			out = append(out, brackets.Token{Char: rs[t.StartCol], Pos: t.StartCol})
		}
	}
	return out, brackets.State(state)
}

func (l *Lexer) scan(rs []rune, state LexerState) ([]Token, LexerState) {
	var toks []Token
	n := len(rs)
	i := 0

	if state == LexerStateBlockComment {
		end, closed := blockCommentEnd(rs, 0)
		toks = appendToken(toks, TokenComment, 0, end)
		if !closed {
			return toks, LexerStateBlockComment
		}
		i = end
	}

	for i < n {
		r := rs[i]
		switch {
		case r == '%':
			return appendToken(toks, TokenComment, i, n), LexerStateNormal

		case r == '/' && i+1 < n && rs[i+1] == '*':
			end, closed := blockCommentEnd(rs, i+2)
			toks = appendToken(toks, TokenComment, i, end)
			if !closed {
				return toks, LexerStateBlockComment
			}
			i = end

		case r == '"':
			end := stringEnd(rs, i+1)
			toks = appendToken(toks, TokenString, i, end)
			i = end

		case brackets.IsBracket(r):
			toks = appendToken(toks, TokenBracket, i, i+1)
			i++

		case unicode.IsDigit(r):
			end := numberEnd(rs, i)
			toks = appendToken(toks, TokenNumber, i, end)
			i = end

		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < n && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			typ, ok := l.words[string(rs[start:i])]
			if !ok {
				typ = TokenIdentifier
			}
			toks = appendToken(toks, typ, start, i)

		case unicode.IsSpace(r):
			i++

		default:
			start := i
			for i < n && isOperator(rs[i]) && !(rs[i] == '/' && i+1 < n && rs[i+1] == '*') {
				i++
			}
			if i == start {
				i++
			}
			toks = appendToken(toks, TokenOperator, start, i)
		}
	}
	return toks, LexerStateNormal
}

func appendToken(toks []Token, typ TokenType, start, end int) []Token {
	if end <= start {
		return toks
	}
	return append(toks, Token{Type: typ, StartCol: start, EndCol: end})
}

// blockCommentEnd returns the index just past "*/" at or after i.
func blockCommentEnd(rs []rune, i int) (int, bool) {
	for ; i+1 < len(rs); i++ {
		if rs[i] == '*' && rs[i+1] == '/' {
			return i + 2, true
		}
	}
	return len(rs), false
}

// stringEnd returns the index just past the closing quote. Strings do not
// span lines; an unterminated string runs to the end of the line.
func stringEnd(rs []rune, i int) int {
	for i < len(rs) {
		switch rs[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return len(rs)
}

// numberEnd scans an integer, float or 0x/0o/0b literal. A ".." range
// operator is not consumed.
func numberEnd(rs []rune, i int) int {
	n := len(rs)
	if rs[i] == '0' && i+1 < n && (rs[i+1] == 'x' || rs[i+1] == 'o' || rs[i+1] == 'b') {
		i += 2
		for i < n && (isHexDigit(rs[i])) {
			i++
		}
		return i
	}
	for i < n && unicode.IsDigit(rs[i]) {
		i++
	}
	if i+1 < n && rs[i] == '.' && unicode.IsDigit(rs[i+1]) {
		i++
		for i < n && unicode.IsDigit(rs[i]) {
			i++
		}
	}
	if i < n && (rs[i] == 'e' || rs[i] == 'E') {
		j := i + 1
		if j < n && (rs[j] == '+' || rs[j] == '-') {
			j++
		}
		if j < n && unicode.IsDigit(rs[j]) {
			i = j
			for i < n && unicode.IsDigit(rs[i]) {
				i++
			}
		}
	}
	return i
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOperator(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '=', '<', '>', '!', '\\', '.', ':', ';', ',', '|', '^', '~', '\'':
		return true
	}
	return false
}
