// Package highlight classifies MiniZinc source into syntax tokens and
// extracts the delimiter tokens used for bracket matching.
package highlight

// TokenType represents the semantic type of a token.
type TokenType uint16

// Token types for syntax highlighting.
const (
	TokenNone TokenType = iota
	TokenComment
	TokenString
	TokenNumber
	TokenKeyword
	TokenTypeBuiltin // int, float, bool, string, set, array
	TokenFunctionBuiltin
	TokenOperator
	TokenBracket
	TokenIdentifier

	tokenTypeCount
)

// String returns the scope name of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// TokenTypeFromString converts a scope name back to a TokenType.
// A dotted scope such as "comment.line" resolves to its closest parent.
func TokenTypeFromString(scope string) TokenType {
	for scope != "" {
		if t, ok := scopeToToken[scope]; ok {
			return t
		}
		i := len(scope) - 1
		for i >= 0 && scope[i] != '.' {
			i--
		}
		if i < 0 {
			break
		}
		scope = scope[:i]
	}
	return TokenNone
}

var tokenTypeNames = [...]string{
	TokenNone:            "none",
	TokenComment:         "comment",
	TokenString:          "string",
	TokenNumber:          "number",
	TokenKeyword:         "keyword",
	TokenTypeBuiltin:     "type",
	TokenFunctionBuiltin: "function",
	TokenOperator:        "operator",
	TokenBracket:         "bracket",
	TokenIdentifier:      "identifier",
}

var scopeToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		m[name] = TokenType(i)
	}
	return m
}()

// Token represents a highlighted range within a line.
type Token struct {
	// Type is the semantic type of the token.
	Type TokenType

	// StartCol is the starting character column (0-indexed).
	StartCol int

	// EndCol is the ending column (exclusive).
	EndCol int
}

// Len returns the length of the token.
func (t Token) Len() int {
	return t.EndCol - t.StartCol
}

// Contains returns true if the column is within the token.
func (t Token) Contains(col int) bool {
	return col >= t.StartCol && col < t.EndCol
}

// LexerState is the lexer's state at a line boundary.
type LexerState uint32

const (
	LexerStateNormal LexerState = iota
	LexerStateBlockComment
)
