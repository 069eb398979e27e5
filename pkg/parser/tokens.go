package parser

// TokenType identifies the kind of a lexical token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenError

	TokenString   // 'text' or "text", Value holds the raw text between the quotes
	TokenNumber   // 12, 3.5, 1e3
	TokenBoolean  // true, false
	TokenNull     // null
	TokenName     // user
	TokenNameEsc  // `odd key`
	TokenVariable // $index, Value holds the name without '$'

	TokenBracketOpen
	TokenBracketClose
	TokenParenOpen
	TokenParenClose
	TokenDot
	TokenComma
	TokenColon // only after the fn prefix
	TokenPipe
	TokenMinus // only before a number
)

var tokenNames = [...]string{
	TokenEOF:          "(eof)",
	TokenError:        "(error)",
	TokenString:       "(string)",
	TokenNumber:       "(number)",
	TokenBoolean:      "(boolean)",
	TokenNull:         "(null)",
	TokenName:         "(name)",
	TokenNameEsc:      "(name)",
	TokenVariable:     "(variable)",
	TokenBracketOpen:  "[",
	TokenBracketClose: "]",
	TokenParenOpen:    "(",
	TokenParenClose:   ")",
	TokenDot:          ".",
	TokenComma:        ",",
	TokenColon:        ":",
	TokenPipe:         "|",
	TokenMinus:        "-",
}

// String returns the symbol of punctuation tokens and a parenthesized kind
// for the others.
func (tt TokenType) String() string {
	if int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return "(unknown)"
}

// Token is a lexical token of a binding expression.
type Token struct {
	Type     TokenType
	Value    string
	Position int // byte offset in the expression text
}

var punctuation = map[rune]TokenType{
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'.': TokenDot,
	',': TokenComma,
	':': TokenColon,
	'|': TokenPipe,
	'-': TokenMinus,
}

var keywords = map[string]TokenType{
	"true":  TokenBoolean,
	"false": TokenBoolean,
	"null":  TokenNull,
}
