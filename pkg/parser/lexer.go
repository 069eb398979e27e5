package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/bindtree/pkg/types"
)

// Lexer splits binding expression text into tokens, one token per call to
// Next, in the manner of Rob Pike's "Lexical Scanning in Go".
//
// After the first error every call to Next returns TokenEOF; the error is
// available from Error.
type Lexer struct {
	src string
	pos int
	err error
}

// NewLexer returns a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{src: input}
}

// Next scans and returns the next token.
func (l *Lexer) Next() Token {
	if l.err == nil {
		l.skipSpace()
	}
	if l.err != nil || l.pos >= len(l.src) {
		return Token{Type: TokenEOF, Position: l.pos}
	}

	start := l.pos
	r, w := utf8.DecodeRuneInString(l.src[start:])
	switch {
	case r == '"' || r == '\'':
		return l.quoted(TokenString, byte(r))
	case r == '`':
		return l.quoted(TokenNameEsc, '`')
	case isDigit(r):
		return l.number()
	case r == '$':
		return l.variable()
	case isNameRune(r):
		return l.name()
	}

	if tt, ok := punctuation[r]; ok {
		l.pos += w
		return Token{Type: tt, Value: l.src[start:l.pos], Position: start}
	}
	return l.fail(types.ErrSyntaxError, fmt.Sprintf("Unexpected character %q", r), start, start+w)
}

// Error returns the error that stopped the lexer, if any.
func (l *Lexer) Error() error {
	return l.err
}

// quoted scans a string literal or an escaped name. The token value is the
// raw text between the quotes; escapes are decoded by the parser.
func (l *Lexer) quoted(tt TokenType, quote byte) Token {
	start := l.pos + 1
	for i := start; i < len(l.src); i++ {
		switch c := l.src[i]; {
		case c == quote:
			l.pos = i + 1
			return Token{Type: tt, Value: l.src[start:i], Position: start}
		case c == '\\' && tt == TokenString:
			i++
		case c == '\n' && tt == TokenNameEsc:
			return l.fail(types.ErrUnsupportedEscape, "Unterminated name", start, i)
		}
	}
	if tt == TokenNameEsc {
		return l.fail(types.ErrUnsupportedEscape, "Unterminated name", start, len(l.src))
	}
	return l.fail(types.ErrStringNotClosed, "Unterminated string literal", start, len(l.src))
}

// number scans 0 | [1-9][0-9]* with an optional fraction and exponent. A dot
// not followed by a digit is left for the path (items.0.name).
func (l *Lexer) number() Token {
	start := l.pos
	if l.src[start] == '0' {
		l.pos++
	} else {
		l.pos = l.digits(start)
	}

	if l.at(l.pos) == '.' && isDigit(rune(l.at(l.pos+1))) {
		l.pos = l.digits(l.pos + 1)
	}

	if c := l.at(l.pos); c == 'e' || c == 'E' {
		i := l.pos + 1
		if c := l.at(i); c == '+' || c == '-' {
			i++
		}
		end := l.digits(i)
		if end == i {
			return l.fail(types.ErrNumberOutOfRange, "Expected digits in exponent", start, end)
		}
		l.pos = end
	}

	return Token{Type: TokenNumber, Value: l.src[start:l.pos], Position: start}
}

func (l *Lexer) variable() Token {
	start := l.pos
	end := l.nameEnd(start + 1)
	if end == start+1 {
		return l.fail(types.ErrSyntaxError, "Expected variable name after $", end, end)
	}
	l.pos = end
	return Token{Type: TokenVariable, Value: l.src[start+1 : end], Position: start}
}

func (l *Lexer) name() Token {
	start := l.pos
	l.pos = l.nameEnd(start)
	t := Token{Type: TokenName, Value: l.src[start:l.pos], Position: start}
	if tt, ok := keywords[t.Value]; ok {
		t.Type = tt
	}
	return t
}

func (l *Lexer) fail(code types.ErrorCode, message string, start, end int) Token {
	t := Token{Type: TokenError, Value: l.src[start:end], Position: start}
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: start,
		Token:    t.Value,
	}
	l.pos = len(l.src)
	return t
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', '\v':
			l.pos++
		default:
			return
		}
	}
}

// at returns the byte at i, or 0 past the end.
func (l *Lexer) at(i int) byte {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func (l *Lexer) digits(i int) int {
	for i < len(l.src) && isDigit(rune(l.src[i])) {
		i++
	}
	return i
}

func (l *Lexer) nameEnd(i int) int {
	for i < len(l.src) {
		r, w := utf8.DecodeRuneInString(l.src[i:])
		if !isNameRune(r) {
			break
		}
		i += w
	}
	return i
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
