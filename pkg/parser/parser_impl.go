package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/sandrolain/bindtree/pkg/types"
)

// Parser implements a recursive descent parser for binding expressions.
type Parser struct {
	lexer   *Lexer
	current Token
	arena   *types.NodeArena
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		arena: types.NewNodeArena(),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the compiled Expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrSyntaxError, "Empty expression")
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.unexpected()
	}

	return types.NewArenaExpression(node, p.lexer.src, p.arena), nil
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type == TokenError {
		return p.lexer.Error()
	}
	if p.current.Type != tt {
		return p.error(types.ErrExpectedToken, fmt.Sprintf("Expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// unexpected reports the current token, preferring a pending lexer error.
func (p *Parser) unexpected() error {
	switch p.current.Type {
	case TokenError:
		return p.lexer.Error()
	case TokenEOF:
		return p.error(types.ErrUnexpectedEnd, "Unexpected end of expression")
	default:
		return p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", p.current.Value))
	}
}

// parseExpression parses a primary expression followed by any number of
// pipe stages.
func (p *Parser) parseExpression() (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrSyntaxError, "Expression nested too deeply")
	}

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.current.Type == TokenPipe {
		p.advance() // Skip '|'
		left, err = p.parsePipeStage(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrimary parses literals, calls, paths and groups.
func (p *Parser) parsePrimary() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenString:
		return p.parseString()
	case TokenNumber:
		return p.parseNumber(false)
	case TokenMinus:
		p.advance()
		if p.current.Type != TokenNumber {
			return nil, p.error(types.ErrSyntaxError, "Expected number after '-'")
		}
		return p.parseNumber(true)
	case TokenBoolean:
		node := p.arena.Alloc(types.NodeBoolean, token.Position)
		node.BoolValue = token.Value == "true"
		p.advance()
		return node, nil
	case TokenNull:
		node := p.arena.Alloc(types.NodeNull, token.Position)
		p.advance()
		return node, nil
	case TokenName:
		p.advance()
		if token.Value == "fn" && p.current.Type == TokenColon {
			p.advance() // Skip ':'
			name := p.current
			if err := p.expect(TokenName); err != nil {
				return nil, err
			}
			if p.current.Type != TokenParenOpen {
				return nil, p.error(types.ErrExpectedToken, fmt.Sprintf("Expected ( after fn:%s", name.Value))
			}
			return p.parseCall(name, nil)
		}
		if p.current.Type == TokenParenOpen {
			return p.parseCall(token, nil)
		}
		return p.parsePath(p.nameNode(token))
	case TokenNameEsc:
		p.advance()
		return p.parsePath(p.nameNode(token))
	case TokenVariable:
		if token.Value != "index" {
			return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unknown variable $%s", token.Value))
		}
		node := p.arena.Alloc(types.NodeVariable, token.Position)
		node.StrValue = token.Value
		p.advance()
		return node, nil
	case TokenParenOpen:
		p.advance() // Skip '('
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.unexpected()
	}
}

// parsePipeStage parses the right side of input | name or input | name(args).
func (p *Parser) parsePipeStage(input *types.ASTNode) (*types.ASTNode, error) {
	name := p.current
	if err := p.expect(TokenName); err != nil {
		return nil, err
	}
	if name.Value == "fn" && p.current.Type == TokenColon {
		p.advance() // Skip ':'
		name = p.current
		if err := p.expect(TokenName); err != nil {
			return nil, err
		}
	}

	if p.current.Type == TokenParenOpen {
		return p.parseCall(name, input)
	}

	node := p.arena.Alloc(types.NodeFunction, name.Position)
	node.StrValue = name.Value
	node.LHS = input
	return node, nil
}

// parseCall parses the argument list of a call. The current token is '('.
func (p *Parser) parseCall(name Token, input *types.ASTNode) (*types.ASTNode, error) {
	p.advance() // Skip '('

	node := p.arena.Alloc(types.NodeFunction, name.Position)
	node.StrValue = name.Value
	node.LHS = input

	if p.current.Type != TokenParenClose {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			node.Arguments = append(node.Arguments, arg)

			if p.current.Type == TokenParenClose {
				break
			}

			if err := p.expect(TokenComma); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	return node, nil
}

// parsePath collects .member and [index] steps after a root name.
func (p *Parser) parsePath(root *types.ASTNode) (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodePath, root.Position)
	node.Steps = []*types.ASTNode{root}

	for {
		switch p.current.Type {
		case TokenDot:
			p.advance() // Skip '.'
			step := p.current
			switch step.Type {
			case TokenName, TokenNameEsc, TokenBoolean, TokenNull:
				node.Steps = append(node.Steps, p.nameNode(step))
				p.advance()
			case TokenNumber:
				// items.0 is items[0]
				idx, err := p.parseNumber(false)
				if err != nil {
					return nil, err
				}
				index := p.arena.Alloc(types.NodeIndex, step.Position)
				index.LHS = idx
				node.Steps = append(node.Steps, index)
			default:
				return nil, p.error(types.ErrExpectedToken, fmt.Sprintf("Expected name after '.' but got %s", step.Type.String()))
			}
		case TokenBracketOpen:
			pos := p.current.Position
			p.advance() // Skip '['
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TokenBracketClose); err != nil {
				return nil, err
			}
			index := p.arena.Alloc(types.NodeIndex, pos)
			index.LHS = idx
			node.Steps = append(node.Steps, index)
		default:
			return node, nil
		}
	}
}

func (p *Parser) nameNode(token Token) *types.ASTNode {
	node := p.arena.Alloc(types.NodeName, token.Position)
	node.StrValue = token.Value
	return node
}

// parseString parses a string literal.
func (p *Parser) parseString() (*types.ASTNode, error) {
	unescaped, err := unescapeString(p.current.Value)
	if err != nil {
		return nil, p.error(types.ErrUnsupportedEscape, fmt.Sprintf("Invalid string literal: %v", err))
	}

	node := p.arena.Alloc(types.NodeString, p.current.Position)
	node.StrValue = unescaped
	p.advance()
	return node, nil
}

// parseNumber parses a numeric literal, negated when neg is set.
func (p *Parser) parseNumber(neg bool) (*types.ASTNode, error) {
	val, err := strconv.ParseFloat(p.current.Value, 64)
	if err != nil {
		return nil, p.error(types.ErrNumberOutOfRange, fmt.Sprintf("Invalid number: %s", p.current.Value))
	}
	if neg {
		val = -val
	}

	node := p.arena.Alloc(types.NodeNumber, p.current.Position)
	node.NumValue = val
	node.StrValue = p.current.Value
	p.advance()
	return node, nil
}

// unescapeString processes JSON-style escape sequences.
func unescapeString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil // Fast path: no escapes
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			continue
		}

		i++ // Skip backslash
		if i >= len(s) {
			return "", fmt.Errorf("invalid escape sequence at end of string")
		}

		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case 'b':
			result.WriteByte('\b')
		case 'f':
			result.WriteByte('\f')
		case '\\', '"', '\'', '/':
			result.WriteByte(s[i])
		case 'u':
			if i+4 >= len(s) {
				return "", fmt.Errorf("invalid \\u escape: not enough characters")
			}
			hex := s[i+1 : i+5]
			codePoint, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %s", hex)
			}
			i += 4

			r := rune(codePoint)
			if utf16.IsSurrogate(r) && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				low, err := strconv.ParseUint(s[i+3:i+7], 16, 16)
				if err == nil {
					if dec := utf16.DecodeRune(r, rune(low)); dec != utf8.RuneError {
						result.WriteRune(dec)
						i += 6
						continue
					}
				}
			}
			result.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape sequence: \\%c", s[i])
		}
	}

	return result.String(), nil
}
