// Package types defines the shared types of bindtree.
//
// This package contains type definitions for:
//   - Expression: compiled binding expressions
//   - ASTNode: Abstract Syntax Tree nodes
//   - Error: structured errors with codes
package types

// Expression represents a compiled binding expression.
//
// An Expression is immutable after parsing and can be evaluated any number of
// times against different data contexts. It is safe for concurrent use.
type Expression struct {
	ast    *ASTNode
	source string
	arena  *NodeArena // keeps the node storage alive as long as the expression
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// NewArenaExpression creates an Expression whose nodes live in arena.
func NewArenaExpression(ast *ASTNode, source string, arena *NodeArena) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
		arena:  arena,
	}
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the expression text the AST was parsed from.
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
