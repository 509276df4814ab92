// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the resolver and the tree-walking evaluator. It is a closed
// tagged sum over a fixed set of expression and statement variants (an
// interface plus one struct per variant) rather than an open-ended class
// hierarchy, so a type switch over the variants is exhaustive and the
// compiler can check it.
package ast

import "github.com/loxlang/lox/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end source position of the node.
	Span() (start, end token.Pos)

	// Walk enters each child node to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmt()
}

// ExprID is a stable, unique identity assigned to every variable-referencing
// expression (Assign, Variable, This, Super) at construction time. The
// resolver's side-table is keyed by ExprID rather than by pointer identity,
// since pointer identity would be fragile under node cloning.
type ExprID uint64

var nextExprID uint64

// NextExprID returns a fresh, monotonically increasing expression identity.
// It is not safe for concurrent use from multiple goroutines; the parser
// that calls it runs single-threaded, matching the rest of this language's
// single-threaded execution model.
func NextExprID() ExprID {
	nextExprID++
	return ExprID(nextExprID)
}

// ResetExprIDs restarts the identity counter at zero. It exists only so that
// tests can produce deterministic IDs; production parsing never needs it.
func ResetExprIDs() { nextExprID = 0 }
