package ast

import "github.com/loxlang/lox/lang/token"

type (
	// Assign represents `name = value`. It carries the same ExprID concept
	// as Variable so the resolver can record the binding distance of the
	// target independently of any read of that name elsewhere.
	Assign struct {
		ID    ExprID
		Name  token.Lexeme
		Value Expr
	}

	// Binary represents `left op right` for the arithmetic, comparison and
	// equality operators.
	Binary struct {
		Left  Expr
		Op    token.Lexeme
		Right Expr
	}

	// Call represents `callee(args...)`.
	Call struct {
		Callee Expr
		Paren  token.Lexeme // closing paren, used to report arity errors at a sensible line
		Args   []Expr
	}

	// Get represents `object.name`, a property or method read.
	Get struct {
		Object Expr
		Name   token.Lexeme
	}

	// Grouping represents a parenthesized expression.
	Grouping struct {
		Inner Expr
	}

	// Literal represents a literal `nil`, `true`, `false`, number or string.
	Literal struct {
		Pos   token.Pos
		Value interface{} // nil, bool, float64 or string
	}

	// Logical represents `left and right` / `left or right`, which must
	// short-circuit and are therefore distinct from Binary.
	Logical struct {
		Left  Expr
		Op    token.Lexeme
		Right Expr
	}

	// Set represents `object.name = value`, a property write.
	Set struct {
		Object Expr
		Name   token.Lexeme
		Value  Expr
	}

	// Super represents `super.method`.
	Super struct {
		ID      ExprID
		Keyword token.Lexeme
		Method  token.Lexeme
	}

	// This represents the `this` expression inside a method.
	This struct {
		ID      ExprID
		Keyword token.Lexeme
	}

	// Unary represents `-right` or `!right`.
	Unary struct {
		Op    token.Lexeme
		Right Expr
	}

	// Variable represents a bare identifier used as an expression.
	Variable struct {
		ID   ExprID
		Name token.Lexeme
	}
)

func (*Assign) expr()   {}
func (*Binary) expr()   {}
func (*Call) expr()     {}
func (*Get) expr()      {}
func (*Grouping) expr() {}
func (*Literal) expr()  {}
func (*Logical) expr()  {}
func (*Set) expr()      {}
func (*Super) expr()    {}
func (*This) expr()     {}
func (*Unary) expr()    {}
func (*Variable) expr() {}

func (n *Assign) Span() (token.Pos, token.Pos) {
	_, end := n.Value.Span()
	return n.Name.Pos, end
}
func (n *Binary) Span() (token.Pos, token.Pos) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
func (n *Call) Span() (token.Pos, token.Pos) {
	start, _ := n.Callee.Span()
	return start, n.Paren.Pos
}
func (n *Get) Span() (token.Pos, token.Pos) {
	start, _ := n.Object.Span()
	return start, n.Name.Pos
}
func (n *Grouping) Span() (token.Pos, token.Pos) { return n.Inner.Span() }
func (n *Literal) Span() (token.Pos, token.Pos)  { return n.Pos, n.Pos }
func (n *Logical) Span() (token.Pos, token.Pos) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
func (n *Set) Span() (token.Pos, token.Pos) {
	start, _ := n.Object.Span()
	_, end := n.Value.Span()
	return start, end
}
func (n *Super) Span() (token.Pos, token.Pos)    { return n.Keyword.Pos, n.Method.Pos }
func (n *This) Span() (token.Pos, token.Pos)     { return n.Keyword.Pos, n.Keyword.Pos }
func (n *Unary) Span() (token.Pos, token.Pos) {
	_, end := n.Right.Span()
	return n.Op.Pos, end
}
func (n *Variable) Span() (token.Pos, token.Pos) { return n.Name.Pos, n.Name.Pos }

func (n *Assign) Walk(v Visitor) { Walk(v, n.Value) }
func (n *Binary) Walk(v Visitor) { Walk(v, n.Left); Walk(v, n.Right) }
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *Get) Walk(v Visitor)      { Walk(v, n.Object) }
func (n *Grouping) Walk(v Visitor) { Walk(v, n.Inner) }
func (n *Literal) Walk(_ Visitor)  {}
func (n *Logical) Walk(v Visitor)  { Walk(v, n.Left); Walk(v, n.Right) }
func (n *Set) Walk(v Visitor)      { Walk(v, n.Object); Walk(v, n.Value) }
func (n *Super) Walk(_ Visitor)    {}
func (n *This) Walk(_ Visitor)     {}
func (n *Unary) Walk(v Visitor)    { Walk(v, n.Right) }
func (n *Variable) Walk(_ Visitor) {}
