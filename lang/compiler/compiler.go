// Package compiler implements the single-pass Pratt-style compiler of the
// bytecode back end: an alternative execution model that compiles
// expressions directly from the token stream into a Chunk, without
// building an intermediate AST. It shares only the lexer with the
// tree-walking back end in lang/machine; the narrower expression grammar it
// accepts (no statements, variables, calls or classes) doesn't need the
// full recursive-descent parser or static resolver, so there is no block
// or control-flow linearization pass here, just straight-line code emitted
// as the Pratt parser descends.
package compiler

import (
	"fmt"

	"github.com/loxlang/lox/lang/machine"
	"github.com/loxlang/lox/lang/token"
)

// precedence mirrors the ladder, lowest to highest.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type (
	prefixFn func(c *pratt) error
	infixFn  func(c *pratt) error
)

type rule struct {
	prefix prefixFn
	infix  infixFn
	prec   precedence
}

var rules map[token.Token]rule

func init() {
	rules = map[token.Token]rule{
		token.LPAREN:  {prefix: (*pratt).grouping},
		token.MINUS:   {prefix: (*pratt).unary, infix: (*pratt).binary, prec: precTerm},
		token.PLUS:    {infix: (*pratt).binary, prec: precTerm},
		token.SLASH:   {infix: (*pratt).binary, prec: precFactor},
		token.STAR:    {infix: (*pratt).binary, prec: precFactor},
		token.BANG:    {prefix: (*pratt).unary},
		token.BANG_EQ: {infix: (*pratt).binary, prec: precEquality},
		token.EQ_EQ:   {infix: (*pratt).binary, prec: precEquality},
		token.GT:      {infix: (*pratt).binary, prec: precComparison},
		token.GT_EQ:   {infix: (*pratt).binary, prec: precComparison},
		token.LT:      {infix: (*pratt).binary, prec: precComparison},
		token.LT_EQ:   {infix: (*pratt).binary, prec: precComparison},
		token.NUMBER:  {prefix: (*pratt).number},
		token.STRING:  {prefix: (*pratt).string},
		token.NIL:     {prefix: (*pratt).literal},
		token.TRUE:    {prefix: (*pratt).literal},
		token.FALSE:   {prefix: (*pratt).literal},
	}
}

func ruleFor(t token.Token) rule { return rules[t] }

// Compile compiles a single expression (literals, grouping, unary and
// binary arithmetic/comparison/equality) from tokens into a Chunk
// terminated by OpReturn. tokens must end with an EOF token, as produced
// by scanner.ScanAll.
func Compile(tokens []token.Lexeme) (*Chunk, error) {
	c := &pratt{tokens: tokens}
	if err := c.parsePrecedence(precAssignment); err != nil {
		return nil, err
	}
	if !c.check(token.EOF) {
		return nil, c.errorAtCurrent("Expect end of expression.")
	}
	line := c.previous().Pos.Line()
	c.chunk.emit(OpReturn, line)
	return &c.chunk, nil
}

// pratt holds the state of one compilation pass: position in the token
// stream and the chunk being built.
type pratt struct {
	tokens  []token.Lexeme
	current int
	chunk   Chunk
}

func (c *pratt) peek() token.Lexeme { return c.tokens[c.current] }
func (c *pratt) previous() token.Lexeme {
	return c.tokens[c.current-1]
}
func (c *pratt) check(t token.Token) bool {
	return c.peek().Kind == t
}
func (c *pratt) advance() token.Lexeme {
	tok := c.tokens[c.current]
	if tok.Kind != token.EOF {
		c.current++
	}
	return tok
}

func (c *pratt) errorAtCurrent(msg string) error {
	pos := c.peek().Pos
	return fmt.Errorf("[line %d] Error: %s", pos.Line(), msg)
}

// parsePrecedence is the core Pratt loop: call the prefix rule for the
// current token, then keep folding in infix operators whose precedence is
// at least minPrec.
func (c *pratt) parsePrecedence(minPrec precedence) error {
	tok := c.advance()
	prefix := ruleFor(tok.Kind).prefix
	if prefix == nil {
		return fmt.Errorf("[line %d] Error: Expect expression.", tok.Pos.Line())
	}
	if err := prefix(c); err != nil {
		return err
	}

	for minPrec <= ruleFor(c.peek().Kind).prec {
		tok := c.advance()
		infix := ruleFor(tok.Kind).infix
		if err := infix(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *pratt) grouping() error {
	if err := c.parsePrecedence(precAssignment); err != nil {
		return err
	}
	if !c.check(token.RPAREN) {
		return c.errorAtCurrent("Expect ')' after expression.")
	}
	c.advance()
	return nil
}

func (c *pratt) number() error {
	tok := c.previous()
	idx, ok := c.chunk.addConstant(machine.Num(tok.Literal.(float64)))
	if !ok {
		return fmt.Errorf("[line %d] Error: Too many constants in one chunk.", tok.Pos.Line())
	}
	c.chunk.emitOperand(OpConstant, idx, tok.Pos.Line())
	return nil
}

func (c *pratt) string() error {
	tok := c.previous()
	idx, ok := c.chunk.addConstant(machine.Str(tok.Literal.(string)))
	if !ok {
		return fmt.Errorf("[line %d] Error: Too many constants in one chunk.", tok.Pos.Line())
	}
	c.chunk.emitOperand(OpConstant, idx, tok.Pos.Line())
	return nil
}

func (c *pratt) literal() error {
	tok := c.previous()
	switch tok.Kind {
	case token.NIL:
		c.chunk.emit(OpNil, tok.Pos.Line())
	case token.TRUE:
		c.chunk.emit(OpTrue, tok.Pos.Line())
	case token.FALSE:
		c.chunk.emit(OpFalse, tok.Pos.Line())
	}
	return nil
}

func (c *pratt) unary() error {
	op := c.previous()
	if err := c.parsePrecedence(precUnary); err != nil {
		return err
	}
	switch op.Kind {
	case token.MINUS:
		c.chunk.emit(OpNegate, op.Pos.Line())
	case token.BANG:
		c.chunk.emit(OpNot, op.Pos.Line())
	}
	return nil
}

func (c *pratt) binary() error {
	op := c.previous()
	r := ruleFor(op.Kind)
	if err := c.parsePrecedence(r.prec + 1); err != nil {
		return err
	}
	line := op.Pos.Line()
	switch op.Kind {
	case token.PLUS:
		c.chunk.emit(OpAdd, line)
	case token.MINUS:
		c.chunk.emit(OpSubtract, line)
	case token.STAR:
		c.chunk.emit(OpMultiply, line)
	case token.SLASH:
		c.chunk.emit(OpDivide, line)
	case token.EQ_EQ:
		c.chunk.emit(OpEqual, line)
	case token.BANG_EQ:
		c.chunk.emit(OpEqual, line)
		c.chunk.emit(OpNot, line)
	case token.GT:
		c.chunk.emit(OpGreater, line)
	case token.GT_EQ:
		c.chunk.emit(OpLess, line)
		c.chunk.emit(OpNot, line)
	case token.LT:
		c.chunk.emit(OpLess, line)
	case token.LT_EQ:
		c.chunk.emit(OpGreater, line)
		c.chunk.emit(OpNot, line)
	}
	return nil
}
