// Package parser implements the recursive-descent parser that turns a
// scanned token sequence into an abstract syntax tree: a single token of
// lookahead at p.tokens[p.current], match/expect/advance helpers, and diagnostics
// accumulated in a token.ErrorList instead of aborting on the first
// syntax error.
package parser

import (
	"fmt"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/token"
)

const maxArgs = 255 // max arguments per call, max parameters per function

// Parse consumes the full token sequence (as produced by scanner.ScanAll,
// including its trailing token.EOF) and returns the parsed program as an
// ordered list of statements, plus any accumulated parse errors. On error
// the returned statement slice is whatever prefix parsed cleanly around the
// recovered-from errors (panic-mode recovery).
func Parse(tokens []token.Lexeme) ([]ast.Stmt, error) {
	p := &parser{tokens: tokens}
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.errs.Sort()
	return stmts, p.errs.Err()
}

type parseError struct{}

func (parseError) Error() string { return "parse error" }

type parser struct {
	tokens  []token.Lexeme
	current int
	errs    token.ErrorList
}

func (p *parser) peek() token.Lexeme   { return p.tokens[p.current] }
func (p *parser) previous() token.Lexeme { return p.tokens[p.current-1] }
func (p *parser) isAtEnd() bool        { return p.peek().Kind == token.EOF }

func (p *parser) advance() token.Lexeme {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) check(kind token.Token) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *parser) match(kinds ...token.Token) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has the expected kind, else
// records a diagnostic at the current token's position and panics with
// parseError so the caller unwinds to the nearest declaration boundary.
func (p *parser) expect(kind token.Token, msg string) token.Lexeme {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAtCurrent(msg)
	panic(parseError{})
}

func (p *parser) errorAtCurrent(msg string) {
	p.errorAt(p.peek(), msg)
}

func (p *parser) errorAt(lx token.Lexeme, msg string) {
	var where string
	switch {
	case lx.Kind == token.EOF:
		where = " at end"
	case lx.Kind == token.ERROR:
		// the scanner already reported this; don't pile on
		return
	default:
		where = fmt.Sprintf(" at '%s'", lx.Text)
	}
	p.errs.Addf(lx.Pos, "Error%s: %s", where, msg)
}

// synchronize discards tokens until it finds a plausible statement boundary,
// using panic-mode recovery: report the error, then skip tokens until a statement boundary.
func (p *parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMI {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// declaration parses `declaration → classDecl | funDecl | varDecl |
// statement`, recovering via synchronize on a parse error so one bad
// statement never aborts the whole parse.
func (p *parser) declaration() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDecl()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *parser) classDecl() ast.Stmt {
	name := p.expect(token.IDENT, "Expect class name.")

	var super *ast.Variable
	if p.match(token.LT) {
		superName := p.expect(token.IDENT, "Expect superclass name.")
		super = &ast.Variable{ID: ast.NextExprID(), Name: superName}
	}

	p.expect(token.LBRACE, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.expect(token.RBRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: super, Methods: methods}
}

func (p *parser) function(kind string) *ast.Function {
	name := p.expect(token.IDENT, "Expect "+kind+" name.")
	p.expect(token.LPAREN, "Expect '(' after "+kind+" name.")

	var params []token.Lexeme
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAtCurrent(fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.expect(token.IDENT, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, "Expect ')' after parameters.")

	lbrace := p.expect(token.LBRACE, "Expect '{' before "+kind+" body.")
	body := p.blockBody(lbrace)
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *parser) varDecl() ast.Stmt {
	name := p.expect(token.IDENT, "Expect variable name.")
	var init ast.Expr
	if p.match(token.EQ) {
		init = p.expression()
	}
	p.expect(token.SEMI, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Init: init}
}

// statement parses `statement → exprStmt | forStmt | ifStmt | printStmt |
// returnStmt | whileStmt | block`.
func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.check(token.LBRACE):
		lbrace := p.advance()
		return p.blockBody(lbrace)
	default:
		return p.exprStmt()
	}
}

// forStmt desugars `for (init; cond; incr) body` into
// Block{init?, While{cond, Block{body, incr?}}} at parse time: for is
// syntactic sugar, so the rest of the pipeline never sees a for loop.
func (p *parser) forStmt() ast.Stmt {
	keyword := p.previous().Pos
	p.expect(token.LPAREN, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMI) {
		cond = p.expression()
	}
	p.expect(token.SEMI, "Expect ';' after loop condition.")

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	rparen := p.expect(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()

	inner := []ast.Stmt{body}
	if incr != nil {
		inner = append(inner, &ast.Expression{Expr: incr})
	}
	_, end := body.Span()
	body = &ast.Block{LBrace: rparen.Pos, RBrace: end, Stmts: inner}
	if cond == nil {
		cond = &ast.Literal{Pos: keyword, Value: true}
	}
	body = &ast.While{Keyword: keyword, Cond: cond, Body: body}

	var outer []ast.Stmt
	if init != nil {
		outer = append(outer, init)
	}
	outer = append(outer, body)
	_, end = body.Span()
	return &ast.Block{LBrace: keyword, RBrace: end, Stmts: outer}
}

func (p *parser) ifStmt() ast.Stmt {
	keyword := p.previous().Pos
	p.expect(token.LPAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' after if condition.")

	then := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Keyword: keyword, Cond: cond, Then: then, Else: elseBranch}
}

func (p *parser) printStmt() ast.Stmt {
	keyword := p.previous().Pos
	val := p.expression()
	p.expect(token.SEMI, "Expect ';' after value.")
	return &ast.Print{Keyword: keyword, Expr: val}
}

func (p *parser) returnStmt() ast.Stmt {
	keyword := p.previous().Pos
	var val ast.Expr
	if !p.check(token.SEMI) {
		val = p.expression()
	}
	p.expect(token.SEMI, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: val}
}

func (p *parser) whileStmt() ast.Stmt {
	keyword := p.previous().Pos
	p.expect(token.LPAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Keyword: keyword, Cond: cond, Body: body}
}

func (p *parser) blockBody(lbrace token.Lexeme) *ast.Block {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	rbrace := p.expect(token.RBRACE, "Expect '}' after block.")
	return &ast.Block{LBrace: lbrace.Pos, RBrace: rbrace.Pos, Stmts: stmts}
}

func (p *parser) exprStmt() ast.Stmt {
	e := p.expression()
	p.expect(token.SEMI, "Expect ';' after expression.")
	return &ast.Expression{Expr: e}
}

// ====================
// EXPRESSIONS
// ====================

func (p *parser) expression() ast.Expr { return p.assignment() }

// assignment parses `( call "." )? IDENT "=" assignment | logic_or`. The
// left-hand side is parsed as a general expression first; only once an "="
// is seen is it inspected and rewritten into Assign or Set — this avoids
// needing a separate assignment-target grammar production.
func (p *parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.EQ) {
		eq := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{ID: ast.NextExprID(), Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(eq, "Invalid assignment target.")
			return expr
		}
	}
	return expr
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQ, token.EQ_EQ) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GT, token.GT_EQ, token.LT, token.LT_EQ) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.expect(token.IDENT, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAtCurrent(fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.expect(token.RPAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Pos: p.previous().Pos, Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Pos: p.previous().Pos, Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Pos: p.previous().Pos, Value: nil}
	case p.match(token.NUMBER, token.STRING):
		lx := p.previous()
		return &ast.Literal{Pos: lx.Pos, Value: lx.Literal}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.expect(token.DOT, "Expect '.' after 'super'.")
		method := p.expect(token.IDENT, "Expect superclass method name.")
		return &ast.Super{ID: ast.NextExprID(), Keyword: keyword, Method: method}
	case p.match(token.THIS):
		return &ast.This{ID: ast.NextExprID(), Keyword: p.previous()}
	case p.match(token.IDENT):
		return &ast.Variable{ID: ast.NextExprID(), Name: p.previous()}
	case p.match(token.LPAREN):
		expr := p.expression()
		p.expect(token.RPAREN, "Expect ')' after expression.")
		return &ast.Grouping{Inner: expr}
	default:
		p.errorAtCurrent("Expect expression.")
		panic(parseError{})
	}
}
