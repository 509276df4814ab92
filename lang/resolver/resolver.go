// Package resolver implements the static pre-pass that computes lexical
// binding distances for every variable reference: push/pop a stack of
// per-block scopes, declare before define, a tracked "current
// function/class" context restored on scope exit, down to this language's
// function/class/block scoping.
package resolver

import (
	"github.com/dolthub/swiss"
	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/token"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Locals is the side-table the resolver populates: expression identity to
// binding distance. It is owned by the evaluator (machine.Interpreter), not
// by the resolver itself — the resolver only writes into it.
type Locals map[ast.ExprID]int

type functionKind int

const (
	fkNone functionKind = iota
	fkFunction
	fkMethod
	fkInitializer
)

type classKind int

const (
	ckNone classKind = iota
	ckClass
	ckSubclass
)

// scope maps a name to whether it has finished being defined: false means
// "declared but its initializer is still resolving", which is the state
// that makes `var a = a;` an error. Backed by swiss.Map for the same reason
// Environment is (lang/machine/environment.go): a per-block scope is the
// same small "string key -> bool" shape with no need for Go's builtin map.
type scope = *swiss.Map[string, bool]

func newScope() scope { return swiss.NewMap[string, bool](4) }

// Resolve walks stmts, a parsed program, and returns the binding-distance
// side-table plus any accumulated resolution errors. It must only be called
// on a program that parsed without error; resolving a program for which the
// parser already reported errors is undefined.
func Resolve(stmts []ast.Stmt) (Locals, error) {
	r := &resolver{locals: make(Locals)}
	r.resolveStmts(stmts)
	r.errs.Sort()
	return r.locals, r.errs.Err()
}

type resolver struct {
	scopes  []scope
	locals  Locals
	errs    token.ErrorList
	curFn   functionKind
	curCls  classKind
}

func (r *resolver) beginScope() { r.scopes = append(r.scopes, newScope()) }
func (r *resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *resolver) peek() scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) errorAt(pos token.Pos, msg string) { r.errs.Add(pos, "Error: "+msg) }

// declare marks name as present-but-uninitialized in the innermost scope.
// Redeclaring a name already declared in the same non-global scope is an
// error; the global scope permits redeclaration, so a REPL user can
// redefine a top-level binding across prompts.
func (r *resolver) declare(name token.Lexeme) {
	sc := r.peek()
	if sc == nil {
		return // global scope: nothing to track
	}
	if _, ok := sc.Get(name.Text); ok {
		r.errorAt(name.Pos, "Already a variable with this name in this scope.")
	}
	sc.Put(name.Text, false)
}

func (r *resolver) define(name token.Lexeme) {
	if sc := r.peek(); sc != nil {
		sc.Put(name.Text, true)
	}
}

// resolveLocal walks the scope stack from innermost outward, recording the
// distance at which name is found. If not found in any local scope, the
// reference is left unresolved in the side-table: the evaluator treats an
// absent entry as "look up in globals".
func (r *resolver) resolveLocal(id ast.ExprID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i].Get(name); ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(n.Stmts)
		r.endScope()

	case *ast.Var:
		r.declare(n.Name)
		if n.Init != nil {
			r.resolveExpr(n.Init)
		}
		r.define(n.Name)

	case *ast.Function:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, fkFunction)

	case *ast.Class:
		prevCls := r.curCls
		r.curCls = ckClass
		defer func() { r.curCls = prevCls }()

		r.declare(n.Name)
		r.define(n.Name)

		if n.Superclass != nil {
			if n.Superclass.Name.Text == n.Name.Text {
				r.errorAt(n.Superclass.Name.Pos, "A class can't inherit from itself.")
			}
			r.curCls = ckSubclass
			r.resolveExpr(n.Superclass)
			r.beginScope()
			r.peek().Put("super", true)
		}

		r.beginScope()
		r.peek().Put("this", true)

		for _, m := range n.Methods {
			kind := fkMethod
			if m.Name.Text == "init" {
				kind = fkInitializer
			}
			r.resolveFunction(m, kind)
		}

		r.endScope()
		if n.Superclass != nil {
			r.endScope()
		}

	case *ast.Expression:
		r.resolveExpr(n.Expr)

	case *ast.If:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}

	case *ast.Print:
		r.resolveExpr(n.Expr)

	case *ast.Return:
		if r.curFn == fkNone {
			r.errorAt(n.Keyword, "Can't return from top-level code.")
		}
		if n.Value != nil {
			if r.curFn == fkInitializer {
				r.errorAt(n.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(n.Value)
		}

	case *ast.While:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Body)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	prevFn := r.curFn
	r.curFn = kind
	defer func() { r.curFn = prevFn }()

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body.Stmts)
	r.endScope()
}

func (r *resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Variable:
		if sc := r.peek(); sc != nil {
			if defined, ok := sc.Get(n.Name.Text); ok && !defined {
				r.errorAt(n.Name.Pos, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(n.ID, n.Name.Text)

	case *ast.Assign:
		r.resolveExpr(n.Value)
		r.resolveLocal(n.ID, n.Name.Text)

	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(n.Object)

	case *ast.Grouping:
		r.resolveExpr(n.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Set:
		r.resolveExpr(n.Value)
		r.resolveExpr(n.Object)

	case *ast.Super:
		switch r.curCls {
		case ckNone:
			r.errorAt(n.Keyword.Pos, "Can't use 'super' outside of a class.")
		case ckClass:
			r.errorAt(n.Keyword.Pos, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(n.ID, "super")

	case *ast.This:
		if r.curCls == ckNone {
			r.errorAt(n.Keyword.Pos, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(n.ID, "this")

	case *ast.Unary:
		r.resolveExpr(n.Right)

	default:
		panic("resolver: unhandled expression type")
	}
}

// SortedIDs returns the keys of locals in ascending order, so the `resolve`
// CLI subcommand can print the binding-distance side-table deterministically
// instead of at Go's randomized map iteration order.
func SortedIDs(locals Locals) []ast.ExprID {
	ids := maps.Keys(locals)
	slices.Sort(ids)
	return ids
}
