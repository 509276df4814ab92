package machine

import (
	"fmt"
	"io"
	"time"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/loxlang/lox/lang/token"
)

// Interpreter is the tree-walking evaluator: a visitor over the AST that
// threads a mutable "current environment" and consults the resolver's
// binding-distance side-table. One Interpreter corresponds to one REPL
// session or one script run; its Globals and Locals persist across the
// print/exec pairs of an interactive session so that variables and
// functions defined at one prompt remain visible at the next.
type Interpreter struct {
	Globals *Environment
	Locals  resolver.Locals

	environment *Environment
	stdout      io.Writer
}

// New creates an Interpreter bound to locals (the resolver's side-table for
// the program it will run) and writing `print` output to stdout.
func New(locals resolver.Locals, stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	defineNatives(globals)
	return &Interpreter{Globals: globals, Locals: locals, environment: globals, stdout: stdout}
}

func defineNatives(globals *Environment) {
	globals.Define("clock", &NativeFunction{
		FnName: "clock",
		FnAr:   0,
		Impl: func(_ *Interpreter, _ []Value) (Value, error) {
			return Num(float64(time.Now().UnixNano()) / 1e9), nil
		},
	})
}

// Interpret executes stmts in order. A runtime error aborts evaluation of
// the top-level statement it occurred in and is returned immediately; the
// statements after it in stmts are not executed. The caller decides what
// happens next: the REPL reads its next input line, the file runner stops.
func (in *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Block:
		return in.execBlock(n.Stmts, NewEnvironment(in.environment))

	case *ast.Class:
		return in.execClass(n)

	case *ast.Expression:
		_, err := in.eval(n.Expr)
		return err

	case *ast.Function:
		fn := &Function{Decl: n, Closure: in.environment}
		in.environment.Define(n.Name.Text, fn)
		return nil

	case *ast.If:
		cond, err := in.eval(n.Cond)
		if err != nil {
			return err
		}
		if Truthy(cond) {
			return in.exec(n.Then)
		} else if n.Else != nil {
			return in.exec(n.Else)
		}
		return nil

	case *ast.Print:
		v, err := in.eval(n.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.stdout, v.String())
		return nil

	case *ast.Return:
		var v Value = Nil{}
		if n.Value != nil {
			var err error
			v, err = in.eval(n.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{Value: v}

	case *ast.Var:
		var v Value = Nil{}
		if n.Init != nil {
			var err error
			v, err = in.eval(n.Init)
			if err != nil {
				return err
			}
		}
		in.environment.Define(n.Name.Text, v)
		return nil

	case *ast.While:
		for {
			cond, err := in.eval(n.Cond)
			if err != nil {
				return err
			}
			if !Truthy(cond) {
				return nil
			}
			if err := in.exec(n.Body); err != nil {
				return err
			}
		}

	default:
		panic(fmt.Sprintf("machine: unhandled statement type %T", s))
	}
}

// execBlock runs stmts with env as the current environment, restoring the
// previous environment on every exit path — normal completion, a runtime
// error, or a non-local return.
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) error {
	previous := in.environment
	in.environment = env
	defer func() { in.environment = previous }()

	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

// execClass implements the "Class" statement semantics: resolve
// an optional superclass, define the class name early (as a nil
// placeholder) so the class can refer to itself, push a `super` scope if
// there's a superclass, build the bound method table, then rebind the name
// to the constructed Class value.
func (in *Interpreter) execClass(n *ast.Class) error {
	var super *Class
	if n.Superclass != nil {
		v, err := in.eval(n.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return runtimeErrorf(n.Superclass.Name.Pos, "Superclass must be a class.")
		}
		super = sc
	}

	in.environment.Define(n.Name.Text, Nil{})

	env := in.environment
	if super != nil {
		env = NewEnvironment(in.environment)
		env.Define("super", super)
	}

	methods := make(map[string]*Function, len(n.Methods))
	for _, m := range n.Methods {
		methods[m.Name.Text] = &Function{
			Decl:          m,
			Closure:       env,
			IsInitializer: m.Name.Text == "init",
		}
	}

	class := &Class{ClassName: n.Name.Text, Superclass: super, Methods: methods}
	return in.environment.Assign(n.Name, class)
}

func (in *Interpreter) eval(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n.Value), nil

	case *ast.Grouping:
		return in.eval(n.Inner)

	case *ast.Variable:
		return in.lookupVariable(n.ID, n.Name)

	case *ast.This:
		return in.lookupVariable(n.ID, n.Keyword)

	case *ast.Assign:
		v, err := in.eval(n.Value)
		if err != nil {
			return nil, err
		}
		if dist, ok := in.Locals[n.ID]; ok {
			in.environment.AssignAt(dist, n.Name.Text, v)
		} else if err := in.Globals.Assign(n.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Logical:
		left, err := in.eval(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op.Kind == token.OR {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) {
			return left, nil
		}
		return in.eval(n.Right)

	case *ast.Unary:
		return in.evalUnary(n)

	case *ast.Binary:
		return in.evalBinary(n)

	case *ast.Call:
		return in.evalCall(n)

	case *ast.Get:
		obj, err := in.eval(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(HasAttrs)
		if !ok {
			return nil, runtimeErrorf(n.Name.Pos, "Only instances have properties.")
		}
		v, found, err := inst.GetAttr(n.Name.Text)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, runtimeErrorf(n.Name.Pos, "Undefined property '%s'.", n.Name.Text)
		}
		return v, nil

	case *ast.Set:
		obj, err := in.eval(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(HasSetAttrs)
		if !ok {
			return nil, runtimeErrorf(n.Name.Pos, "Only instances have fields.")
		}
		v, err := in.eval(n.Value)
		if err != nil {
			return nil, err
		}
		if err := inst.SetAttr(n.Name.Text, v); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Super:
		return in.evalSuper(n)

	default:
		panic(fmt.Sprintf("machine: unhandled expression type %T", e))
	}
}

func literalValue(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(x)
	case float64:
		return Num(x)
	case string:
		return Str(x)
	default:
		panic(fmt.Sprintf("machine: unexpected literal value %T", v))
	}
}

func (in *Interpreter) lookupVariable(id ast.ExprID, name token.Lexeme) (Value, error) {
	if dist, ok := in.Locals[id]; ok {
		return in.environment.GetAt(dist, name.Text), nil
	}
	return in.Globals.Get(name)
}

func (in *Interpreter) evalUnary(n *ast.Unary) (Value, error) {
	right, err := in.eval(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op.Kind {
	case token.MINUS:
		num, ok := right.(Num)
		if !ok {
			return nil, runtimeErrorf(n.Op.Pos, "Operand must be a number.")
		}
		return -num, nil
	case token.BANG:
		return Bool(!Truthy(right)), nil
	default:
		panic("machine: unhandled unary operator " + n.Op.Kind.String())
	}
}

// evalBinary implements the binary operator table, including the
// permissive mixed Str+Num / Num+Str concatenation this language keeps
// rather than rejecting as strict Lox does.
func (in *Interpreter) evalBinary(n *ast.Binary) (Value, error) {
	left, err := in.eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op.Kind {
	case token.PLUS:
		return evalPlus(n.Op.Pos, left, right)
	case token.MINUS:
		l, r, err := numOperands(n.Op.Pos, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case token.STAR:
		l, r, err := numOperands(n.Op.Pos, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case token.SLASH:
		l, r, err := numOperands(n.Op.Pos, left, right)
		if err != nil {
			return nil, err
		}
		return l / r, nil // division by zero yields IEEE inf/NaN, not an error
	case token.GT:
		l, r, err := numOperands(n.Op.Pos, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l.Cmp(r) > 0), nil
	case token.GT_EQ:
		l, r, err := numOperands(n.Op.Pos, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l.Cmp(r) >= 0), nil
	case token.LT:
		l, r, err := numOperands(n.Op.Pos, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l.Cmp(r) < 0), nil
	case token.LT_EQ:
		l, r, err := numOperands(n.Op.Pos, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l.Cmp(r) <= 0), nil
	case token.EQ_EQ:
		return Bool(Equals(left, right)), nil
	case token.BANG_EQ:
		return Bool(!Equals(left, right)), nil
	default:
		panic("machine: unhandled binary operator " + n.Op.Kind.String())
	}
}

func evalPlus(pos token.Pos, left, right Value) (Value, error) {
	ln, lIsNum := left.(Num)
	rn, rIsNum := right.(Num)
	if lIsNum && rIsNum {
		return ln + rn, nil
	}
	ls, lIsStr := left.(Str)
	rs, rIsStr := right.(Str)
	if lIsStr && rIsStr {
		return ls + rs, nil
	}
	if lIsStr && rIsNum {
		return ls + Str(rn.String()), nil
	}
	if lIsNum && rIsStr {
		return Str(ln.String()) + rs, nil
	}
	return nil, runtimeErrorf(pos, "Operands must be two numbers or two strings.")
}

func numOperands(pos token.Pos, left, right Value) (Num, Num, error) {
	l, ok := left.(Num)
	if !ok {
		return 0, 0, runtimeErrorf(pos, "Operands must be numbers.")
	}
	r, ok := right.(Num)
	if !ok {
		return 0, 0, runtimeErrorf(pos, "Operands must be numbers.")
	}
	return l, r, nil
}

func (in *Interpreter) evalCall(n *ast.Call) (Value, error) {
	callee, err := in.eval(n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErrorf(n.Paren.Pos, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErrorf(n.Paren.Pos, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(in, args)
}

// evalSuper implements the Super.method lookup: read `super` at
// the recorded distance, `this` at distance-minus-one, resolve the method up
// the superclass chain and return it bound to `this`.
func (in *Interpreter) evalSuper(n *ast.Super) (Value, error) {
	dist, ok := in.Locals[n.ID]
	if !ok {
		panic("machine: resolver/evaluator disagreement: unresolved super")
	}
	super := in.environment.GetAt(dist, "super").(*Class)
	inst := in.environment.GetAt(dist-1, "this").(*Instance)

	method := super.FindMethod(n.Method.Text)
	if method == nil {
		return nil, runtimeErrorf(n.Method.Pos, "Undefined property '%s'.", n.Method.Text)
	}
	return method.Bind(inst), nil
}
