package machine

import (
	"fmt"

	"github.com/loxlang/lox/lang/ast"
)

// NativeFunction is a built-in implemented in Go. Exactly one is defined by
// this language: `clock`. Kept as a distinct, simpler type from Function
// since this language's only native has no closure state to capture.
type NativeFunction struct {
	FnName string
	FnAr   int
	Impl   func(in *Interpreter, args []Value) (Value, error)
}

var (
	_ Value    = (*NativeFunction)(nil)
	_ Callable = (*NativeFunction)(nil)
)

func (n *NativeFunction) String() string { return fmt.Sprintf("<fn native %s>", n.FnName) }
func (n *NativeFunction) Type() string   { return "native function" }
func (n *NativeFunction) Name() string   { return n.FnName }
func (n *NativeFunction) Arity() int     { return n.FnAr }
func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Impl(in, args)
}

// Function is a user-defined function or method: a declaration paired with
// the environment active at its definition site. Binding a method to an
// instance (Bind) produces a new Function sharing the same declaration but
// wrapping the captured environment in an extra scope defining `this`.
type Function struct {
	Decl          *ast.Function
	Closure       *Environment
	IsInitializer bool
}

var (
	_ Value    = (*Function)(nil)
	_ Callable = (*Function)(nil)
)

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Decl.Name.Text) }
func (f *Function) Type() string   { return "function" }
func (f *Function) Name() string   { return f.Decl.Name.Text }
func (f *Function) Arity() int     { return len(f.Decl.Params) }

// Call implements the function call protocol: a fresh environment parented
// on the closure, parameters bound left-to-right, the body executed as a
// block. If the body signals a non-local return, its
// value is the result — unless this is an initializer, in which case the
// call always returns `this` regardless of what (if anything) `init`
// explicitly returned.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		var v Value = Nil{}
		if i < len(args) {
			v = args[i]
		}
		env.Define(param.Text, v)
	}

	err := in.execBlock(f.Decl.Body.Stmts, env)
	if rs, ok := asReturn(err); ok {
		if f.IsInitializer {
			return f.Closure.GetAt(0, "this"), nil
		}
		return rs.Value, nil
	}
	if err != nil {
		return nil, err
	}
	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

// Bind returns a new Function identical to f except that its captured
// environment has an additional innermost scope defining `this` as inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", inst)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}
