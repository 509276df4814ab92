// Package machine implements the tree-walking evaluator: the runtime value
// model, the environment chain, callable objects, classes and the
// interpreter that drives it all. The Value/Callable/HasAttrs/HasSetAttrs
// interface family covers exactly the six concrete value kinds the
// language has (nil, bool, number, string, callable, instance); there are
// no user-visible sequences, mappings or custom binary operator
// overloading to justify a fuller interface set.
package machine

// Value is the interface implemented by every runtime value.
type Value interface {
	// String returns the value's textual form, as produced by `print`.
	String() string
	// Type returns a short name for the value's type, used in error messages.
	Type() string
}

// Callable is implemented by any value that may appear as the operand of a
// call expression: native functions, user functions and classes (calling a
// class constructs an Instance).
type Callable interface {
	Value
	Name() string
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

// HasAttrs is implemented by values whose properties may be read with a
// dot expression (`Get`). Only *Instance implements it.
type HasAttrs interface {
	Value
	GetAttr(name string) (Value, bool, error)
}

// HasSetAttrs is implemented by values whose properties may be written with
// a dot expression (`Set`). Only *Instance implements it.
type HasSetAttrs interface {
	HasAttrs
	SetAttr(name string, v Value) error
}

// Nil is the Lox `nil` value. There is exactly one: the zero value of Nil.
type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) Type() string   { return "nil" }

// Bool wraps a boolean Lox value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "boolean" }

// Str wraps a Lox string value.
type Str string

func (s Str) String() string { return string(s) }
func (Str) Type() string     { return "string" }

// Truthy reports the truthiness of v: false and nil are
// falsey, every other value (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}

// Equals implements the equality rules: structural for primitives, identity
// for Instance, identity-of-declaration for callables. Nil equals only Nil.
func Equals(a, b Value) bool {
	switch x := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Num:
		y, ok := b.(Num)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case *Instance:
		y, ok := b.(*Instance)
		return ok && x == y
	case *Function:
		y, ok := b.(*Function)
		return ok && x.Decl == y.Decl
	case *NativeFunction:
		y, ok := b.(*NativeFunction)
		return ok && x == y
	case *Class:
		y, ok := b.(*Class)
		return ok && x == y
	default:
		return false
	}
}
