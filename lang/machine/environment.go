package machine

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/loxlang/lox/lang/token"
)

// Environment is a mutable name-to-value mapping with an optional parent,
// forming the lexically-nested scope chain. Backed by a swiss.Map
// open-addressing hash map rather than a builtin Go map, since Environment
// has a "string key -> Value" shape and a never-shrinks lifetime that
// swiss.Map is well suited to.
type Environment struct {
	values *swiss.Map[string, Value]
	parent *Environment
}

// NewEnvironment creates a fresh, empty environment whose parent is
// enclosing (nil for the root "globals" environment).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: swiss.NewMap[string, Value](8), parent: enclosing}
}

// Define unconditionally sets name in this environment. Shadowing an outer
// binding of the same name is permitted.
func (e *Environment) Define(name string, v Value) {
	e.values.Put(name, v)
}

// Get looks up name in this environment, then recursively in its ancestors,
// and returns a runtime error if it's bound nowhere in the chain.
func (e *Environment) Get(name token.Lexeme) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values.Get(name.Text); ok {
			return v, nil
		}
	}
	return nil, &RuntimeError{Pos: name.Pos, Msg: fmt.Sprintf("Undefined variable '%s'.", name.Text)}
}

// Assign writes to the nearest environment in the chain that already has
// name bound, or returns a runtime error if no such environment exists —
// assignment deliberately does not auto-declare.
func (e *Environment) Assign(name token.Lexeme, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values.Get(name.Text); ok {
			env.values.Put(name.Text, v)
			return nil
		}
	}
	return &RuntimeError{Pos: name.Pos, Msg: fmt.Sprintf("Undefined variable '%s'.", name.Text)}
}

// ancestor walks exactly distance parent links up from e. The resolver
// guarantees the binding exists at exactly that distance;
// violating that precondition is an internal invariant failure, so this
// panics rather than returning an error.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		if env.parent == nil {
			panic(fmt.Sprintf("machine: resolver/evaluator disagreement: no ancestor at distance %d", distance))
		}
		env = env.parent
	}
	return env
}

// GetAt reads name directly out of the values map exactly distance hops up,
// without falling back further — the resolver has already determined that
// name is bound at exactly that distance.
func (e *Environment) GetAt(distance int, name string) Value {
	env := e.ancestor(distance)
	v, ok := env.values.Get(name)
	if !ok {
		panic(fmt.Sprintf("machine: resolver/evaluator disagreement: %q not bound at distance %d", name, distance))
	}
	return v
}

// AssignAt writes v directly into the values map exactly distance hops up.
func (e *Environment) AssignAt(distance int, name string, v Value) {
	env := e.ancestor(distance)
	env.values.Put(name, v)
}
