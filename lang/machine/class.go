package machine

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Class is a callable that constructs Instance values. Calling a class
// invokes its `init` method, if any, on a freshly allocated Instance and
// always yields that instance.
type Class struct {
	ClassName  string
	Superclass *Class // nil for a root class
	Methods    map[string]*Function
}

var (
	_ Value    = (*Class)(nil)
	_ Callable = (*Class)(nil)
)

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.ClassName) }
func (c *Class) Type() string   { return "class" }
func (c *Class) Name() string   { return c.ClassName }

// Arity is the arity of the `init` method if present up the superclass
// chain, else 0.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// FindMethod looks up name in this class's own method table, then up the
// superclass chain. It returns the unbound Function; callers that need it
// bound to a specific instance must call Bind themselves.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Call constructs a fresh Instance and, if this class (or an ancestor)
// defines `init`, invokes it bound to the new instance before returning it.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Instance is a runtime object produced by calling a Class. Field storage
// uses the same swiss.Map-backed approach as Environment, since fields are
// exactly the same "string key -> Value" shape with the same
// create-on-first-assignment lifetime.
type Instance struct {
	Class  *Class
	fields *swiss.Map[string, Value]
}

var (
	_ Value       = (*Instance)(nil)
	_ HasAttrs    = (*Instance)(nil)
	_ HasSetAttrs = (*Instance)(nil)
)

// NewInstance allocates a fresh, fieldless instance of c.
func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, fields: swiss.NewMap[string, Value](4)}
}

func (i *Instance) String() string { return fmt.Sprintf("<%s> instance", i.Class.ClassName) }
func (i *Instance) Type() string   { return "instance" }

// GetAttr implements the Get lookup order: fields first, then
// methods resolved up the superclass chain, bound to this instance.
func (i *Instance) GetAttr(name string) (Value, bool, error) {
	if v, ok := i.fields.Get(name); ok {
		return v, true, nil
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), true, nil
	}
	return nil, false, nil
}

// SetAttr writes a field, creating it on first assignment.
func (i *Instance) SetAttr(name string, v Value) error {
	i.fields.Put(name, v)
	return nil
}
