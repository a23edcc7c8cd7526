package internal

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Value is any Quill value. The dynamic types of values are Null, Number,
// Text, Boolean, *Func, *Class, *Instance, and, only as the result attached to
// ExceptionStop, *Exception.
type Value interface {
	// TypeName returns the name of the value's type as reported by the type
	// builtin.
	TypeName() string
}

type nullValue struct{}

func (nullValue) TypeName() string { return "Null" }

// Null is the null value.
var Null Value = nullValue{}

// Number is a numeric value.
type Number float64

// TypeName returns "Number".
func (Number) TypeName() string { return "Number" }

// Text is a string value.
type Text string

// TypeName returns "String".
func (Text) TypeName() string { return "String" }

// Boolean is a boolean value.
type Boolean bool

// TypeName returns "Boolean".
func (Boolean) TypeName() string { return "Boolean" }

// Func is a function value, either defined by a program or native.
type Func struct {
	// Name is the name the function was defined with. Lambdas are named
	// "lambda".
	Name string
	// Params are the names to which arguments are bound in order.
	Params []string
	// Variadic indicates that the last parameter collects all remaining
	// arguments into a List.
	Variadic bool
	// Body is the function's body.
	Body Stmt
	// Closure is the context in which the function was defined. Activations
	// create frames whose parent is the closure's frame. If Closure is nil,
	// activations are rooted at the call site instead.
	Closure *Context

	id uintptr
}

// NewFunc creates a function value.
func NewFunc(name string, params []string, variadic bool, body Stmt, closure *Context) *Func {
	return &Func{Name: name, Params: params, Variadic: variadic, Body: body, Closure: closure, id: nextID()}
}

// TypeName returns "Function".
func (*Func) TypeName() string { return "Function" }

// UniqueID returns the function's unique ID.
func (f *Func) UniqueID() uintptr { return f.id }

// Class is a class value. A class is also a function: its parameters and body
// form the initializer run on new instances.
type Class struct {
	Func
	// methods are the class's own methods.
	methods map[string]*Func
	// parents are the names of the class's parent classes, resolved against
	// the current context on every lookup.
	parents []string
	// hasInit is true if the class declares parameters or initializer
	// statements. Instantiating a class without an initializer runs the
	// nearest ancestor's instead.
	hasInit bool
}

// NewClass creates a class value. If parents is empty, the class's parent is
// Object, unless the class is itself named Object.
func NewClass(name string, params []string, body Stmt, closure *Context, parents []string, methods map[string]*Func) *Class {
	if len(parents) == 0 && name != "Object" {
		parents = []string{"Object"}
	}
	if methods == nil {
		methods = make(map[string]*Func)
	}
	_, empty := body.(Empty)
	if body == nil {
		body, empty = Empty{}, true
	}
	return &Class{
		Func:    Func{Name: name, Params: params, Body: body, Closure: closure, id: nextID()},
		methods: methods,
		parents: parents,
		hasInit: params != nil || !empty,
	}
}

// TypeName returns "Class".
func (*Class) TypeName() string { return "Class" }

// Method returns the class's own method named name.
func (c *Class) Method(name string) (*Func, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// SetMethod sets the class's own method named name.
func (c *Class) SetMethod(name string, m *Func) {
	c.methods[name] = m
}

// MethodNames returns the names of the class's own methods, sorted.
func (c *Class) MethodNames() []string {
	r := make([]string, 0, len(c.methods))
	for k := range c.methods {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Parents returns a copy of the class's parent names.
func (c *Class) Parents() []string {
	return append([]string(nil), c.parents...)
}

// SetParents replaces the class's parent names.
func (c *Class) SetParents(names []string) {
	c.parents = append([]string(nil), names...)
}

// Instance is an instance of a class. Instances are handles: copying the
// pointer shares the property table.
type Instance struct {
	// Class is the instance's class.
	Class *Class
	// Native is a host value backing builtin types, e.g. *List.
	Native interface{}

	props map[string]Value
	id    uintptr
}

// NewInstance creates an instance of cls with no properties.
func NewInstance(cls *Class) *Instance {
	return &Instance{Class: cls, props: make(map[string]Value), id: nextID()}
}

// TypeName returns the name of the instance's class.
func (i *Instance) TypeName() string { return i.Class.Name }

// UniqueID returns the instance's unique ID.
func (i *Instance) UniqueID() uintptr { return i.id }

// Get returns the instance's own property named name.
func (i *Instance) Get(name string) (Value, bool) {
	v, ok := i.props[name]
	return v, ok
}

// Set sets the instance's property named name.
func (i *Instance) Set(name string, v Value) {
	i.props[name] = v
}

// PropNames returns the names of the instance's properties, sorted.
func (i *Instance) PropNames() []string {
	r := make([]string, 0, len(i.props))
	for k := range i.props {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// idcounter is the global counter for value IDs. All accesses to this must be
// atomic.
var idcounter uintptr

// nextID increments the ID counter and returns its value as a unique ID for a
// new value or frame.
func nextID() uintptr {
	return atomic.AddUintptr(&idcounter, 1)
}

// Truthy returns whether v counts as true in conditions. Null, false, zero,
// and the empty string are false.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, nullValue:
		return false
	case Boolean:
		return bool(v)
	case Number:
		return v != 0
	case Text:
		return v != ""
	}
	return true
}

// Equal compares two values by primitive equality. Numbers, text, booleans,
// and null compare by value; everything else compares by identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		b, ok := b.(Number)
		return ok && a == b
	case Text:
		b, ok := b.(Text)
		return ok && a == b
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a == b
	case nullValue:
		_, ok := b.(nullValue)
		return ok
	}
	return a == b
}

// FormatNumber formats a number the way Display does: integral values have no
// fractional part.
func FormatNumber(n Number) string {
	f := float64(n)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Display returns a representation of v without consulting any toString
// method.
func Display(v Value) string {
	switch v := v.(type) {
	case nil, nullValue:
		return "null"
	case Number:
		return FormatNumber(v)
	case Text:
		return string(v)
	case Boolean:
		return strconv.FormatBool(bool(v))
	case *Func:
		return "<function " + v.Name + ">"
	case *Class:
		return "<class " + v.Name + ">"
	case *Instance:
		switch n := v.Native.(type) {
		case *List:
			return n.display()
		case *Module:
			return "<module " + n.Path + ">"
		}
		if m, ok := v.Get("message"); ok && v.Class.Name != "" {
			return v.Class.Name + ": " + Display(m)
		}
		return "<" + v.Class.Name + " instance>"
	case *Exception:
		return "Exception: " + Display(v.Payload)
	}
	return "<" + v.TypeName() + ">"
}

// quoted displays v, quoting text values.
func quoted(v Value) string {
	if t, ok := v.(Text); ok {
		return "'" + strings.ReplaceAll(string(t), "'", `\'`) + "'"
	}
	return Display(v)
}
