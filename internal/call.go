package internal

import "fmt"

// Native is the Go implementation of a builtin function.
type Native func(c *Call) (Value, Stop)

// nativeBody is the body of a builtin function.
type nativeBody struct {
	fn Native
}

// Exec runs the native function with the arguments bound in ctx's frame.
func (b *nativeBody) Exec(ctx *Context) *Context {
	panic("quill: native body executed as a statement")
}

func (b *nativeBody) String() string { return "<native>" }

// NewNative creates a builtin function. The params are used only for the
// function's display and arity; natives receive all arguments through Call.
func NewNative(name string, fn Native, params ...string) *Func {
	return &Func{Name: name, Params: params, Variadic: true, Body: &nativeBody{fn: fn}, id: nextID()}
}

// Call holds the state of an activation of a native function.
type Call struct {
	// Context is the context at the call site.
	*Context
	// Func is the function being called.
	Func *Func
	// This is the receiver of a method call, or nil for plain calls.
	This Value
	// Args are the evaluated arguments.
	Args []Value
	// Line is the line of the call.
	Line int
}

// Arg returns the nth argument, or Null if there are too few.
func (c *Call) Arg(n int) Value {
	if n < len(c.Args) {
		return c.Args[n]
	}
	return Null
}

// Rest returns the arguments from the nth onward.
func (c *Call) Rest(n int) []Value {
	if n < len(c.Args) {
		return c.Args[n:]
	}
	return nil
}

// NumberArg returns the nth argument as a Number. If it is not a Number, the
// result is an Error with ExceptionStop.
func (c *Call) NumberArg(n int) (Number, Value, Stop) {
	if v, ok := c.Arg(n).(Number); ok {
		return v, nil, NoStop
	}
	r, s := c.argErr(n, "Number")
	return 0, r, s
}

// TextArg returns the nth argument as Text.
func (c *Call) TextArg(n int) (Text, Value, Stop) {
	if v, ok := c.Arg(n).(Text); ok {
		return v, nil, NoStop
	}
	r, s := c.argErr(n, "String")
	return "", r, s
}

// FuncArg returns the nth argument as a function. Classes are accepted.
func (c *Call) FuncArg(n int) (*Func, Value, Stop) {
	switch v := c.Arg(n).(type) {
	case *Func:
		return v, nil, NoStop
	case *Class:
		return &v.Func, nil, NoStop
	}
	r, s := c.argErr(n, "Function")
	return nil, r, s
}

// ClassArg returns the nth argument as a class.
func (c *Call) ClassArg(n int) (*Class, Value, Stop) {
	if v, ok := c.Arg(n).(*Class); ok {
		return v, nil, NoStop
	}
	r, s := c.argErr(n, "Class")
	return nil, r, s
}

// InstanceArg returns the nth argument as an instance.
func (c *Call) InstanceArg(n int) (*Instance, Value, Stop) {
	if v, ok := c.Arg(n).(*Instance); ok {
		return v, nil, NoStop
	}
	r, s := c.argErr(n, "instance")
	return nil, r, s
}

func (c *Call) argErr(n int, want string) (Value, Stop) {
	return c.Errorf("argument %d to %s must be %s, not %s", n, c.Func.Name, want, TypeNameOf(c.Arg(n)))
}

// TypeNameOf returns v's type name, treating a nil interface as null.
func TypeNameOf(v Value) string {
	if v == nil {
		return Null.TypeName()
	}
	return v.TypeName()
}

// Activate calls f with the given receiver and arguments. ctx is the call
// site. If this is nil, the activation does not bind this.
//
// Passing more arguments than f declares, or a break escaping f's body, is an
// internal error.
func (f *Func) Activate(ctx *Context, this Value, args []Value, line int) (Value, Stop) {
	if nb, ok := f.Body.(*nativeBody); ok {
		return nb.fn(&Call{Context: ctx.Normal(), Func: f, This: this, Args: args, Line: line})
	}
	if !f.Variadic && len(args) > len(f.Params) {
		panic(ctx.internalf(line, "%s takes %d arguments, got %d", f.Name, len(f.Params), len(args)))
	}
	act := f.scope(ctx, this, args)
	r := f.Body.Exec(act)
	switch r.Stop() {
	case NoStop:
		return Null, NoStop
	case ReturnStop:
		return r.Value(), NoStop
	case ExceptionStop:
		return r.Exception(), ExceptionStop
	case BreakStop:
		panic(ctx.internalf(line, "break outside of a loop in %s", f.Name))
	}
	panic(fmt.Errorf("quill: invalid Stop: %w", r.Stop().Err()))
}

// scope creates the activation context for a call of f with parameters bound.
func (f *Func) scope(ctx *Context, this Value, args []Value) *Context {
	var act *Context
	if f.Closure != nil {
		act = f.Closure.Child().WithOutput(ctx.Out)
	} else {
		act = ctx.Child()
	}
	if this != nil {
		act.Set("this", this)
	}
	n := len(f.Params)
	if f.Variadic {
		n--
	}
	for i := 0; i < n; i++ {
		if i < len(args) {
			act.Set(f.Params[i], args[i])
		} else {
			act.Set(f.Params[i], Null)
		}
	}
	if f.Variadic {
		var rest []Value
		if n < len(args) {
			rest = append(rest, args[n:]...)
		}
		act.Set(f.Params[n], act.NewList(rest...))
	}
	return act
}

// CallValue calls fn, which must be a function or class, with the given
// arguments. Calling a class instantiates it. Calling anything else is an
// Error.
func (ctx *Context) CallValue(fn Value, this Value, args []Value, line int) (Value, Stop) {
	switch fn := fn.(type) {
	case *Func:
		return fn.Activate(ctx, this, args, line)
	case *Class:
		return ctx.Instantiate(fn, args, line)
	}
	return ctx.Errorf("%s is not callable", TypeNameOf(fn))
}

// thisValue finds the receiver bound in ctx's frame or its parents.
func (ctx *Context) thisValue() (Value, bool) {
	return ctx.Lookup("this")
}
