package internal

import (
	"sort"
	"strings"
)

// Output receives text a program prints. It is the only way evaluation
// produces visible output.
type Output func(string)

// A Unit is a source file or snippet that is being evaluated. It supplies the
// file label and source text for stack traces.
type Unit struct {
	// Label is the name used for the unit in errors and traces.
	Label string
	// Lines holds the unit's raw source lines.
	Lines []string
}

// NewUnit splits src into lines for a unit labeled label.
func NewUnit(label, src string) *Unit {
	return &Unit{Label: label, Lines: strings.Split(src, "\n")}
}

// Source returns the trimmed source text of the given 1-based line, or the
// empty string if the line is out of range.
func (u *Unit) Source(line int) string {
	if u == nil || line < 1 || line > len(u.Lines) {
		return ""
	}
	return strings.TrimSpace(u.Lines[line-1])
}

// A Frame is one set of variable bindings. Frames form a chain through their
// parents; a lookup that misses in a frame continues in its parent.
type Frame struct {
	parent *Frame
	vars   map[string]Value
}

func newFrame(parent *Frame) *Frame {
	return &Frame{parent: parent, vars: make(map[string]Value)}
}

// A Context is the state of evaluation: the current frame, the output sink,
// the unit being evaluated, and the control flow status of the most recently
// evaluated statement.
//
// Contexts are values shared by pointer, but the methods that change the
// control status return new contexts rather than modifying the receiver.
// Frames, on the other hand, are mutated in place: assignment changes the
// frame that every context sharing it sees.
type Context struct {
	frame *Frame
	// Out receives printed text.
	Out Output
	// Unit is the source currently being evaluated.
	Unit *Unit

	control Stop
	// result is the value attached to the control status. For ReturnStop it
	// is the returned value, for ExceptionStop an *Exception, and for NoStop
	// the value of the last expression statement, if any.
	result Value
}

// NewContext creates a root context with an empty frame.
func NewContext(out Output, unit *Unit) *Context {
	if out == nil {
		out = func(string) {}
	}
	return &Context{frame: newFrame(nil), Out: out, Unit: unit}
}

// Child creates a context with a fresh frame whose parent is ctx's frame.
// The child has normal status.
func (ctx *Context) Child() *Context {
	return &Context{frame: newFrame(ctx.frame), Out: ctx.Out, Unit: ctx.Unit}
}

// WithUnit returns a copy of ctx that reports unit in traces.
func (ctx *Context) WithUnit(unit *Unit) *Context {
	r := *ctx
	r.Unit = unit
	return &r
}

// WithOutput returns a copy of ctx that prints to out.
func (ctx *Context) WithOutput(out Output) *Context {
	r := *ctx
	r.Out = out
	return &r
}

// Lookup finds the value bound to name in ctx's frame or any of its parents.
func (ctx *Context) Lookup(name string) (Value, bool) {
	for f := ctx.frame; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupLocal finds the value bound to name in ctx's own frame only.
func (ctx *Context) LookupLocal(name string) (Value, bool) {
	v, ok := ctx.frame.vars[name]
	return v, ok
}

// Get returns the value bound to name. If there is no such binding, Get
// panics with an *InternalError located at line.
func (ctx *Context) Get(name string, line int) Value {
	if v, ok := ctx.Lookup(name); ok {
		return v
	}
	panic(ctx.internalf(line, "unresolved reference %q", name))
}

// Set binds name to v in ctx's own frame.
func (ctx *Context) Set(name string, v Value) {
	ctx.frame.vars[name] = v
}

// Unset removes the binding of name from ctx's own frame.
func (ctx *Context) Unset(name string) {
	delete(ctx.frame.vars, name)
}

// Update rebinds the nearest existing binding of name, searching from ctx's
// frame outward. If no frame binds name, Update panics with an
// *InternalError located at line.
func (ctx *Context) Update(name string, v Value, line int) {
	for f := ctx.frame; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			f.vars[name] = v
			return
		}
	}
	panic(ctx.internalf(line, "nonlocal %q has no enclosing binding", name))
}

// Names returns the names bound in ctx's own frame, sorted.
func (ctx *Context) Names() []string {
	r := make([]string, 0, len(ctx.frame.vars))
	for k := range ctx.frame.vars {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Stop returns ctx's control status.
func (ctx *Context) Stop() Stop {
	return ctx.control
}

// Value returns the value attached to ctx's control status, or Null if there
// is none.
func (ctx *Context) Value() Value {
	if ctx.result == nil {
		return Null
	}
	return ctx.result
}

// Exception returns the exception being propagated by ctx, or nil if ctx's
// status is not ExceptionStop.
func (ctx *Context) Exception() *Exception {
	if ctx.control != ExceptionStop {
		return nil
	}
	return ctx.result.(*Exception)
}

func (ctx *Context) with(s Stop, v Value) *Context {
	r := *ctx
	r.control = s
	r.result = v
	return &r
}

// Normal returns a copy of ctx with normal status.
func (ctx *Context) Normal() *Context {
	if ctx.control == NoStop && ctx.result == nil {
		return ctx
	}
	return ctx.with(NoStop, nil)
}

// Result returns a copy of ctx with normal status carrying v as the value of
// the last expression.
func (ctx *Context) Result(v Value) *Context {
	return ctx.with(NoStop, v)
}

// Return returns a copy of ctx that is returning v.
func (ctx *Context) Return(v Value) *Context {
	return ctx.with(ReturnStop, v)
}

// Throw returns a copy of ctx propagating a new exception with payload v.
func (ctx *Context) Throw(v Value) *Context {
	return ctx.with(ExceptionStop, &Exception{Payload: v})
}

// raise returns a copy of ctx propagating v, which is normally the *Exception
// produced by a failed expression. Other values are thrown as new exceptions.
func (ctx *Context) raise(v Value) *Context {
	if exc, ok := v.(*Exception); ok {
		return ctx.with(ExceptionStop, exc)
	}
	return ctx.Throw(v)
}

// Break returns a copy of ctx that is breaking out of a loop.
func (ctx *Context) Break() *Context {
	return ctx.with(BreakStop, nil)
}

// traced records line in the trace of the exception ctx is propagating, unless
// the exception has already recorded a line for ctx's frame.
func (ctx *Context) traced(line int) {
	exc := ctx.Exception()
	if exc == nil || exc.last == ctx.frame {
		return
	}
	exc.last = ctx.frame
	tf := TraceFrame{Line: line}
	if ctx.Unit != nil {
		tf.File = ctx.Unit.Label
		tf.Source = ctx.Unit.Source(line)
	}
	exc.Stack = append(exc.Stack, tf)
}
