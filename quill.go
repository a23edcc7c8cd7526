/*
Package quill implements Quill, a small dynamically typed, class-based
scripting language.

The interpreter is a tree walker. Source text is lexed into tokens, folded
into logical lines, parsed into statements and expressions, and evaluated
against a chain of variable frames. It can easily be embedded in another
program: create an Interpreter with NewInterpreter, make Go values available
to programs with its Install method, then run source with DoString or DoFile.

Quill Primer

Hello World in Quill:

	print('Hello, world!')

Statements end at newlines or semicolons. Blocks are delimited by braces, and
a closing brace always ends the line it is on:

	def fact(n) {
		if n <= 1 {
			return 1
		}
		return n * fact(n - 1)
	}

Assignment always binds in the current function's frame. To change a
variable of an enclosing function, use nonlocal:

	def counter() {
		n = 0
		def next() {
			nonlocal n += 1
			return n
		}
		return next
	}

Classes may have any number of parents. Methods are found by searching the
class and then its parents breadth-first, in declared order. Parent names are
resolved each time a method is looked up, so redefining a parent class changes
the behavior of all of its subclasses. Statements in a class body that are not
method definitions form the class's initializer:

	class Point(x, y) extends Shape {
		this.x = x
		this.y = y
		def norm() {
			return this.x * this.x + this.y * this.y
		}
	}
	p = new Point(3, 4)
	print(p.norm())

A method of a particular parent can be called with super:

	super(Shape, 'describe', arg)

Any value may be thrown. try statements catch thrown values:

	try {
		throw new Error('boom')
	} catch e {
		print(e.message)
	}

Exceptions that are not caught end the program, and the interpreter reports
the value thrown along with the lines through which it propagated.
*/
package quill

import (
	"io"

	"github.com/zephyrtronium/quill/internal"
)

// An Interpreter runs Quill programs.
type Interpreter = internal.Interpreter

// Option configures an Interpreter.
type Option = internal.Option

// A Context is the state of evaluation: variable frames, output, and control
// flow status.
type Context = internal.Context

// Value is any Quill value.
type Value = internal.Value

// Number is a numeric value.
type Number = internal.Number

// Text is a string value.
type Text = internal.Text

// Boolean is a boolean value.
type Boolean = internal.Boolean

// Func is a function value.
type Func = internal.Func

// Class is a class value.
type Class = internal.Class

// Instance is an instance of a class.
type Instance = internal.Instance

// Native is the Go implementation of a builtin function.
type Native = internal.Native

// Call holds the state of an activation of a native function.
type Call = internal.Call

// A Stop represents a reason for flow control.
type Stop = internal.Stop

// Program is a parsed source unit.
type Program = internal.Program

// An Exception carries a thrown value and its stack trace.
type Exception = internal.Exception

// A TraceFrame is one entry of an exception's stack trace.
type TraceFrame = internal.TraceFrame

// A SyntaxError is a parse-time error.
type SyntaxError = internal.SyntaxError

// An InternalError aborts evaluation of a malformed program.
type InternalError = internal.InternalError

// An UncaughtError reports an exception that propagated out of a program.
type UncaughtError = internal.UncaughtError

// Control flow reasons.
const (
	NoStop        = internal.NoStop
	ReturnStop    = internal.ReturnStop
	ExceptionStop = internal.ExceptionStop
	BreakStop     = internal.BreakStop
)

// Null is the null value.
var Null = internal.Null

// NewInterpreter creates an interpreter with the builtins and all registered
// core extensions installed.
func NewInterpreter(opts ...Option) *Interpreter {
	return internal.NewInterpreter(opts...)
}

// NewNative creates a builtin function.
func NewNative(name string, fn Native, params ...string) *Func {
	return internal.NewNative(name, fn, params...)
}

// Option constructors.
var (
	WithOutput = internal.WithOutput
	WithLogger = internal.WithLogger
	WithArgs   = internal.WithArgs
	WithPaths  = internal.WithPaths
	WithLocale = internal.WithLocale
)

// Display returns a representation of v without consulting any toString
// method.
func Display(v Value) string {
	return internal.Display(v)
}

// Parse parses a Quill program from src. label names the source in
// diagnostics.
func Parse(src io.Reader, label string) (*Program, error) {
	return internal.Parse(src, label)
}

// ParseString parses a Quill program from a string.
func ParseString(src, label string) (*Program, error) {
	return internal.ParseString(src, label)
}

// Equal reports whether two values are equal: by value for null, numbers,
// strings, and booleans, and by identity otherwise.
func Equal(a, b Value) bool {
	return internal.Equal(a, b)
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	return internal.Truthy(v)
}

// Register registers a core extension. See internal.Register.
func Register(f func(*Interpreter)) {
	internal.Register(f)
}
