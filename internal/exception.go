package internal

import (
	"fmt"
	"strings"
)

// An Exception carries a thrown value along with the stack frames it has
// passed through. It is the value attached to ExceptionStop and never appears
// as an ordinary program value; catch clauses bind its Payload.
type Exception struct {
	// Payload is the thrown value.
	Payload Value
	// Stack holds the frames the exception has propagated through, most
	// recent first.
	Stack []TraceFrame

	// last is the frame that recorded the most recent entry in Stack.
	last *Frame
}

// TypeName returns "Exception".
func (e *Exception) TypeName() string {
	return "Exception"
}

// A TraceFrame is one entry of an exception's stack trace.
type TraceFrame struct {
	File   string
	Line   int
	Source string
}

// String formats the frame the way the command line reports it.
func (f TraceFrame) String() string {
	return fmt.Sprintf("%s\t%s:%d", f.Source, f.File, f.Line)
}

// A SyntaxError is a parse-time error. Parse errors abort parsing of the whole
// program.
type SyntaxError struct {
	File   string
	Line   int
	Source string
	Msg    string
	// Incomplete is set when the error is caused only by input ending inside
	// an open block, so that more input could fix it.
	Incomplete bool
}

func (err *SyntaxError) Error() string {
	if err.Source == "" {
		return fmt.Sprintf("%s:%d: %s", err.File, err.Line, err.Msg)
	}
	return fmt.Sprintf("%s:%d: %s\n\t%s", err.File, err.Line, err.Msg, err.Source)
}

// An InternalError aborts evaluation entirely. It reports a malformed program,
// such as a reference to a name that is bound nowhere, rather than a runtime
// data condition, so programs cannot catch it.
type InternalError struct {
	File string
	Line int
	Msg  string
}

func (err *InternalError) Error() string {
	return fmt.Sprintf("%s:%d: internal error: %s", err.File, err.Line, err.Msg)
}

// An UncaughtError reports an exception that propagated out of a program.
type UncaughtError struct {
	// Message is the string form of the thrown value.
	Message string
	// Trace is the exception's stack, most recent frame first.
	Trace []TraceFrame
}

func (err *UncaughtError) Error() string {
	var b strings.Builder
	b.WriteString("Exception: ")
	b.WriteString(err.Message)
	for _, f := range err.Trace {
		b.WriteString("\n\t")
		b.WriteString(f.String())
	}
	return b.String()
}

// Errorf creates an exception whose payload is an instance of the class bound
// to Error, or a plain text value if there is no such class, and returns it
// with ExceptionStop. It is the usual way for builtins and the evaluator to
// raise catchable errors.
func (c *Context) Errorf(format string, args ...interface{}) (Value, Stop) {
	msg := fmt.Sprintf(format, args...)
	var payload Value = Text(msg)
	if v, ok := c.Lookup("Error"); ok {
		if cls, ok := v.(*Class); ok {
			inst := NewInstance(cls)
			inst.Set("message", Text(msg))
			payload = inst
		}
	}
	return &Exception{Payload: payload}, ExceptionStop
}

// internalf creates an InternalError located at line of the context's unit.
func (c *Context) internalf(line int, format string, args ...interface{}) *InternalError {
	file := ""
	if c.Unit != nil {
		file = c.Unit.Label
	}
	return &InternalError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Uncaught converts a context holding an exception into an UncaughtError.
// Returns nil if the context's status is not ExceptionStop.
func Uncaught(ctx *Context) *UncaughtError {
	if ctx.Stop() != ExceptionStop {
		return nil
	}
	exc := ctx.Exception()
	msg := Display(exc.Payload)
	if s, stop := ctx.Normal().Stringify(exc.Payload); stop == NoStop {
		msg = string(s.(Text))
	}
	return &UncaughtError{Message: msg, Trace: exc.Stack}
}
