package internal

import "fmt"

// Stop represents the reason for flow control.
type Stop int

// Control flow reasons.
const (
	// NoStop indicates normal execution.
	NoStop Stop = iota
	// ReturnStop should be interpreted by function activations as a signal to
	// exit with the attached value.
	ReturnStop
	// ExceptionStop should be interpreted by statements as a signal to exit,
	// except by try statements, which may resume normal execution. The
	// attached value is always an *Exception.
	ExceptionStop
	// BreakStop should be interpreted by loops as a signal to exit the loop.
	BreakStop
)

var stopNames = [...]string{"normal", "return", "exception", "break"}

// String returns a string representation of the Stop.
func (s Stop) String() string {
	if s < NoStop || s > BreakStop {
		return fmt.Sprintf("Stop(%d)", s)
	}
	return stopNames[s]
}

// Err returns nil if s is NoStop or an error value if s is ReturnStop,
// ExceptionStop, or BreakStop. Panics otherwise.
func (s Stop) Err() error {
	switch s {
	case NoStop:
		return nil
	case ReturnStop, ExceptionStop, BreakStop:
		return stopError(s)
	default:
		panic(fmt.Sprintf("quill: invalid Stop: %v", s))
	}
}

type stopError Stop

func (err stopError) Error() string {
	return Stop(err).String()
}

// Exec evaluates a while loop. The condition is re-evaluated before each
// iteration. Return and exception stops from either the condition or the body
// leave the loop unchanged; a break stop ends only this loop.
func (s *While) Exec(ctx *Context) *Context {
	for {
		c, stop := s.Cond.Eval(ctx)
		switch stop {
		case NoStop: // do nothing
		case ExceptionStop:
			return ctx.raise(c)
		default:
			panic(fmt.Errorf("quill: invalid Stop from expression: %w", stop.Err()))
		}
		if !Truthy(c) {
			return ctx.Normal()
		}
		r := s.Body.Exec(ctx)
		switch r.Stop() {
		case NoStop:
			ctx = r
		case BreakStop:
			return r.Normal()
		case ReturnStop, ExceptionStop:
			return r
		default:
			panic(fmt.Errorf("quill: invalid Stop: %w", r.Stop().Err()))
		}
	}
}

// Exec evaluates an if statement.
func (s *If) Exec(ctx *Context) *Context {
	c, stop := s.Cond.Eval(ctx)
	if stop != NoStop {
		return ctx.raise(c)
	}
	if Truthy(c) {
		return s.Then.Exec(ctx)
	}
	if s.Else == nil {
		return ctx.Normal()
	}
	return s.Else.Exec(ctx)
}

// Exec evaluates a switch statement. Cases are tried in order and the first
// whose value list contains a value equal to the subject wins. The default
// body runs only when no case matches.
func (s *Switch) Exec(ctx *Context) *Context {
	v, stop := s.Subject.Eval(ctx)
	if stop != NoStop {
		return ctx.raise(v)
	}
	for _, c := range s.Cases {
		for _, e := range c.Values {
			cv, stop := e.Eval(ctx)
			if stop != NoStop {
				return ctx.raise(cv)
			}
			if Equal(v, cv) {
				return c.Body.Exec(ctx)
			}
		}
	}
	if s.Default == nil {
		return ctx.Normal()
	}
	return s.Default.Exec(ctx)
}

// Exec evaluates a try statement. A try without a catch clause discards any
// exception from its body. If the body raises, the exception's payload
// is bound to the catch variable in the frame of ctx, the catch body runs, and
// the variable's previous binding is restored.
func (s *Try) Exec(ctx *Context) *Context {
	r := s.Body.Exec(ctx)
	if r.Stop() != ExceptionStop {
		return r
	}
	exc := r.Exception()
	if s.Catch == nil {
		return ctx.Normal()
	}
	if s.Var == "" {
		return s.Catch.Exec(ctx)
	}
	old, had := ctx.frame.vars[s.Var]
	ctx.Set(s.Var, exc.Payload)
	out := s.Catch.Exec(ctx)
	if had {
		ctx.Set(s.Var, old)
	} else {
		ctx.Unset(s.Var)
	}
	return out
}

// Exec evaluates a return statement.
func (s *Return) Exec(ctx *Context) *Context {
	if s.Value == nil {
		return ctx.Return(Null)
	}
	v, stop := s.Value.Eval(ctx)
	if stop != NoStop {
		return ctx.raise(v)
	}
	return ctx.Return(v)
}

// Exec evaluates a throw statement.
func (s *Throw) Exec(ctx *Context) *Context {
	v, stop := s.Value.Eval(ctx)
	if stop != NoStop {
		return ctx.raise(v)
	}
	return ctx.Throw(v)
}

// Exec evaluates a break statement.
func (s *Break) Exec(ctx *Context) *Context {
	return ctx.Break()
}
