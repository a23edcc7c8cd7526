package internal

import "math"

// Eval returns the literal's value.
func (e *Literal) Eval(ctx *Context) (Value, Stop) {
	return e.Value, NoStop
}

// Eval looks up the variable. An unbound name is an internal error.
func (e *Var) Eval(ctx *Context) (Value, Stop) {
	return ctx.Get(e.Name, e.Line), NoStop
}

// Eval applies a prefix operator.
func (e *Unary) Eval(ctx *Context) (Value, Stop) {
	x, stop := e.X.Eval(ctx)
	if stop != NoStop {
		return x, stop
	}
	switch e.Op {
	case "not":
		return Boolean(!Truthy(x)), NoStop
	case "-":
		if n, ok := x.(Number); ok {
			return -n, NoStop
		}
		return ctx.Errorf("bad operand type for -: %s", TypeNameOf(x))
	}
	panic(ctx.internalf(e.Line, "unknown unary operator %q", e.Op))
}

// Eval applies an infix operator. The logical operators evaluate their right
// operand only when needed and yield one of their operands.
func (e *Binary) Eval(ctx *Context) (Value, Stop) {
	x, stop := e.X.Eval(ctx)
	if stop != NoStop {
		return x, stop
	}
	switch e.Op {
	case "and":
		if !Truthy(x) {
			return x, NoStop
		}
		return e.Y.Eval(ctx)
	case "or":
		if Truthy(x) {
			return x, NoStop
		}
		return e.Y.Eval(ctx)
	}
	y, stop := e.Y.Eval(ctx)
	if stop != NoStop {
		return y, stop
	}
	return ctx.Operate(e.Op, x, y)
}

// Operate applies a non-logical infix operator to two values.
func (ctx *Context) Operate(op string, x, y Value) (Value, Stop) {
	switch op {
	case "==":
		return Boolean(Equal(x, y)), NoStop
	case "!=":
		return Boolean(!Equal(x, y)), NoStop
	case "+":
		if a, ok := x.(Text); ok {
			return a + Text(Display(y)), NoStop
		}
		if b, ok := y.(Text); ok {
			return Text(Display(x)) + b, NoStop
		}
	case "<", "<=", ">", ">=":
		if a, ok := x.(Text); ok {
			if b, ok := y.(Text); ok {
				return Boolean(compare(op, a, b)), NoStop
			}
		}
	}
	a, ok := x.(Number)
	b, ok2 := y.(Number)
	if !ok || !ok2 {
		return ctx.Errorf("bad operand types for %s: %s and %s", op, TypeNameOf(x), TypeNameOf(y))
	}
	switch op {
	case "+":
		return a + b, NoStop
	case "-":
		return a - b, NoStop
	case "*":
		return a * b, NoStop
	case "/":
		if b == 0 {
			return ctx.Errorf("division by zero")
		}
		return a / b, NoStop
	case "%":
		if b == 0 {
			return ctx.Errorf("modulo by zero")
		}
		return Number(math.Mod(float64(a), float64(b))), NoStop
	case "<", "<=", ">", ">=":
		return Boolean(compare(op, a, b)), NoStop
	case "&":
		return Number(int64(a) & int64(b)), NoStop
	case "|":
		return Number(int64(a) | int64(b)), NoStop
	case "^":
		return Number(int64(a) ^ int64(b)), NoStop
	case "<<", ">>":
		if b < 0 {
			return ctx.Errorf("negative shift count %s", FormatNumber(b))
		}
		if op == "<<" {
			return Number(int64(a) << uint64(b)), NoStop
		}
		return Number(int64(a) >> uint64(b)), NoStop
	}
	return ctx.Errorf("unknown operator %s", op)
}

func compare[T Number | Text](op string, a, b T) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

// evalArgs evaluates a list of argument expressions in order.
func evalArgs(ctx *Context, args []Expr) ([]Value, Value, Stop) {
	if len(args) == 0 {
		return nil, nil, NoStop
	}
	r := make([]Value, len(args))
	for i, arg := range args {
		v, stop := arg.Eval(ctx)
		if stop != NoStop {
			return nil, v, stop
		}
		r[i] = v
	}
	return r, nil, NoStop
}

// Eval reads a property.
func (e *Property) Eval(ctx *Context) (Value, Stop) {
	x, stop := e.X.Eval(ctx)
	if stop != NoStop {
		return x, stop
	}
	return ctx.Property(x, e.Name, e.Line)
}

// Eval calls a method.
func (e *MethodCall) Eval(ctx *Context) (Value, Stop) {
	x, stop := e.X.Eval(ctx)
	if stop != NoStop {
		return x, stop
	}
	args, exc, stop := evalArgs(ctx, e.Args)
	if stop != NoStop {
		return exc, stop
	}
	return ctx.Invoke(x, e.Name, args, e.Line)
}

// Eval calls a function or instantiates a class.
func (e *CallExpr) Eval(ctx *Context) (Value, Stop) {
	fn, stop := e.Fn.Eval(ctx)
	if stop != NoStop {
		return fn, stop
	}
	args, exc, stop := evalArgs(ctx, e.Args)
	if stop != NoStop {
		return exc, stop
	}
	return ctx.CallValue(fn, nil, args, e.Line)
}

// Eval instantiates a class.
func (e *New) Eval(ctx *Context) (Value, Stop) {
	v, stop := e.Class.Eval(ctx)
	if stop != NoStop {
		return v, stop
	}
	cls, ok := v.(*Class)
	if !ok {
		return ctx.Errorf("cannot instantiate %s", TypeNameOf(v))
	}
	args, exc, stop := evalArgs(ctx, e.Args)
	if stop != NoStop {
		return exc, stop
	}
	return ctx.Instantiate(cls, args, e.Line)
}

// Eval creates a closure.
func (e *Lambda) Eval(ctx *Context) (Value, Stop) {
	return NewFunc("lambda", e.Params, e.Variadic, &Return{Value: e.Body, Line: e.Line}, ctx), NoStop
}

// Eval evaluates the condition and then exactly one branch.
func (e *Ternary) Eval(ctx *Context) (Value, Stop) {
	c, stop := e.Cond.Eval(ctx)
	if stop != NoStop {
		return c, stop
	}
	if Truthy(c) {
		return e.Then.Eval(ctx)
	}
	return e.Else.Eval(ctx)
}

// Eval creates a list.
func (e *ListLit) Eval(ctx *Context) (Value, Stop) {
	items, exc, stop := evalArgs(ctx, e.Items)
	if stop != NoStop {
		return exc, stop
	}
	return ctx.NewList(items...), NoStop
}

// Exec does nothing.
func (s Empty) Exec(ctx *Context) *Context {
	return ctx
}

// Exec executes each statement of the sequence in turn until one stops. An
// exception records the line of the statement that raised it.
func (s *Seq) Exec(ctx *Context) *Context {
	var cur Stmt = s
	for {
		seq, ok := cur.(*Seq)
		if !ok {
			return cur.Exec(ctx)
		}
		r := seq.First.Exec(ctx)
		switch r.Stop() {
		case NoStop:
			ctx, cur = r, seq.Rest
		case ExceptionStop:
			r.traced(seq.First.Pos())
			return r
		default:
			return r
		}
	}
}

// assignValue evaluates the right side of an assignment, combining it with old
// if the assignment is compound.
func assignValue(ctx *Context, op string, value Expr, old func() (Value, Stop)) (Value, Stop) {
	v, stop := value.Eval(ctx)
	if stop != NoStop || op == "" {
		return v, stop
	}
	o, stop := old()
	if stop != NoStop {
		return o, stop
	}
	return ctx.Operate(op, o, v)
}

// Exec binds the name in the current frame.
func (s *Assign) Exec(ctx *Context) *Context {
	v, stop := assignValue(ctx, s.Op, s.Value, func() (Value, Stop) { return ctx.Get(s.Name, s.Line), NoStop })
	if stop != NoStop {
		return ctx.raise(v)
	}
	ctx.Set(s.Name, v)
	return ctx.Normal()
}

// Exec rebinds the nearest existing binding of the name.
func (s *NonLocal) Exec(ctx *Context) *Context {
	v, stop := assignValue(ctx, s.Op, s.Value, func() (Value, Stop) { return ctx.Get(s.Name, s.Line), NoStop })
	if stop != NoStop {
		return ctx.raise(v)
	}
	ctx.Update(s.Name, v, s.Line)
	return ctx.Normal()
}

// Exec sets a property of an instance.
func (s *SetProp) Exec(ctx *Context) *Context {
	t, stop := s.Target.Eval(ctx)
	if stop != NoStop {
		return ctx.raise(t)
	}
	inst, ok := t.(*Instance)
	if !ok {
		exc, _ := ctx.Errorf("cannot set property %s of %s", s.Name, TypeNameOf(t))
		return ctx.raise(exc)
	}
	v, stop := assignValue(ctx, s.Op, s.Value, func() (Value, Stop) { return ctx.Property(inst, s.Name, s.Line) })
	if stop != NoStop {
		return ctx.raise(v)
	}
	inst.Set(s.Name, v)
	return ctx.Normal()
}

// Exec evaluates the expression, keeping its value as the context's result.
func (s *ExprStmt) Exec(ctx *Context) *Context {
	v, stop := s.X.Eval(ctx)
	if stop != NoStop {
		return ctx.raise(v)
	}
	return ctx.Result(v)
}

// Exec binds a new function closing over ctx.
func (s *Def) Exec(ctx *Context) *Context {
	ctx.Set(s.Name, NewFunc(s.Name, s.Params, s.Variadic, s.Body, ctx))
	return ctx.Normal()
}

// Exec binds a new class whose methods and initializer close over ctx.
func (s *ClassDef) Exec(ctx *Context) *Context {
	methods := make(map[string]*Func, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name] = NewFunc(m.Name, m.Params, m.Variadic, m.Body, ctx)
	}
	ctx.Set(s.Name, NewClass(s.Name, s.Params, s.Init, ctx, s.Parents, methods))
	return ctx.Normal()
}
