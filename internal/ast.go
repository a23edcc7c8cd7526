package internal

import "strings"

// Node is any node of a parsed program.
type Node interface {
	// String returns a compact rendering of the node, used in errors and
	// tests.
	String() string
}

// Expr is an expression node. Eval returns the expression's value with
// NoStop, or an *Exception with ExceptionStop.
type Expr interface {
	Node
	Eval(ctx *Context) (Value, Stop)
}

// Stmt is a statement node.
type Stmt interface {
	Node
	// Exec executes the statement. The returned context carries the control
	// status; it is ctx itself or a copy sharing ctx's frame.
	Exec(ctx *Context) *Context
	// Lines returns the number of logical lines the statement spans.
	Lines() int
	// Pos returns the source line on which the statement begins.
	Pos() int
}

// Literal is a constant.
type Literal struct {
	Value Value
}

// Var is a variable reference.
type Var struct {
	Name string
	Line int
}

// Unary is a prefix operator: "not" or "-".
type Unary struct {
	Op   string
	X    Expr
	Line int
}

// Binary is an infix operator.
type Binary struct {
	Op   string
	X, Y Expr
	Line int
}

// Property is a property read, X.Name.
type Property struct {
	X    Expr
	Name string
	Line int
}

// MethodCall is X.Name(Args).
type MethodCall struct {
	X    Expr
	Name string
	Args []Expr
	Line int
}

// CallExpr is a call of an arbitrary expression.
type CallExpr struct {
	Fn   Expr
	Args []Expr
	Line int
}

// New is an instantiation, new Class(Args).
type New struct {
	Class Expr
	Args  []Expr
	Line  int
}

// Lambda is an anonymous function whose body is one expression.
type Lambda struct {
	Params   []string
	Variadic bool
	Body     Expr
	Line     int
}

// Ternary is Cond ? Then : Else.
type Ternary struct {
	Cond, Then, Else Expr
}

// ListLit is a list literal.
type ListLit struct {
	Items []Expr
	Line  int
}

// Empty is the empty statement ending every statement sequence.
type Empty struct{}

// Seq executes First, then Rest unless First stopped.
type Seq struct {
	First, Rest Stmt
}

// Assign binds a name in the current frame. If Op is non-empty, the
// assignment is compound, e.g. "+" for +=.
type Assign struct {
	Name  string
	Op    string
	Value Expr
	Line  int
}

// NonLocal rebinds the nearest existing binding of a name.
type NonLocal struct {
	Name  string
	Op    string
	Value Expr
	Line  int
}

// SetProp assigns a property of an instance.
type SetProp struct {
	Target Expr
	Name   string
	Op     string
	Value  Expr
	Line   int
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	X    Expr
	Line int
}

// If is a conditional. Else is nil when there is no else clause. ElseIf is
// set when Else is an *If written as "else if".
type If struct {
	Cond   Expr
	Then   Stmt
	Else   Stmt
	ElseIf bool
	Line   int
}

// While is a loop.
type While struct {
	Cond Expr
	Body Stmt
	Line int
}

// Case is one case of a switch.
type Case struct {
	Values []Expr
	Body   Stmt
	Line   int
}

// Switch selects the first case with a value equal to Subject. Default is nil
// when there is no default clause.
type Switch struct {
	Subject Expr
	Cases   []*Case
	Default Stmt
	Line    int
}

// Try executes Body and, if it raises, Catch with the exception's payload
// bound to Var. Catch is nil when there is no catch clause; Var is empty when
// the catch clause binds nothing.
type Try struct {
	Body  Stmt
	Catch Stmt
	Var   string
	Line  int
}

// Throw raises a value.
type Throw struct {
	Value Expr
	Line  int
}

// Return returns from the current function. Value may be nil.
type Return struct {
	Value Expr
	Line  int
}

// Break exits the innermost loop.
type Break struct {
	Line int
}

// Def defines a function.
type Def struct {
	Name     string
	Params   []string
	Variadic bool
	Body     Stmt
	Line     int
}

// ClassDef defines a class. Params is nil when the class declares no
// parameter list. Init holds the body's statements that are not method
// definitions.
type ClassDef struct {
	Name    string
	Params  []string
	Parents []string
	Methods []*Def
	Init    Stmt
	Line    int
}

// Lines is 0 for Empty and 1 for simple statements.
func (Empty) Lines() int       { return 0 }
func (s *Seq) Lines() int      { return s.First.Lines() + s.Rest.Lines() }
func (*Assign) Lines() int     { return 1 }
func (*NonLocal) Lines() int   { return 1 }
func (*SetProp) Lines() int    { return 1 }
func (*ExprStmt) Lines() int   { return 1 }
func (*Throw) Lines() int      { return 1 }
func (*Return) Lines() int     { return 1 }
func (*Break) Lines() int      { return 1 }
func (s *While) Lines() int    { return s.Body.Lines() + 2 }
func (s *Def) Lines() int      { return s.Body.Lines() + 2 }
func (s *Case) lines() int     { return s.Body.Lines() + 2 }
func (s *nativeBody) Lines() int { return 0 }

// Lines counts the if header, body, and closing line, plus the else clause.
// An else-if clause counts as the nested if.
func (s *If) Lines() int {
	n := s.Then.Lines() + 2
	switch {
	case s.Else == nil:
	case s.ElseIf:
		n += s.Else.Lines()
	default:
		n += s.Else.Lines() + 2
	}
	return n
}

func (s *Switch) Lines() int {
	n := 2
	for _, c := range s.Cases {
		n += c.lines()
	}
	if s.Default != nil {
		n += s.Default.Lines() + 2
	}
	return n
}

func (s *Try) Lines() int {
	n := s.Body.Lines() + 2
	if s.Catch != nil {
		n += s.Catch.Lines() + 2
	}
	return n
}

func (s *ClassDef) Lines() int {
	n := s.Init.Lines() + 2
	for _, m := range s.Methods {
		n += m.Lines()
	}
	return n
}

func (Empty) Pos() int          { return 0 }
func (s *Seq) Pos() int         { return s.First.Pos() }
func (s *Assign) Pos() int      { return s.Line }
func (s *NonLocal) Pos() int    { return s.Line }
func (s *SetProp) Pos() int     { return s.Line }
func (s *ExprStmt) Pos() int    { return s.Line }
func (s *If) Pos() int          { return s.Line }
func (s *While) Pos() int       { return s.Line }
func (s *Switch) Pos() int      { return s.Line }
func (s *Try) Pos() int         { return s.Line }
func (s *Throw) Pos() int       { return s.Line }
func (s *Return) Pos() int      { return s.Line }
func (s *Break) Pos() int       { return s.Line }
func (s *Def) Pos() int         { return s.Line }
func (s *ClassDef) Pos() int    { return s.Line }
func (s *nativeBody) Pos() int  { return 0 }

func joinNodes[N Node](nodes []N) string {
	s := make([]string, len(nodes))
	for i, n := range nodes {
		s[i] = n.String()
	}
	return strings.Join(s, ", ")
}

func params(names []string, variadic bool) string {
	if !variadic || len(names) == 0 {
		return strings.Join(names, ", ")
	}
	s := append([]string(nil), names...)
	s[len(s)-1] = "..." + s[len(s)-1]
	return strings.Join(s, ", ")
}

func (e *Literal) String() string    { return quoted(e.Value) }
func (e *Var) String() string        { return e.Name }
func (e *Property) String() string   { return e.X.String() + "." + e.Name }
func (e *CallExpr) String() string   { return e.Fn.String() + "(" + joinNodes(e.Args) + ")" }
func (e *New) String() string        { return "new " + e.Class.String() + "(" + joinNodes(e.Args) + ")" }
func (e *ListLit) String() string    { return "[" + joinNodes(e.Items) + "]" }
func (e *Ternary) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}

func (e *MethodCall) String() string {
	return e.X.String() + "." + e.Name + "(" + joinNodes(e.Args) + ")"
}

func (e *Lambda) String() string {
	return "((" + params(e.Params, e.Variadic) + ") -> " + e.Body.String() + ")"
}

func (e *Unary) String() string {
	if e.Op == "not" {
		return "(not " + e.X.String() + ")"
	}
	return "(" + e.Op + e.X.String() + ")"
}

func (e *Binary) String() string {
	return "(" + e.X.String() + " " + e.Op + " " + e.Y.String() + ")"
}

func (Empty) String() string { return "" }

func (s *Seq) String() string {
	if _, ok := s.Rest.(Empty); ok {
		return s.First.String()
	}
	return s.First.String() + "; " + s.Rest.String()
}

func (s *Assign) String() string   { return s.Name + " " + s.Op + "= " + s.Value.String() }
func (s *NonLocal) String() string { return "nonlocal " + s.Name + " " + s.Op + "= " + s.Value.String() }
func (s *ExprStmt) String() string { return s.X.String() }
func (s *Throw) String() string    { return "throw " + s.Value.String() }
func (s *Break) String() string    { return "break" }

func (s *SetProp) String() string {
	return s.Target.String() + "." + s.Name + " " + s.Op + "= " + s.Value.String()
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

func (s *If) String() string {
	r := "if " + s.Cond.String() + " { " + s.Then.String() + " }"
	switch {
	case s.Else == nil:
	case s.ElseIf:
		r += " else " + s.Else.String()
	default:
		r += " else { " + s.Else.String() + " }"
	}
	return r
}

func (s *While) String() string {
	return "while " + s.Cond.String() + " { " + s.Body.String() + " }"
}

func (s *Switch) String() string {
	var b strings.Builder
	b.WriteString("switch " + s.Subject.String() + " {")
	for _, c := range s.Cases {
		b.WriteString(" case " + joinNodes(c.Values) + " { " + c.Body.String() + " }")
	}
	b.WriteString(" }")
	if s.Default != nil {
		b.WriteString(" default { " + s.Default.String() + " }")
	}
	return b.String()
}

func (s *Try) String() string {
	r := "try { " + s.Body.String() + " }"
	if s.Catch != nil {
		r += " catch "
		if s.Var != "" {
			r += s.Var + " "
		}
		r += "{ " + s.Catch.String() + " }"
	}
	return r
}

func (s *Def) String() string {
	return "def " + s.Name + "(" + params(s.Params, s.Variadic) + ") { " + s.Body.String() + " }"
}

func (s *ClassDef) String() string {
	var b strings.Builder
	b.WriteString("class " + s.Name)
	if s.Params != nil {
		b.WriteString("(" + strings.Join(s.Params, ", ") + ")")
	}
	if len(s.Parents) > 0 {
		b.WriteString(" extends " + strings.Join(s.Parents, ", "))
	}
	b.WriteString(" {")
	for _, m := range s.Methods {
		b.WriteString(" " + m.String())
	}
	if init := s.Init.String(); init != "" {
		b.WriteString(" " + init)
	}
	b.WriteString(" }")
	return b.String()
}

// Inspect traverses a node tree in depth-first order, calling f for each
// node. If f returns false, Inspect skips the node's children.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	each := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				Inspect(c, f)
			}
		}
	}
	exprs := func(es []Expr) {
		for _, e := range es {
			Inspect(e, f)
		}
	}
	switch n := n.(type) {
	case *Unary:
		each(n.X)
	case *Binary:
		each(n.X, n.Y)
	case *Property:
		each(n.X)
	case *MethodCall:
		each(n.X)
		exprs(n.Args)
	case *CallExpr:
		each(n.Fn)
		exprs(n.Args)
	case *New:
		each(n.Class)
		exprs(n.Args)
	case *Lambda:
		each(n.Body)
	case *Ternary:
		each(n.Cond, n.Then, n.Else)
	case *ListLit:
		exprs(n.Items)
	case *Seq:
		each(n.First, n.Rest)
	case *Assign:
		each(n.Value)
	case *NonLocal:
		each(n.Value)
	case *SetProp:
		each(n.Target, n.Value)
	case *ExprStmt:
		each(n.X)
	case *If:
		each(n.Cond, n.Then)
		if n.Else != nil {
			each(n.Else)
		}
	case *While:
		each(n.Cond, n.Body)
	case *Switch:
		each(n.Subject)
		for _, c := range n.Cases {
			exprs(c.Values)
			each(c.Body)
		}
		if n.Default != nil {
			each(n.Default)
		}
	case *Try:
		each(n.Body)
		if n.Catch != nil {
			each(n.Catch)
		}
	case *Throw:
		each(n.Value)
	case *Return:
		if n.Value != nil {
			each(n.Value)
		}
	case *Def:
		each(n.Body)
	case *ClassDef:
		for _, m := range n.Methods {
			each(m)
		}
		each(n.Init)
	}
}
