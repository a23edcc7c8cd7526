package internal

import (
	"fmt"
	"io"
	"strings"
)

// Program is a parsed source unit.
type Program struct {
	// Body is the program's top-level statement sequence.
	Body Stmt
	// Unit is the source the program was parsed from.
	Unit *Unit
}

// Parse parses a complete program. label names the source in errors and
// stack traces. The returned error, if any, is a *SyntaxError or an error
// from reading src.
func Parse(src io.Reader, label string) (*Program, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", label, err)
	}
	return ParseString(string(b), label)
}

// ParseString parses a complete program from a string.
func ParseString(src, label string) (*Program, error) {
	unit := NewUnit(label, src)
	toks, err := Tokenize(strings.NewReader(src), label)
	if err != nil {
		fillSource(err, unit)
		return nil, err
	}
	lines, err := FoldLines(toks, label)
	if err != nil {
		fillSource(err, unit)
		return nil, err
	}
	p := parser{label: label, unit: unit, lines: lines}
	body, err := p.seq(0)
	if err != nil {
		return nil, err
	}
	if n := body.Lines(); n < len(lines) {
		return nil, p.errorf(lines[n].Num, "unexpected }")
	}
	return &Program{Body: body, Unit: unit}, nil
}

func fillSource(err error, unit *Unit) {
	if se, ok := err.(*SyntaxError); ok && se.Source == "" {
		se.Source = unit.Source(se.Line)
	}
}

// parser holds the state of parsing one unit.
type parser struct {
	label string
	unit  *Unit
	lines []Line
	// line is the source line of the statement being parsed.
	line int
	// loops is the number of loops enclosing the current statement within
	// the current function.
	loops int
}

func (p *parser) errorf(line int, format string, args ...interface{}) error {
	return &SyntaxError{File: p.label, Line: line, Source: p.unit.Source(line), Msg: fmt.Sprintf(format, args...)}
}

// incomplete reports a block opened at line that is never closed.
func (p *parser) incomplete(line int) error {
	return &SyntaxError{File: p.label, Line: line, Source: p.unit.Source(line), Msg: "unclosed block", Incomplete: true}
}

// seq parses statements starting at line index i until a close marker or the
// end of input. The result is a chain of *Seq ending in Empty.
func (p *parser) seq(i int) (Stmt, error) {
	if i >= len(p.lines) || p.lines[i].Is("close") {
		return Empty{}, nil
	}
	s, err := p.statement(i)
	if err != nil {
		return nil, err
	}
	rest, err := p.seq(i + s.Lines())
	if err != nil {
		return nil, err
	}
	return &Seq{First: s, Rest: rest}, nil
}

// body parses a block body starting at line index i, the line after the
// block's header at line index h, and checks that it is closed.
func (p *parser) body(h, i int) (Stmt, error) {
	s, err := p.seq(i)
	if err != nil {
		return nil, err
	}
	if i+s.Lines() >= len(p.lines) {
		return nil, p.incomplete(p.lines[h].Num)
	}
	return s, nil
}

// statement parses the statement beginning at line index i.
func (p *parser) statement(i int) (Stmt, error) {
	l := p.lines[i]
	p.line = l.Num
	toks := l.Tokens
	switch {
	case l.Is("return"):
		if len(toks) == 1 {
			return &Return{Line: l.Num}, nil
		}
		e, err := p.parseExpr(toks[1:])
		if err != nil {
			return nil, err
		}
		return &Return{Value: e, Line: l.Num}, nil

	case l.Is("throw"):
		e, err := p.parseExpr(toks[1:])
		if err != nil {
			return nil, err
		}
		return &Throw{Value: e, Line: l.Num}, nil

	case l.Is("assign"):
		e, err := p.parseExpr(toks[2:])
		if err != nil {
			return nil, err
		}
		return &Assign{Name: toks[0].Text, Op: compound(toks[1]), Value: e, Line: l.Num}, nil

	case l.Is("nonlocal"):
		e, err := p.parseExpr(toks[3:])
		if err != nil {
			return nil, err
		}
		return &NonLocal{Name: toks[1].Text, Op: compound(toks[2]), Value: e, Line: l.Num}, nil

	case l.Is("setProp"):
		return p.setProp(l)

	case l.Is("def"):
		return p.def(i)

	case l.Is("class"):
		return p.class(i)

	case l.Is("if"):
		return p.ifStmt(i, toks)

	case l.Is("while"):
		return p.while(i)

	case l.Is("switch"):
		return p.switchStmt(i)

	case l.Is("try"):
		return p.try(i)

	case l.Is("break"):
		if p.loops == 0 {
			return nil, p.errorf(l.Num, "break outside of a loop")
		}
		return &Break{Line: l.Num}, nil

	case l.Is("else"), l.Is("elseIf"):
		return nil, p.errorf(l.Num, "else without if")
	case l.Is("catch"):
		return nil, p.errorf(l.Num, "catch without try")
	case l.Is("case"):
		return nil, p.errorf(l.Num, "case outside of switch")
	case l.Is("default"):
		return nil, p.errorf(l.Num, "default without switch")
	case len(toks) > 1 && (toks[0].Is("def") || toks[0].Is("class") || toks[0].Is("catch") || toks[0].Is("nonlocal")):
		for _, t := range toks[1:] {
			if IsKeyword(t.Text) && !t.Is("extends") {
				return nil, p.badName(l.Num, []Token{t})
			}
		}
		return nil, p.errorf(l.Num, "malformed %s", toks[0].Text)
	case l.Is("opens"):
		return nil, p.errorf(l.Num, "unexpected {")
	case len(toks) > 0 && toks[0].Is("keyword") && !toks[0].Is("new"):
		return nil, p.errorf(l.Num, "unexpected keyword %s", toks[0].Text)
	}
	e, err := p.parseExpr(toks)
	if err != nil {
		return nil, err
	}
	return &ExprStmt{X: e, Line: l.Num}, nil
}

// compound returns the operator of a compound assignment token, or the empty
// string for plain assignment.
func compound(t Token) string {
	return strings.TrimSuffix(t.Text, "=")
}

// setProp parses target.name op= value.
func (p *parser) setProp(l Line) (Stmt, error) {
	eq, _ := upto("assignOp")(l.Tokens, 0)
	left := l.Tokens[:eq]
	if len(left) == 1 {
		return nil, p.badName(l.Num, left)
	}
	target, err := p.parseExpr(left)
	if err != nil {
		return nil, err
	}
	prop, ok := target.(*Property)
	if !ok {
		return nil, p.errorf(l.Num, "cannot assign to %s", target)
	}
	e, err := p.parseExpr(l.Tokens[eq+1:])
	if err != nil {
		return nil, err
	}
	return &SetProp{Target: prop.X, Name: prop.Name, Op: compound(l.Tokens[eq]), Value: e, Line: l.Num}, nil
}

// paramTokens returns the tokens between the parentheses starting at
// toks[open].
func paramTokens(toks []Token, open int) []Token {
	return toks[open+1 : matchClose(toks, open)]
}

// function parses a function body starting at line index i+1 with loop depth
// reset.
func (p *parser) function(i int) (Stmt, error) {
	loops := p.loops
	p.loops = 0
	defer func() { p.loops = loops }()
	return p.body(i, i+1)
}

// def parses a function definition.
func (p *parser) def(i int) (Stmt, error) {
	l := p.lines[i]
	params, variadic, err := p.params(paramTokens(l.Tokens, 2), l.Num)
	if err != nil {
		return nil, err
	}
	body, err := p.function(i)
	if err != nil {
		return nil, err
	}
	return &Def{Name: l.Tokens[1].Text, Params: params, Variadic: variadic, Body: body, Line: l.Num}, nil
}

// class parses a class definition. Method definitions in the body become
// methods; all other statements form the initializer.
func (p *parser) class(i int) (Stmt, error) {
	l := p.lines[i]
	toks := l.Tokens
	s := &ClassDef{Name: toks[1].Text, Line: l.Num}
	j := 2
	if toks[j].Is("lparen") {
		end := matchClose(toks, j)
		params, variadic, err := p.params(toks[j+1:end], l.Num)
		if err != nil {
			return nil, err
		}
		if variadic {
			return nil, p.errorf(l.Num, "class parameters cannot be variadic")
		}
		s.Params = params
		j = end + 1
	}
	if toks[j].Is("extends") {
		for _, t := range toks[j+1 : len(toks)-1] {
			if t.Is("identifier") {
				s.Parents = append(s.Parents, t.Text)
			}
		}
	}
	body, err := p.function(i)
	if err != nil {
		return nil, err
	}
	var init []Stmt
	for st := body; ; {
		sq, ok := st.(*Seq)
		if !ok {
			break
		}
		if d, ok := sq.First.(*Def); ok {
			s.Methods = append(s.Methods, d)
		} else {
			init = append(init, sq.First)
		}
		st = sq.Rest
	}
	var chain Stmt = Empty{}
	for k := len(init) - 1; k >= 0; k-- {
		chain = &Seq{First: init[k], Rest: chain}
	}
	s.Init = chain
	return s, nil
}

// ifStmt parses an if statement whose header tokens are toks, beginning with
// if, at line index i.
func (p *parser) ifStmt(i int, toks []Token) (Stmt, error) {
	l := p.lines[i]
	cond, err := p.parseExpr(toks[1 : len(toks)-1])
	if err != nil {
		return nil, err
	}
	then, err := p.body(i, i+1)
	if err != nil {
		return nil, err
	}
	s := &If{Cond: cond, Then: then, Line: l.Num}
	j := i + then.Lines() + 2
	if j >= len(p.lines) {
		return s, nil
	}
	next := p.lines[j]
	switch {
	case next.Is("elseIf"):
		els, err := p.ifStmt(j, next.Tokens[1:])
		if err != nil {
			return nil, err
		}
		s.Else, s.ElseIf = els, true
	case next.Is("else"):
		els, err := p.body(j, j+1)
		if err != nil {
			return nil, err
		}
		s.Else = els
	}
	return s, nil
}

// while parses a while loop.
func (p *parser) while(i int) (Stmt, error) {
	l := p.lines[i]
	cond, err := p.parseExpr(l.Tokens[1 : len(l.Tokens)-1])
	if err != nil {
		return nil, err
	}
	p.loops++
	body, err := p.body(i, i+1)
	p.loops--
	if err != nil {
		return nil, err
	}
	return &While{Cond: cond, Body: body, Line: l.Num}, nil
}

// switchStmt parses a switch statement and its optional default clause.
func (p *parser) switchStmt(i int) (Stmt, error) {
	l := p.lines[i]
	subject, err := p.parseExpr(l.Tokens[1 : len(l.Tokens)-1])
	if err != nil {
		return nil, err
	}
	s := &Switch{Subject: subject, Line: l.Num}
	j := i + 1
	for {
		if j >= len(p.lines) {
			return nil, p.incomplete(l.Num)
		}
		cl := p.lines[j]
		if cl.Is("close") {
			break
		}
		if !cl.Is("case") {
			return nil, p.errorf(cl.Num, "expected case in switch")
		}
		c := &Case{Line: cl.Num}
		for _, part := range splitCommas(cl.Tokens[1 : len(cl.Tokens)-1]) {
			if len(part) == 0 {
				return nil, p.errorf(cl.Num, "empty case value")
			}
			v, err := p.parseExpr(part)
			if err != nil {
				return nil, err
			}
			c.Values = append(c.Values, v)
		}
		if c.Body, err = p.body(j, j+1); err != nil {
			return nil, err
		}
		s.Cases = append(s.Cases, c)
		j += c.lines()
	}
	j++
	if j < len(p.lines) && p.lines[j].Is("default") {
		if s.Default, err = p.body(j, j+1); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// try parses a try statement and its optional catch clause.
func (p *parser) try(i int) (Stmt, error) {
	l := p.lines[i]
	body, err := p.body(i, i+1)
	if err != nil {
		return nil, err
	}
	s := &Try{Body: body, Line: l.Num}
	j := i + body.Lines() + 2
	if j < len(p.lines) && p.lines[j].Is("catch") {
		ct := p.lines[j].Tokens
		if len(ct) == 3 {
			s.Var = ct[1].Text
		}
		if s.Catch, err = p.body(j, j+1); err != nil {
			return nil, err
		}
	}
	return s, nil
}
