package internal

import (
	"strconv"
	"strings"
)

type itemKind int

const (
	operandItem itemKind = iota
	operatorItem
	lparenItem
	rparenItem
)

// item is an element of an expression after grouping: an operand already
// parsed into an expression, an operator, or a parenthesis.
type item struct {
	kind itemKind
	expr Expr
	op   string
	line int
}

// parseExpr parses the tokens of one expression.
func (p *parser) parseExpr(toks []Token) (Expr, error) {
	if len(toks) == 0 {
		return nil, p.errorf(p.line, "expected expression")
	}
	line := toks[0].Line
	if params, variadic, body, ok, err := p.lambdaHeader(toks); err != nil {
		return nil, err
	} else if ok {
		return p.lambda(params, variadic, toks[body:], line)
	}
	if q := findTernary(toks); q >= 0 {
		c := matchColon(toks, q)
		if c < 0 {
			return nil, p.errorf(line, "? without matching :")
		}
		cond, err := p.parseExpr(toks[:q])
		if err != nil {
			return nil, err
		}
		then, err := p.parseExpr(toks[q+1 : c])
		if err != nil {
			return nil, err
		}
		els, err := p.parseExpr(toks[c+1:])
		if err != nil {
			return nil, err
		}
		return &Ternary{Cond: cond, Then: then, Else: els}, nil
	}
	items, err := p.group(toks)
	if err != nil {
		return nil, err
	}
	postfix, err := p.shunt(items)
	if err != nil {
		return nil, err
	}
	return p.reduce(postfix, line)
}

// lambda parses a lambda body.
func (p *parser) lambda(params []string, variadic bool, body []Token, line int) (Expr, error) {
	if len(body) == 0 {
		return nil, p.errorf(line, "lambda has no body")
	}
	e, err := p.parseExpr(body)
	if err != nil {
		return nil, err
	}
	return &Lambda{Params: params, Variadic: variadic, Body: e, Line: line}, nil
}

// lambdaHeader checks whether toks starts with a lambda header, x -> or
// (a, b) ->. If so, it returns the parameters and the index of the first token
// of the body. The body extends to the end of the enclosing group.
func (p *parser) lambdaHeader(toks []Token) (params []string, variadic bool, body int, ok bool, err error) {
	if len(toks) >= 2 && toks[0].Is("identifier") && toks[1].Is("arrow") {
		return []string{toks[0].Text}, false, 2, true, nil
	}
	if len(toks) == 0 || !toks[0].Is("lparen") {
		return nil, false, 0, false, nil
	}
	end := matchClose(toks, 0)
	if end < 0 || end+1 >= len(toks) || !toks[end+1].Is("arrow") {
		return nil, false, 0, false, nil
	}
	params, variadic, err = p.params(toks[1:end], toks[0].Line)
	return params, variadic, end + 2, err == nil, err
}

// params parses a comma-separated parameter list.
func (p *parser) params(toks []Token, line int) ([]string, bool, error) {
	params := []string{}
	variadic := false
	if len(toks) == 0 {
		return params, false, nil
	}
	for _, part := range splitCommas(toks) {
		if variadic {
			return nil, false, p.errorf(line, "variadic parameter must be last")
		}
		if len(part) == 2 && part[0].Is("ellipsis") {
			variadic = true
			part = part[1:]
		}
		if len(part) != 1 || !part[0].Is("identifier") {
			return nil, false, p.badName(line, part)
		}
		params = append(params, part[0].Text)
	}
	return params, variadic, nil
}

// badName reports an invalid name, noting reserved words.
func (p *parser) badName(line int, toks []Token) error {
	s := Line{Tokens: toks}.String()
	if len(toks) == 1 && IsKeyword(toks[0].Text) {
		return p.errorf(line, "keyword %s cannot be used as a name", s)
	}
	return p.errorf(line, "invalid name %q", s)
}

// findTernary finds the first ? outside brackets, or -1.
func findTernary(toks []Token) int {
	depth := 0
	for i, t := range toks {
		switch {
		case t.Is("lparen"), t.Is("lbracket"):
			depth++
		case t.Is("rparen"), t.Is("rbracket"):
			depth--
		case depth == 0 && t.Is("question"):
			return i
		}
	}
	return -1
}

// matchColon finds the : matching the ? at q, or -1.
func matchColon(toks []Token, q int) int {
	depth, nest := 0, 0
	for i := q + 1; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.Is("lparen"), t.Is("lbracket"):
			depth++
		case t.Is("rparen"), t.Is("rbracket"):
			depth--
		case depth == 0 && t.Is("question"):
			nest++
		case depth == 0 && t.Is("colon"):
			if nest == 0 {
				return i
			}
			nest--
		}
	}
	return -1
}

// matchClose finds the bracket closing the one at i, or -1.
func matchClose(toks []Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch {
		case toks[j].Is("lparen"), toks[j].Is("lbracket"):
			depth++
		case toks[j].Is("rparen"), toks[j].Is("rbracket"):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// groupEnd finds the end of the group enclosing position i: the first
// unmatched closing bracket, or len(toks).
func groupEnd(toks []Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch {
		case toks[j].Is("lparen"), toks[j].Is("lbracket"):
			depth++
		case toks[j].Is("rparen"), toks[j].Is("rbracket"):
			if depth == 0 {
				return j
			}
			depth--
		}
	}
	return len(toks)
}

// splitCommas splits toks at commas outside brackets.
func splitCommas(toks []Token) [][]Token {
	var r [][]Token
	depth, start := 0, 0
	for i, t := range toks {
		switch {
		case t.Is("lparen"), t.Is("lbracket"):
			depth++
		case t.Is("rparen"), t.Is("rbracket"):
			depth--
		case depth == 0 && t.Is("comma"):
			r = append(r, toks[start:i])
			start = i + 1
		}
	}
	return append(r, toks[start:])
}

// args parses the arguments between the parentheses at toks[open] and
// toks[close].
func (p *parser) args(toks []Token, open, close int) ([]Expr, error) {
	inner := toks[open+1 : close]
	if len(inner) == 0 {
		return nil, nil
	}
	parts := splitCommas(inner)
	r := make([]Expr, len(parts))
	for i, part := range parts {
		if len(part) == 0 {
			return nil, p.errorf(toks[open].Line, "empty argument")
		}
		e, err := p.parseExpr(part)
		if err != nil {
			return nil, err
		}
		r[i] = e
	}
	return r, nil
}

// calls parses any call suffixes (args)(args)... starting at toks[i], applying
// them to fn. It returns the resulting expression and the index after the
// last suffix.
func (p *parser) calls(fn Expr, toks []Token, i int) (Expr, int, error) {
	for i < len(toks) && toks[i].Is("lparen") {
		end := matchClose(toks, i)
		if end < 0 {
			return nil, i, p.errorf(toks[i].Line, "unmatched (")
		}
		args, err := p.args(toks, i, end)
		if err != nil {
			return nil, i, err
		}
		fn = &CallExpr{Fn: fn, Args: args, Line: toks[i].Line}
		i = end + 1
	}
	return fn, i, nil
}

// literal parses a literal token.
func (p *parser) literal(t Token) (Expr, error) {
	switch t.Kind {
	case NumberToken:
		if strings.HasPrefix(t.Text, "0x") || strings.HasPrefix(t.Text, "0X") {
			n, err := strconv.ParseUint(t.Text[2:], 16, 64)
			if err != nil {
				return nil, p.errorf(t.Line, "invalid number %s", t.Text)
			}
			return &Literal{Value: Number(n)}, nil
		}
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, p.errorf(t.Line, "invalid number %s", t.Text)
		}
		return &Literal{Value: Number(f)}, nil
	case TextToken:
		s, err := Unquote(t.Text)
		if err != nil {
			return nil, p.errorf(t.Line, "%v", err)
		}
		return &Literal{Value: Text(s)}, nil
	case BooleanToken:
		return &Literal{Value: Boolean(t.Text == "true")}, nil
	}
	return &Literal{Value: Null}, nil
}

// group converts tokens into operand, operator, and parenthesis items. Calls,
// list literals, lambdas, and immediately invoked groups become operands.
func (p *parser) group(toks []Token) ([]item, error) {
	var items []item
	// operand reports whether the previous item ends an operand, so that a
	// following - is binary.
	operand := func() bool {
		if len(items) == 0 {
			return false
		}
		k := items[len(items)-1].kind
		return k == operandItem || k == rparenItem
	}
	// member reports whether the previous item is a dot, so that a following
	// keyword names a property or method.
	member := func() bool {
		if len(items) == 0 {
			return false
		}
		it := items[len(items)-1]
		return it.kind == operatorItem && it.op == "."
	}
	push := func(e Expr, t Token) error {
		if operand() {
			return p.errorf(t.Line, "unexpected %s", t.Text)
		}
		items = append(items, item{kind: operandItem, expr: e, line: t.Line})
		return nil
	}
	for i := 0; i < len(toks); {
		t := toks[i]
		switch {
		case t.Is("keyword") && member():
			e, next, err := p.calls(&Var{Name: t.Text, Line: t.Line}, toks, i+1)
			if err != nil {
				return nil, err
			}
			if err := push(e, t); err != nil {
				return nil, err
			}
			i = next

		case t.Is("literal"):
			e, err := p.literal(t)
			if err != nil {
				return nil, err
			}
			e, next, err := p.calls(e, toks, i+1)
			if err != nil {
				return nil, err
			}
			if err := push(e, t); err != nil {
				return nil, err
			}
			i = next

		case t.Is("identifier"):
			if i+1 < len(toks) && toks[i+1].Is("arrow") {
				end := groupEnd(toks, i+2)
				e, err := p.lambda([]string{t.Text}, false, toks[i+2:end], t.Line)
				if err != nil {
					return nil, err
				}
				if err := push(e, t); err != nil {
					return nil, err
				}
				i = end
				continue
			}
			e, next, err := p.calls(&Var{Name: t.Text, Line: t.Line}, toks, i+1)
			if err != nil {
				return nil, err
			}
			if err := push(e, t); err != nil {
				return nil, err
			}
			i = next

		case t.Is("lbracket"):
			end := matchClose(toks, i)
			if end < 0 {
				return nil, p.errorf(t.Line, "unmatched [")
			}
			var elems []Expr
			if end > i+1 {
				for _, part := range splitCommas(toks[i+1 : end]) {
					if len(part) == 0 {
						return nil, p.errorf(t.Line, "empty list element")
					}
					e, err := p.parseExpr(part)
					if err != nil {
						return nil, err
					}
					elems = append(elems, e)
				}
			}
			if err := push(&ListLit{Items: elems, Line: t.Line}, t); err != nil {
				return nil, err
			}
			i = end + 1

		case t.Is("lparen"):
			end := matchClose(toks, i)
			if end < 0 {
				return nil, p.errorf(t.Line, "unmatched (")
			}
			params, variadic, body, ok, err := p.lambdaHeader(toks[i:])
			if err != nil {
				return nil, err
			}
			if ok {
				stop := groupEnd(toks, i+body)
				e, err := p.lambda(params, variadic, toks[i+body:stop], t.Line)
				if err != nil {
					return nil, err
				}
				if err := push(e, t); err != nil {
					return nil, err
				}
				i = stop
				continue
			}
			if end+1 < len(toks) && toks[end+1].Is("lparen") {
				// Immediately invoked group.
				fn, err := p.parseExpr(toks[i+1 : end])
				if err != nil {
					return nil, err
				}
				e, next, err := p.calls(fn, toks, end+1)
				if err != nil {
					return nil, err
				}
				if err := push(e, t); err != nil {
					return nil, err
				}
				i = next
				continue
			}
			if operand() {
				return nil, p.errorf(t.Line, "unexpected (")
			}
			items = append(items, item{kind: lparenItem, op: "(", line: t.Line})
			i++

		case t.Is("rparen"):
			if !operand() {
				return nil, p.errorf(t.Line, "unexpected )")
			}
			items = append(items, item{kind: rparenItem, op: ")", line: t.Line})
			i++

		case t.Is("new"):
			items = append(items, item{kind: operatorItem, op: "new", line: t.Line})
			i++

		case t.Is("operator"):
			op := t.Text
			if op == "-" && !operand() {
				op = negate
			}
			o, ok := OpTable[op]
			if !ok {
				return nil, p.errorf(t.Line, "unexpected %s", t.Text)
			}
			if o.Unary && operand() {
				return nil, p.errorf(t.Line, "unexpected %s", t.Text)
			}
			items = append(items, item{kind: operatorItem, op: op, line: t.Line})
			i++

		case t.Is("keyword"):
			return nil, p.errorf(t.Line, "unexpected keyword %s", t.Text)

		default:
			return nil, p.errorf(t.Line, "unexpected %s", t.Text)
		}
	}
	return items, nil
}

// shunt reorders items into postfix order.
func (p *parser) shunt(items []item) ([]item, error) {
	var out []item
	var ops Stack[item]
	for _, it := range items {
		switch it.kind {
		case operandItem:
			out = append(out, it)
		case lparenItem:
			ops = ops.Push(it)
		case rparenItem:
			for {
				top, rest, ok := ops.Pop()
				if !ok {
					return nil, p.errorf(it.line, "unmatched )")
				}
				ops = rest
				if top.kind == lparenItem {
					break
				}
				out = append(out, top)
			}
		case operatorItem:
			cur := OpTable[it.op]
			if !cur.Unary {
				for {
					top, ok := ops.Peek()
					if !ok || top.kind == lparenItem || OpTable[top.op].Prec < cur.Prec {
						break
					}
					_, ops, _ = ops.Pop()
					out = append(out, top)
				}
			}
			ops = ops.Push(it)
		}
	}
	for !ops.Empty() {
		var top item
		top, ops, _ = ops.Pop()
		if top.kind == lparenItem {
			return nil, p.errorf(top.line, "unmatched (")
		}
		out = append(out, top)
	}
	return out, nil
}

// reduce builds an expression from postfix items.
func (p *parser) reduce(postfix []item, line int) (Expr, error) {
	var st Stack[Expr]
	for _, it := range postfix {
		if it.kind == operandItem {
			st = st.Push(it.expr)
			continue
		}
		y, rest, ok := st.Pop()
		if !ok {
			return nil, p.errorf(it.line, "missing operand for %s", opName(it.op))
		}
		st = rest
		if OpTable[it.op].Unary {
			e, err := p.unary(it, y)
			if err != nil {
				return nil, err
			}
			st = st.Push(e)
			continue
		}
		x, rest, ok := st.Pop()
		if !ok {
			return nil, p.errorf(it.line, "missing operand for %s", opName(it.op))
		}
		st = rest
		e, err := p.binary(it, x, y)
		if err != nil {
			return nil, err
		}
		st = st.Push(e)
	}
	e, rest, ok := st.Pop()
	if !ok || !rest.Empty() {
		return nil, p.errorf(line, "malformed expression")
	}
	return e, nil
}

func opName(op string) string {
	if op == negate {
		return "-"
	}
	return op
}

// unary builds a prefix operator node.
func (p *parser) unary(it item, x Expr) (Expr, error) {
	switch it.op {
	case "not":
		return &Unary{Op: "not", X: x, Line: it.line}, nil
	case negate:
		return &Unary{Op: "-", X: x, Line: it.line}, nil
	}
	if e, ok := instantiate(x, it.line); ok {
		return e, nil
	}
	return nil, p.errorf(it.line, "cannot instantiate %s", x)
}

// instantiate applies new to the leftmost call of a property or call chain,
// so that new C(a).m() calls m on the new instance.
func instantiate(x Expr, line int) (Expr, bool) {
	switch x := x.(type) {
	case *Var:
		return &New{Class: x, Line: line}, true
	case *Property:
		if !hasCall(x.X) {
			return &New{Class: x, Line: line}, true
		}
		r, ok := instantiate(x.X, line)
		return &Property{X: r, Name: x.Name, Line: x.Line}, ok
	case *MethodCall:
		if !hasCall(x.X) {
			return &New{Class: &Property{X: x.X, Name: x.Name, Line: x.Line}, Args: x.Args, Line: line}, true
		}
		r, ok := instantiate(x.X, line)
		return &MethodCall{X: r, Name: x.Name, Args: x.Args, Line: x.Line}, ok
	case *CallExpr:
		if !hasCall(x.Fn) {
			return &New{Class: x.Fn, Args: x.Args, Line: line}, true
		}
		r, ok := instantiate(x.Fn, line)
		return &CallExpr{Fn: r, Args: x.Args, Line: x.Line}, ok
	}
	return nil, false
}

// hasCall reports whether a property chain contains a call.
func hasCall(x Expr) bool {
	switch x := x.(type) {
	case *CallExpr, *MethodCall:
		return true
	case *Property:
		return hasCall(x.X)
	}
	return false
}

// binary builds an infix operator node. The dot operator becomes a property
// read or method call.
func (p *parser) binary(it item, x, y Expr) (Expr, error) {
	if it.op != "." {
		return &Binary{Op: it.op, X: x, Y: y, Line: it.line}, nil
	}
	return p.dot(it.line, x, y)
}

func (p *parser) dot(line int, x, y Expr) (Expr, error) {
	switch y := y.(type) {
	case *Var:
		return &Property{X: x, Name: y.Name, Line: line}, nil
	case *CallExpr:
		if v, ok := y.Fn.(*Var); ok {
			return &MethodCall{X: x, Name: v.Name, Args: y.Args, Line: line}, nil
		}
		fn, err := p.dot(line, x, y.Fn)
		if err != nil {
			return nil, err
		}
		return &CallExpr{Fn: fn, Args: y.Args, Line: y.Line}, nil
	}
	return nil, p.errorf(line, "invalid property %s", y)
}
