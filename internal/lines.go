package internal

import "strings"

// A Line is a logical line: the tokens of one statement, block header, or
// closing marker.
type Line struct {
	Tokens []Token
	// Num is the source line of the first token.
	Num int
}

// Is reports whether the whole line matches the named line rule. Panics if
// there is no rule with the given name.
func (l Line) Is(rule string) bool {
	p, ok := lineRules[rule]
	if !ok {
		panic("quill: no line rule named " + rule)
	}
	n, ok := p(l.Tokens, 0)
	return ok && n == len(l.Tokens)
}

// String joins the line's token texts with spaces.
func (l Line) String() string {
	s := make([]string, len(l.Tokens))
	for i, t := range l.Tokens {
		s[i] = t.Text
	}
	return strings.Join(s, " ")
}

// FoldLines groups tokens into logical lines. A line ends at an end token
// outside parentheses and brackets and after each open marker. Each close
// marker is a line of its own.
func FoldLines(toks []Token, label string) ([]Line, error) {
	var r []Line
	var cur []Token
	depth := 0
	flush := func() {
		if len(cur) > 0 {
			r = append(r, Line{Tokens: cur, Num: cur[0].Line})
			cur = nil
		}
	}
	for _, t := range toks {
		switch t.Kind {
		case EndToken:
			if depth == 0 {
				flush()
			}
			continue
		case OpenToken, CloseToken:
			if depth != 0 {
				return nil, &SyntaxError{File: label, Line: t.Line, Msg: "unexpected " + t.Text + " inside brackets"}
			}
			if t.Kind == CloseToken {
				flush()
			}
			cur = append(cur, t)
			flush()
			continue
		case OperatorToken:
			switch t.Text {
			case "(", "[":
				depth++
			case ")", "]":
				depth--
				if depth < 0 {
					return nil, &SyntaxError{File: label, Line: t.Line, Msg: "unmatched " + t.Text}
				}
			}
		}
		cur = append(cur, t)
	}
	if depth != 0 {
		line := 0
		if len(cur) > 0 {
			line = cur[0].Line
		}
		return nil, &SyntaxError{File: label, Line: line, Msg: "unclosed bracket", Incomplete: true}
	}
	flush()
	return r, nil
}
