package internal

import "regexp"

// tokenRule classifies a token by its kind and text.
type tokenRule struct {
	kinds []TokenKind
	re    *regexp.Regexp
}

var tokenRules = map[string]tokenRule{
	"identifier": {[]TokenKind{VariableToken}, regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)},
	"number":     {[]TokenKind{NumberToken}, regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?)$`)},
	"text":       {[]TokenKind{TextToken}, regexp.MustCompile(`^('.*'|".*")$`)},
	"boolean":    {[]TokenKind{BooleanToken}, regexp.MustCompile(`^(true|false)$`)},
	"null":       {[]TokenKind{NullToken}, regexp.MustCompile(`^null$`)},
	"literal":    {[]TokenKind{NumberToken, TextToken, BooleanToken, NullToken}, regexp.MustCompile(`.`)},
	"keyword":    {[]TokenKind{KeywordToken}, regexp.MustCompile(`.`)},
	"operator":   {[]TokenKind{OperatorToken}, regexp.MustCompile(`.`)},
	"assignOp":   {[]TokenKind{OperatorToken}, regexp.MustCompile(`^[-+*/%]?=$`)},
	"binaryOp":   {[]TokenKind{OperatorToken}, regexp.MustCompile(`^(and|or|[|^&]|[=!]=|[<>]=?|<<|>>|[-+*/%])$`)},
	"unaryOp":    {[]TokenKind{OperatorToken}, regexp.MustCompile(`^(not|-)$`)},
	"open":       {[]TokenKind{OpenToken}, regexp.MustCompile(`^\{$`)},
	"close":      {[]TokenKind{CloseToken}, regexp.MustCompile(`^\}$`)},
	"end":        {[]TokenKind{EndToken}, regexp.MustCompile(`^`)},
	"comma":      {[]TokenKind{OperatorToken}, regexp.MustCompile(`^,$`)},
	"dot":        {[]TokenKind{OperatorToken}, regexp.MustCompile(`^\.$`)},
	"ellipsis":   {[]TokenKind{OperatorToken}, regexp.MustCompile(`^\.\.\.$`)},
	"arrow":      {[]TokenKind{OperatorToken}, regexp.MustCompile(`^->$`)},
	"question":   {[]TokenKind{OperatorToken}, regexp.MustCompile(`^\?$`)},
	"colon":      {[]TokenKind{OperatorToken}, regexp.MustCompile(`^:$`)},
	"lparen":     {[]TokenKind{OperatorToken}, regexp.MustCompile(`^\($`)},
	"rparen":     {[]TokenKind{OperatorToken}, regexp.MustCompile(`^\)$`)},
	"lbracket":   {[]TokenKind{OperatorToken}, regexp.MustCompile(`^\[$`)},
	"rbracket":   {[]TokenKind{OperatorToken}, regexp.MustCompile(`^\]$`)},
}

func init() {
	for kw, kind := range keywords {
		if kind == KeywordToken {
			tokenRules[kw] = tokenRule{[]TokenKind{KeywordToken}, regexp.MustCompile(`^` + kw + `$`)}
		}
	}
}

// Is reports whether the token matches the named rule. Rules are named by
// token class, such as "identifier" or "assignOp", or by keyword, such as
// "def". Panics if there is no rule with the given name.
func (t Token) Is(rule string) bool {
	r, ok := tokenRules[rule]
	if !ok {
		panic("quill: no token rule named " + rule)
	}
	for _, k := range r.kinds {
		if t.Kind == k {
			return r.re.MatchString(t.Text)
		}
	}
	return false
}

// A pattern matches a prefix of toks[i:]. It returns the index after the
// match and whether it matched.
type pattern func(toks []Token, i int) (int, bool)

// tok matches one token satisfying a token rule.
func tok(rule string) pattern {
	return func(toks []Token, i int) (int, bool) {
		if i < len(toks) && toks[i].Is(rule) {
			return i + 1, true
		}
		return i, false
	}
}

// seq matches each pattern in order.
func seq(ps ...pattern) pattern {
	return func(toks []Token, i int) (int, bool) {
		for _, p := range ps {
			var ok bool
			if i, ok = p(toks, i); !ok {
				return i, false
			}
		}
		return i, true
	}
}

// alt matches the first of ps that matches.
func alt(ps ...pattern) pattern {
	return func(toks []Token, i int) (int, bool) {
		for _, p := range ps {
			if j, ok := p(toks, i); ok {
				return j, true
			}
		}
		return i, false
	}
}

// opt matches p or nothing.
func opt(p pattern) pattern {
	return func(toks []Token, i int) (int, bool) {
		if j, ok := p(toks, i); ok {
			return j, true
		}
		return i, true
	}
}

// listOf matches one or more p separated by commas.
func listOf(p pattern) pattern {
	return func(toks []Token, i int) (int, bool) {
		i, ok := p(toks, i)
		if !ok {
			return i, false
		}
		for {
			j, ok := seq(tok("comma"), p)(toks, i)
			if !ok {
				return i, true
			}
			i = j
		}
	}
}

// rest matches one or more tokens through the end of the line.
func rest(toks []Token, i int) (int, bool) {
	if i >= len(toks) {
		return i, false
	}
	return len(toks), true
}

// upto matches one or more tokens before the first token satisfying rule
// outside of parentheses and brackets. The token satisfying rule is not
// consumed.
func upto(rule string) pattern {
	return func(toks []Token, i int) (int, bool) {
		depth := 0
		for j := i; j < len(toks); j++ {
			switch {
			case depth == 0 && toks[j].Is(rule):
				return j, j > i
			case toks[j].Is("lparen"), toks[j].Is("lbracket"):
				depth++
			case toks[j].Is("rparen"), toks[j].Is("rbracket"):
				depth--
			}
		}
		return i, false
	}
}

// param matches a parameter name, optionally prefixed by an ellipsis.
var param = seq(opt(tok("ellipsis")), tok("identifier"))

// block matches a block header ending in {: the given prefix, then an
// expression, then the open marker.
func block(kw string) pattern {
	return seq(tok(kw), upto("open"), tok("open"))
}

// lineRules are the statement shapes recognized by the statement parser.
var lineRules = map[string]pattern{
	"return":   seq(tok("return"), opt(rest)),
	"throw":    seq(tok("throw"), rest),
	"break":    tok("break"),
	"assign":   seq(tok("identifier"), tok("assignOp"), rest),
	"nonlocal": seq(tok("nonlocal"), tok("identifier"), tok("assignOp"), rest),
	"setProp":  seq(upto("assignOp"), tok("assignOp"), rest),
	"def":      seq(tok("def"), tok("identifier"), tok("lparen"), opt(listOf(param)), tok("rparen"), tok("open")),
	"class": seq(
		tok("class"), tok("identifier"),
		opt(seq(tok("lparen"), opt(listOf(param)), tok("rparen"))),
		opt(seq(tok("extends"), listOf(tok("identifier")))),
		tok("open"),
	),
	"if":      block("if"),
	"elseIf":  seq(tok("else"), block("if")),
	"else":    seq(tok("else"), tok("open")),
	"while":   block("while"),
	"switch":  block("switch"),
	"case":    block("case"),
	"default": seq(tok("default"), tok("open")),
	"try":     seq(tok("try"), tok("open")),
	"catch":   seq(tok("catch"), opt(tok("identifier")), tok("open")),
	"close":   tok("close"),
	"opens":   seq(upto("open"), tok("open")),
}
