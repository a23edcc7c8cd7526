package internal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// A Token is a single lexical element.
type Token struct {
	Kind TokenKind
	// Text is the token's source text. Operator aliases are normalized, so
	// && is lexed as "and", || as "or", and ! as "not".
	Text string
	Err  error

	Line, Col int
}

// TokenKind is the lexical class of a token.
type TokenKind int

// Token kinds.
const (
	BadToken      TokenKind = iota
	TextToken               // 'text' or "text"
	NumberToken             // 1, 1.5, 1e3, 0x1f
	BooleanToken            // true, false
	NullToken               // null
	VariableToken           // identifier that is not a keyword
	KeywordToken            // def, class, if, ...
	OperatorToken           // + - * / ...
	OpenToken               // {
	CloseToken              // }
	EndToken                // newline or ;
)

var kindNames = [...]string{"bad", "text", "number", "boolean", "null", "variable", "keyword", "operator", "open", "close", "end"}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return kindNames[k]
}

// keywords maps each keyword to the kind of token it lexes as.
var keywords = map[string]TokenKind{
	"def": KeywordToken, "class": KeywordToken, "extends": KeywordToken,
	"if": KeywordToken, "else": KeywordToken, "while": KeywordToken,
	"switch": KeywordToken, "case": KeywordToken, "default": KeywordToken,
	"try": KeywordToken, "catch": KeywordToken, "break": KeywordToken,
	"return": KeywordToken, "throw": KeywordToken, "new": KeywordToken,
	"nonlocal": KeywordToken,
	"not":      OperatorToken, "and": OperatorToken, "or": OperatorToken,
	"true": BooleanToken, "false": BooleanToken,
	"null": NullToken,
}

// IsKeyword reports whether s is reserved.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// operators are the operator tokens, longest first.
var operators = []string{
	"...",
	"==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "+=", "-=", "*=", "/=", "%=", "->",
	"+", "-", "*", "/", "%", "<", ">", "&", "|", "^", "!", "=", ".", ",", "(", ")", "[", "]", "?", ":",
}

var aliases = map[string]string{"&&": "and", "||": "or", "!": "not"}

// lexFn is a lexer state function. Each lexFn lexes a token, sends it on the
// supplied channel, and returns the next lexFn to use.
type lexFn func(src *bufio.Reader, tokens chan<- Token, line, col int) (lexFn, int, int)

// lex converts a source into a stream of tokens. Comments are discarded.
func lex(src *bufio.Reader, tokens chan<- Token) {
	state := eatSpace
	line, col := 1, 1
	for state != nil {
		state, line, col = state(src, tokens, line, col)
	}
	close(tokens)
}

// Tokenize lexes all of src. If the source contains a lexical error, the
// tokens before it are returned along with a *SyntaxError.
func Tokenize(src io.Reader, label string) ([]Token, error) {
	ch := make(chan Token)
	go lex(bufio.NewReader(src), ch)
	var r []Token
	var err error
	for tok := range ch {
		if err != nil {
			continue
		}
		if tok.Kind == BadToken {
			err = &SyntaxError{File: label, Line: tok.Line, Msg: tok.Err.Error()}
			continue
		}
		r = append(r, tok)
	}
	return r, err
}

// accept appends the next run of characters in src which satisfy the predicate
// to b. Returns b after appending, the first rune which did not satisfy the
// predicate, and any error that occurred. If there was no such error, the
// last rune is unread.
func accept(src *bufio.Reader, predicate func(rune) bool, b []byte) ([]byte, rune, error) {
	r, _, err := src.ReadRune()
	for {
		if err != nil {
			return b, r, err
		}
		if !predicate(r) {
			break
		}
		b = append(b, string(r)...)
		r, _, err = src.ReadRune()
	}
	src.UnreadRune()
	return b, r, nil
}

// lexsend is a shortcut for sending a token with error checking. It returns
// eatSpace as the default lexing function.
func lexsend(err error, tokens chan<- Token, good Token) lexFn {
	if err != nil && err != io.EOF {
		good.Kind = BadToken
		good.Err = err
	}
	tokens <- good
	if err != nil {
		return nil
	}
	return eatSpace
}

func isIdentStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// eatSpace consumes space and decides the next lexFn to use.
func eatSpace(src *bufio.Reader, tokens chan<- Token, line, col int) (lexFn, int, int) {
	eaten, r, err := accept(src, func(r rune) bool { return strings.ContainsRune(" \r\f\t\v", r) }, nil)
	col += len(eaten)
	if err != nil {
		if err != io.EOF {
			tokens <- Token{Kind: BadToken, Text: string(r), Err: err, Line: line, Col: col}
		}
		return nil, line, col
	}
	switch {
	case r == ';', r == '\n':
		src.ReadRune()
		tokens <- Token{Kind: EndToken, Text: string(r), Line: line, Col: col}
		if r == '\n' {
			return eatSpace, line + 1, 1
		}
		return eatSpace, line, col + 1
	case r == '{':
		src.ReadRune()
		tokens <- Token{Kind: OpenToken, Text: "{", Line: line, Col: col}
		return eatSpace, line, col + 1
	case r == '}':
		src.ReadRune()
		tokens <- Token{Kind: CloseToken, Text: "}", Line: line, Col: col}
		return eatSpace, line, col + 1
	case isIdentStart(r):
		return lexIdent, line, col
	case isDigit(r):
		return lexNumber, line, col
	case r == '\'', r == '"':
		return lexString, line, col
	case r == '#':
		return lexComment, line, col
	case r == '/':
		peek, _ := src.Peek(2)
		if len(peek) == 2 && peek[1] == '/' {
			return lexComment, line, col
		}
		return lexOp, line, col
	case strings.ContainsRune("+-*%<>=!&|^.,()[]?:", r):
		return lexOp, line, col
	}
	tokens <- Token{
		Kind: BadToken,
		Text: string(r),
		Err:  fmt.Errorf("invalid character %q", r),
		Line: line,
		Col:  col,
	}
	return nil, line, col
}

// lexIdent lexes an identifier, keyword, boolean, or null.
func lexIdent(src *bufio.Reader, tokens chan<- Token, line, col int) (lexFn, int, int) {
	b, _, err := accept(src, func(r rune) bool { return isIdentStart(r) || isDigit(r) }, nil)
	kind, ok := keywords[string(b)]
	if !ok {
		kind = VariableToken
	}
	return lexsend(err, tokens, Token{Kind: kind, Text: string(b), Line: line, Col: col}), line, col + len(b)
}

// lexOp lexes the longest operator at the start of src.
func lexOp(src *bufio.Reader, tokens chan<- Token, line, col int) (lexFn, int, int) {
	peek, _ := src.Peek(3)
	for _, op := range operators {
		if strings.HasPrefix(string(peek), op) {
			src.Discard(len(op))
			text := op
			if a, ok := aliases[op]; ok {
				text = a
			}
			tokens <- Token{Kind: OperatorToken, Text: text, Line: line, Col: col}
			return eatSpace, line, col + len(op)
		}
	}
	tokens <- Token{Kind: BadToken, Text: string(peek), Err: fmt.Errorf("invalid operator %q", peek), Line: line, Col: col}
	return nil, line, col
}

// lexComment discards a # or // comment, leaving the newline.
func lexComment(src *bufio.Reader, tokens chan<- Token, line, col int) (lexFn, int, int) {
	b, _, err := accept(src, func(r rune) bool { return r != '\n' }, nil)
	if err != nil {
		return lexsend(err, tokens, Token{Kind: EndToken, Text: "", Line: line, Col: col}), line, col
	}
	return eatSpace, line, col + len(b)
}

// lexNumber lexes a decimal or hexadecimal number.
func lexNumber(src *bufio.Reader, tokens chan<- Token, line, col int) (lexFn, int, int) {
	b, r, err := accept(src, isDigit, nil)
	send := func(b []byte, err error) (lexFn, int, int) {
		return lexsend(err, tokens, Token{Kind: NumberToken, Text: string(b), Line: line, Col: col}), line, col + len(b)
	}
	if err != nil {
		return send(b, err)
	}
	if r == 'x' || r == 'X' {
		if len(b) != 1 || b[0] != '0' {
			tokens <- Token{Kind: BadToken, Text: string(b), Err: fmt.Errorf("invalid numeric literal %s%c", b, r), Line: line, Col: col}
			return nil, line, col
		}
		src.ReadRune()
		b, _, err = accept(src, func(r rune) bool {
			return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
		}, append(b, byte(r)))
		if len(b) == 2 {
			tokens <- Token{Kind: BadToken, Text: string(b), Err: fmt.Errorf("invalid numeric literal %s", b), Line: line, Col: col}
			return nil, line, col
		}
		return send(b, err)
	}
	if r == '.' {
		// A dot not followed by a digit is property access on the number.
		peek, _ := src.Peek(2)
		if len(peek) < 2 || !isDigit(rune(peek[1])) {
			return send(b, nil)
		}
		src.ReadRune()
		b, r, err = accept(src, isDigit, append(b, '.'))
		if err != nil {
			return send(b, err)
		}
	}
	if r == 'e' || r == 'E' {
		peek, _ := src.Peek(3)
		exp := 1
		if len(peek) > 1 && (peek[1] == '+' || peek[1] == '-') {
			exp = 2
		}
		if len(peek) <= exp || !isDigit(rune(peek[exp])) {
			return send(b, nil)
		}
		b = append(b, peek[:exp]...)
		src.Discard(exp)
		b, _, err = accept(src, isDigit, b)
	}
	return send(b, err)
}

// lexString lexes a single- or double-quoted string. The token text includes
// the quotes and escape sequences as written.
func lexString(src *bufio.Reader, tokens chan<- Token, line, col int) (lexFn, int, int) {
	q, _, _ := src.ReadRune()
	b := []byte{byte(q)}
	ps := false
	for {
		r, _, err := src.ReadRune()
		if err != nil || r == '\n' {
			if err == nil || err == io.EOF {
				err = fmt.Errorf("unterminated string")
			}
			tokens <- Token{Kind: BadToken, Text: string(b), Err: err, Line: line, Col: col}
			return nil, line, col
		}
		b = append(b, string(r)...)
		if r == '\\' {
			ps = !ps
		} else if r == q && !ps {
			return lexsend(nil, tokens, Token{Kind: TextToken, Text: string(b), Line: line, Col: col}), line, col + len(b)
		} else {
			ps = false
		}
	}
}

// Unquote decodes the text of a string token.
func Unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != s[len(s)-1] || (s[0] != '\'' && s[0] != '"') {
		return "", fmt.Errorf("malformed string %s", s)
	}
	var b strings.Builder
	esc := false
	for _, r := range s[1 : len(s)-1] {
		if !esc {
			if r == '\\' {
				esc = true
			} else {
				b.WriteRune(r)
			}
			continue
		}
		esc = false
		switch r {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape \\%c in %s", r, s)
		}
	}
	return b.String(), nil
}
