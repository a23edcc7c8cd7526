package internal

import (
	"errors"
	"strings"
	"testing"
)

// TestParseExpr tests that expressions parse with the correct precedence and
// structure.
func TestParseExpr(t *testing.T) {
	cases := map[string]struct {
		src, want string
	}{
		"Number":        {"1", "1"},
		"Hex":           {"0x10", "16"},
		"Float":         {"1.5", "1.5"},
		"Text":          {`"a"`, "'a'"},
		"Bool":          {"true", "true"},
		"Null":          {"null", "null"},
		"MulAdd":        {"1 + 2 * 3", "(1 + (2 * 3))"},
		"LeftAssoc":     {"1 - 2 - 3", "((1 - 2) - 3)"},
		"Parens":        {"(1 + 2) * 3", "((1 + 2) * 3)"},
		"NestedParens":  {"((1))", "1"},
		"Negate":        {"-x * 2", "((-x) * 2)"},
		"NegateAfter":   {"x - -1", "(x - (-1))"},
		"DoubleNegate":  {"- -x", "(-(-x))"},
		"Not":           {"not a and b", "((not a) and b)"},
		"NotAlias":      {"!a || b", "((not a) or b)"},
		"AndOr":         {"a or b and c", "(a or (b and c))"},
		"Compare":       {"a == b < c", "(a == (b < c))"},
		"Shift":         {"1 << 2 + 3", "(1 << (2 + 3))"},
		"Bitwise":       {"a | b ^ c & d", "(a | (b ^ (c & d)))"},
		"Property":      {"a.b.c", "a.b.c"},
		"NegProperty":   {"-a.b", "(-a.b)"},
		"Method":        {"a.b(1).c", "a.b(1).c"},
		"MethodChain":   {"a.b().c(1, 2)", "a.b().c(1, 2)"},
		"Call":          {"f(1, 2)(3)", "f(1, 2)(3)"},
		"CallArgs":      {"f(a + 1, g(b))", "f((a + 1), g(b))"},
		"NumberMethod":  {"1.abs()", "1.abs()"},
		"KeywordMethod": {"x.class()", "x.class()"},
		"KeywordProp":   {"x.if.while", "x.if.while"},
		"TextMethod":    {"'a'.upper()", "'a'.upper()"},
		"ParenCall":     {"(f)(1)", "f(1)"},
		"New":           {"new C(1)", "new C(1)"},
		"NewBare":       {"new C", "new C()"},
		"NewQualified":  {"new m.C(1)", "new m.C(1)"},
		"NewMethod":     {"new C(1).m()", "new C(1).m()"},
		"NewProperty":   {"new C().x + 1", "(new C().x + 1)"},
		"Lambda":        {"x -> x + 1", "((x) -> (x + 1))"},
		"LambdaParams":  {"(a, ...b) -> b", "((a, ...b) -> b)"},
		"LambdaNone":    {"() -> 1", "(() -> 1)"},
		"LambdaArg":     {"f(x -> x, 1)", "f(((x) -> x), 1)"},
		"LambdaIIFE":    {"((x) -> x * 2)(3)", "((x) -> (x * 2))(3)"},
		"Ternary":       {"c ? 1 : 2", "(c ? 1 : 2)"},
		"TernaryNested": {"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		"TernaryCond":   {"x > 1 ? x : -x", "((x > 1) ? x : (-x))"},
		"List":          {"[1, 'a', [true]]", "[1, 'a', [true]]"},
		"EmptyList":     {"[]", "[]"},
		"ListExpr":      {"[a + 1]", "[(a + 1)]"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			prog, err := ParseString(c.src, name)
			if err != nil {
				t.Fatal(err)
			}
			seq, ok := prog.Body.(*Seq)
			if !ok {
				t.Fatalf("program is %T, not *Seq", prog.Body)
			}
			if _, ok := seq.Rest.(Empty); !ok {
				t.Fatalf("program has more than one statement: %s", prog.Body)
			}
			if got := seq.First.String(); got != c.want {
				t.Errorf("wrong parse of %q: want %s, got %s", c.src, c.want, got)
			}
		})
	}
}

// TestParseStmt tests statement structure and line counts.
func TestParseStmt(t *testing.T) {
	cases := map[string]struct {
		src   string
		want  string
		lines int
	}{
		"Assign":        {"x = 1", "x = 1", 1},
		"Compound":      {"x += 1", "x += 1", 1},
		"NonLocal":      {"nonlocal x *= 2", "nonlocal x *= 2", 1},
		"SetProp":       {"a.b = 1", "a.b = 1", 1},
		"SetPropChain":  {"a.b.c -= 1", "a.b.c -= 1", 1},
		"SetKeyword":    {"a.class = 1", "a.class = 1", 1},
		"Return":        {"def f() {\nreturn\n}", "def f() { return }", 3},
		"ReturnValue":   {"def f() {\nreturn 1\n}", "def f() { return 1 }", 3},
		"Throw":         {"throw 'x'", "throw 'x'", 1},
		"If":            {"if x {\ny\n}", "if x { y }", 3},
		"IfEmpty":       {"if x {\n}", "if x {  }", 2},
		"IfElse":        {"if x {\ny\n} else {\nz\n}", "if x { y } else { z }", 6},
		"IfElseIf":      {"if x {\n} else if y {\n} else {\nz\n}", "if x {  } else if y {  } else { z }", 7},
		"While":         {"while x {\nbreak\n}", "while x { break }", 3},
		"BreakInIf":     {"while x {\nif y {\nbreak\n}\n}", "while x { if y { break } }", 5},
		"Switch":        {"switch x {\ncase 1, 2 {\na\n}\ncase 3 {\n}\n}", "switch x { case 1, 2 { a } case 3 {  } }", 7},
		"SwitchDefault": {"switch x {\n}\ndefault {\nd\n}", "switch x { } default { d }", 5},
		"Try":           {"try {\na\n}", "try { a }", 3},
		"TryCatch":      {"try {\na\n} catch {\nb\n}", "try { a } catch { b }", 6},
		"TryCatchVar":   {"try {\n} catch e {\n}", "try {  } catch e {  }", 4},
		"Def":           {"def f(a, ...b) {\nx = a\n}", "def f(a, ...b) { x = a }", 3},
		"Class":         {"class C {\n}", "class C { }", 2},
		"ClassAll":      {"class C(x) extends A, B {\nthis.x = x\ndef m() {\nreturn 1\n}\n}", "class C(x) extends A, B { def m() { return 1 } this.x = x }", 6},
		"OneLineBlocks": {"if x { y } else { z }", "if x { y } else { z }", 6},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			prog, err := ParseString(c.src, name)
			if err != nil {
				t.Fatal(err)
			}
			if got := prog.Body.String(); got != c.want {
				t.Errorf("wrong parse:\nwant %s\ngot  %s", c.want, got)
			}
			if got := prog.Body.Lines(); got != c.lines {
				t.Errorf("wrong line count: want %d, got %d", c.lines, got)
			}
		})
	}
}

// TestParseSequence tests that multiple statements parse in order with their
// source lines.
func TestParseSequence(t *testing.T) {
	prog, err := ParseString("a = 1\n\nif a {\nb = 2\n}\nc = 3; d = 4", "TestParseSequence")
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for s := prog.Body; ; {
		seq, ok := s.(*Seq)
		if !ok {
			break
		}
		got = append(got, seq.First.Pos())
		s = seq.Rest
	}
	want := []int{1, 3, 6, 6}
	if len(got) != len(want) {
		t.Fatalf("wrong statements: want positions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d: want line %d, got %d", i, want[i], got[i])
		}
	}
}

// TestParseErrors tests that malformed programs produce syntax errors with
// useful messages.
func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		src        string
		msg        string
		line       int
		incomplete bool
	}{
		"MissingOperand":  {"x - - -", "missing operand", 1, false},
		"TrailingOp":      {"1 +", "missing operand", 1, false},
		"AdjacentValues":  {"\n1 2", "unexpected", 2, false},
		"KeywordName":     {"def while() {\n}", "keyword while", 1, false},
		"KeywordParam":    {"def f(if) {\n}", "keyword if", 1, false},
		"KeywordClass":    {"class def {\n}", "keyword def", 1, false},
		"KeywordAssign":   {"return = 1", "", 1, false},
		"BreakOutside":    {"break", "break outside of a loop", 1, false},
		"BreakInFunction": {"while true {\ndef f() {\nbreak\n}\n}", "break outside of a loop", 3, false},
		"Else":            {"else {\n}", "else without if", 1, false},
		"Catch":           {"catch {\n}", "catch without try", 1, false},
		"Case":            {"case 1 {\n}", "case outside of switch", 1, false},
		"Default":         {"default {\n}", "default without switch", 1, false},
		"StrayClose":      {"x\n}", "unexpected }", 2, false},
		"StrayOpen":       {"x {\n}", "unexpected {", 1, false},
		"NotInSwitch":     {"switch x {\ny\n}", "expected case", 2, false},
		"AssignCall":      {"f().x() = 1", "cannot assign", 1, false},
		"VariadicLast":    {"def f(...a, b) {\n}", "variadic", 1, false},
		"VariadicClass":   {"class C(...a) {\n}", "variadic", 1, false},
		"Unclosed":        {"if x {\ny", "unclosed block", 1, true},
		"UnclosedNested":  {"def f() {\nwhile x {\n}", "unclosed block", 1, true},
		"UnclosedSwitch":  {"switch x {\ncase 1 {\n}", "unclosed block", 1, true},
		"UnclosedParen":   {"f(1,", "unclosed bracket", 1, true},
		"Lex":             {"x = 'abc", "unterminated string", 1, false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString(c.src, name)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("want *SyntaxError, got %v", err)
			}
			if !strings.Contains(se.Msg, c.msg) {
				t.Errorf("wrong message: want %q, got %q", c.msg, se.Msg)
			}
			if se.Line != c.line {
				t.Errorf("wrong line: want %d, got %d", c.line, se.Line)
			}
			if se.Incomplete != c.incomplete {
				t.Errorf("wrong Incomplete: want %t, got %t", c.incomplete, se.Incomplete)
			}
			if se.File != name {
				t.Errorf("wrong file: want %q, got %q", name, se.File)
			}
		})
	}
}

func TestSyntaxErrorSource(t *testing.T) {
	_, err := ParseString("a = 1\n  b = (\n", "TestSyntaxErrorSource")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want *SyntaxError, got %v", err)
	}
	if se.Source != "b = (" {
		t.Errorf("wrong source: want %q, got %q", "b = (", se.Source)
	}
}

// TestImports tests that import paths are found statically.
func TestImports(t *testing.T) {
	prog, err := ParseString("a = import('x')\ndef f() {\nreturn import(\"y/z\")\n}\nimport(name)", "TestImports")
	if err != nil {
		t.Fatal(err)
	}
	got := Imports(prog)
	if len(got) != 2 || got[0] != "x" || got[1] != "y/z" {
		t.Errorf("wrong imports: want [x y/z], got %v", got)
	}
}
