package internal_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zephyrtronium/quill"
	"github.com/zephyrtronium/quill/testutils"
)

// TestControl tests conditionals, loops, and switches.
func TestControl(t *testing.T) {
	num := testutils.Number
	text := testutils.Text
	cases := map[string]testutils.SourceTestCase{
		"IfTrue":        {Source: "r = 0\nif 1 < 2 {\nr = 1\n}\nr", Pass: testutils.PassEqual(num(1))},
		"IfFalse":       {Source: "r = 0\nif '' {\nr = 1\n}\nr", Pass: testutils.PassEqual(num(0))},
		"Else":          {Source: "if null {\nr = 1\n} else {\nr = 2\n}\nr", Pass: testutils.PassEqual(num(2))},
		"ElseIf":        {Source: "x = 5\nif x < 3 {\nr = 'a'\n} else if x < 10 {\nr = 'b'\n} else {\nr = 'c'\n}\nr", Pass: testutils.PassEqual(text("b"))},
		"IfThrows":      {Source: "if 1 < 'a' {\nr = 1\n}", Pass: testutils.PassFailure()},
		"While":         {Source: "i = 0\ns = 0\nwhile i < 5 {\ni += 1\ns += i\n}\ns", Pass: testutils.PassEqual(num(15))},
		"WhileNever":    {Source: "s = 'no'\nwhile false {\ns = 'yes'\n}\ns", Pass: testutils.PassEqual(text("no"))},
		"Break":         {Source: "while true {\nbreak\n}\n'after'", Pass: testutils.PassEqual(text("after"))},
		"BreakInIf":     {Source: "i = 0\nwhile true {\ni += 1\nif i == 3 {\nbreak\n}\n}\ni", Pass: testutils.PassEqual(num(3))},
		"BreakInner":    {Source: "n = 0\ni = 0\nwhile i < 3 {\ni += 1\nwhile true {\nn += 1\nbreak\n}\n}\nn", Pass: testutils.PassEqual(num(3))},
		"BreakStops":    {Source: "r = 'before'\nwhile true {\nbreak\nr = 'after'\n}\nr", Pass: testutils.PassEqual(text("before"))},
		"WhileThrows":   {Source: "i = 0\nwhile true {\ni += 1\nif i > 2 {\nthrow i\n}\n}", Pass: testutils.PassControl(num(3), quill.ExceptionStop)},
		"ReturnInWhile": {Source: "def f() {\ni = 0\nwhile true {\ni += 1\nif i == 4 {\nreturn i\n}\n}\n}\nf()", Pass: testutils.PassEqual(num(4))},
		"Switch":        {Source: "switch 1 + 1 {\ncase 1 {\nr = 'one'\n}\ncase 2 {\nr = 'two'\n}\n}\nr", Pass: testutils.PassEqual(text("two"))},
		"SwitchMulti":   {Source: "switch 'b' {\ncase 'a', 'b' {\nr = 'ab'\n}\n}\nr", Pass: testutils.PassEqual(text("ab"))},
		"SwitchFirst":   {Source: "switch 3 {\ncase 3 {\nr = 'first'\n}\ncase 3 {\nr = 'second'\n}\n}\nr", Pass: testutils.PassEqual(text("first"))},
		"SwitchDefault": {Source: "switch 'z' {\ncase 'a' {\nr = 1\n}\n} default {\nr = 2\n}\nr", Pass: testutils.PassEqual(num(2))},
		"SwitchNone":    {Source: "r = 0\nswitch 9 {\ncase 1 {\nr = 1\n}\n}\nr", Pass: testutils.PassEqual(num(0))},
		"SwitchValue":   {Source: "switch '1' {\ncase 1 {\nr = 'number'\n}\n} default {\nr = 'text'\n}\nr", Pass: testutils.PassEqual(text("text"))},
		"SwitchBreak":   {Source: "i = 0\nwhile true {\nswitch i {\ncase 2 {\nbreak\n}\n}\ni += 1\n}\ni", Pass: testutils.PassEqual(num(2))},
	}
	testutils.Run(t, cases)
}

// TestExceptions tests throw and try.
func TestExceptions(t *testing.T) {
	num := testutils.Number
	text := testutils.Text
	cases := map[string]testutils.SourceTestCase{
		"Throw":          {Source: "throw 'boom'", Pass: testutils.PassControl(text("boom"), quill.ExceptionStop)},
		"ThrowStops":     {Source: "throw 1\nprint('no')", Pass: func(r quill.Value, s quill.Stop, out string) bool { return s == quill.ExceptionStop && out == "" }},
		"Catch":          {Source: "try {\nthrow 'boom'\n} catch e {\nr = e\n}\nr", Pass: testutils.PassEqual(text("boom"))},
		"RoundTrip":      {Source: "def f() {\ntry {\nthrow 'boom'\n} catch e {\nreturn e\n}\n}\nf()", Pass: testutils.PassEqual(text("boom"))},
		"NoThrow":        {Source: "r = 0\ntry {\nr = 1\n} catch e {\nr = 2\n}\nr", Pass: testutils.PassEqual(num(1))},
		"CatchNoName":    {Source: "try {\nthrow 1\n} catch {\nr = 'caught'\n}\nr", Pass: testutils.PassEqual(text("caught"))},
		"TryOnly":        {Source: "try {\nthrow 1\n}\n'swallowed'", Pass: testutils.PassEqual(text("swallowed"))},
		"CatchRestores":  {Source: "e = 1\ntry {\nthrow 2\n} catch e {\nx = e\n}\n[x, e]", Pass: testutils.PassDisplay("[2, 1]")},
		"CatchUnbinds":   {Source: "try {\nthrow 2\n} catch e {\nx = e\n}\ne", Internal: true},
		"Rethrow":        {Source: "try {\ntry {\nthrow 'a'\n} catch e {\nthrow e + 'b'\n}\n} catch e {\nr = e\n}\nr", Pass: testutils.PassEqual(text("ab"))},
		"ThrowFromCatch": {Source: "try {\nthrow 1\n} catch e {\nthrow e + 1\n}", Pass: testutils.PassControl(num(2), quill.ExceptionStop)},
		"ThroughCalls":   {Source: "def f() {\nthrow 'deep'\n}\ndef g() {\nf()\nreturn 'no'\n}\ntry {\ng()\n} catch e {\nr = e\n}\nr", Pass: testutils.PassEqual(text("deep"))},
		"Builtin":        {Source: "try {\n1 / 0\n} catch e {\nr = isinstance(e, Error)\n}\nr", Pass: testutils.PassEqual(testutils.True)},
		"ErrorMessage":   {Source: "x = 1\ntry {\nx.foo()\n} catch e {\nr = e.message\n}\nr", Pass: testutils.PassEqual(text("Number has no method foo"))},
		"ErrorString":    {Source: "try {\nthrow new Error('x')\n} catch e {\nr = str(e)\n}\nr", Pass: testutils.PassEqual(text("Error: x"))},
		"ErrorSubclass":  {Source: "class Oops extends Error {\n}\ntry {\nthrow new Oops('bad')\n} catch e {\nr = [type(e), e.message]\n}\nr", Pass: testutils.PassDisplay("['Oops', 'bad']")},
		"ReturnFirst":    {Source: "def f() {\nreturn 1\nthrow 'x'\n}\nf()", Pass: testutils.PassEqual(num(1))},
		"ReturnInTry":    {Source: "def f() {\ntry {\nreturn 'try'\n} catch e {\nreturn 'catch'\n}\nreturn 'after'\n}\nf()", Pass: testutils.PassEqual(text("try"))},
		"InternalEscape": {Source: "try {\nundefinedName\n} catch e {\nr = 1\n}", Internal: true},
	}
	testutils.Run(t, cases)
}

// TestTrace tests the stack trace of an uncaught exception.
func TestTrace(t *testing.T) {
	src := "def inner() {\n" +
		"throw 'deep'\n" +
		"}\n" +
		"def middle() {\n" +
		"  inner()\n" +
		"}\n" +
		"middle()\n"
	in := quill.NewInterpreter(quill.WithOutput(io.Discard))
	_, err := in.DoString(src, "trace.ql")
	var u *quill.UncaughtError
	if !errors.As(err, &u) {
		t.Fatalf("expected uncaught error, got %v", err)
	}
	if u.Message != "deep" {
		t.Errorf("wrong message: want deep, got %q", u.Message)
	}
	want := []quill.TraceFrame{
		{File: "trace.ql", Line: 2, Source: "throw 'deep'"},
		{File: "trace.ql", Line: 5, Source: "inner()"},
		{File: "trace.ql", Line: 7, Source: "middle()"},
	}
	if diff := cmp.Diff(want, u.Trace); diff != "" {
		t.Errorf("wrong trace (-want +got):\n%s", diff)
	}
}

// TestTraceCaught checks that a caught exception does not carry frames into a
// later uncaught one.
func TestTraceCaught(t *testing.T) {
	src := "try {\n" +
		"throw 'first'\n" +
		"} catch e {\n" +
		"}\n" +
		"throw 'second'\n"
	in := quill.NewInterpreter(quill.WithOutput(io.Discard))
	_, err := in.DoString(src, "caught.ql")
	var u *quill.UncaughtError
	if !errors.As(err, &u) {
		t.Fatalf("expected uncaught error, got %v", err)
	}
	want := []quill.TraceFrame{{File: "caught.ql", Line: 5, Source: "throw 'second'"}}
	if diff := cmp.Diff(want, u.Trace); diff != "" {
		t.Errorf("wrong trace (-want +got):\n%s", diff)
	}
}
