package unittest_test

import (
	"testing"

	"github.com/zephyrtronium/quill"
	_ "github.com/zephyrtronium/quill/coreext/unittest" // side effects
	"github.com/zephyrtronium/quill/testutils"
)

func TestRegister(t *testing.T) {
	names := []string{
		"assert",
		"assertEqual",
		"assertThrows",
		"UnitTest",
	}
	testutils.CheckNames(t, testutils.TestingInterpreter(), names)
}

func TestAssertions(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"assert":          {Source: `assert(1 < 2)`, Pass: testutils.PassEqual(testutils.Null)},
		"assertFails":     {Source: `assert(1 > 2)`, Pass: testutils.PassFailure()},
		"assertMessage":   {Source: `try { assert(false, 'nope') } catch e { e.message }`, Pass: testutils.PassSuccess()},
		"assertEqual":     {Source: `assertEqual(4, 2 + 2)`, Pass: testutils.PassEqual(testutils.Null)},
		"assertEqualFail": {Source: "try {\nassertEqual(4, 5)\n} catch e {\nm = e.message\n}\nm", Pass: testutils.PassEqual(testutils.Text("expected 4, got 5"))},
		"assertThrows":    {Source: `assertThrows(() -> 1 / 0).message`, Pass: testutils.PassEqual(testutils.Text("division by zero"))},
		"assertNoThrow":   {Source: `assertThrows(() -> 1)`, Pass: testutils.PassFailure()},
		"assertThrowsAny": {Source: "def f() {\nthrow 'x'\n}\nassertThrows(f)", Pass: testutils.PassEqual(testutils.Text("x"))},
	}
	testutils.Run(t, cases)
}

func TestRun(t *testing.T) {
	src := `class T extends UnitTest {
	def setUp() {
		this.n = 2
	}
	def testPass() {
		assertEqual(4, this.n + 2)
	}
	def testFail() {
		assertEqual(5, this.n + 2)
	}
	def helper() {
		throw 'not a test'
	}
}
new T().run()
`
	want := "T.testFail: FAIL: Error: expected 5, got 4\nT.testPass: ok\n"
	c := testutils.SourceTestCase{
		Source: src,
		Pass: func(result quill.Value, control quill.Stop, out string) bool {
			return control == quill.NoStop && quill.Equal(result, quill.Number(1)) && out == want
		},
	}
	t.Run("run", c.TestFunc("run.ql"))
}
