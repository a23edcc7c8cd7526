// Package testutils provides utilities for testing Quill code in Go.
package testutils

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/zephyrtronium/quill"
)

// testInterp is the interpreter used for all tests.
var testInterp *quill.Interpreter

var testInterpInit sync.Once

// TestingInterpreter returns an interpreter for testing Quill. The
// interpreter is shared by all tests that use this package.
func TestingInterpreter() *quill.Interpreter {
	testInterpInit.Do(ResetTestingInterpreter)
	return testInterp
}

// ResetTestingInterpreter reinitializes the interpreter returned by
// TestingInterpreter. It is not safe to call this in parallel tests.
func ResetTestingInterpreter() {
	testInterp = quill.NewInterpreter()
}

// A SourceTestCase is a test case containing Quill source code and a
// predicate to check the result.
type SourceTestCase struct {
	// Source is the Quill source code to execute.
	Source string
	// Pass is a predicate taking the result of executing Source, which is the
	// value of the last expression statement, the returned value, or the
	// thrown value, along with the final control flow status and everything
	// the program printed. If Pass returns false, then the test fails.
	Pass func(result quill.Value, control quill.Stop, out string) bool
	// Internal indicates that evaluation is expected to abort with an
	// internal error. Pass is not called in that case.
	Internal bool
}

// Result runs src in a new top-level scope of the testing interpreter,
// returning the result value, control flow status, and output. The error is
// non-nil only if parsing fails or evaluation aborts.
func Result(src, label string) (quill.Value, quill.Stop, string, error) {
	in := TestingInterpreter()
	prog, err := quill.ParseString(src, label)
	if err != nil {
		return nil, quill.NoStop, "", err
	}
	var out strings.Builder
	ctx := in.NewScope().WithOutput(func(s string) { out.WriteString(s) })
	r, err := in.Exec(prog, ctx)
	var ie *quill.InternalError
	if errors.As(err, &ie) {
		return nil, quill.NoStop, out.String(), err
	}
	if exc := r.Exception(); exc != nil {
		return exc.Payload, r.Stop(), out.String(), nil
	}
	return r.Value(), r.Stop(), out.String(), nil
}

// TestFunc returns a test function for the test case. This uses
// TestingInterpreter to parse and execute the code.
func (c SourceTestCase) TestFunc(name string) func(*testing.T) {
	return func(t *testing.T) {
		r, s, out, err := Result(c.Source, name)
		if err != nil {
			var ie *quill.InternalError
			if c.Internal && errors.As(err, &ie) {
				return
			}
			t.Fatalf("%q failed: %v", c.Source, err)
		}
		if c.Internal {
			t.Fatalf("%q did not abort; got %s (%s)", c.Source, quill.Display(r), s)
		}
		if !c.Pass(r, s, out) {
			t.Errorf("%q produced wrong result; got %s (%s), output %q", c.Source, quill.Display(r), s, out)
		}
	}
}

// PassEqual returns a Pass function for a SourceTestCase that predicates on
// primitive equality. If the Stop is not NoStop, then the predicate returns
// false.
func PassEqual(want quill.Value) func(quill.Value, quill.Stop, string) bool {
	return PassControl(want, quill.NoStop)
}

// PassControl returns a Pass function for a SourceTestCase that predicates on
// equality with a certain control flow status. The control flow check precedes
// the value check. Equality here has the same semantics as in PassEqual.
func PassControl(want quill.Value, stop quill.Stop) func(quill.Value, quill.Stop, string) bool {
	return func(result quill.Value, control quill.Stop, out string) bool {
		return control == stop && quill.Equal(want, result)
	}
}

// PassDisplay returns a Pass function for a SourceTestCase that predicates on
// the display form of the result. If the Stop is not NoStop, then the
// predicate returns false.
func PassDisplay(want string) func(quill.Value, quill.Stop, string) bool {
	return func(result quill.Value, control quill.Stop, out string) bool {
		return control == quill.NoStop && quill.Display(result) == want
	}
}

// PassFailure returns a Pass function for a SourceTestCase that returns true
// iff the result is a thrown value.
func PassFailure() func(quill.Value, quill.Stop, string) bool {
	return func(result quill.Value, control quill.Stop, out string) bool {
		return control == quill.ExceptionStop
	}
}

// PassSuccess returns a Pass function for a SourceTestCase that returns true
// iff the control flow status is NoStop.
func PassSuccess() func(quill.Value, quill.Stop, string) bool {
	return func(result quill.Value, control quill.Stop, out string) bool {
		return control == quill.NoStop
	}
}

// PassOutput returns a Pass function for a SourceTestCase that returns true
// iff the program printed exactly want and finished normally.
func PassOutput(want string) func(quill.Value, quill.Stop, string) bool {
	return func(result quill.Value, control quill.Stop, out string) bool {
		return control == quill.NoStop && out == want
	}
}

// CheckNames is a testing helper to check that the interpreter's root
// context binds each of names.
func CheckNames(t *testing.T, in *quill.Interpreter, names []string) {
	t.Helper()
	for _, name := range names {
		t.Run("Have_"+name, func(t *testing.T) {
			v, ok := in.Root.LookupLocal(name)
			if !ok {
				t.Fatal("no binding", name)
			}
			if v == nil {
				t.Fatal("binding", name, "is nil")
			}
		})
	}
}

// Run runs each test case as a subtest named by its key.
func Run(t *testing.T, cases map[string]SourceTestCase) {
	t.Helper()
	for name, c := range cases {
		t.Run(name, c.TestFunc(fmt.Sprintf("%s.ql", name)))
	}
}

// Boolean values for use with PassEqual.
var (
	True  quill.Value = quill.Boolean(true)
	False quill.Value = quill.Boolean(false)
)

// Text returns s as a Quill string.
func Text(s string) quill.Value {
	return quill.Text(s)
}

// Number returns f as a Quill number.
func Number(f float64) quill.Value {
	return quill.Number(f)
}

// Null is the Quill null value.
var Null quill.Value = quill.Null
