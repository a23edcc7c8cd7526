package path_test

import (
	"testing"

	_ "github.com/zephyrtronium/quill/coreext/path" // side effects
	"github.com/zephyrtronium/quill/testutils"
)

func TestRegister(t *testing.T) {
	testutils.CheckNames(t, testutils.TestingInterpreter(), []string{"Path"})
}

func TestPath(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"join":       {Source: `Path.join('a', 'b', 'c.ql')`, Pass: testutils.PassEqual(testutils.Text("a/b/c.ql"))},
		"joinClean":  {Source: `Path.join('a/', '../b')`, Pass: testutils.PassEqual(testutils.Text("b"))},
		"base":       {Source: `Path.base('x/y/z.ql')`, Pass: testutils.PassEqual(testutils.Text("z.ql"))},
		"dir":        {Source: `Path.dir('x/y/z.ql')`, Pass: testutils.PassEqual(testutils.Text("x/y"))},
		"ext":        {Source: `Path.ext('x/y/z.ql')`, Pass: testutils.PassEqual(testutils.Text(".ql"))},
		"separator":  {Source: `Path.separator()`, Pass: testutils.PassEqual(testutils.Text("/"))},
		"relative":   {Source: `Path.isAbsolute('a/b')`, Pass: testutils.PassEqual(testutils.False)},
		"absolute":   {Source: `Path.isAbsolute(Path.absolute('a/b'))`, Pass: testutils.PassEqual(testutils.True)},
		"notText":    {Source: `Path.base(1)`, Pass: testutils.PassFailure()},
	}
	testutils.Run(t, cases)
}
