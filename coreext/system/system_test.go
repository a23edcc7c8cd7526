package system_test

import (
	"runtime"
	"testing"

	_ "github.com/zephyrtronium/quill/coreext/system" // side effects
	"github.com/zephyrtronium/quill/testutils"
)

func TestRegister(t *testing.T) {
	testutils.CheckNames(t, testutils.TestingInterpreter(), []string{"System"})
}

func TestSystem(t *testing.T) {
	t.Setenv("QUILL_SYSTEM_TEST", "yes")
	cases := map[string]testutils.SourceTestCase{
		"platform":     {Source: `System.platform()`, Pass: testutils.PassEqual(testutils.Text(runtime.GOOS))},
		"version":      {Source: `type(System.version())`, Pass: testutils.PassEqual(testutils.Text("String"))},
		"args":         {Source: `System.args().size()`, Pass: testutils.PassEqual(testutils.Number(0))},
		"env":          {Source: `System.env('QUILL_SYSTEM_TEST')`, Pass: testutils.PassEqual(testutils.Text("yes"))},
		"envUnset":     {Source: `System.env('QUILL_SYSTEM_TEST_UNSET')`, Pass: testutils.PassEqual(testutils.Null)},
		"envNotText":   {Source: `System.env(1)`, Pass: testutils.PassFailure()},
		"clock":        {Source: `System.clock() >= 0`, Pass: testutils.PassEqual(testutils.True)},
		"quillVersion": {Source: `System.quillVersion()`, Pass: testutils.PassEqual(testutils.Text("1"))},
	}
	testutils.Run(t, cases)
}
