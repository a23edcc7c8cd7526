// Package unittest provides assertions and the UnitTest class for writing
// tests in Quill.
//
// A test case is a subclass of UnitTest. Its run method calls setUp, each
// method whose name begins with "test" in sorted order, and tearDown,
// printing one line per test and returning the number of failures:
//
//	class MathTest extends UnitTest {
//		def testAdd() {
//			assertEqual(4, 2 + 2)
//		}
//	}
//	new MathTest().run()
package unittest

import (
	"sort"
	"strings"

	"github.com/zephyrtronium/quill/internal"
)

func init() {
	internal.Register(initUnitTest)
}

func initUnitTest(in *internal.Interpreter) {
	in.Install("assert", internal.NewNative("assert", assert, "cond", "message"))
	in.Install("assertEqual", internal.NewNative("assertEqual", assertEqual, "want", "got"))
	in.Install("assertThrows", internal.NewNative("assertThrows", assertThrows, "fn"))
	methods := map[string]internal.Native{
		"run":      run,
		"setUp":    nop,
		"tearDown": nop,
	}
	in.InstallClass("UnitTest", nil, methods)
}

func nop(c *internal.Call) (internal.Value, internal.Stop) {
	return internal.Null, internal.NoStop
}

// assert throws an Error if its first argument is false.
func assert(c *internal.Call) (internal.Value, internal.Stop) {
	if internal.Truthy(c.Arg(0)) {
		return internal.Null, internal.NoStop
	}
	if len(c.Args) > 1 {
		s, stop := c.Stringify(c.Arg(1))
		if stop != internal.NoStop {
			return s, stop
		}
		return c.Errorf("assertion failed: %s", internal.Display(s))
	}
	return c.Errorf("assertion failed")
}

// assertEqual throws an Error if its arguments are not equal, as by ==.
func assertEqual(c *internal.Call) (internal.Value, internal.Stop) {
	want, got := c.Arg(0), c.Arg(1)
	if internal.Equal(want, got) {
		return internal.Null, internal.NoStop
	}
	ws, stop := c.Stringify(want)
	if stop != internal.NoStop {
		return ws, stop
	}
	gs, stop := c.Stringify(got)
	if stop != internal.NoStop {
		return gs, stop
	}
	return c.Errorf("expected %s, got %s", internal.Display(ws), internal.Display(gs))
}

// assertThrows calls its argument with no arguments and returns the value it
// throws. If it does not throw, assertThrows throws an Error.
func assertThrows(c *internal.Call) (internal.Value, internal.Stop) {
	r, stop := c.CallValue(c.Arg(0), nil, nil, c.Line)
	if stop == internal.ExceptionStop {
		return r.(*internal.Exception).Payload, internal.NoStop
	}
	if stop != internal.NoStop {
		return r, stop
	}
	return c.Errorf("expected an exception")
}

// run is a UnitTest method.
//
// run runs each test method of the receiver.
func run(c *internal.Call) (internal.Value, internal.Stop) {
	cls, ok := c.ClassOf(c.This)
	if !ok {
		return c.Errorf("run called on %s", internal.TypeNameOf(c.This))
	}
	mro, exc, stop := c.MRO(cls, c.Line)
	if stop != internal.NoStop {
		return exc, stop
	}
	seen := map[string]bool{}
	var tests []string
	for _, k := range mro {
		for _, name := range k.MethodNames() {
			if strings.HasPrefix(name, "test") && !seen[name] {
				seen[name] = true
				tests = append(tests, name)
			}
		}
	}
	sort.Strings(tests)
	fails := 0
	for _, name := range tests {
		if msg := runOne(c, name); msg != "" {
			fails++
			c.Out(cls.Name + "." + name + ": FAIL: " + msg + "\n")
			continue
		}
		c.Out(cls.Name + "." + name + ": ok\n")
	}
	return internal.Number(fails), internal.NoStop
}

// runOne runs a single test method between setUp and tearDown, returning the
// failure message, or the empty string if the test passed.
func runOne(c *internal.Call, name string) string {
	for _, m := range []string{"setUp", name, "tearDown"} {
		r, stop := c.Invoke(c.This, m, nil, c.Line)
		if stop != internal.ExceptionStop {
			continue
		}
		p := r.(*internal.Exception).Payload
		s, stop := c.Normal().Stringify(p)
		if stop != internal.NoStop {
			return internal.Display(p)
		}
		return internal.Display(s)
	}
	return ""
}
