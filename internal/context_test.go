package internal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrames(t *testing.T) {
	root := NewContext(nil, nil)
	root.Set("a", Number(1))
	root.Set("b", Number(2))
	child := root.Child()
	child.Set("b", Text("shadow"))
	child.Set("c", Boolean(true))

	if v, ok := child.Lookup("a"); !ok || v != Number(1) {
		t.Errorf("child lookup of a: got %v, %v", v, ok)
	}
	if v, ok := child.Lookup("b"); !ok || v != Text("shadow") {
		t.Errorf("child lookup of b: got %v, %v", v, ok)
	}
	if v, ok := root.Lookup("b"); !ok || v != Number(2) {
		t.Errorf("root lookup of b: got %v, %v", v, ok)
	}
	if _, ok := root.Lookup("c"); ok {
		t.Error("root sees child binding c")
	}
	if _, ok := child.LookupLocal("a"); ok {
		t.Error("LookupLocal found parent binding a")
	}
	if diff := cmp.Diff([]string{"b", "c"}, child.Names()); diff != "" {
		t.Errorf("wrong child names (-want +got):\n%s", diff)
	}

	child.Update("a", Number(10), 1)
	if v, _ := root.LookupLocal("a"); v != Number(10) {
		t.Errorf("Update did not rebind a in root: got %v", v)
	}
	child.Update("b", Number(20), 1)
	if v, _ := root.LookupLocal("b"); v != Number(2) {
		t.Errorf("Update rebound shadowed b in root: got %v", v)
	}
	child.Unset("b")
	if v, _ := child.Lookup("b"); v != Number(2) {
		t.Errorf("after Unset, child lookup of b: got %v", v)
	}
}

func TestContextCopies(t *testing.T) {
	var out []string
	ctx := NewContext(func(s string) { out = append(out, s) }, nil)
	r := ctx.Return(Text("x"))
	if ctx.Stop() != NoStop {
		t.Errorf("Return changed the receiver's status to %v", ctx.Stop())
	}
	if r.Stop() != ReturnStop || r.Value() != Text("x") {
		t.Errorf("wrong return context: %v %v", r.Stop(), r.Value())
	}
	// Frames are shared between copies.
	r.Set("y", Number(1))
	if _, ok := ctx.LookupLocal("y"); !ok {
		t.Error("copy does not share the frame")
	}
	if n := r.Normal(); n.Stop() != NoStop || n.Value() != Null {
		t.Errorf("wrong normal context: %v %v", n.Stop(), n.Value())
	}
	if ctx.Normal() != ctx {
		t.Error("Normal copied an already normal context")
	}
	e := ctx.Throw(Number(3))
	if exc := e.Exception(); exc == nil || exc.Payload != Number(3) {
		t.Errorf("wrong exception: %v", e.Exception())
	}
	if ctx.Exception() != nil {
		t.Error("normal context has an exception")
	}
	quiet := ctx.WithOutput(nil)
	ctx.Out("a")
	if quiet.Out != nil {
		t.Error("WithOutput did not replace the sink")
	}
	if diff := cmp.Diff([]string{"a"}, out); diff != "" {
		t.Errorf("wrong output (-want +got):\n%s", diff)
	}
}

func TestContextInternal(t *testing.T) {
	ctx := NewContext(nil, NewUnit("frames.ql", "x\ny = z\n"))
	cases := map[string]func(){
		"Get":    func() { ctx.Get("z", 2) },
		"Update": func() { ctx.Update("z", Null, 2) },
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				err, _ := recover().(error)
				var ie *InternalError
				if !errors.As(err, &ie) {
					t.Fatalf("expected internal error, got %v", err)
				}
				want := InternalError{File: "frames.ql", Line: 2, Msg: ie.Msg}
				if diff := cmp.Diff(want, *ie); diff != "" {
					t.Errorf("wrong error (-want +got):\n%s", diff)
				}
			}()
			f()
		})
	}
}

func TestUnitSource(t *testing.T) {
	u := NewUnit("u.ql", "first\n  second  \nthird")
	cases := map[int]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for line, want := range cases {
		if got := u.Source(line); got != want {
			t.Errorf("line %d: want %q, got %q", line, want, got)
		}
	}
	var nilUnit *Unit
	if got := nilUnit.Source(1); got != "" {
		t.Errorf("nil unit: got %q", got)
	}
}
