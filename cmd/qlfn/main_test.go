package main

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeScope builds a package scope holding functions with the given
// signatures.
func fakeScope(native *types.Signature, other *types.Signature, names map[string]bool) *types.Scope {
	pkg := types.NewPackage("example.com/p", "p")
	for name, isNative := range names {
		sig := other
		if isNative {
			sig = native
		}
		pkg.Scope().Insert(types.NewFunc(token.NoPos, pkg, name, sig))
	}
	return pkg.Scope()
}

func TestNatives(t *testing.T) {
	str := types.Typ[types.String]
	native := types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewVar(token.NoPos, nil, "c", str)),
		types.NewTuple(types.NewVar(token.NoPos, nil, "", str)),
		false)
	other := types.NewSignatureType(nil, nil, nil, nil, nil, false)
	scope := fakeScope(native, other, map[string]bool{
		"ListPush":  true,
		"ListSize":  true,
		"List":      true,
		"listOwn":   true,
		"ListHelp":  false,
		"StringTop": true,
	})
	cases := map[string]struct {
		class string
		want  []entry
	}{
		"All": {"", []entry{
			{"list", "List"},
			{"listPush", "ListPush"},
			{"listSize", "ListSize"},
			{"stringTop", "StringTop"},
		}},
		"List":   {"List", []entry{{"push", "ListPush"}, {"size", "ListSize"}}},
		"String": {"String", []entry{{"top", "StringTop"}}},
		"None":   {"Number", nil},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got := natives(scope, native, c.class)
			if diff := cmp.Diff(c.want, got, cmp.AllowUnexported(entry{})); diff != "" {
				t.Errorf("wrong natives (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{"": "", "Push": "push", "ÉTÉ": "éTÉ", "x": "x"}
	for in, want := range cases {
		if got := lowerFirst(in); got != want {
			t.Errorf("lowerFirst(%q): want %q, got %q", in, want, got)
		}
	}
}
