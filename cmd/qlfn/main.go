// Command qlfn lists the Go functions in a package that can serve as Quill
// natives, printed as entries of a method map for Interpreter.InstallClass.
//
// Natives follow the naming convention ClassMethod, e.g. StringLength is the
// String method length. With -class, only functions whose names begin with the
// class name are listed, and the class name is trimmed to form the method
// name:
//
//	qlfn -class List github.com/zephyrtronium/quill/internal
//
// prints
//
//	"contains": ListContains,
//	"each":     ListEach,
//	...
package main

import (
	"flag"
	"fmt"
	"go/types"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"
)

const internalPath = "github.com/zephyrtronium/quill/internal"

func main() {
	var class, ignore string
	flag.StringVar(&class, "class", "", "list only natives of this class")
	flag.StringVar(&ignore, "ignore", "", "comma-separated names of functions to exclude")
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{internalPath}
	}

	cfg := packages.Config{Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports}
	pkgs, err := packages.Load(&cfg, append([]string{internalPath}, targets...)...)
	if err != nil {
		fail("loading packages:", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}
	native, err := nativeType(pkgs)
	if err != nil {
		fail(err)
	}
	skip := make(map[string]bool)
	for _, s := range strings.Split(ignore, ",") {
		if s != "" {
			skip[s] = true
		}
	}

	var entries []entry
	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		if seen[pkg.PkgPath] || pkg.Types == nil {
			continue
		}
		seen[pkg.PkgPath] = true
		for _, e := range natives(pkg.Types.Scope(), native, class) {
			if !skip[e.fn] {
				entries = append(entries, e)
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].method < entries[j].method })
	width := 0
	for _, e := range entries {
		if len(e.method) > width {
			width = len(e.method)
		}
	}
	for _, e := range entries {
		key := fmt.Sprintf("%q:", e.method)
		fmt.Printf("\t%-*s %s,\n", width+3, key, e.fn)
	}
}

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, append([]interface{}{"qlfn:"}, args...)...)
	os.Exit(1)
}

// nativeType finds the underlying type of internal.Native among pkgs.
func nativeType(pkgs []*packages.Package) (types.Type, error) {
	for _, pkg := range pkgs {
		if pkg.PkgPath != internalPath || pkg.Types == nil {
			continue
		}
		obj, ok := pkg.Types.Scope().Lookup("Native").(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("%s has no type Native", internalPath)
		}
		return obj.Type().Underlying(), nil
	}
	return nil, fmt.Errorf("could not load %s", internalPath)
}

// An entry is one native function and the method name it would install as.
type entry struct {
	method string
	fn     string
}

// natives lists the exported functions in scope assignable to native. If
// class is not empty, only functions named with that prefix are listed.
func natives(scope *types.Scope, native types.Type, class string) []entry {
	var r []entry
	for _, name := range scope.Names() {
		f, ok := scope.Lookup(name).(*types.Func)
		if !ok || !f.Exported() || !types.AssignableTo(f.Type(), native) {
			continue
		}
		method := name
		if class != "" {
			if !strings.HasPrefix(name, class) || len(name) == len(class) {
				continue
			}
			method = name[len(class):]
		}
		r = append(r, entry{method: lowerFirst(method), fn: name})
	}
	return r
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
