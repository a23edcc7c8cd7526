package internal

// This file contains the machinery to implement modules, but the import
// function is not installed by default. To enable it, import the package
// github.com/zephyrtronium/quill/coreext/module.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Ext is the file extension of Quill source files.
const Ext = ".ql"

// Loader resolves, parses, and evaluates modules for an interpreter. Parsing
// is safe for concurrent use; evaluation is not.
type Loader struct {
	in *Interpreter

	// mu guards parsed.
	mu sync.Mutex
	// parsed caches parsed programs by absolute path.
	parsed map[string]*Program

	// modules caches evaluated modules by absolute path.
	modules map[string]*Instance
	// loading holds the paths of modules being evaluated.
	loading map[string]bool
}

func newLoader(in *Interpreter) *Loader {
	return &Loader{
		in:      in,
		parsed:  make(map[string]*Program),
		modules: make(map[string]*Instance),
		loading: make(map[string]bool),
	}
}

// Resolve finds the file named by an import path. Relative paths are tried
// against the directory of from, the importing file, and then against each
// search path. Ext is appended when path has no extension.
func (l *Loader) Resolve(from, path string) (string, error) {
	if filepath.Ext(path) == "" {
		path += Ext
	}
	var cands []string
	if filepath.IsAbs(path) {
		cands = []string{path}
	} else {
		if from != "" {
			cands = append(cands, filepath.Join(filepath.Dir(from), path))
		}
		for _, dir := range l.in.Paths {
			cands = append(cands, filepath.Join(dir, path))
		}
	}
	for _, c := range cands {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			abs, err := filepath.Abs(c)
			if err != nil {
				return "", fmt.Errorf("resolving %s: %w", path, err)
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("module %s not found", path)
}

// parseFile parses the file at path, using the cache if it has already been
// parsed.
func (l *Loader) parseFile(path string) (*Program, error) {
	l.mu.Lock()
	prog, ok := l.parsed[path]
	l.mu.Unlock()
	if ok {
		return prog, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err = Parse(f, path)
	if err != nil {
		return nil, err
	}
	l.in.Logger.Debug("parsed module", slog.String("path", path))
	l.mu.Lock()
	l.parsed[path] = prog
	l.mu.Unlock()
	return prog, nil
}

// Imports returns the literal paths of import calls in prog.
func Imports(prog *Program) []string {
	var r []string
	Inspect(prog.Body, func(n Node) bool {
		c, ok := n.(*CallExpr)
		if !ok || len(c.Args) != 1 {
			return true
		}
		if v, ok := c.Fn.(*Var); !ok || v.Name != "import" {
			return true
		}
		if lit, ok := c.Args[0].(*Literal); ok {
			if t, ok := lit.Value.(Text); ok {
				r = append(r, string(t))
			}
		}
		return true
	})
	return r
}

// Prefetch parses file and every module it statically imports, directly or
// indirectly, concurrently. Later imports of those modules use the parsed
// programs. Imports that cannot be resolved are left to fail when evaluated.
func (l *Loader) Prefetch(ctx context.Context, file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	seen := make(map[string]bool)
	var visit func(path string)
	visit = func(path string) {
		mu.Lock()
		if seen[path] {
			mu.Unlock()
			return
		}
		seen[path] = true
		mu.Unlock()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			prog, err := l.parseFile(path)
			if err != nil {
				return err
			}
			for _, imp := range Imports(prog) {
				dep, err := l.Resolve(path, imp)
				if err != nil {
					l.in.Logger.Debug("prefetch skipped import", slog.String("from", path), slog.String("import", imp), slog.Any("err", err))
					continue
				}
				visit(dep)
			}
			return nil
		})
	}
	visit(abs)
	return g.Wait()
}

// Load evaluates the module at path, relative to the importing file from, and
// returns it as a Module instance. Each module is evaluated once per
// interpreter; importing a module that is still being evaluated throws.
func (l *Loader) Load(ctx *Context, from, path string, line int) (Value, Stop) {
	abs, err := l.Resolve(from, path)
	if err != nil {
		return ctx.Errorf("%v", err)
	}
	if m, ok := l.modules[abs]; ok {
		return m, NoStop
	}
	if l.loading[abs] {
		return ctx.Errorf("circular import %s", path)
	}
	prog, err := l.parseFile(abs)
	if err != nil {
		return ctx.Errorf("%v", err)
	}
	l.in.Logger.Debug("loading module", slog.String("path", abs))
	l.loading[abs] = true
	defer delete(l.loading, abs)
	scope := l.in.NewScope().WithOutput(ctx.Out).WithUnit(prog.Unit)
	r := prog.Body.Exec(scope)
	if r.Stop() == ExceptionStop {
		return r.Exception(), ExceptionStop
	}
	mod := NewInstance(l.in.Class("Module"))
	mod.Native = &Module{Path: abs}
	names := scope.Names()
	if v, ok := scope.LookupLocal("exports"); ok {
		exports, ok := ListOf(v)
		if !ok {
			return ctx.Errorf("exports of %s must be a List, not %s", path, TypeNameOf(v))
		}
		names = names[:0]
		for _, x := range exports.Items {
			t, ok := x.(Text)
			if !ok {
				return ctx.Errorf("exports of %s must contain names, not %s", path, TypeNameOf(x))
			}
			names = append(names, string(t))
		}
	}
	for _, name := range names {
		if name == "exports" {
			continue
		}
		v, ok := scope.LookupLocal(name)
		if !ok {
			return ctx.Errorf("%s exports %s, which it does not define", path, name)
		}
		mod.Set(name, v)
	}
	l.modules[abs] = mod
	return mod, NoStop
}
