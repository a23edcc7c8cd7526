package internal

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Version is the interpreter version, reported by System.quillVersion.
const Version = "1"

// Interpreter is an environment for running Quill programs.
type Interpreter struct {
	// Root is the context holding the builtins. Programs run in children of
	// Root, so that their top-level bindings do not replace builtins.
	Root *Context
	// Logger receives diagnostics from the interpreter and module loader.
	Logger *slog.Logger
	// Loader resolves and caches imported modules.
	Loader *Loader
	// Paths are the module search paths.
	Paths []string
	// Args are the program's arguments, reported by System.args.
	Args []string
	// Locale is the default locale for Number.format.
	Locale language.Tag
	// StartTime is the time at which the interpreter was created, used for
	// System.clock.
	StartTime time.Time

	out Output
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sends printed text to w.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = func(s string) { io.WriteString(w, s) }
	}
}

// WithLogger sets the interpreter's logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		in.Logger = l
	}
}

// WithArgs sets the program arguments.
func WithArgs(args ...string) Option {
	return func(in *Interpreter) {
		in.Args = args
	}
}

// WithPaths sets the module search paths.
func WithPaths(paths ...string) Option {
	return func(in *Interpreter) {
		in.Paths = paths
	}
}

// WithLocale sets the default locale for number formatting.
func WithLocale(tag language.Tag) Option {
	return func(in *Interpreter) {
		in.Locale = tag
	}
}

// NewInterpreter creates an interpreter with the builtins and all registered
// core extensions installed. By default, printed text goes to standard output
// and only warnings and errors are logged, to standard error.
func NewInterpreter(opts ...Option) *Interpreter {
	haveInterp = true

	in := &Interpreter{
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		Locale:    language.AmericanEnglish,
		StartTime: time.Now(),
		out:       func(s string) { os.Stdout.WriteString(s) },
	}
	for _, opt := range opts {
		opt(in)
	}
	in.Root = NewContext(in.out, &Unit{Label: "<builtin>"})
	in.Loader = newLoader(in)

	in.initObject()
	in.initClass()
	in.initFunction()
	in.initError()
	in.initString()
	in.initNumber()
	in.initBoolean()
	in.initList()
	in.initModule()
	in.initGlobals()

	for _, ext := range coreExt {
		ext(in)
	}
	return in
}

// Register registers a core extension, which is called on every new
// interpreter after the builtins are installed. Core extensions must be
// registered before any interpreter is created, typically from init.
func Register(f func(*Interpreter)) {
	if haveInterp {
		panic("quill/internal: Register must be called before any interpreter is created")
	}
	coreExt = append(coreExt, f)
}

// coreExt is a list of core extensions that have been registered.
var coreExt = make([]func(*Interpreter), 0, 4)

// haveInterp becomes true once NewInterpreter has been called.
var haveInterp = false

// Install binds a builtin value in the interpreter's root context.
func (in *Interpreter) Install(name string, v Value) {
	in.Root.Set(name, v)
}

// InstallClass creates a builtin class with the given native methods and
// binds it in the root context.
func (in *Interpreter) InstallClass(name string, init Native, methods map[string]Native, parents ...string) *Class {
	m := make(map[string]*Func, len(methods))
	for k, fn := range methods {
		m[k] = NewNative(k, fn)
	}
	var cls *Class
	if init == nil {
		cls = NewClass(name, nil, nil, nil, parents, m)
	} else {
		cls = NewClass(name, []string{"args"}, &nativeBody{fn: init}, nil, parents, m)
		cls.Variadic = true
	}
	in.Install(name, cls)
	return cls
}

// Class returns the builtin class bound to name. Panics if there is none.
func (in *Interpreter) Class(name string) *Class {
	if v, ok := in.Root.LookupLocal(name); ok {
		if c, ok := v.(*Class); ok {
			return c
		}
	}
	panic("quill: no builtin class named " + name)
}

// Parse parses a program from src.
func (in *Interpreter) Parse(src io.Reader, label string) (*Program, error) {
	return Parse(src, label)
}

// NewScope creates a top-level context for running a program.
func (in *Interpreter) NewScope() *Context {
	return in.Root.Child()
}

// Exec executes a program in ctx. If the program ends with an uncaught
// exception, the error is an *UncaughtError; if evaluation aborts, it is an
// *InternalError. The returned context is nil only in the latter case.
func (in *Interpreter) Exec(prog *Program, ctx *Context) (r *Context, err error) {
	defer func() {
		if e := recover(); e != nil {
			ie, ok := e.(*InternalError)
			if !ok {
				panic(e)
			}
			in.Logger.Debug("evaluation aborted", slog.String("file", ie.File), slog.Int("line", ie.Line), slog.String("msg", ie.Msg))
			r, err = nil, ie
		}
	}()
	r = prog.Body.Exec(ctx.WithUnit(prog.Unit))
	if u := Uncaught(r); u != nil {
		return r, u
	}
	return r, nil
}

// Run executes a program in a new top-level scope.
func (in *Interpreter) Run(prog *Program) (*Context, error) {
	return in.Exec(prog, in.NewScope())
}

// DoString parses and runs src in a new top-level scope.
func (in *Interpreter) DoString(src, label string) (*Context, error) {
	prog, err := ParseString(src, label)
	if err != nil {
		return nil, err
	}
	return in.Run(prog)
}

// DoFile parses and runs a file in a new top-level scope.
func (in *Interpreter) DoFile(path string) (*Context, error) {
	prog, err := in.Loader.parseFile(path)
	if err != nil {
		return nil, err
	}
	return in.Run(prog)
}

// Print writes text to the interpreter's output.
func (in *Interpreter) Print(args ...string) {
	in.out(strings.Join(args, ""))
}
