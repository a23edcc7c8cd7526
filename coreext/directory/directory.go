// Package directory provides the Directory class.
package directory

import (
	"os"
	"path/filepath"

	"github.com/zephyrtronium/quill/coreext/file"
	"github.com/zephyrtronium/quill/internal"
)

func init() {
	internal.Register(initDirectory)
}

func initDirectory(in *internal.Interpreter) {
	methods := map[string]internal.Native{
		"at":                      at,
		"create":                  create,
		"createSubdirectory":      createSubdirectory,
		"currentWorkingDirectory": currentWorkingDirectory,
		"exists":                  exists,
		"items":                   items,
		"name":                    name,
		"path":                    path,
		"toString":                path,
	}
	in.InstallClass("Directory", directoryInit, methods)
}

// Path is the Native value of a Directory instance.
type Path struct {
	Name string
}

// New creates a Directory instance of cls for the given OS path.
func New(cls *internal.Class, p string) *internal.Instance {
	inst := internal.NewInstance(cls)
	inst.Native = Path{Name: p}
	return inst
}

// Of returns the OS path of a Directory instance.
func Of(v internal.Value) (string, bool) {
	inst, ok := v.(*internal.Instance)
	if !ok {
		return "", false
	}
	p, ok := inst.Native.(Path)
	return p.Name, ok
}

// directoryInit initializes a directory with a slash-separated path, or the
// current working directory if there is no argument.
func directoryInit(c *internal.Call) (internal.Value, internal.Stop) {
	inst, ok := c.This.(*internal.Instance)
	if !ok {
		return c.Errorf("Directory initializer called on %s", internal.TypeNameOf(c.This))
	}
	if len(c.Args) == 0 {
		inst.Native = Path{Name: "."}
		return internal.Null, internal.NoStop
	}
	s, exc, stop := c.TextArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	inst.Native = Path{Name: filepath.FromSlash(string(s))}
	return internal.Null, internal.NoStop
}

func this(c *internal.Call) (string, internal.Value, internal.Stop) {
	if p, ok := Of(c.This); ok {
		return p, nil, internal.NoStop
	}
	r, s := c.Errorf("%s called on %s, not Directory", c.Func.Name, internal.TypeNameOf(c.This))
	return "", r, s
}

// class looks up a builtin class by name from the caller's scope.
func class(c *internal.Call, name string) (*internal.Class, internal.Value, internal.Stop) {
	v, _ := c.Lookup(name)
	if cls, ok := v.(*internal.Class); ok {
		return cls, nil, internal.NoStop
	}
	r, s := c.Errorf("no %s class", name)
	return nil, r, s
}

// at is a Directory method.
//
// at returns a File or Directory at the given path relative to the directory,
// or null if there is no such file.
func at(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	s, exc, stop := c.TextArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	p := filepath.Join(d, filepath.FromSlash(string(s)))
	fi, err := os.Stat(p)
	if os.IsNotExist(err) {
		return internal.Null, internal.NoStop
	}
	if err != nil {
		return file.IOError(c, err)
	}
	if !fi.IsDir() {
		cls, exc, stop := class(c, "File")
		if stop != internal.NoStop {
			return exc, stop
		}
		return file.NewAt(cls, p), internal.NoStop
	}
	return New(c.This.(*internal.Instance).Class, p), internal.NoStop
}

// create is a Directory method.
//
// create creates the directory, along with any missing parents, if it does not
// exist. Returns the directory.
func create(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	if err := os.MkdirAll(d, 0755); err != nil {
		return file.IOError(c, err)
	}
	return c.This, internal.NoStop
}

// createSubdirectory is a Directory method.
//
// createSubdirectory creates a subdirectory with the given name and returns a
// Directory for it. It is not an error if the subdirectory already exists,
// but it is if a non-directory file has that name.
func createSubdirectory(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	nm, exc, stop := c.TextArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	p := filepath.Join(d, filepath.FromSlash(string(nm)))
	fi, err := os.Stat(p)
	switch {
	case os.IsNotExist(err):
		if err := os.Mkdir(p, 0755); err != nil {
			return file.IOError(c, err)
		}
	case err != nil:
		return file.IOError(c, err)
	case !fi.IsDir():
		return c.Errorf("%s already exists", filepath.ToSlash(p))
	}
	return New(c.This.(*internal.Instance).Class, p), internal.NoStop
}

// currentWorkingDirectory is a Directory method.
//
// currentWorkingDirectory returns the slash-separated path of the current
// working directory. It may be called on the class.
func currentWorkingDirectory(c *internal.Call) (internal.Value, internal.Stop) {
	wd, err := os.Getwd()
	if err != nil {
		return file.IOError(c, err)
	}
	return internal.Text(filepath.ToSlash(wd)), internal.NoStop
}

// exists is a Directory method.
//
// exists returns whether the directory exists.
func exists(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	fi, err := os.Stat(d)
	return internal.Boolean(err == nil && fi.IsDir()), internal.NoStop
}

// items is a Directory method.
//
// items returns a list of the names of the entries in the directory, sorted.
func items(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	ents, err := os.ReadDir(d)
	if err != nil {
		return file.IOError(c, err)
	}
	names := make([]internal.Value, len(ents))
	for i, e := range ents {
		names[i] = internal.Text(e.Name())
	}
	return c.NewList(names...), internal.NoStop
}

// name is a Directory method.
//
// name returns the last element of the directory's path.
func name(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	return internal.Text(filepath.Base(d)), internal.NoStop
}

// path is a Directory method.
//
// path returns the directory's slash-separated path.
func path(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	return internal.Text(filepath.ToSlash(d)), internal.NoStop
}
