// Package file provides the File class, which reads and writes files by path.
//
// File instances hold only a path; every method opens, uses, and closes the
// file, so there is no open state to manage from Quill.
package file

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zephyrtronium/quill/coreext/date"
	"github.com/zephyrtronium/quill/internal"
)

func init() {
	internal.Register(initFile)
}

func initFile(in *internal.Interpreter) {
	methods := map[string]internal.Native{
		"path":               path,
		"name":               name,
		"toString":           path,
		"exists":             exists,
		"isDirectory":        isDirectory,
		"size":               size,
		"contents":           contents,
		"readLines":          readLines,
		"write":              writeMode(os.O_WRONLY | os.O_CREATE | os.O_TRUNC),
		"append":             writeMode(os.O_WRONLY | os.O_CREATE | os.O_APPEND),
		"remove":             remove,
		"moveTo":             moveTo,
		"lastDataChangeDate": lastDataChangeDate,
	}
	in.InstallClass("File", fileInit, methods)
}

// Path is the Native value of a File instance.
type Path struct {
	Name string
}

// NewAt creates a File instance of cls for the given OS path.
func NewAt(cls *internal.Class, p string) *internal.Instance {
	inst := internal.NewInstance(cls)
	inst.Native = Path{Name: p}
	return inst
}

// Of returns the OS path of a File instance.
func Of(v internal.Value) (string, bool) {
	inst, ok := v.(*internal.Instance)
	if !ok {
		return "", false
	}
	p, ok := inst.Native.(Path)
	return p.Name, ok
}

// fileInit initializes a file with a slash-separated path.
func fileInit(c *internal.Call) (internal.Value, internal.Stop) {
	inst, ok := c.This.(*internal.Instance)
	if !ok {
		return c.Errorf("File initializer called on %s", internal.TypeNameOf(c.This))
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
	r, s := c.Errorf("%s called on %s, not File", c.Func.Name, internal.TypeNameOf(c.This))
	return "", r, s
}

// IOError throws err as an Error. Paths in *fs.PathError messages are
// slash-separated.
func IOError(c *internal.Call, err error) (internal.Value, internal.Stop) {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return c.Errorf("%s %s: %v", pe.Op, filepath.ToSlash(pe.Path), pe.Err)
	}
	return c.Errorf("%v", err)
}

// path is a File method.
//
// path returns the file's slash-separated path.
func path(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	return internal.Text(filepath.ToSlash(p)), internal.NoStop
}

// name is a File method.
//
// name returns the last element of the file's path.
func name(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	return internal.Text(filepath.Base(p)), internal.NoStop
}

// exists is a File method.
//
// exists returns whether the file exists.
func exists(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	_, err := os.Stat(p)
	return internal.Boolean(err == nil), internal.NoStop
}

// isDirectory is a File method.
//
// isDirectory returns whether the file exists and is a directory.
func isDirectory(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	fi, err := os.Stat(p)
	return internal.Boolean(err == nil && fi.IsDir()), internal.NoStop
}

// size is a File method.
//
// size returns the file's size in bytes.
func size(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	fi, err := os.Stat(p)
	if err != nil {
		return IOError(c, err)
	}
	return internal.Number(fi.Size()), internal.NoStop
}

// contents is a File method.
//
// contents returns the entire contents of the file as a string.
func contents(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return IOError(c, err)
	}
	return internal.Text(b), internal.NoStop
}

// readLines is a File method.
//
// readLines returns a list of the lines in the file, without line endings.
func readLines(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	f, err := os.Open(p)
	if err != nil {
		return IOError(c, err)
	}
	defer f.Close()
	var lines []internal.Value
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, internal.Text(strings.TrimSuffix(sc.Text(), "\r")))
	}
	if err := sc.Err(); err != nil {
		return IOError(c, err)
	}
	return c.NewList(lines...), internal.NoStop
}

// writeMode creates a File method that writes the string forms of its
// arguments to the file opened with the given flags.
//
// write replaces the file's contents. append adds to the end of the file.
// Both create the file if it does not exist and return the file.
func writeMode(flags int) internal.Native {
	return func(c *internal.Call) (internal.Value, internal.Stop) {
		p, exc, stop := this(c)
		if stop != internal.NoStop {
			return exc, stop
		}
		var b strings.Builder
		for _, arg := range c.Args {
			s, stop := c.Stringify(arg)
			if stop != internal.NoStop {
				return s, stop
			}
			b.WriteString(internal.Display(s))
		}
		f, err := os.OpenFile(p, flags, 0666)
		if err != nil {
			return IOError(c, err)
		}
		_, err = f.WriteString(b.String())
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return IOError(c, err)
		}
		return c.This, internal.NoStop
	}
}

// remove is a File method.
//
// remove deletes the file.
func remove(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	if err := os.Remove(p); err != nil {
		return IOError(c, err)
	}
	return c.This, internal.NoStop
}

// moveTo is a File method.
//
// moveTo renames the file to the given path and updates this File to refer to
// the new location.
func moveTo(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	s, exc, stop := c.TextArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	np := filepath.FromSlash(string(s))
	if err := os.Rename(p, np); err != nil {
		return IOError(c, err)
	}
	c.This.(*internal.Instance).Native = Path{Name: np}
	return c.This, internal.NoStop
}

// lastDataChangeDate is a File method.
//
// lastDataChangeDate returns the Date at which the file was last modified.
func lastDataChangeDate(c *internal.Call) (internal.Value, internal.Stop) {
	p, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	fi, err := os.Stat(p)
	if err != nil {
		return IOError(c, err)
	}
	v, _ := c.Lookup("Date")
	cls, ok := v.(*internal.Class)
	if !ok {
		return c.Errorf("no Date class")
	}
	return date.New(cls, fi.ModTime()), internal.NoStop
}
