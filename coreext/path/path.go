// Package path provides the Path class, whose methods manipulate
// slash-separated file paths.
package path

import (
	"path/filepath"

	"github.com/zephyrtronium/quill/internal"
)

func init() {
	internal.Register(initPath)
}

func initPath(in *internal.Interpreter) {
	methods := map[string]internal.Native{
		"absolute":   absolute,
		"isAbsolute": isAbsolute,
		"join":       join,
		"base":       pathFunc(filepath.Base),
		"dir":        pathFunc(filepath.Dir),
		"ext":        pathFunc(filepath.Ext),
		"clean":      pathFunc(filepath.Clean),
		"separator": func(c *internal.Call) (internal.Value, internal.Stop) {
			return internal.Text("/"), internal.NoStop
		},
		"listSeparator": func(c *internal.Call) (internal.Value, internal.Stop) {
			return internal.Text(string(filepath.ListSeparator)), internal.NoStop
		},
	}
	in.InstallClass("Path", nil, methods)
}

// absolute is a Path method.
//
// absolute returns an absolute version of the argument path.
func absolute(c *internal.Call) (internal.Value, internal.Stop) {
	s, exc, stop := c.TextArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	abs, err := filepath.Abs(filepath.FromSlash(string(s)))
	if err != nil {
		return c.Errorf("%v", err)
	}
	return internal.Text(filepath.ToSlash(abs)), internal.NoStop
}

// isAbsolute is a Path method.
//
// isAbsolute returns whether the argument is an absolute path. The path may be
// operating system- or slash-separated.
func isAbsolute(c *internal.Call) (internal.Value, internal.Stop) {
	s, exc, stop := c.TextArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	return internal.Boolean(filepath.IsAbs(filepath.FromSlash(string(s)))), internal.NoStop
}

// join is a Path method.
//
// join joins any number of path elements into a single path.
func join(c *internal.Call) (internal.Value, internal.Stop) {
	elems := make([]string, len(c.Args))
	for i := range c.Args {
		s, exc, stop := c.TextArg(i)
		if stop != internal.NoStop {
			return exc, stop
		}
		elems[i] = filepath.FromSlash(string(s))
	}
	return internal.Text(filepath.ToSlash(filepath.Join(elems...))), internal.NoStop
}

// pathFunc creates a Path method applying f to its argument.
func pathFunc(f func(string) string) internal.Native {
	return func(c *internal.Call) (internal.Value, internal.Stop) {
		s, exc, stop := c.TextArg(0)
		if stop != internal.NoStop {
			return exc, stop
		}
		return internal.Text(filepath.ToSlash(f(filepath.FromSlash(string(s))))), internal.NoStop
	}
}
