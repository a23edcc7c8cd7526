// Package module installs the import function, which loads Quill source files
// as modules.
//
// A module is evaluated once per interpreter, in a fresh top-level scope. The
// value of import is a Module instance whose properties are the names listed
// in the module's exports variable, a list of strings, or every top-level
// binding of the module if it defines no exports.
package module

import (
	"github.com/zephyrtronium/quill/internal"
)

func init() {
	internal.Register(initModule)
}

func initModule(in *internal.Interpreter) {
	in.Install("import", internal.NewNative("import", func(c *internal.Call) (internal.Value, internal.Stop) {
		path, exc, stop := c.TextArg(0)
		if stop != internal.NoStop {
			return exc, stop
		}
		from := ""
		if c.Unit != nil {
			from = c.Unit.Label
		}
		return in.Loader.Load(c.Context, from, string(path), c.Line)
	}, "path"))
}
