// Package system provides the System class, which describes the host and the
// running program.
package system

import (
	"os"
	"runtime"
	"time"

	"github.com/zephyrtronium/quill/internal"
)

func init() {
	internal.Register(initSystem)
}

func initSystem(in *internal.Interpreter) {
	methods := map[string]internal.Native{
		"platform": platform,
		"version":  version,
		"args": func(c *internal.Call) (internal.Value, internal.Stop) {
			args := make([]internal.Value, len(in.Args))
			for i, a := range in.Args {
				args[i] = internal.Text(a)
			}
			return c.NewList(args...), internal.NoStop
		},
		"env": env,
		"clock": func(c *internal.Call) (internal.Value, internal.Stop) {
			return internal.Number(time.Since(in.StartTime).Seconds()), internal.NoStop
		},
		"quillVersion": func(c *internal.Call) (internal.Value, internal.Stop) {
			return internal.Text(internal.Version), internal.NoStop
		},
	}
	in.InstallClass("System", nil, methods)
}

// platform is a System method.
//
// platform returns the name of the operating system.
func platform(c *internal.Call) (internal.Value, internal.Stop) {
	return internal.Text(runtime.GOOS), internal.NoStop
}

// version is a System method.
//
// version returns the operating system's version, or the empty string if it
// cannot be determined.
func version(c *internal.Call) (internal.Value, internal.Stop) {
	return internal.Text(platformVersion()), internal.NoStop
}

// env is a System method.
//
// env returns the value of an environment variable, or null if it is not set.
func env(c *internal.Call) (internal.Value, internal.Stop) {
	name, exc, stop := c.TextArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	if v, ok := os.LookupEnv(string(name)); ok {
		return internal.Text(v), internal.NoStop
	}
	return internal.Null, internal.NoStop
}
