// Package duration provides the Duration class, a span of time, and adds
// Date arithmetic in terms of it.
package duration

import (
	"fmt"
	"strings"
	"time"

	"github.com/zephyrtronium/quill/coreext/date"
	"github.com/zephyrtronium/quill/internal"
)

// DefaultFormat is the format used by Duration toString.
const DefaultFormat = "%Y years %d days %H:%M:%S"

const (
	year = 365 * 24 * time.Hour
	day  = 24 * time.Hour
)

func init() {
	internal.Register(initDuration)
}

func initDuration(in *internal.Interpreter) {
	methods := map[string]internal.Native{
		"totalSeconds": totalSeconds,
		"format":       format,
		"toString":     format,
		"years":        part(func(d time.Duration) int64 { return int64(d / year) }),
		"days":         part(func(d time.Duration) int64 { return int64(d % year / day) }),
		"hours":        part(func(d time.Duration) int64 { return int64(d % day / time.Hour) }),
		"minutes":      part(func(d time.Duration) int64 { return int64(d % time.Hour / time.Minute) }),
		"seconds": func(c *internal.Call) (internal.Value, internal.Stop) {
			d, exc, stop := this(c)
			if stop != internal.NoStop {
				return exc, stop
			}
			return internal.Number(float64(d%time.Minute) / float64(time.Second)), internal.NoStop
		},
		"add": arith(func(a, b time.Duration) time.Duration { return a + b }),
		"sub": arith(func(a, b time.Duration) time.Duration { return a - b }),
	}
	in.InstallClass("Duration", durationInit, methods)

	dc := in.Class("Date")
	dc.SetMethod("since", internal.NewNative("since", since, "other"))
	dc.SetMethod("add", internal.NewNative("add", dateAdd, "duration"))
}

// New creates a Duration instance of cls holding d.
func New(cls *internal.Class, d time.Duration) *internal.Instance {
	inst := internal.NewInstance(cls)
	inst.Native = d
	return inst
}

// Of returns the span held by a Duration instance.
func Of(v internal.Value) (time.Duration, bool) {
	inst, ok := v.(*internal.Instance)
	if !ok {
		return 0, false
	}
	d, ok := inst.Native.(time.Duration)
	return d, ok
}

// durationInit initializes a duration from a number of seconds, or to zero.
func durationInit(c *internal.Call) (internal.Value, internal.Stop) {
	inst, ok := c.This.(*internal.Instance)
	if !ok {
		return c.Errorf("Duration initializer called on %s", internal.TypeNameOf(c.This))
	}
	inst.Native = time.Duration(0)
	if len(c.Args) == 0 {
		return internal.Null, internal.NoStop
	}
	n, exc, stop := c.NumberArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	inst.Native = time.Duration(float64(n) * float64(time.Second))
	return internal.Null, internal.NoStop
}

func this(c *internal.Call) (time.Duration, internal.Value, internal.Stop) {
	if d, ok := Of(c.This); ok {
		return d, nil, internal.NoStop
	}
	r, s := c.Errorf("%s called on %s, not Duration", c.Func.Name, internal.TypeNameOf(c.This))
	return 0, r, s
}

// arg returns the nth argument as a span.
func arg(c *internal.Call, n int) (time.Duration, internal.Value, internal.Stop) {
	if d, ok := Of(c.Arg(n)); ok {
		return d, nil, internal.NoStop
	}
	r, s := c.Errorf("argument %d to %s must be Duration, not %s", n, c.Func.Name, internal.TypeNameOf(c.Arg(n)))
	return 0, r, s
}

// totalSeconds is a Duration method.
//
// totalSeconds returns the duration as the number of seconds it represents.
func totalSeconds(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	return internal.Number(d.Seconds()), internal.NoStop
}

// format is a Duration method.
//
// format formats the duration. The format may use the following directives:
//
// 	%Y - Years, with a year defined as 60*60*24*365 seconds.
// 	%y - Four digit years.
// 	%d - Days, with a day defined as 60*60*24 seconds.
// 	%H - Hours.
// 	%M - Minutes.
// 	%S - Seconds, with six-digit fraction.
//
// Years and days never account for leap years or leap seconds.
func format(c *internal.Call) (internal.Value, internal.Stop) {
	d, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	f := DefaultFormat
	if len(c.Args) > 0 {
		s, exc, stop := c.TextArg(0)
		if stop != internal.NoStop {
			return exc, stop
		}
		f = string(s)
	}
	return internal.Text(Format(f, d)), internal.NoStop
}

// Format formats d according to f, as described for the format method.
func Format(f string, d time.Duration) string {
	rep := strings.NewReplacer(
		"%Y", fmt.Sprintf("%d", d/year),
		"%y", fmt.Sprintf("%04d", d/year),
		"%d", fmt.Sprintf("%02d", d%year/day),
		"%H", fmt.Sprintf("%02d", d%day/time.Hour),
		"%M", fmt.Sprintf("%02d", d%time.Hour/time.Minute),
		"%S", fmt.Sprintf("%09.6f", float64(d%time.Minute)/float64(time.Second)))
	return rep.Replace(f)
}

// part creates a Duration method returning one whole component of the span.
func part(f func(time.Duration) int64) internal.Native {
	return func(c *internal.Call) (internal.Value, internal.Stop) {
		d, exc, stop := this(c)
		if stop != internal.NoStop {
			return exc, stop
		}
		return internal.Number(f(d)), internal.NoStop
	}
}

// arith creates a Duration method combining the receiver with the argument
// into a new Duration.
func arith(f func(a, b time.Duration) time.Duration) internal.Native {
	return func(c *internal.Call) (internal.Value, internal.Stop) {
		d, exc, stop := this(c)
		if stop != internal.NoStop {
			return exc, stop
		}
		e, exc, stop := arg(c, 0)
		if stop != internal.NoStop {
			return exc, stop
		}
		return New(c.This.(*internal.Instance).Class, f(d, e)), internal.NoStop
	}
}

// since is a Date method.
//
// since returns the Duration elapsed from the argument date to this one.
func since(c *internal.Call) (internal.Value, internal.Stop) {
	t, ok := date.Of(c.This)
	if !ok {
		return c.Errorf("since called on %s, not Date", internal.TypeNameOf(c.This))
	}
	u, ok := date.Of(c.Arg(0))
	if !ok {
		return c.Errorf("argument 0 to since must be Date, not %s", internal.TypeNameOf(c.Arg(0)))
	}
	cls, ok := c.Lookup("Duration")
	if !ok {
		return c.Errorf("no Duration class")
	}
	dc, ok := cls.(*internal.Class)
	if !ok {
		return c.Errorf("Duration is %s, not Class", internal.TypeNameOf(cls))
	}
	return New(dc, t.Sub(u)), internal.NoStop
}

// dateAdd is a Date method.
//
// add returns a new Date offset from this one by the argument Duration.
func dateAdd(c *internal.Call) (internal.Value, internal.Stop) {
	t, ok := date.Of(c.This)
	if !ok {
		return c.Errorf("add called on %s, not Date", internal.TypeNameOf(c.This))
	}
	d, exc, stop := arg(c, 0)
	if stop != internal.NoStop {
		return exc, stop
	}
	return date.New(c.This.(*internal.Instance).Class, t.Add(d)), internal.NoStop
}
