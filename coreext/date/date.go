// Package date provides the Date class, a point in time.
package date

import (
	"math"
	"time"

	"github.com/zephyrtronium/quill/internal"

	"gitlab.com/variadico/lctime"
)

// DefaultFormat is the strftime format used by Date toString and by format
// when no format is given.
const DefaultFormat = "%Y-%m-%d %H:%M:%S %Z"

func init() {
	internal.Register(initDate)
}

func initDate(in *internal.Interpreter) {
	methods := map[string]internal.Native{
		"now":      now,
		"format":   format,
		"toString": format,
		"year":     field(func(t time.Time) int { return t.Year() }),
		"month":    field(func(t time.Time) int { return int(t.Month()) }),
		"day":      field(func(t time.Time) int { return t.Day() }),
		"hour":     field(func(t time.Time) int { return t.Hour() }),
		"minute":   field(func(t time.Time) int { return t.Minute() }),
		"second":   field(func(t time.Time) int { return t.Second() }),
		"unix":     unix,
	}
	in.InstallClass("Date", dateInit, methods)
}

// New creates a Date instance of cls holding t.
func New(cls *internal.Class, t time.Time) *internal.Instance {
	inst := internal.NewInstance(cls)
	inst.Native = t
	return inst
}

// Of returns the time held by a Date instance.
func Of(v internal.Value) (time.Time, bool) {
	inst, ok := v.(*internal.Instance)
	if !ok {
		return time.Time{}, false
	}
	t, ok := inst.Native.(time.Time)
	return t, ok
}

// dateInit initializes a date from seconds since the Unix epoch, or to the
// current time if there is no argument.
func dateInit(c *internal.Call) (internal.Value, internal.Stop) {
	inst, ok := c.This.(*internal.Instance)
	if !ok {
		return c.Errorf("Date initializer called on %s", internal.TypeNameOf(c.This))
	}
	if len(c.Args) == 0 {
		inst.Native = time.Now()
		return internal.Null, internal.NoStop
	}
	n, exc, stop := c.NumberArg(0)
	if stop != internal.NoStop {
		return exc, stop
	}
	sec, frac := math.Modf(float64(n))
	inst.Native = time.Unix(int64(sec), int64(frac*1e9))
	return internal.Null, internal.NoStop
}

// this returns the receiver's time.
func this(c *internal.Call) (time.Time, internal.Value, internal.Stop) {
	if t, ok := Of(c.This); ok {
		return t, nil, internal.NoStop
	}
	r, s := c.Errorf("%s called on %s, not Date", c.Func.Name, internal.TypeNameOf(c.This))
	return time.Time{}, r, s
}

// now is a Date method.
//
// now returns a new Date holding the current time. It may be called on the
// class.
func now(c *internal.Call) (internal.Value, internal.Stop) {
	cls, ok := c.This.(*internal.Class)
	if !ok {
		cls, ok = c.ClassOf(c.This)
		if !ok {
			return c.Errorf("now called on %s", internal.TypeNameOf(c.This))
		}
	}
	return New(cls, time.Now()), internal.NoStop
}

// format is a Date method.
//
// format converts the date to a string using ANSI C strftime directives. See
// https://godoc.org/github.com/variadico/lctime for the full list of
// supported directives.
func format(c *internal.Call) (internal.Value, internal.Stop) {
	t, exc, stop := this(c)
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
	return internal.Text(lctime.Strftime(f, t)), internal.NoStop
}

// field creates a Date method returning one component of the date.
func field(f func(time.Time) int) internal.Native {
	return func(c *internal.Call) (internal.Value, internal.Stop) {
		t, exc, stop := this(c)
		if stop != internal.NoStop {
			return exc, stop
		}
		return internal.Number(f(t)), internal.NoStop
	}
}

// unix is a Date method.
//
// unix returns the date as seconds since 1970-01-01 00:00:00 UTC.
func unix(c *internal.Call) (internal.Value, internal.Stop) {
	t, exc, stop := this(c)
	if stop != internal.NoStop {
		return exc, stop
	}
	return internal.Number(float64(t.UnixNano()) / 1e9), internal.NoStop
}
