package internal

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func (in *Interpreter) initNumber() {
	methods := map[string]Native{
		"floor":    NumberFloor,
		"ceil":     NumberCeil,
		"round":    NumberRound,
		"abs":      NumberAbs,
		"toString": NumberToString,
		"format":   in.NumberFormat,
	}
	in.InstallClass("Number", nil, methods)
}

// thisNumber returns the receiver as a number.
func (c *Call) thisNumber() (Number, Value, Stop) {
	if n, ok := c.This.(Number); ok {
		return n, nil, NoStop
	}
	r, s := c.Errorf("%s called on %s, not Number", c.Func.Name, TypeNameOf(c.This))
	return 0, r, s
}

func numberFunc(c *Call, f func(float64) float64) (Value, Stop) {
	n, exc, stop := c.thisNumber()
	if stop != NoStop {
		return exc, stop
	}
	return Number(f(float64(n))), NoStop
}

// NumberFloor is a Number method.
//
// floor returns the greatest integer not greater than the number.
func NumberFloor(c *Call) (Value, Stop) {
	return numberFunc(c, math.Floor)
}

// NumberCeil is a Number method.
//
// ceil returns the least integer not less than the number.
func NumberCeil(c *Call) (Value, Stop) {
	return numberFunc(c, math.Ceil)
}

// NumberRound is a Number method.
//
// round returns the nearest integer, rounding half away from zero.
func NumberRound(c *Call) (Value, Stop) {
	return numberFunc(c, math.Round)
}

// NumberAbs is a Number method.
//
// abs returns the absolute value of the number.
func NumberAbs(c *Call) (Value, Stop) {
	return numberFunc(c, math.Abs)
}

// NumberToString is a Number method.
//
// toString returns the number's display form.
func NumberToString(c *Call) (Value, Stop) {
	n, exc, stop := c.thisNumber()
	if stop != NoStop {
		return exc, stop
	}
	return Text(FormatNumber(n)), NoStop
}

// NumberFormat is a Number method.
//
// format formats the number with grouping separators for a locale, given as a
// BCP 47 tag such as 'de' or 'en-US'. The default is the interpreter's locale.
func (in *Interpreter) NumberFormat(c *Call) (Value, Stop) {
	n, exc, stop := c.thisNumber()
	if stop != NoStop {
		return exc, stop
	}
	tag := in.Locale
	if len(c.Args) > 0 {
		s, exc, stop := c.TextArg(0)
		if stop != NoStop {
			return exc, stop
		}
		t, err := language.Parse(string(s))
		if err != nil {
			return c.Errorf("invalid locale %q: %v", string(s), err)
		}
		tag = t
	}
	p := message.NewPrinter(tag)
	return Text(p.Sprint(number.Decimal(float64(n)))), NoStop
}
