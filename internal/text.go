package internal

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func (in *Interpreter) initString() {
	methods := map[string]Native{
		"length":     StringLength,
		"upper":      in.stringCase(cases.Upper),
		"lower":      in.stringCase(cases.Lower),
		"title":      in.stringCase(cases.Title),
		"split":      StringSplit,
		"contains":   StringContains,
		"startsWith": StringStartsWith,
		"endsWith":   StringEndsWith,
		"trim":       StringTrim,
		"replace":    StringReplace,
		"indexOf":    StringIndexOf,
		"toString":   StringToString,
	}
	in.InstallClass("String", nil, methods)
}

// thisText returns the receiver as text.
func (c *Call) thisText() (Text, Value, Stop) {
	if t, ok := c.This.(Text); ok {
		return t, nil, NoStop
	}
	r, s := c.Errorf("%s called on %s, not String", c.Func.Name, TypeNameOf(c.This))
	return "", r, s
}

// StringLength is a String method.
//
// length returns the number of characters in the string.
func StringLength(c *Call) (Value, Stop) {
	s, exc, stop := c.thisText()
	if stop != NoStop {
		return exc, stop
	}
	return Number(utf8.RuneCountInString(string(s))), NoStop
}

// stringCase creates a String method that maps the string through a caser for
// the interpreter's locale.
func (in *Interpreter) stringCase(mk func(language.Tag, ...cases.Option) cases.Caser) Native {
	return func(c *Call) (Value, Stop) {
		s, exc, stop := c.thisText()
		if stop != NoStop {
			return exc, stop
		}
		return Text(mk(in.Locale).String(string(s))), NoStop
	}
}

// StringSplit is a String method.
//
// split splits the string around each instance of a separator and returns a
// list of the parts. With no separator, it splits around runs of whitespace.
func StringSplit(c *Call) (Value, Stop) {
	s, exc, stop := c.thisText()
	if stop != NoStop {
		return exc, stop
	}
	var parts []string
	if len(c.Args) == 0 {
		parts = strings.Fields(string(s))
	} else {
		sep, exc, stop := c.TextArg(0)
		if stop != NoStop {
			return exc, stop
		}
		parts = strings.Split(string(s), string(sep))
	}
	return c.NewList(texts(parts)...), NoStop
}

// StringContains is a String method.
//
// contains returns whether the argument is a substring of the string.
func StringContains(c *Call) (Value, Stop) {
	return textPredicate(c, strings.Contains)
}

// StringStartsWith is a String method.
//
// startsWith returns whether the string begins with the argument.
func StringStartsWith(c *Call) (Value, Stop) {
	return textPredicate(c, strings.HasPrefix)
}

// StringEndsWith is a String method.
//
// endsWith returns whether the string ends with the argument.
func StringEndsWith(c *Call) (Value, Stop) {
	return textPredicate(c, strings.HasSuffix)
}

func textPredicate(c *Call, f func(string, string) bool) (Value, Stop) {
	s, exc, stop := c.thisText()
	if stop != NoStop {
		return exc, stop
	}
	sub, exc, stop := c.TextArg(0)
	if stop != NoStop {
		return exc, stop
	}
	return Boolean(f(string(s), string(sub))), NoStop
}

// StringTrim is a String method.
//
// trim removes leading and trailing whitespace.
func StringTrim(c *Call) (Value, Stop) {
	s, exc, stop := c.thisText()
	if stop != NoStop {
		return exc, stop
	}
	return Text(strings.TrimSpace(string(s))), NoStop
}

// StringReplace is a String method.
//
// replace replaces every instance of its first argument with its second.
func StringReplace(c *Call) (Value, Stop) {
	s, exc, stop := c.thisText()
	if stop != NoStop {
		return exc, stop
	}
	old, exc, stop := c.TextArg(0)
	if stop != NoStop {
		return exc, stop
	}
	repl, exc, stop := c.TextArg(1)
	if stop != NoStop {
		return exc, stop
	}
	return Text(strings.ReplaceAll(string(s), string(old), string(repl))), NoStop
}

// StringIndexOf is a String method.
//
// indexOf returns the character index of the first instance of the argument,
// or -1 if there is none.
func StringIndexOf(c *Call) (Value, Stop) {
	s, exc, stop := c.thisText()
	if stop != NoStop {
		return exc, stop
	}
	sub, exc, stop := c.TextArg(0)
	if stop != NoStop {
		return exc, stop
	}
	i := strings.Index(string(s), string(sub))
	if i < 0 {
		return Number(-1), NoStop
	}
	return Number(utf8.RuneCountInString(string(s)[:i])), NoStop
}

// StringToString is a String method.
//
// toString returns the string itself.
func StringToString(c *Call) (Value, Stop) {
	return c.This, NoStop
}
