package internal

import "strings"

// List is the native backing of List instances.
type List struct {
	Items []Value
}

func (l *List) display() string {
	s := make([]string, len(l.Items))
	for i, v := range l.Items {
		s[i] = quoted(v)
	}
	return "[" + strings.Join(s, ", ") + "]"
}

// fallbackList is used to create lists when no List class is visible.
var fallbackList = NewClass("List", nil, nil, nil, nil, nil)

// NewList creates a List instance holding items. The class is the one bound
// to List in ctx.
func (ctx *Context) NewList(items ...Value) *Instance {
	cls := fallbackList
	if v, ok := ctx.Lookup("List"); ok {
		if c, ok := v.(*Class); ok {
			cls = c
		}
	}
	inst := NewInstance(cls)
	inst.Native = &List{Items: items}
	return inst
}

// ListOf returns the native list backing v.
func ListOf(v Value) (*List, bool) {
	if inst, ok := v.(*Instance); ok {
		l, ok := inst.Native.(*List)
		return l, ok
	}
	return nil, false
}

// ListArg returns the nth argument as a list.
func (c *Call) ListArg(n int) (*List, Value, Stop) {
	if l, ok := ListOf(c.Arg(n)); ok {
		return l, nil, NoStop
	}
	r, s := c.argErr(n, "List")
	return nil, r, s
}

// thisList returns the receiver's list.
func (c *Call) thisList() (*List, Value, Stop) {
	if l, ok := ListOf(c.This); ok {
		return l, nil, NoStop
	}
	r, s := c.Errorf("%s called on %s, not List", c.Func.Name, TypeNameOf(c.This))
	return nil, r, s
}

// index converts a number argument to an index into l, counting negative
// indices from the end.
func (c *Call) index(l *List, n int) (int, Value, Stop) {
	x, exc, stop := c.NumberArg(n)
	if stop != NoStop {
		return 0, exc, stop
	}
	i := int(x)
	if i < 0 {
		i += len(l.Items)
	}
	if i < 0 || i >= len(l.Items) || Number(int(x)) != x {
		r, s := c.Errorf("index %s out of range", FormatNumber(x))
		return 0, r, s
	}
	return i, nil, NoStop
}

func (in *Interpreter) initList() {
	methods := map[string]Native{
		"push":     ListPush,
		"pop":      ListPop,
		"get":      ListGet,
		"set":      ListSet,
		"size":     ListSize,
		"map":      ListMap,
		"filter":   ListFilter,
		"each":     ListEach,
		"join":     ListJoin,
		"contains": ListContains,
		"toString": ListToString,
	}
	in.InstallClass("List", listInit, methods)
}

func listInit(c *Call) (Value, Stop) {
	inst, ok := c.This.(*Instance)
	if !ok {
		return c.Errorf("List initializer called on %s", TypeNameOf(c.This))
	}
	inst.Native = &List{Items: append([]Value(nil), c.Args...)}
	return Null, NoStop
}

// ListPush is a List method.
//
// push appends its arguments to the list and returns the list.
func ListPush(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	l.Items = append(l.Items, c.Args...)
	return c.This, NoStop
}

// ListPop is a List method.
//
// pop removes and returns the last item.
func ListPop(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	if len(l.Items) == 0 {
		return c.Errorf("pop from empty list")
	}
	v := l.Items[len(l.Items)-1]
	l.Items = l.Items[:len(l.Items)-1]
	return v, NoStop
}

// ListGet is a List method.
//
// get returns the item at an index. Negative indices count from the end.
func ListGet(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	i, exc, stop := c.index(l, 0)
	if stop != NoStop {
		return exc, stop
	}
	return l.Items[i], NoStop
}

// ListSet is a List method.
//
// set replaces the item at an index and returns the list.
func ListSet(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	i, exc, stop := c.index(l, 0)
	if stop != NoStop {
		return exc, stop
	}
	l.Items[i] = c.Arg(1)
	return c.This, NoStop
}

// ListSize is a List method.
//
// size returns the number of items.
func ListSize(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	return Number(len(l.Items)), NoStop
}

// ListMap is a List method.
//
// map returns a new list of the results of calling a function on each item.
func ListMap(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	fn := c.Arg(0)
	r := make([]Value, 0, len(l.Items))
	for _, v := range l.Items {
		x, stop := c.CallValue(fn, nil, []Value{v}, c.Line)
		if stop != NoStop {
			return x, stop
		}
		r = append(r, x)
	}
	return c.NewList(r...), NoStop
}

// ListFilter is a List method.
//
// filter returns a new list of the items for which a function returns a true
// value.
func ListFilter(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	fn := c.Arg(0)
	var r []Value
	for _, v := range l.Items {
		x, stop := c.CallValue(fn, nil, []Value{v}, c.Line)
		if stop != NoStop {
			return x, stop
		}
		if Truthy(x) {
			r = append(r, v)
		}
	}
	return c.NewList(r...), NoStop
}

// ListEach is a List method.
//
// each calls a function on each item and returns null.
func ListEach(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	fn := c.Arg(0)
	for _, v := range l.Items {
		if x, stop := c.CallValue(fn, nil, []Value{v}, c.Line); stop != NoStop {
			return x, stop
		}
	}
	return Null, NoStop
}

// ListJoin is a List method.
//
// join converts each item to a string and joins them with a separator.
func ListJoin(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	sep := Text("")
	if len(c.Args) > 0 {
		if sep, exc, stop = c.TextArg(0); stop != NoStop {
			return exc, stop
		}
	}
	s := make([]string, len(l.Items))
	for i, v := range l.Items {
		x, stop := c.Stringify(v)
		if stop != NoStop {
			return x, stop
		}
		s[i] = string(x.(Text))
	}
	return Text(strings.Join(s, string(sep))), NoStop
}

// ListContains is a List method.
//
// contains returns whether any item is equal to the argument.
func ListContains(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	for _, v := range l.Items {
		if Equal(v, c.Arg(0)) {
			return Boolean(true), NoStop
		}
	}
	return Boolean(false), NoStop
}

// ListToString is a List method.
//
// toString returns the list's display form, e.g. [1, 'a'].
func ListToString(c *Call) (Value, Stop) {
	l, exc, stop := c.thisList()
	if stop != NoStop {
		return exc, stop
	}
	return Text(l.display()), NoStop
}
