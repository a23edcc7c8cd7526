package internal

import "github.com/zephyrtronium/contains"

// ClassOf returns the class through which methods of v are found. Instances
// use their own class; other values use the class bound to the name of their
// type in ctx, e.g. String for text.
func (ctx *Context) ClassOf(v Value) (*Class, bool) {
	if inst, ok := v.(*Instance); ok {
		return inst.Class, true
	}
	c, ok := ctx.Lookup(TypeNameOf(v))
	if !ok {
		return nil, false
	}
	cls, ok := c.(*Class)
	return cls, ok
}

// resolveParents looks up the parent classes of cls by name, first in the
// context where cls was defined and then in ctx. A parent name that is bound
// to nothing is an internal error; a name bound to a value that is not a class
// is an Error.
func (ctx *Context) resolveParents(cls *Class, line int) ([]*Class, Value, Stop) {
	r := make([]*Class, 0, len(cls.parents))
	for _, name := range cls.parents {
		var v Value
		ok := false
		if cls.Closure != nil {
			v, ok = cls.Closure.Lookup(name)
		}
		if !ok {
			v = ctx.Get(name, line)
		}
		p, ok := v.(*Class)
		if !ok {
			exc, stop := ctx.Errorf("parent %s of %s is %s, not a class", name, cls.Name, TypeNameOf(v))
			return nil, exc, stop
		}
		r = append(r, p)
	}
	return r, nil, NoStop
}

// FindMethod searches cls and its ancestors for a method named name. The
// search is breadth-first over parent names as they are currently bound in
// ctx, in declared order. Returns the method and the class that defines it,
// or nil if no class defines it.
func (ctx *Context) FindMethod(cls *Class, name string, line int) (*Func, *Class, Value, Stop) {
	set := contains.Set{}
	set.Add(cls.UniqueID())
	queue := []*Class{cls}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if m, ok := c.methods[name]; ok {
			return m, c, nil, NoStop
		}
		parents, exc, stop := ctx.resolveParents(c, line)
		if stop != NoStop {
			return nil, nil, exc, stop
		}
		for _, p := range parents {
			if set.Add(p.UniqueID()) {
				queue = append(queue, p)
			}
		}
	}
	return nil, nil, nil, NoStop
}

// MRO returns cls followed by its ancestors in method resolution order.
func (ctx *Context) MRO(cls *Class, line int) ([]*Class, Value, Stop) {
	set := contains.Set{}
	set.Add(cls.UniqueID())
	r := []*Class{cls}
	for i := 0; i < len(r); i++ {
		parents, exc, stop := ctx.resolveParents(r[i], line)
		if stop != NoStop {
			return nil, exc, stop
		}
		for _, p := range parents {
			if set.Add(p.UniqueID()) {
				r = append(r, p)
			}
		}
	}
	return r, nil, NoStop
}

// IsSubclass reports whether cls is sup or inherits from it.
func (ctx *Context) IsSubclass(cls, sup *Class, line int) (bool, Value, Stop) {
	mro, exc, stop := ctx.MRO(cls, line)
	if stop != NoStop {
		return false, exc, stop
	}
	for _, c := range mro {
		if c == sup {
			return true, nil, NoStop
		}
	}
	return false, nil, NoStop
}

// lookupMember finds the member name of v: an instance's own property first,
// then a method. Methods of a class value are searched in the class's own
// ancestry before the ancestry of Class.
func (ctx *Context) lookupMember(v Value, name string, line int) (Value, Value, Stop) {
	if inst, ok := v.(*Instance); ok {
		if p, ok := inst.Get(name); ok {
			return p, nil, NoStop
		}
	}
	if cls, ok := v.(*Class); ok {
		m, _, exc, stop := ctx.FindMethod(cls, name, line)
		if stop != NoStop {
			return nil, exc, stop
		}
		if m != nil {
			return m, nil, NoStop
		}
	}
	cls, ok := ctx.ClassOf(v)
	if !ok {
		return nil, nil, NoStop
	}
	m, _, exc, stop := ctx.FindMethod(cls, name, line)
	if stop != NoStop || m == nil {
		return nil, exc, stop
	}
	return m, nil, NoStop
}

// Invoke calls the method name on v with the given arguments.
func (ctx *Context) Invoke(v Value, name string, args []Value, line int) (Value, Stop) {
	m, exc, stop := ctx.lookupMember(v, name, line)
	if stop != NoStop {
		return exc, stop
	}
	if m == nil {
		return ctx.Errorf("%s has no method %s", TypeNameOf(v), name)
	}
	return ctx.CallValue(m, v, args, line)
}

// Property reads the property name of v. Reading a method yields the method
// itself, unbound.
func (ctx *Context) Property(v Value, name string, line int) (Value, Stop) {
	m, exc, stop := ctx.lookupMember(v, name, line)
	if stop != NoStop {
		return exc, stop
	}
	if m == nil {
		return ctx.Errorf("%s has no property %s", TypeNameOf(v), name)
	}
	return m, NoStop
}

// Instantiate creates a new instance of cls and runs its initializer. A class
// that has no initializer of its own uses the initializer of its nearest
// ancestor that does.
func (ctx *Context) Instantiate(cls *Class, args []Value, line int) (Value, Stop) {
	inst := NewInstance(cls)
	if r, stop := ctx.Initialize(cls, inst, args, line); stop != NoStop {
		return r, stop
	}
	return inst, NoStop
}

// Initialize runs the initializer of cls, or of its nearest ancestor with an
// initializer, on inst.
func (ctx *Context) Initialize(cls *Class, inst *Instance, args []Value, line int) (Value, Stop) {
	mro, exc, stop := ctx.MRO(cls, line)
	if stop != NoStop {
		return exc, stop
	}
	for _, c := range mro {
		if c.hasInit {
			return c.Func.Activate(ctx, inst, args, line)
		}
	}
	return Null, NoStop
}

// Super calls the method name defined directly on parent with the receiver
// bound in ctx. The receiver's class must be parent or inherit from it.
func (ctx *Context) Super(parent *Class, name string, args []Value, line int) (Value, Stop) {
	this, ok := ctx.thisValue()
	if !ok {
		return ctx.Errorf("super called outside of a method")
	}
	cls, ok := ctx.ClassOf(this)
	if !ok {
		return ctx.Errorf("super receiver %s has no class", TypeNameOf(this))
	}
	sub, exc, stop := ctx.IsSubclass(cls, parent, line)
	if stop != NoStop {
		return exc, stop
	}
	if !sub {
		return ctx.Errorf("%s is not a subclass of %s", cls.Name, parent.Name)
	}
	m, ok := parent.Method(name)
	if !ok {
		return ctx.Errorf("%s has no method %s", parent.Name, name)
	}
	return m.Activate(ctx, this, args, line)
}

// Mixin copies every method of src into dst, replacing methods of the same
// name.
func Mixin(dst, src *Class) {
	for name, m := range src.methods {
		dst.methods[name] = m
	}
}
