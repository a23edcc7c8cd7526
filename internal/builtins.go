package internal

import "strings"

// Stringify converts v to text. Instances whose class defines toString use
// it; everything else uses Display. The result is Text unless the stop is
// ExceptionStop.
func (ctx *Context) Stringify(v Value) (Value, Stop) {
	inst, ok := v.(*Instance)
	if !ok {
		return Text(Display(v)), NoStop
	}
	m, _, exc, stop := ctx.FindMethod(inst.Class, "toString", 0)
	if stop != NoStop {
		return exc, stop
	}
	if m == nil {
		return Text(Display(v)), NoStop
	}
	r, stop := m.Activate(ctx, inst, nil, 0)
	if stop != NoStop {
		return r, stop
	}
	if t, ok := r.(Text); ok {
		return t, NoStop
	}
	return Text(Display(r)), NoStop
}

func (in *Interpreter) initObject() {
	methods := map[string]Native{
		"toString":    ObjectToString,
		"equals":      ObjectEquals,
		"class":       ObjectClass,
		"hasProperty": ObjectHasProperty,
		"properties":  ObjectProperties,
	}
	in.InstallClass("Object", nil, methods)
}

// ObjectToString is an Object method.
//
// toString returns the receiver's display form.
func ObjectToString(c *Call) (Value, Stop) {
	return Text(Display(c.This)), NoStop
}

// ObjectEquals is an Object method.
//
// equals compares the receiver to the argument by primitive equality.
func ObjectEquals(c *Call) (Value, Stop) {
	return Boolean(Equal(c.This, c.Arg(0))), NoStop
}

// ObjectClass is an Object method.
//
// class returns the receiver's class.
func ObjectClass(c *Call) (Value, Stop) {
	cls, ok := c.ClassOf(c.This)
	if !ok {
		return Null, NoStop
	}
	return cls, NoStop
}

// ObjectHasProperty is an Object method.
//
// hasProperty returns whether the receiver has its own property with the given
// name.
func ObjectHasProperty(c *Call) (Value, Stop) {
	name, exc, stop := c.TextArg(0)
	if stop != NoStop {
		return exc, stop
	}
	if inst, ok := c.This.(*Instance); ok {
		_, ok := inst.Get(string(name))
		return Boolean(ok), NoStop
	}
	return Boolean(false), NoStop
}

// ObjectProperties is an Object method.
//
// properties returns a list of the names of the receiver's own properties.
func ObjectProperties(c *Call) (Value, Stop) {
	inst, ok := c.This.(*Instance)
	if !ok {
		return c.NewList(), NoStop
	}
	return c.NewList(texts(inst.PropNames())...), NoStop
}

func texts(s []string) []Value {
	r := make([]Value, len(s))
	for i, v := range s {
		r[i] = Text(v)
	}
	return r
}

func (in *Interpreter) initClass() {
	methods := map[string]Native{
		"mixin":      ClassMixin,
		"name":       ClassName,
		"parents":    ClassParents,
		"setParents": ClassSetParents,
		"methods":    ClassMethods,
		"initialize": ClassInitialize,
		"toString":   ObjectToString,
	}
	in.InstallClass("Class", nil, methods)
}

// thisClass returns the receiver as a class.
func (c *Call) thisClass() (*Class, Value, Stop) {
	if cls, ok := c.This.(*Class); ok {
		return cls, nil, NoStop
	}
	r, s := c.Errorf("%s called on %s, not Class", c.Func.Name, TypeNameOf(c.This))
	return nil, r, s
}

// ClassMixin is a Class method.
//
// mixin copies all methods defined directly on each argument class into the
// receiver, later arguments replacing earlier ones. Returns the receiver.
func ClassMixin(c *Call) (Value, Stop) {
	cls, exc, stop := c.thisClass()
	if stop != NoStop {
		return exc, stop
	}
	for i := range c.Args {
		src, exc, stop := c.ClassArg(i)
		if stop != NoStop {
			return exc, stop
		}
		Mixin(cls, src)
	}
	return cls, NoStop
}

// ClassName is a Class method.
//
// name returns the class's name.
func ClassName(c *Call) (Value, Stop) {
	cls, exc, stop := c.thisClass()
	if stop != NoStop {
		return exc, stop
	}
	return Text(cls.Name), NoStop
}

// ClassParents is a Class method.
//
// parents returns a list of the names of the class's parents.
func ClassParents(c *Call) (Value, Stop) {
	cls, exc, stop := c.thisClass()
	if stop != NoStop {
		return exc, stop
	}
	return c.NewList(texts(cls.Parents())...), NoStop
}

// ClassSetParents is a Class method.
//
// setParents replaces the class's parent names with a list of strings.
func ClassSetParents(c *Call) (Value, Stop) {
	cls, exc, stop := c.thisClass()
	if stop != NoStop {
		return exc, stop
	}
	l, exc, stop := c.ListArg(0)
	if stop != NoStop {
		return exc, stop
	}
	names := make([]string, len(l.Items))
	for i, v := range l.Items {
		t, ok := v.(Text)
		if !ok {
			return c.Errorf("parent names must be String, not %s", TypeNameOf(v))
		}
		names[i] = string(t)
	}
	cls.SetParents(names)
	return cls, NoStop
}

// ClassMethods is a Class method.
//
// methods returns a list of the names of the methods defined directly on the
// class.
func ClassMethods(c *Call) (Value, Stop) {
	cls, exc, stop := c.thisClass()
	if stop != NoStop {
		return exc, stop
	}
	return c.NewList(texts(cls.MethodNames())...), NoStop
}

// ClassInitialize is a Class method.
//
// initialize runs the class's initializer on an existing instance, so that a
// subclass initializer can chain to its parents'.
func ClassInitialize(c *Call) (Value, Stop) {
	cls, exc, stop := c.thisClass()
	if stop != NoStop {
		return exc, stop
	}
	inst, exc, stop := c.InstanceArg(0)
	if stop != NoStop {
		return exc, stop
	}
	if r, stop := c.Initialize(cls, inst, c.Rest(1), c.Line); stop != NoStop {
		return r, stop
	}
	return inst, NoStop
}

func (in *Interpreter) initFunction() {
	methods := map[string]Native{
		"name":     FunctionName,
		"arity":    FunctionArity,
		"call":     FunctionCall,
		"apply":    FunctionApply,
		"toString": ObjectToString,
	}
	in.InstallClass("Function", nil, methods)
}

// FunctionName is a Function method.
//
// name returns the function's name.
func FunctionName(c *Call) (Value, Stop) {
	f, ok := c.This.(*Func)
	if !ok {
		return c.Errorf("name called on %s, not Function", TypeNameOf(c.This))
	}
	return Text(f.Name), NoStop
}

// FunctionArity is a Function method.
//
// arity returns the number of declared parameters.
func FunctionArity(c *Call) (Value, Stop) {
	f, ok := c.This.(*Func)
	if !ok {
		return c.Errorf("arity called on %s, not Function", TypeNameOf(c.This))
	}
	return Number(len(f.Params)), NoStop
}

// FunctionCall is a Function method.
//
// call calls the function with the given arguments.
func FunctionCall(c *Call) (Value, Stop) {
	return c.CallValue(c.This, nil, c.Args, c.Line)
}

// FunctionApply is a Function method.
//
// apply calls the function with the items of a list as arguments.
func FunctionApply(c *Call) (Value, Stop) {
	l, exc, stop := c.ListArg(0)
	if stop != NoStop {
		return exc, stop
	}
	return c.CallValue(c.This, nil, append([]Value(nil), l.Items...), c.Line)
}

func (in *Interpreter) initError() {
	in.InstallClass("Error", errorInit, map[string]Native{"toString": ErrorToString})
}

func errorInit(c *Call) (Value, Stop) {
	inst, ok := c.This.(*Instance)
	if !ok {
		return c.Errorf("Error initializer called on %s", TypeNameOf(c.This))
	}
	inst.Set("message", c.Arg(0))
	return Null, NoStop
}

// ErrorToString is an Error method.
//
// toString returns the error's class name and message, e.g. "Error: boom".
func ErrorToString(c *Call) (Value, Stop) {
	inst, ok := c.This.(*Instance)
	if !ok {
		return Text(Display(c.This)), NoStop
	}
	msg, _ := inst.Get("message")
	s, stop := c.Stringify(msg)
	if stop != NoStop {
		return s, stop
	}
	return Text(inst.Class.Name+": ") + s.(Text), NoStop
}

func (in *Interpreter) initBoolean() {
	in.InstallClass("Boolean", nil, map[string]Native{"toString": ObjectToString})
}

// Module is the native backing of Module instances.
type Module struct {
	// Path is the absolute path of the module's source.
	Path string
}

func (in *Interpreter) initModule() {
	in.InstallClass("Module", nil, map[string]Native{"toString": ObjectToString})
}

func (in *Interpreter) initGlobals() {
	in.Install("print", NewNative("print", Print, "args"))
	in.Install("str", NewNative("str", Str, "value"))
	in.Install("type", NewNative("type", Type, "value"))
	in.Install("super", NewNative("super", Super, "parent", "name", "args"))
	in.Install("isinstance", NewNative("isinstance", IsInstance, "value", "class"))
}

// Print is a builtin function.
//
// print writes its arguments, converted to strings and separated by spaces,
// followed by a newline.
func Print(c *Call) (Value, Stop) {
	s := make([]string, len(c.Args))
	for i, v := range c.Args {
		x, stop := c.Stringify(v)
		if stop != NoStop {
			return x, stop
		}
		s[i] = string(x.(Text))
	}
	c.Out(strings.Join(s, " ") + "\n")
	return Null, NoStop
}

// Str is a builtin function.
//
// str converts its argument to a string.
func Str(c *Call) (Value, Stop) {
	return c.Stringify(c.Arg(0))
}

// Type is a builtin function.
//
// type returns the name of its argument's type.
func Type(c *Call) (Value, Stop) {
	return Text(TypeNameOf(c.Arg(0))), NoStop
}

// Super is a builtin function.
//
// super calls a method defined directly on a parent class with the caller's
// this as the receiver: super(Parent, 'name', args...).
func Super(c *Call) (Value, Stop) {
	parent, exc, stop := c.ClassArg(0)
	if stop != NoStop {
		return exc, stop
	}
	name, exc, stop := c.TextArg(1)
	if stop != NoStop {
		return exc, stop
	}
	return c.Context.Super(parent, string(name), c.Rest(2), c.Line)
}

// IsInstance is a builtin function.
//
// isinstance returns whether a value's class is the given class or inherits
// from it.
func IsInstance(c *Call) (Value, Stop) {
	cls, exc, stop := c.ClassArg(1)
	if stop != NoStop {
		return exc, stop
	}
	vc, ok := c.ClassOf(c.Arg(0))
	if !ok {
		return Boolean(false), NoStop
	}
	sub, exc, stop := c.IsSubclass(vc, cls, c.Line)
	if stop != NoStop {
		return exc, stop
	}
	return Boolean(sub), NoStop
}
