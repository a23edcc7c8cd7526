package internal

// Stack is an immutable stack. Push and Pop return new stacks sharing
// structure with the receiver, so earlier versions remain valid.
type Stack[T any] struct {
	top *stackNode[T]
}

type stackNode[T any] struct {
	v    T
	next *stackNode[T]
}

// Push returns a stack with v on top of s.
func (s Stack[T]) Push(v T) Stack[T] {
	return Stack[T]{top: &stackNode[T]{v: v, next: s.top}}
}

// Pop returns the top element and the stack beneath it. If s is empty, ok is
// false.
func (s Stack[T]) Pop() (v T, r Stack[T], ok bool) {
	if s.top == nil {
		return v, s, false
	}
	return s.top.v, Stack[T]{top: s.top.next}, true
}

// Peek returns the top element.
func (s Stack[T]) Peek() (v T, ok bool) {
	if s.top == nil {
		return v, false
	}
	return s.top.v, true
}

// Empty reports whether s has no elements.
func (s Stack[T]) Empty() bool {
	return s.top == nil
}
