// Package types holds the value model shared by the reader, printer and
// evaluator, along with the lexical environment and the error taxonomy.
package types

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Value is any node in the language: parsed syntax and runtime data alike.
// The set of implementations is closed.
type Value interface {
	value()
}

type Symbol string

// Keyword holds the name without its leading colon.
type Keyword string

type Integer int

type Boolean bool

type String string

type NilValue struct{}

var (
	Nil   = NilValue{}
	True  = Boolean(true)
	False = Boolean(false)
)

type List struct {
	Items []Value
}

type Vector struct {
	Items []Value
}

// Hashmap keeps its entries in insertion order. Re-setting an existing key
// replaces the value in place.
type Hashmap struct {
	entries *linkedhashmap.Map
}

// NativeFunc is the calling convention for functions implemented in Go.
type NativeFunc func(args []Value) (Value, error)

type Native struct {
	Name string
	Fn   NativeFunc
}

// Closure is a function defined in the language. Params is the raw parameter
// list, possibly containing "&". Fn is the invocation thunk the evaluator
// installs so that Go code can call the closure without the evaluator.
type Closure struct {
	Params []Symbol
	Body   Value
	Env    *Env
	Fn     NativeFunc
}

// Atom is the only mutable value.
type Atom struct {
	mu  sync.Mutex
	val Value
}

func (Symbol) value() {}
func (Keyword) value() {}
func (Integer) value() {}
func (Boolean) value() {}
func (String) value() {}
func (NilValue) value() {}
func (*List) value() {}
func (*Vector) value() {}
func (*Hashmap) value() {}
func (*Native) value() {}
func (*Closure) value() {}
func (*Atom) value() {}

func NewList(items ...Value) *List {
	return &List{Items: items}
}

func NewVector(items ...Value) *Vector {
	return &Vector{Items: items}
}

func NewHashmap() *Hashmap {
	return &Hashmap{entries: linkedhashmap.New()}
}

func (h *Hashmap) Set(key, val Value) {
	h.entries.Put(key, val)
}

func (h *Hashmap) Get(key Value) (Value, bool) {
	v, ok := h.entries.Get(key)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}

// lookup finds key by structural equality, so composite keys built
// separately still match.
func (h *Hashmap) lookup(key Value) (Value, bool) {
	if v, ok := h.Get(key); ok {
		return v, true
	}
	it := h.entries.Iterator()
	for it.Next() {
		if Equal(key, it.Key().(Value)) {
			return it.Value().(Value), true
		}
	}
	return nil, false
}

func (h *Hashmap) Len() int {
	return h.entries.Size()
}

// Each visits entries in insertion order.
func (h *Hashmap) Each(fn func(key, val Value)) {
	it := h.entries.Iterator()
	for it.Next() {
		fn(it.Key().(Value), it.Value().(Value))
	}
}

func NewAtom(v Value) *Atom {
	return &Atom{val: v}
}

func (a *Atom) Deref() Value {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.val
}

func (a *Atom) Reset(v Value) Value {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.val = v
	return v
}

// Swap stores fn(current) and returns it. fn runs once, without the lock
// held, so it may read or write the atom itself; whatever it wrote is
// replaced by its result.
func (a *Atom) Swap(fn func(old Value) (Value, error)) (Value, error) {
	next, err := fn(a.Deref())
	if err != nil {
		return nil, err
	}
	return a.Reset(next), nil
}

// Sequence returns the items of a List or Vector.
func Sequence(v Value) ([]Value, bool) {
	switch s := v.(type) {
	case *List:
		return s.Items, true
	case *Vector:
		return s.Items, true
	}
	return nil, false
}

// Truthy reports whether v counts as true in a condition. Only nil and false
// are falsy.
func Truthy(v Value) bool {
	switch v {
	case Nil, False:
		return false
	}
	return true
}

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Apply calls a Native or Closure with already evaluated arguments.
func Apply(f Value, args []Value) (Value, error) {
	switch fn := f.(type) {
	case *Native:
		return fn.Fn(args)
	case *Closure:
		if fn.Fn == nil {
			return nil, &NotCallableError{Value: f}
		}
		return fn.Fn(args)
	}
	return nil, &NotCallableError{Value: f}
}

// Equal is deep structural equality. Lists and vectors compare equal to
// each other when their elements do; functions and atoms compare by identity.
func Equal(a, b Value) bool {
	if as, ok := Sequence(a); ok {
		bs, ok := Sequence(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	if ah, ok := a.(*Hashmap); ok {
		bh, ok := b.(*Hashmap)
		if !ok || ah.Len() != bh.Len() {
			return false
		}
		eq := true
		ah.Each(func(k, v Value) {
			if !eq {
				return
			}
			bv, found := bh.lookup(k)
			eq = found && Equal(v, bv)
		})
		return eq
	}

	return a == b
}
