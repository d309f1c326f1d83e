package core

import (
	"fmt"

	. "github.com/bshepherdson/mal/types"
)

func atom(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("atom expects a single value")
	}
	return NewAtom(args[0]), nil
}

func atomQ(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("atom? expects a single value")
	}
	_, ok := args[0].(*Atom)
	return Bool(ok), nil
}

func deref(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("deref expects a single value")
	}
	a, ok := args[0].(*Atom)
	if !ok {
		return nil, fmt.Errorf("deref expects an atom")
	}
	return a.Deref(), nil
}

func atomReset(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("reset! requires two values")
	}
	a, ok := args[0].(*Atom)
	if !ok {
		return nil, fmt.Errorf("reset! must have an atom as its first argument")
	}
	return a.Reset(args[1]), nil
}

// atomSwap calls (f current extra...) and stores the result.
func atomSwap(args []Value) (Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("swap! requires at least two values")
	}
	a, ok := args[0].(*Atom)
	if !ok {
		return nil, fmt.Errorf("swap! must have an atom as its first argument")
	}
	f := args[1]
	switch f.(type) {
	case *Native, *Closure:
	default:
		return nil, &NotCallableError{Value: f}
	}

	extra := args[2:]
	return a.Swap(func(old Value) (Value, error) {
		callArgs := make([]Value, 0, len(extra)+1)
		callArgs = append(callArgs, old)
		callArgs = append(callArgs, extra...)
		return Apply(f, callArgs)
	})
}
