// Package core provides the native functions every session starts with.
package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bshepherdson/mal/printer"
	"github.com/bshepherdson/mal/reader"
	. "github.com/bshepherdson/mal/types"
)

// NS returns the native namespace. Printing functions write to out.
func NS(out io.Writer) map[string]*Native {
	fns := map[string]NativeFunc{
		"+": arith("+", func(x, y int) int { return x + y }),
		"-": arith("-", func(x, y int) int { return x - y }),
		"*": arith("*", func(x, y int) int { return x * y }),
		"/": div,

		// Atoms
		"atom":   atom,
		"atom?":  atomQ,
		"deref":  deref,
		"reset!": atomReset,
		"swap!":  atomSwap,

		// Input
		"read-string": readString,
		"slurp":       slurp,

		// Output
		"pr-str": prStr,
		"str":    fStr,
		"prn": func(args []Value) (Value, error) {
			fmt.Fprintln(out, printList(args, true, " "))
			return Nil, nil
		},
		"println": func(args []Value) (Value, error) {
			fmt.Fprintln(out, printList(args, false, " "))
			return Nil, nil
		},

		// Lists
		"list":    mkList,
		"list?":   listQ,
		"vector":  mkVector,
		"vector?": vectorQ,
		"vec":     vec,
		"empty?":  emptyQ,
		"count":   count,
		"cons":    cons,
		"concat":  concat,
		"nth":     nth,
		"first":   first,
		"rest":    rest,

		// Comparisons
		"=":  equal,
		"<":  compare("<", func(x, y int) bool { return x < y }),
		"<=": compare("<=", func(x, y int) bool { return x <= y }),
		">":  compare(">", func(x, y int) bool { return x > y }),
		">=": compare(">=", func(x, y int) bool { return x >= y }),
	}

	ns := make(map[string]*Native, len(fns))
	for name, fn := range fns {
		ns[name] = &Native{Name: name, Fn: fn}
	}
	return ns
}

// Prelude holds functions defined in the language itself, evaluated in
// order when a session starts.
var Prelude = []string{
	"(def! not (fn* (a) (if a false true)))",
}

// Expects two Integer arguments; fails otherwise.
func prepNumbers(args []Value, op string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 args to %s, got %d", op, len(args))
	}

	x, ok1 := args[0].(Integer)
	y, ok2 := args[1].(Integer)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("arguments to %s must be numbers", op)
	}
	return int(x), int(y), nil
}

func arith(op string, fn func(x, y int) int) NativeFunc {
	return func(args []Value) (Value, error) {
		x, y, err := prepNumbers(args, op)
		if err != nil {
			return nil, err
		}
		return Integer(fn(x, y)), nil
	}
}

func div(args []Value) (Value, error) {
	x, y, err := prepNumbers(args, "/")
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	return Integer(x / y), nil
}

func compare(op string, fn func(x, y int) bool) NativeFunc {
	return func(args []Value) (Value, error) {
		x, y, err := prepNumbers(args, op)
		if err != nil {
			return nil, err
		}
		return Bool(fn(x, y)), nil
	}
}

func equal(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("= expects exactly 2 arguments")
	}
	return Bool(Equal(args[0], args[1])), nil
}

// Output
func printList(args []Value, readable bool, sep string) string {
	strs := make([]string, 0, len(args))
	for _, expr := range args {
		strs = append(strs, printer.PrintStr(expr, readable))
	}
	return strings.Join(strs, sep)
}

func prStr(args []Value) (Value, error) {
	return String(printList(args, true, " ")), nil
}

func fStr(args []Value) (Value, error) {
	return String(printList(args, false, "")), nil
}

// Input
func readString(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("read-string expects a single string arg")
	}
	s, ok := args[0].(String)
	if !ok {
		return nil, fmt.Errorf("read-string expects a single string arg")
	}
	return reader.ReadStr(string(s))
}

func slurp(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("slurp expects a single filename as a string")
	}
	filename, ok := args[0].(String)
	if !ok {
		return nil, fmt.Errorf("slurp expects a single filename as a string")
	}

	contents, err := os.ReadFile(string(filename))
	if err != nil {
		return nil, fmt.Errorf("slurp: %w", err)
	}
	return String(contents), nil
}

// Lists
func mkList(args []Value) (Value, error) {
	return NewList(append([]Value(nil), args...)...), nil
}

func mkVector(args []Value) (Value, error) {
	return NewVector(append([]Value(nil), args...)...), nil
}

func listQ(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("list? expects a single value")
	}
	_, ok := args[0].(*List)
	return Bool(ok), nil
}

func vectorQ(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("vector? expects a single value")
	}
	_, ok := args[0].(*Vector)
	return Bool(ok), nil
}

func vec(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("vec expects a list or vector")
	}
	items, ok := Sequence(args[0])
	if !ok {
		return nil, fmt.Errorf("vec expects a list or vector")
	}
	return NewVector(append([]Value(nil), items...)...), nil
}

func emptyQ(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("empty? expects a list")
	}
	if h, ok := args[0].(*Hashmap); ok {
		return Bool(h.Len() == 0), nil
	}
	items, ok := Sequence(args[0])
	if !ok {
		return nil, fmt.Errorf("empty? expects a list")
	}
	return Bool(len(items) == 0), nil
}

func count(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("count expects a list")
	}
	switch d := args[0].(type) {
	case NilValue:
		return Integer(0), nil
	case *Hashmap:
		return Integer(d.Len()), nil
	case String:
		return Integer(len(d)), nil
	}
	items, ok := Sequence(args[0])
	if !ok {
		return nil, fmt.Errorf("count expects a list")
	}
	return Integer(len(items)), nil
}

func cons(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("cons expects two arguments")
	}
	items, ok := Sequence(args[1])
	if !ok {
		return nil, fmt.Errorf("second argument to cons must be a list")
	}

	list := make([]Value, 0, len(items)+1)
	list = append(list, args[0])
	list = append(list, items...)
	return NewList(list...), nil
}

func concat(args []Value) (Value, error) {
	out := []Value{}
	for _, a := range args {
		items, ok := Sequence(a)
		if !ok {
			return nil, fmt.Errorf("concat expects all args to be lists")
		}
		out = append(out, items...)
	}
	return NewList(out...), nil
}

func nth(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("nth expects a list and number")
	}
	list, ok := Sequence(args[0])
	idx, isNum := args[1].(Integer)
	if !ok || !isNum {
		return nil, fmt.Errorf("nth expects a list and number")
	}
	if idx < 0 || int(idx) >= len(list) {
		return nil, fmt.Errorf("nth: index out of bounds")
	}
	return list[idx], nil
}

func first(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("first expects a list")
	}
	if args[0] == Nil {
		return Nil, nil
	}
	list, ok := Sequence(args[0])
	if !ok {
		return nil, fmt.Errorf("first expects a list")
	}
	if len(list) == 0 {
		return Nil, nil
	}
	return list[0], nil
}

func rest(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("rest expects a list")
	}
	if args[0] == Nil {
		return NewList(), nil
	}
	list, ok := Sequence(args[0])
	if !ok {
		return nil, fmt.Errorf("rest expects a list")
	}
	if len(list) == 0 {
		return NewList(), nil
	}
	return NewList(append([]Value(nil), list[1:]...)...), nil
}
