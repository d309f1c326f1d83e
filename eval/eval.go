// Package eval implements the evaluator: special forms, function
// application, and the loop that keeps tail calls from growing the Go stack.
package eval

import (
	"github.com/bshepherdson/mal/printer"
	. "github.com/bshepherdson/mal/types"
)

// Special forms that return directly rather than continuing the loop.
var specialForms map[Symbol]func(list *List, env *Env) (Value, error)

func init() {
	specialForms = map[Symbol]func(list *List, env *Env) (Value, error){
		"def!":  sfDef,
		"fn*":   sfFn,
		"quote": sfQuote,
	}
}

// Eval evaluates ast in env. Forms in tail position (the body of let*, the
// last expression of do, the chosen branch of if, and the body of an applied
// closure) replace ast and env and go round the loop again instead of
// recursing.
func Eval(ast Value, env *Env) (Value, error) {
	for {
		list, ok := ast.(*List)
		if !ok {
			return evalAST(ast, env)
		}
		if len(list.Items) == 0 {
			return ast, nil
		}
		items := list.Items

		if sym, ok := items[0].(Symbol); ok {
			switch sym {
			case "let*":
				if len(items) != 3 {
					return nil, syntaxError(ast, "let* takes a binding list and an expression")
				}
				bindings, ok := Sequence(items[1])
				if !ok {
					return nil, syntaxError(ast, "first parameter of let* must be a list or vector")
				}
				if len(bindings)%2 != 0 {
					return nil, syntaxError(ast, "let* bindings must come in pairs")
				}

				letEnv, err := NewEnv(env, nil, nil)
				if err != nil {
					return nil, err
				}
				for i := 0; i < len(bindings); i += 2 {
					name, ok := bindings[i].(Symbol)
					if !ok {
						return nil, syntaxError(ast, "let* can only bind to a symbol")
					}
					evald, err := Eval(bindings[i+1], letEnv)
					if err != nil {
						return nil, err
					}
					letEnv.Set(name, evald)
				}

				ast = items[2]
				env = letEnv
				continue

			case "do":
				if len(items) == 1 {
					return Nil, nil
				}
				for _, expr := range items[1 : len(items)-1] {
					if _, err := Eval(expr, env); err != nil {
						return nil, err
					}
				}
				ast = items[len(items)-1]
				continue

			case "if":
				if len(items) != 3 && len(items) != 4 {
					return nil, syntaxError(ast, "if takes a condition and 1 or 2 branch expressions")
				}
				cond, err := Eval(items[1], env)
				if err != nil {
					return nil, err
				}
				if Truthy(cond) {
					ast = items[2]
				} else if len(items) == 4 {
					ast = items[3]
				} else {
					return Nil, nil
				}
				continue

			case "quasiquote":
				if len(items) != 2 {
					return nil, syntaxError(ast, "quasiquote takes exactly one form")
				}
				ast = quasiquote(items[1])
				continue
			}

			if sf, ok := specialForms[sym]; ok {
				return sf(list, env)
			}
		}

		evald, err := evalList(items, env)
		if err != nil {
			return nil, err
		}

		switch f := evald[0].(type) {
		case *Closure:
			newEnv, err := NewEnv(f.Env, f.Params, evald[1:])
			if err != nil {
				return nil, err
			}
			ast = f.Body
			env = newEnv
			continue // TCO
		case *Native:
			return f.Fn(evald[1:])
		}
		return nil, &NotCallableError{Value: evald[0]}
	}
}

func evalAST(ast Value, env *Env) (Value, error) {
	switch d := ast.(type) {
	case Symbol:
		return env.Get(d)

	case *Vector:
		evald, err := evalList(d.Items, env)
		if err != nil {
			return nil, err
		}
		return NewVector(evald...), nil

	case *Hashmap:
		m := NewHashmap()
		var firstErr error
		d.Each(func(k, v Value) {
			if firstErr != nil {
				return
			}
			evald, err := Eval(v, env)
			if err != nil {
				firstErr = err
				return
			}
			m.Set(k, evald)
		})
		if firstErr != nil {
			return nil, firstErr
		}
		return m, nil
	}
	return ast, nil
}

func evalList(list []Value, env *Env) ([]Value, error) {
	ret := make([]Value, 0, len(list))
	for _, expr := range list {
		evald, err := Eval(expr, env)
		if err != nil {
			return nil, err
		}
		ret = append(ret, evald)
	}
	return ret, nil
}

func syntaxError(form Value, msg string) error {
	return &SyntaxError{Form: printer.PrintStr(form, true), Msg: msg}
}
