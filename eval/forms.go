package eval

import . "github.com/bshepherdson/mal/types"

func sfDef(list *List, env *Env) (Value, error) {
	if len(list.Items) != 3 {
		return nil, syntaxError(list, "def! takes a symbol and an expression")
	}
	name, ok := list.Items[1].(Symbol)
	if !ok {
		return nil, syntaxError(list, "first parameter of def! must be a symbol")
	}

	evald, err := Eval(list.Items[2], env)
	if err != nil {
		return nil, err
	}
	return env.Set(name, evald), nil
}

// sfFn builds a closure over env. The body is not evaluated until the
// closure is applied.
func sfFn(list *List, env *Env) (Value, error) {
	if len(list.Items) != 3 {
		return nil, syntaxError(list, "fn* takes a parameter list and a body")
	}
	raw, ok := Sequence(list.Items[1])
	if !ok {
		return nil, syntaxError(list, "function parameters must be a list or vector")
	}

	params := make([]Symbol, 0, len(raw))
	for i, p := range raw {
		name, ok := p.(Symbol)
		if !ok {
			return nil, syntaxError(list, "function parameter must be a symbol")
		}
		if name == "&" && i != len(raw)-2 {
			return nil, syntaxError(list, "exactly one name must follow '&'")
		}
		params = append(params, name)
	}

	c := &Closure{Params: params, Body: list.Items[2], Env: env}
	c.Fn = func(args []Value) (Value, error) {
		fnEnv, err := NewEnv(c.Env, c.Params, args)
		if err != nil {
			return nil, err
		}
		return Eval(c.Body, fnEnv)
	}
	return c, nil
}

func sfQuote(list *List, env *Env) (Value, error) {
	if len(list.Items) != 2 {
		return nil, syntaxError(list, "quote takes exactly one form")
	}
	return list.Items[1], nil
}

// quasiquote rewrites a template into cons/concat calls. Vectors are rebuilt
// the same way and converted back with vec.
func quasiquote(ast Value) Value {
	switch d := ast.(type) {
	case *List:
		if len(d.Items) == 2 {
			if head, ok := d.Items[0].(Symbol); ok && head == "unquote" {
				return d.Items[1]
			}
		}
		return qqItems(d.Items)
	case *Vector:
		return NewList(Symbol("vec"), qqItems(d.Items))
	case Symbol, *Hashmap:
		return NewList(Symbol("quote"), ast)
	}
	return ast
}

func qqItems(items []Value) Value {
	acc := Value(NewList())
	for i := len(items) - 1; i >= 0; i-- {
		elt := items[i]
		if l, ok := elt.(*List); ok && len(l.Items) == 2 {
			if head, ok := l.Items[0].(Symbol); ok && head == "splice-unquote" {
				acc = NewList(Symbol("concat"), l.Items[1], acc)
				continue
			}
		}
		acc = NewList(Symbol("cons"), quasiquote(elt), acc)
	}
	return acc
}
