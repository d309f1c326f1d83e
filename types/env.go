package types

// Env is one frame of the lexical scope chain. The outer link is fixed at
// creation, so frames form a DAG rooted at the global frame.
type Env struct {
	data  map[Symbol]Value
	outer *Env
}

// NewEnv creates a frame under outer and binds binds to exprs positionally.
// A bind of "&" gathers the remaining exprs into a List bound to the name
// after it.
func NewEnv(outer *Env, binds []Symbol, exprs []Value) (*Env, error) {
	fixed, variadic := len(binds), false
	for i, b := range binds {
		if b == "&" {
			if i != len(binds)-2 {
				return nil, &SyntaxError{Msg: "exactly one name must follow '&'"}
			}
			fixed, variadic = i, true
			break
		}
	}

	if len(exprs) < fixed || (!variadic && len(exprs) > fixed) {
		return nil, &BindingArityError{Want: fixed, Got: len(exprs), Variadic: variadic}
	}

	env := &Env{map[Symbol]Value{}, outer}
	for i := 0; i < fixed; i++ {
		env.Set(binds[i], exprs[i])
	}
	if variadic {
		rest := make([]Value, len(exprs)-fixed)
		copy(rest, exprs[fixed:])
		env.Set(binds[fixed+1], NewList(rest...))
	}
	return env, nil
}

func (e *Env) Set(key Symbol, value Value) Value {
	e.data[key] = value
	return value
}

// Find returns the innermost frame binding key, or nil.
func (e *Env) Find(key Symbol) *Env {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.data[key]; ok {
			return env
		}
	}
	return nil
}

func (e *Env) Get(key Symbol) (Value, error) {
	env := e.Find(key)
	if env == nil {
		return nil, &UnknownSymbolError{Name: key}
	}
	return env.data[key], nil
}

func (e *Env) Outer() *Env {
	return e.outer
}
