package types

import "fmt"

// EmptyInputError is returned when the reader is given no tokens at all,
// e.g. blank input or a line holding only a comment.
type EmptyInputError struct{}

func (*EmptyInputError) Error() string {
	return "empty input"
}

// UnbalancedParenthesesError covers every way of running off the token
// stream or meeting a closing bracket that does not match. EOF is set when
// more input could complete the form.
type UnbalancedParenthesesError struct {
	Expected string
	Got      string
	EOF      bool
}

func (e *UnbalancedParenthesesError) Error() string {
	if e.EOF {
		return fmt.Sprintf("unbalanced parentheses: expected '%s', got EOF", e.Expected)
	}
	if e.Expected == "" {
		return fmt.Sprintf("unbalanced parentheses: unexpected '%s'", e.Got)
	}
	return fmt.Sprintf("unbalanced parentheses: expected '%s', got '%s'", e.Expected, e.Got)
}

type UnterminatedStringError struct {
	Token string
}

func (e *UnterminatedStringError) Error() string {
	return fmt.Sprintf("unbalanced quotes: %s", e.Token)
}

// SyntaxError reports a malformed form. Form is the printed offending form.
type SyntaxError struct {
	Form string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Form == "" {
		return "syntax error: " + e.Msg
	}
	return fmt.Sprintf("syntax error: %s in %s", e.Msg, e.Form)
}

type UnknownSymbolError struct {
	Name Symbol
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("'%s' not found", string(e.Name))
}

type NotCallableError struct {
	Value Value
}

func (e *NotCallableError) Error() string {
	return "cannot call non-function " + describe(e.Value)
}

type BindingArityError struct {
	Want     int
	Got      int
	Variadic bool
}

func (e *BindingArityError) Error() string {
	if e.Variadic {
		return fmt.Sprintf("wrong number of arguments: expected at least %d, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("wrong number of arguments: expected %d, got %d", e.Want, e.Got)
}

func describe(v Value) string {
	switch d := v.(type) {
	case nil:
		return "<nil>"
	case Symbol:
		return string(d)
	case Keyword:
		return ":" + string(d)
	case Integer:
		return fmt.Sprint(int(d))
	case Boolean:
		return fmt.Sprint(bool(d))
	case String:
		return fmt.Sprintf("%q", string(d))
	case NilValue:
		return "nil"
	case *List:
		return "list"
	case *Vector:
		return "vector"
	case *Hashmap:
		return "hash-map"
	case *Atom:
		return "atom"
	}
	return fmt.Sprintf("%T", v)
}
