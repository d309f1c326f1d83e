package printer

import (
	"testing"

	"github.com/bshepherdson/mal/types"
)

func TestPrintStr(t *testing.T) {
	m := types.NewHashmap()
	m.Set(types.Keyword("b"), types.Integer(2))
	m.Set(types.String("a"), types.NewList())

	cases := []struct {
		v        types.Value
		readable bool
		want     string
	}{
		{types.Integer(-3), true, "-3"},
		{types.Symbol("foo"), true, "foo"},
		{types.Keyword("kw"), true, ":kw"},
		{types.Nil, true, "nil"},
		{types.True, true, "true"},
		{types.False, false, "false"},
		{types.String("a\"b\\c\nd"), true, `"a\"b\\c\nd"`},
		{types.String("a\"b\\c\nd"), false, "a\"b\\c\nd"},
		{types.NewList(types.Integer(1), types.String("x")), true, `(1 "x")`},
		{types.NewList(types.Integer(1), types.String("x")), false, `(1 x)`},
		{types.NewVector(types.NewVector(), types.NewList()), true, "[[] ()]"},
		{m, true, `{:b 2 "a" ()}`},
		{types.NewHashmap(), true, "{}"},
		{&types.Native{Name: "+"}, true, "#<function>"},
		{&types.Closure{}, true, "#<function>"},
		{types.NewAtom(types.String("s")), true, `(atom "s")`},
	}

	for _, c := range cases {
		if got := PrintStr(c.v, c.readable); got != c.want {
			t.Errorf("PrintStr(%#v, %v) = %q, want %q", c.v, c.readable, got, c.want)
		}
	}
}
