// Package printer renders values back to source text.
package printer

import (
	"strconv"
	"strings"

	"github.com/bshepherdson/mal/types"
)

var escaper = strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\"", "\\\"")

// PrintStr renders v. With readable set, strings are quoted and escaped so
// that the reader gives back an equal value.
func PrintStr(v types.Value, readable bool) string {
	switch d := v.(type) {
	case *types.List:
		return "(" + printSeq(d.Items, readable) + ")"

	case *types.Vector:
		return "[" + printSeq(d.Items, readable) + "]"

	case *types.Hashmap:
		outs := make([]string, 0, 2*d.Len())
		d.Each(func(k, val types.Value) {
			outs = append(outs, PrintStr(k, readable), PrintStr(val, readable))
		})
		return "{" + strings.Join(outs, " ") + "}"

	case types.String:
		if !readable {
			return string(d)
		}
		return "\"" + escaper.Replace(string(d)) + "\""

	case types.Integer:
		return strconv.Itoa(int(d))

	case types.Symbol:
		return string(d)

	case types.Keyword:
		return ":" + string(d)

	case types.Boolean:
		if d {
			return "true"
		}
		return "false"

	case types.NilValue:
		return "nil"

	case *types.Closure, *types.Native:
		return "#<function>"

	case *types.Atom:
		return "(atom " + PrintStr(d.Deref(), readable) + ")"
	}
	return "#<unknown>"
}

func printSeq(items []types.Value, readable bool) string {
	outs := make([]string, len(items))
	for i, m := range items {
		outs[i] = PrintStr(m, readable)
	}
	return strings.Join(outs, " ")
}
