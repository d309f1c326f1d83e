package eval

import (
	"errors"
	"io"
	"runtime"
	"testing"

	"github.com/bshepherdson/mal/core"
	"github.com/bshepherdson/mal/printer"
	"github.com/bshepherdson/mal/reader"
	. "github.com/bshepherdson/mal/types"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	env, err := NewEnv(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, fn := range core.NS(io.Discard) {
		env.Set(Symbol(name), fn)
	}
	return env
}

func rep(env *Env, src string) (string, error) {
	form, err := reader.ReadStr(src)
	if err != nil {
		return "", err
	}
	v, err := Eval(form, env)
	if err != nil {
		return "", err
	}
	return printer.PrintStr(v, true), nil
}

func mustRep(t *testing.T, env *Env, src string) string {
	t.Helper()
	out, err := rep(env, src)
	if err != nil {
		t.Fatalf("%s: %v", src, err)
	}
	return out
}

// runAll evaluates the inputs in order in one fresh environment, checking
// the printed result of each.
func runAll(t *testing.T, steps [][2]string) {
	t.Helper()
	env := newTestEnv(t)
	for _, s := range steps {
		if got := mustRep(t, env, s[0]); got != s[1] {
			t.Errorf("%s => %s, want %s", s[0], got, s[1])
		}
	}
}

func TestSelfEvaluating(t *testing.T) {
	runAll(t, [][2]string{
		{"1", "1"},
		{`"s"`, `"s"`},
		{":k", ":k"},
		{"nil", "nil"},
		{"()", "()"},
		{"[1 (+ 1 1) [3]]", "[1 2 [3]]"},
		{"{:a (+ 1 2) \"b\" [(* 2 2)]}", `{:a 3 "b" [4]}`},
		{"(def! k :key)", ":key"},
		{"{k k}", "{k :key}"},
	})
}

func TestDef(t *testing.T) {
	runAll(t, [][2]string{
		{"(def! x 3)", "3"},
		{"x", "3"},
		{"(def! y (+ x 1))", "4"},
		{"(def! x y)", "4"},
		{"x", "4"},
	})
}

func TestLet(t *testing.T) {
	runAll(t, [][2]string{
		{"(let* (x 1) (let* (x 2) x))", "2"},
		{"(def! x 10)", "10"},
		{"(let* (x 1) (let* (x 2) x))", "2"},
		{"x", "10"},
		{"(let* (a 1 b (+ a 1)) b)", "2"},
		{"(let* [a 5 b [a a]] b)", "[5 5]"},
		{"(let* () 7)", "7"},
	})
}

func TestDo(t *testing.T) {
	runAll(t, [][2]string{
		{"(do (def! a 1) (def! b 2) (+ a b))", "3"},
		{"a", "1"},
		{"(do)", "nil"},
		{"(do 5)", "5"},
	})
}

func TestIf(t *testing.T) {
	runAll(t, [][2]string{
		{"(if true 1 2)", "1"},
		{"(if false 1 2)", "2"},
		{"(if nil 1 2)", "2"},
		{"(if 0 1 2)", "1"},
		{`(if "" 1 2)`, "1"},
		{"(if () 1 2)", "1"},
		{"(if [] 1 2)", "1"},
		{"(if false 1)", "nil"},
		{"(if true 1)", "1"},
	})
}

func TestFn(t *testing.T) {
	runAll(t, [][2]string{
		{"((fn* (a b) (+ a b)) 2 3)", "5"},
		{"((fn* [a] a) 7)", "7"},
		{"((fn* () 4))", "4"},
		{"(fn* (a) a)", "#<function>"},
		{"(def! make-adder (fn* (n) (fn* (x) (+ x n))))", "#<function>"},
		{"(def! add5 (make-adder 5))", "#<function>"},
		{"(add5 10)", "15"},
		{"((fn* (a & rest) rest) 1 2 3)", "(2 3)"},
		{"((fn* (a & rest) a) 1 2 3)", "1"},
		{"((fn* (& rest) (list? rest)) 1)", "true"},
		{"((fn* (a & rest) rest) 1)", "()"},
	})
}

func TestClosureCapturesByReference(t *testing.T) {
	runAll(t, [][2]string{
		{"(def! a 1)", "1"},
		{"(def! f (fn* () a))", "#<function>"},
		{"(def! a 2)", "2"},
		{"(f)", "2"},
		{"(def! fact (fn* (n) (if (<= n 1) 1 (* n (fact (- n 1))))))", "#<function>"},
		{"(fact 10)", "3628800"},
	})
}

func TestQuote(t *testing.T) {
	runAll(t, [][2]string{
		{"'a", "a"},
		{"'(1 b (c))", "(1 b (c))"},
		{"(def! b 2)", "2"},
		{"(def! c (list 3 4))", "(3 4)"},
		{"`(1 ~b ~@c)", "(1 2 3 4)"},
		{"`[1 ~b]", "[1 2]"},
		{"`b", "b"},
		{"`()", "()"},
		{"`(nested (~b))", "(nested (2))"},
	})
}

func TestEquality(t *testing.T) {
	runAll(t, [][2]string{
		{"(= (list 1 2) [1 2])", "true"},
		{"(= (list 1 2) (list 1 3))", "false"},
		{"(= {:a [1]} {:a (list 1)})", "true"},
		{`(= "a" 'a)`, "false"},
		{"(= {[1] 2} {[1] 2})", "true"},
		{"(= {[1] 2} {[1] 3})", "false"},
	})
}

func TestAtoms(t *testing.T) {
	runAll(t, [][2]string{
		{"(def! at (atom 5))", "(atom 5)"},
		{"(swap! at (fn* (v) (+ v 1)))", "6"},
		{"@at", "6"},
		{"(swap! at + 10)", "16"},
		{"(swap! at (fn* (v a b) (- v (+ a b))) 1 2)", "13"},
		{"(deref at)", "13"},
		{"(reset! at :done)", ":done"},
		{"(atom? at)", "true"},
		{"(def! b (atom 1))", "(atom 1)"},
		{"(swap! b (fn* (v) (do (swap! b (fn* (c) (+ c 1))) v)))", "1"},
		{"(swap! b (fn* (v) (do (reset! b 100) (+ v 1))))", "2"},
		{"@b", "2"},
	})
}

func TestEvalErrors(t *testing.T) {
	var (
		unknown *UnknownSymbolError
		notCall *NotCallableError
		syntax  *SyntaxError
		arity   *BindingArityError
	)

	cases := []struct {
		src    string
		target interface{}
	}{
		{"(foo)", &unknown},
		{"(1 2 3)", &notCall},
		{`("f")`, &notCall},
		{"(def! x)", &syntax},
		{"(def! 1 2)", &syntax},
		{"(def! x 1 2)", &syntax},
		{"(let* (a) a)", &syntax},
		{"(let* a 1)", &syntax},
		{"(let* (1 2) 3)", &syntax},
		{"(let* (a 1))", &syntax},
		{"(if)", &syntax},
		{"(if 1)", &syntax},
		{"(if 1 2 3 4)", &syntax},
		{"(fn* a b)", &syntax},
		{"(fn* (1) 1)", &syntax},
		{"(fn* (a &) a)", &syntax},
		{"(fn* (a))", &syntax},
		{"(quote)", &syntax},
		{"((fn* (a) a))", &arity},
		{"((fn* (a) a) 1 2)", &arity},
		{"((fn* (a b & c) a) 1)", &arity},
	}

	for _, c := range cases {
		env := newTestEnv(t)
		_, err := rep(env, c.src)
		if !errors.As(err, c.target) {
			t.Errorf("%s: got %T (%v)", c.src, err, err)
		}
	}

	env := newTestEnv(t)
	_, err := rep(env, "(foo)")
	var unknownFoo *UnknownSymbolError
	if !errors.As(err, &unknownFoo) || unknownFoo.Name != "foo" {
		t.Errorf("unknown symbol name: %v", err)
	}

	_, err = rep(env, "(let* (x) x)")
	var letErr *SyntaxError
	if !errors.As(err, &letErr) || letErr.Form != "(let* (x) x)" {
		t.Errorf("syntax error should name the form: %v", err)
	}
}

func TestFailureLeavesStateIntact(t *testing.T) {
	env := newTestEnv(t)
	mustRep(t, env, "(def! x 1)")
	mustRep(t, env, "(def! a (atom 1))")

	if _, err := rep(env, "(def! x (undefined))"); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := rep(env, "(swap! a (fn* (v) (undefined v)))"); err == nil {
		t.Fatal("expected an error")
	}
	if got := mustRep(t, env, "x"); got != "1" {
		t.Errorf("x = %s", got)
	}
	if got := mustRep(t, env, "@a"); got != "1" {
		t.Errorf("@a = %s", got)
	}
}

func TestTailCalls(t *testing.T) {
	env := newTestEnv(t)
	mustRep(t, env, "(def! sum (fn* (n acc) (if (= n 0) acc (sum (- n 1) (+ acc n)))))")
	if got := mustRep(t, env, "(sum 100000 0)"); got != "5000050000" {
		t.Errorf("sum = %s", got)
	}
}

// The Go stack depth seen at the base case of a tail-recursive loop must not
// depend on how many iterations ran before it.
func TestTailCallStackDepth(t *testing.T) {
	env := newTestEnv(t)

	var depth int
	env.Set("probe", &Native{Name: "probe", Fn: func(args []Value) (Value, error) {
		pcs := make([]uintptr, 1<<16)
		depth = runtime.Callers(0, pcs)
		return Nil, nil
	}})

	programs := []string{
		"(def! loop (fn* (n) (if (= n 0) (probe) (loop (- n 1)))))",
		"(def! loop (fn* (n) (let* (m (- n 1)) (do nil (if (< m 0) (probe) (loop m))))))",
	}
	for _, prog := range programs {
		mustRep(t, env, prog)

		mustRep(t, env, "(loop 10)")
		shallow := depth
		mustRep(t, env, "(loop 100000)")
		deep := depth

		if shallow == 0 || deep != shallow {
			t.Errorf("%s: stack depth %d after 10 iterations, %d after 100000", prog, shallow, deep)
		}
	}
}
