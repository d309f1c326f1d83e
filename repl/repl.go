// Package repl owns a top-level environment and runs read-eval-print over it.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/bshepherdson/mal/core"
	"github.com/bshepherdson/mal/eval"
	"github.com/bshepherdson/mal/printer"
	"github.com/bshepherdson/mal/reader"
	. "github.com/bshepherdson/mal/types"
)

type Options struct {
	// Out receives prn/println output. Defaults to os.Stdout.
	Out io.Writer
	// Args becomes *ARGV*.
	Args []string
	// Prelude files are loaded after the built-in prelude.
	Prelude []string
	// Trace defaults to T().
	Trace tracing.Trace
	// Verbose raises the trace level so that file loads are reported.
	Verbose bool
}

type Session struct {
	Env   *Env
	out   io.Writer
	trace tracing.Trace
}

// T traces to the global syntax tracer, creating a stderr tracer on first
// use if none has been configured.
func T() tracing.Trace {
	if gtrace.SyntaxTracer == nil {
		gtrace.SyntaxTracer = gologadapter.New()
	}
	return gtrace.SyntaxTracer
}

func New(opts Options) (*Session, error) {
	s := &Session{
		out:   opts.Out,
		trace: opts.Trace,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.trace == nil {
		s.trace = T()
	}
	if opts.Verbose && s.trace.GetTraceLevel() < tracing.LevelInfo {
		s.trace.SetTraceLevel(tracing.LevelInfo)
	}

	env, err := NewEnv(nil, nil, nil)
	if err != nil {
		return nil, err
	}
	s.Env = env

	for name, fn := range core.NS(s.out) {
		env.Set(Symbol(name), fn)
	}
	env.Set("eval", &Native{Name: "eval", Fn: s.evalNative})
	env.Set("load-file", &Native{Name: "load-file", Fn: s.loadFileNative})
	s.SetArgs(opts.Args)

	for _, src := range core.Prelude {
		s.trace.Debugf("prelude: %s", src)
		if _, err := s.Rep(src); err != nil {
			return nil, fmt.Errorf("prelude: %w", err)
		}
	}
	for _, path := range opts.Prelude {
		if err := s.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetArgs binds *ARGV* to a list of strings.
func (s *Session) SetArgs(args []string) {
	argv := make([]Value, len(args))
	for i, a := range args {
		argv[i] = String(a)
	}
	s.Env.Set("*ARGV*", NewList(argv...))
}

func (s *Session) Read(input string) (Value, error) {
	return reader.ReadStr(input)
}

func (s *Session) Eval(ast Value) (Value, error) {
	return eval.Eval(ast, s.Env)
}

func (s *Session) Print(v Value) string {
	return printer.PrintStr(v, true)
}

// Rep reads one form from input, evaluates it in the session environment and
// returns its readable rendering.
func (s *Session) Rep(input string) (string, error) {
	form, err := s.Read(input)
	if err != nil {
		return "", err
	}
	s.trace.Debugf("eval %s", printer.PrintStr(form, true))
	evald, err := s.Eval(form)
	if err != nil {
		return "", err
	}
	return s.Print(evald), nil
}

// LoadFile evaluates every form in the file at path.
func (s *Session) LoadFile(path string) error {
	s.trace.Infof("loading %s", path)
	_, err := s.loadFile(path)
	return err
}

func (s *Session) loadFile(path string) (Value, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load-file: %w", err)
	}
	form, err := reader.ReadStr("(do " + string(contents) + "\nnil)")
	if err != nil {
		return nil, fmt.Errorf("load-file %s: %w", path, err)
	}
	return s.Eval(form)
}

func (s *Session) evalNative(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("eval expects a single value as an argument")
	}
	return s.Eval(args[0])
}

func (s *Session) loadFileNative(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("load-file expects a single filename as a string")
	}
	path, ok := args[0].(String)
	if !ok {
		return nil, fmt.Errorf("load-file expects a single filename as a string")
	}
	return s.loadFile(string(path))
}

// Message maps an error to the text shown to the user.
func Message(err error) string {
	var (
		empty   *EmptyInputError
		parens  *UnbalancedParenthesesError
		quotes  *UnterminatedStringError
		unknown *UnknownSymbolError
		syntax  *SyntaxError
	)
	switch {
	case errors.As(err, &empty):
		return ""
	case errors.As(err, &parens):
		return "unbalanced parentheses"
	case errors.As(err, &quotes):
		return "unbalanced quotes"
	case errors.As(err, &unknown):
		return unknown.Error()
	case errors.As(err, &syntax):
		return syntax.Error()
	}
	return "error: " + err.Error()
}
