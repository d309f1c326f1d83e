package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/xyproto/vt"

	"github.com/bshepherdson/mal/config"
	"github.com/bshepherdson/mal/reader"
	"github.com/bshepherdson/mal/repl"
)

const appName = "mal"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %s [flags]                      Start the REPL.
  %s [flags] <file> [args...]     Run a script; args become *ARGV*.

Flags:
`, appName, appName)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", os.Getenv("MAL_CONFIG"), "path to a YAML config file")
	verbose := flag.Bool("v", false, "log prelude and file loads")
	flag.Usage = usage
	flag.Parse()

	trace := repl.T()

	cfg, err := config.Load(*configPath)
	if err != nil {
		trace.Errorf("%s: %v", appName, err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Verbose = true
	}

	args := flag.Args()
	var argv []string
	if len(args) > 1 {
		argv = args[1:]
	}

	s, err := repl.New(repl.Options{
		Args:    argv,
		Prelude: cfg.Prelude,
		Trace:   trace,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		trace.Errorf("%s: %v", appName, err)
		os.Exit(1)
	}

	if len(args) > 0 {
		os.Exit(runScript(s, args[0], cfg))
	}
	os.Exit(runRepl(s, cfg))
}

func runScript(s *repl.Session, path string, cfg *config.Config) int {
	if err := s.LoadFile(path); err != nil {
		printError(cfg, repl.Message(err))
		return 1
	}
	return 0
}

func printError(cfg *config.Config, msg string) {
	if msg == "" {
		return
	}
	if cfg.Color {
		msg = vt.Red.Get(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}

func runRepl(s *repl.Session, cfg *config.Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readForm(ln, cfg.Prompt, cfg.ContinuationPrompt)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		out, err := s.Rep(code)
		if err != nil {
			printError(cfg, repl.Message(err))
			continue
		}
		if cfg.Color {
			out = vt.LightBlue.Get(out)
		}
		fmt.Println(out)
	}
}

// readForm keeps prompting while the text read so far is an unfinished
// form. It returns false on EOF.
func readForm(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := reader.ReadStr(src); perr != nil && reader.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
