package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/quill"
	// import for side effects
	_ "github.com/zephyrtronium/quill/coreext"
)

func main() {
	var cfgPath, logLevel, expr string
	flag.StringVar(&cfgPath, "config", "", "YAML configuration file")
	flag.StringVar(&logLevel, "log-level", "", "minimum level of logged diagnostics (debug, info, warn, error)")
	flag.StringVar(&expr, "e", "", "evaluate a program given on the command line")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [script [args...]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fail(err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	opts, err := cfg.options()
	if err != nil {
		fail(err)
	}
	opts = append(opts, quill.WithArgs(flag.Args()...))
	in := quill.NewInterpreter(opts...)
	for _, file := range cfg.Prelude {
		if err := prelude(in, file); err != nil {
			fail(err)
		}
	}

	switch {
	case expr != "":
		_, err := in.DoString(expr, "<command line>")
		os.Exit(report(os.Stderr, err))
	case flag.NArg() > 0:
		os.Exit(script(in, flag.Arg(0)))
	default:
		interactive(in, cfg.historyFile())
	}
}

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// prelude runs a file in the interpreter's root context.
func prelude(in *quill.Interpreter, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("couldn't open prelude: %w", err)
	}
	defer f.Close()
	prog, err := quill.Parse(f, file)
	if err != nil {
		return err
	}
	_, err = in.Exec(prog, in.Root)
	return err
}

// script runs a file, returning the process exit status.
func script(in *quill.Interpreter, file string) int {
	if err := in.Loader.Prefetch(context.Background(), file); err != nil {
		in.Logger.Warn("prefetch failed", "file", file, "err", err)
	}
	_, err := in.DoFile(file)
	return report(os.Stderr, err)
}

// report writes err, if any, and returns the corresponding exit status.
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(w, err)
	return 1
}

// A prompter reads one line of input after displaying a prompt. It returns
// io.EOF at the end of input. *liner.State is the interactive prompter.
type prompter interface {
	Prompt(prompt string) (string, error)
}

const (
	mainPrompt = "quill> "
	contPrompt = "...    "
)

// readProgram reads lines from p until they form a complete program or one
// with a syntax error other than an unclosed block. An aborted prompt
// discards the lines read so far. The returned source is empty only if the
// prompter failed.
func readProgram(p prompter, n *int) (string, *quill.Program, error) {
	var src strings.Builder
	prompt := mainPrompt
	for {
		line, err := p.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			src.Reset()
			prompt = mainPrompt
			continue
		}
		if err != nil {
			return "", nil, err
		}
		src.WriteString(line)
		src.WriteByte('\n')
		*n++
		prog, err := quill.ParseString(src.String(), fmt.Sprintf("<stdin %d>", *n))
		var se *quill.SyntaxError
		if errors.As(err, &se) && se.Incomplete {
			prompt = contPrompt
			continue
		}
		return src.String(), prog, err
	}
}

// repl reads and runs programs from p until EOF, printing results to w.
// Input that ends inside an open block or bracket keeps reading with a
// continuation prompt.
func repl(in *quill.Interpreter, p prompter, w io.Writer) {
	ctx := in.NewScope().WithOutput(func(s string) { io.WriteString(w, s) })
	h, _ := p.(interface{ AppendHistory(string) })
	n := 0
	for {
		src, prog, err := readProgram(p, &n)
		if src == "" {
			// Reading failed before any input.
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(os.Stderr, err)
			}
			break
		}
		if h != nil && strings.TrimSpace(src) != "" {
			h.AppendHistory(strings.TrimRight(src, "\n"))
		}
		if err != nil {
			report(w, err)
			continue
		}
		res, err := in.Exec(prog, ctx)
		if err != nil {
			report(w, err)
			continue
		}
		if v := res.Value(); v != quill.Null {
			if s, stop := res.Normal().Stringify(v); stop == quill.NoStop {
				fmt.Fprintln(w, quill.Display(s))
			} else {
				fmt.Fprintln(w, quill.Display(v))
			}
		}
	}
	fmt.Fprintln(w)
}

// interactive runs the REPL on the terminal with line editing and history.
func interactive(in *quill.Interpreter, history string) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if history != "" {
		if f, err := os.Open(history); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				in.Logger.Warn("couldn't read history", "file", history, "err", err)
			}
			f.Close()
		}
	}
	repl(in, ln, os.Stdout)
	if history == "" {
		return
	}
	f, err := os.Create(history)
	if err != nil {
		in.Logger.Warn("couldn't save history", "file", history, "err", err)
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		in.Logger.Warn("couldn't save history", "file", history, "err", err)
	}
}
