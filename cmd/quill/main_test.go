package main

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterh/liner"

	"github.com/zephyrtronium/quill"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want *config
		err  bool
	}{
		"Full": {
			yaml: "paths: [lib, vendor]\nlog_level: debug\nprelude: [init.ql]\nlocale: de\nhistory: none\n",
			want: &config{Paths: []string{"lib", "vendor"}, LogLevel: "debug", Prelude: []string{"init.ql"}, Locale: "de", History: "none"},
		},
		"Empty": {
			yaml: "",
			want: &config{},
		},
		"Unknown": {
			yaml: "colour: blue\n",
			err:  true,
		},
		"Malformed": {
			yaml: "paths: [\n",
			err:  true,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := loadConfig(writeFile(t, "quill.yaml", c.yaml))
			if c.err {
				if err == nil {
					t.Errorf("expected error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.want, cfg); diff != "" {
				t.Errorf("wrong config (-want +got):\n%s", diff)
			}
		})
	}
	t.Run("NoPath", func(t *testing.T) {
		cfg, err := loadConfig("")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(&config{}, cfg); diff != "" {
			t.Errorf("wrong config (-want +got):\n%s", diff)
		}
	})
	t.Run("Missing", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}

func TestLevel(t *testing.T) {
	cases := map[string]struct {
		in   string
		want slog.Level
		err  bool
	}{
		"Default": {in: "", want: slog.LevelWarn},
		"Debug":   {in: "debug", want: slog.LevelDebug},
		"Upper":   {in: "ERROR", want: slog.LevelError},
		"Offset":  {in: "info+2", want: slog.LevelInfo + 2},
		"Bad":     {in: "loud", err: true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config{LogLevel: c.in}
			got, err := cfg.level()
			if c.err {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("wrong level: want %v, got %v", c.want, got)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := config{Paths: []string{"lib"}, Locale: "fr-CA"}
	opts, err := cfg.options()
	if err != nil {
		t.Fatal(err)
	}
	in := quill.NewInterpreter(opts...)
	if diff := cmp.Diff([]string{"lib"}, in.Paths); diff != "" {
		t.Errorf("wrong paths (-want +got):\n%s", diff)
	}
	if got := in.Locale.String(); got != "fr-CA" {
		t.Errorf("wrong locale: %s", got)
	}

	for name, bad := range map[string]config{"Locale": {Locale: "!!"}, "Level": {LogLevel: "loud"}} {
		t.Run(name, func(t *testing.T) {
			if _, err := bad.options(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPrelude(t *testing.T) {
	var out strings.Builder
	in := quill.NewInterpreter(quill.WithOutput(&out))
	if err := prelude(in, writeFile(t, "init.ql", "greeting = 'hi'\ndef shout(s) {\nreturn s.upper()\n}\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := in.DoString("print(shout(greeting))", "main.ql"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "HI\n" {
		t.Errorf("wrong output: %q", got)
	}
	if err := prelude(in, writeFile(t, "bad.ql", "x = (\n")); err == nil {
		t.Error("expected error from malformed prelude")
	}
	if err := prelude(in, filepath.Join(t.TempDir(), "none.ql")); err == nil {
		t.Error("expected error from missing prelude")
	}
}

func TestReport(t *testing.T) {
	var w strings.Builder
	if got := report(&w, nil); got != 0 || w.Len() != 0 {
		t.Errorf("nil error: status %d, output %q", got, w.String())
	}
	if got := report(&w, errors.New("boom")); got != 1 || w.String() != "boom\n" {
		t.Errorf("error: status %d, output %q", got, w.String())
	}
}

func TestREPL(t *testing.T) {
	input := strings.Join([]string{
		"x = 2",
		"x * 21",
		"def f() {",
		"return 'hi'",
		"}",
		"f()",
		"print('out')",
		"throw 'up'",
		"undefinedThing",
		"x",
	}, "\n") + "\n"
	want := "quill> " +
		"quill> 42\n" +
		"quill> ...    ...    " +
		"quill> hi\n" +
		"quill> out\n" +
		"quill> Exception: up\n\tthrow 'up'\t<stdin 8>:1\n" +
		"quill> <stdin 9>:1: internal error: unresolved reference \"undefinedThing\"\n" +
		"quill> 2\n" +
		"quill> \n"
	var out strings.Builder
	in := quill.NewInterpreter()
	repl(in, &scanPrompter{sc: bufio.NewScanner(strings.NewReader(input)), w: &out}, &out)
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("wrong transcript (-want +got):\n%s", diff)
	}
}

// scanPrompter is a prompter reading lines from a scanner and writing
// prompts to w, as a terminal would show them.
type scanPrompter struct {
	sc *bufio.Scanner
	w  io.Writer
}

func (p *scanPrompter) Prompt(prompt string) (string, error) {
	io.WriteString(p.w, prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.sc.Text(), nil
}

// scriptPrompter replays canned responses and records history.
type scriptPrompter struct {
	lines   []string
	errs    []error
	history []string
}

func (p *scriptPrompter) Prompt(prompt string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line, err := p.lines[0], p.errs[0]
	p.lines, p.errs = p.lines[1:], p.errs[1:]
	return line, err
}

func (p *scriptPrompter) AppendHistory(s string) {
	p.history = append(p.history, s)
}

func TestREPLAbort(t *testing.T) {
	p := &scriptPrompter{
		lines: []string{"def f() {", "", "print('fresh')", "if true {", "print('block')", "}"},
		errs:  []error{nil, liner.ErrPromptAborted, nil, nil, nil, nil},
	}
	var out strings.Builder
	repl(quill.NewInterpreter(), p, &out)
	if got := out.String(); got != "fresh\nblock\n\n" {
		t.Errorf("wrong output: %q", got)
	}
	want := []string{"print('fresh')", "if true {\nprint('block')\n}"}
	if diff := cmp.Diff(want, p.history); diff != "" {
		t.Errorf("wrong history (-want +got):\n%s", diff)
	}
}

func TestReadProgram(t *testing.T) {
	cases := map[string]struct {
		lines []string
		src   string
		err   bool
	}{
		"Single":     {[]string{"x = 1"}, "x = 1\n", false},
		"Block":      {[]string{"while false {", "x = 1", "}", "never"}, "while false {\nx = 1\n}\n", false},
		"Bracket":    {[]string{"l = [1,", "2]"}, "l = [1,\n2]\n", false},
		"Error":      {[]string{"x = = 1", "never"}, "x = = 1\n", true},
		"EOFInBlock": {[]string{"if true {"}, "", true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			p := &scriptPrompter{lines: c.lines, errs: make([]error, len(c.lines))}
			n := 0
			src, prog, err := readProgram(p, &n)
			if src != c.src {
				t.Errorf("wrong source: want %q, got %q", c.src, src)
			}
			if (err != nil) != c.err {
				t.Errorf("wrong error: %v", err)
			}
			if err == nil && prog == nil {
				t.Error("no program")
			}
		})
	}
}

func TestHistoryFile(t *testing.T) {
	t.Setenv("HOME", "/home/quill")
	cases := map[string]struct {
		history string
		want    string
	}{
		"Default":  {"", filepath.Join("/home/quill", ".quill_history")},
		"None":     {"none", ""},
		"Explicit": {"/tmp/h", "/tmp/h"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config{History: c.history}
			if got := cfg.historyFile(); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}
