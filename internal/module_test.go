package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tree writes files under a new temporary directory and returns it.
func tree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(src), 0666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestResolve(t *testing.T) {
	dir := tree(t, map[string]string{
		"main.ql":        "",
		"b.ql":           "",
		"sub/c.ql":       "",
		"data.txt":       "",
		"lib/shared.ql":  "",
		"lib/b.ql":       "",
		"folder.ql/x.ql": "",
	})
	from := filepath.Join(dir, "main.ql")
	in := NewInterpreter(WithPaths(filepath.Join(dir, "lib")))
	cases := map[string]struct {
		from string
		path string
		want string
	}{
		"Sibling":      {from, "b", "b.ql"},
		"Extension":    {from, "b.ql", "b.ql"},
		"OtherExt":     {from, "data.txt", "data.txt"},
		"Subdirectory": {from, "sub/c", "sub/c.ql"},
		"SearchPath":   {from, "shared", "lib/shared.ql"},
		"RelativeWins": {from, "b", "b.ql"},
		"NoFrom":       {"", "b", "lib/b.ql"},
		"Absolute":     {"", filepath.Join(dir, "sub", "c"), "sub/c.ql"},
		"Missing":      {from, "nope", ""},
		"Directory":    {from, "folder", ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := in.Loader.Resolve(c.from, c.path)
			if c.want == "" {
				if err == nil {
					t.Errorf("resolved %q to %q, expected error", c.path, got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			want := filepath.Join(dir, filepath.FromSlash(c.want))
			if got != want {
				t.Errorf("wrong resolution of %q: want %q, got %q", c.path, want, got)
			}
		})
	}
}

func TestPrefetch(t *testing.T) {
	dir := tree(t, map[string]string{
		"main.ql":   "a = import('a')\nprint(a.x)\n",
		"a.ql":      "b = import('sub/b')\nimport('missing')\nx = 1\n",
		"sub/b.ql":  "c = import('../c')\n",
		"c.ql":      "a = import('a')\n",
		"unused.ql": "x = 2\n",
	})
	in := NewInterpreter()
	if err := in.Loader.Prefetch(context.Background(), filepath.Join(dir, "main.ql")); err != nil {
		t.Fatal(err)
	}
	var got []string
	for k := range in.Loader.parsed {
		rel, err := filepath.Rel(dir, k)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, filepath.ToSlash(rel))
	}
	sort.Strings(got)
	want := []string{"a.ql", "c.ql", "main.ql", "sub/b.ql"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong prefetched modules (-want +got):\n%s", diff)
	}
}

func TestPrefetchCached(t *testing.T) {
	dir := tree(t, map[string]string{
		"main.ql": "import('a')\n",
		"a.ql":    "x = 1\n",
	})
	in := NewInterpreter()
	main := filepath.Join(dir, "main.ql")
	if err := in.Loader.Prefetch(context.Background(), main); err != nil {
		t.Fatal(err)
	}
	first, err := in.Loader.parseFile(filepath.Join(dir, "a.ql"))
	if err != nil {
		t.Fatal(err)
	}
	// The cache must serve the parsed program even after the file is gone.
	if err := os.Remove(filepath.Join(dir, "a.ql")); err != nil {
		t.Fatal(err)
	}
	second, err := in.Loader.parseFile(filepath.Join(dir, "a.ql"))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("parseFile did not use the cached program")
	}
}

func TestPrefetchErrors(t *testing.T) {
	t.Run("Syntax", func(t *testing.T) {
		dir := tree(t, map[string]string{
			"main.ql": "import('bad')\n",
			"bad.ql":  "x = = 1\n",
		})
		in := NewInterpreter()
		err := in.Loader.Prefetch(context.Background(), filepath.Join(dir, "main.ql"))
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("expected syntax error, got %v", err)
		}
		if se.Line != 1 {
			t.Errorf("wrong line: want 1, got %d", se.Line)
		}
	})
	t.Run("Missing", func(t *testing.T) {
		in := NewInterpreter()
		err := in.Loader.Prefetch(context.Background(), filepath.Join(t.TempDir(), "none.ql"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
	t.Run("Canceled", func(t *testing.T) {
		dir := tree(t, map[string]string{"main.ql": "x = 1\n"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		in := NewInterpreter()
		err := in.Loader.Prefetch(ctx, filepath.Join(dir, "main.ql"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancellation, got %v", err)
		}
	})
}
