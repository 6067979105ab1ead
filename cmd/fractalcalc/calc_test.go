package main

import (
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/zephyrtronium/fractal"
)

func TestCalcLines(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		re    string
		quit  bool
		echo  bool
	}{
		{"eval", []string{"1+2*3"}, `^\(7\+0i\) d/dc \(0\+0i\)\n$`, false, false},
		{"size", []string{":size 640 480", "w/h"}, `^\(1\.3333333333333333\+0i\) d/dc`, false, false},
		{"bad-size", []string{":size 0 480"}, `positive integers`, false, false},
		{"set", []string{":set c 1 + 2i", "c*c"}, `^\(-3\+4i\) d/dc \(0\+0i\)\n$`, false, false},
		{"set-unknown", []string{":set q 1"}, `"q" is not a variable`, false, false},
		{"set-error", []string{":set z 1/x"}, `^setting z: 3: divide by zero\n$`, false, false},
		{"parse-error", []string{"(1+2"}, `^4: unclosed \(\n$`, false, false},
		{"eval-error", []string{"1/0"}, `^Error: 3: divide by zero\n$`, false, false},
		{"vars", []string{":vars"}, `(?m)^w = \(1\+0i\).*\n(.*\n){4}z = `, false, false},
		{"help", []string{":help"}, `:set SLOT EXPR`, false, false},
		{"suggest", []string{":sze 1 2"}, `^unknown command :sze; did you mean :size\?\n$`, false, false},
		{"nothing", []string{":bogus"}, `^unknown command :bogus; try :help\n$`, false, false},
		{"quit", []string{":quit"}, `^$`, true, false},
		{"echo", []string{"x*w + c"}, `^\(\(\(x\) \* \(w\)\) \+ \(c\)\) \[c w x\] : \(0\+0i\) d/dc \(0\+0i\)\n$`, false, true},
		{"echo-const", []string{"2i"}, `^\(2i\) \[\] : \(0\+2i\) d/dc`, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var b strings.Builder
			k := calc{ctx: fractal.NewContext(1, 1), out: &b, echo: c.echo}
			var quit bool
			for _, line := range c.lines {
				quit = k.line(line)
			}
			if quit != c.quit {
				t.Errorf("quit should be %t", c.quit)
			}
			if !regexp.MustCompile(c.re).MatchString(b.String()) {
				t.Errorf("output %q does not match %s", b.String(), c.re)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	cases := map[string]string{
		":st":   ":set",
		":var":  ":vars",
		":hlp":  ":help",
		":xyzw": "",
	}
	for cmd, want := range cases {
		if got := suggest(cmd); got != want {
			t.Errorf("suggest(%q): want %q, got %q", cmd, want, got)
		}
	}
}

func TestHistoryPath(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("home directory does not come from $HOME on " + runtime.GOOS)
	}
	t.Setenv("HOME", "/home/gopher")
	if p, ok := historyPath(); !ok || p != filepath.Join("/home/gopher", historyFile) {
		t.Errorf("history at %q, %t", p, ok)
	}
	t.Setenv("HOME", "")
	if p, ok := historyPath(); ok {
		t.Errorf("history at %q with no home directory", p)
	}
}
