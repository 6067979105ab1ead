package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/zephyrtronium/fractal"
)

// calc evaluates expressions and commands in a persistent context.
type calc struct {
	ctx  *fractal.Context
	out  io.Writer
	echo bool
}

var commands = []string{":help", ":quit", ":set", ":size", ":vars"}

const help = `Enter an expression to evaluate it, or a command:
  :set SLOT EXPR  evaluate EXPR and assign it to one of w h x y c z
  :size W H       set the image width and height
  :vars           show all variables
  :help           show this message
  :quit           exit
`

// line handles one line of input. The result is true if the user asked to
// quit.
func (c *calc) line(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, ":") {
		c.eval(s)
		return false
	}
	fields := strings.Fields(s)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprint(c.out, help)
	case ":vars":
		for _, v := range fractal.Variables {
			d, _ := c.ctx.Lookup(fractal.Slot(v))
			fmt.Fprintf(c.out, "%c = %v\n", v, d)
		}
	case ":set":
		if len(fields) < 3 {
			fmt.Fprintln(c.out, "usage: :set SLOT EXPR")
			break
		}
		// The expression may contain spaces.
		src := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s[len(":set"):]), fields[1]))
		if err := c.set(fields[1], src); err != nil {
			fmt.Fprintln(c.out, err)
		}
	case ":size":
		if len(fields) != 3 {
			fmt.Fprintln(c.out, "usage: :size W H")
			break
		}
		w, err1 := strconv.Atoi(fields[1])
		h, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
			fmt.Fprintln(c.out, "size must be two positive integers")
			break
		}
		c.ctx.Width, c.ctx.Height = float64(w), float64(h)
	default:
		if m := suggest(fields[0]); m != "" {
			fmt.Fprintf(c.out, "unknown command %s; did you mean %s?\n", fields[0], m)
		} else {
			fmt.Fprintf(c.out, "unknown command %s; try :help\n", fields[0])
		}
	}
	return false
}

// eval evaluates an expression and prints its value and derivative. The
// result is false if the expression has an error.
func (c *calc) eval(src string) bool {
	a, err := fractal.ParseString(src)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return false
	}
	if c.echo {
		vars := make([]string, 0, len(fractal.Variables))
		for _, v := range a.Vars() {
			vars = append(vars, v.String())
		}
		fmt.Fprintf(c.out, "%v [%s] : ", a, strings.Join(vars, " "))
	}
	r, err := c.ctx.Eval(a)
	if err != nil {
		fmt.Fprintln(c.out, "Error:", err)
		return false
	}
	fmt.Fprintln(c.out, r)
	return true
}

// set evaluates src and assigns the result to the variable named name.
func (c *calc) set(name, src string) error {
	s, ok := fractal.ParseSlot(name)
	if !ok {
		return fmt.Errorf("%q is not a variable; use one of %s", name, fractal.Variables)
	}
	r, err := fractal.EvalString(src, c.ctx)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	c.ctx.Set(s, r)
	return nil
}

// suggest finds the command closest to an unknown one.
func suggest(cmd string) string {
	ranks := fuzzy.RankFindFold(cmd, commands)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
