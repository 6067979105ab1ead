package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/fractal"
)

const historyFile = ".fractalcalc_history"

func main() {
	var (
		width, height int
		with          [][2]string
		echo          bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.IntVar(&width, "w", 1, "image width, read as w")
	flag.IntVar(&height, "h", 1, "image height, read as h")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.Parse()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()

	c := calc{ctx: fractal.NewContext(width, height), out: os.Stdout, echo: echo}
	for _, d := range with {
		if err := c.set(d[0], d[1]); err != nil {
			log.Fatal().Err(err).Str("name", d[0]).Msg("couldn't set variable")
		}
	}

	if flag.NArg() > 0 {
		ok := true
		for _, arg := range flag.Args() {
			ok = c.eval(arg) && ok
		}
		if !ok {
			os.Exit(1)
		}
		return
	}
	repl(&c)
}

func repl(c *calc) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		if !strings.HasPrefix(line, ":") {
			return nil
		}
		var r []string
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, line) {
				r = append(r, cmd+" ")
			}
		}
		return r
	})

	hist, ok := historyPath()
	if !ok {
		log.Warn().Msg("no home directory; history will not be saved")
	}
	if f, err := os.Open(hist); ok && err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	for {
		line, err := ln.Prompt("> ")
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				log.Error().Err(err).Msg("reading input")
			}
			fmt.Fprintln(c.out)
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if c.line(line) {
			break
		}
	}

	if !ok {
		return
	}
	if f, err := os.Create(hist); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
}

// historyPath returns the REPL history file in the user's home directory.
func historyPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, historyFile), true
}
