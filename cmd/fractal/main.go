package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/zephyrtronium/fractal"
)

func main() {
	var (
		workers, iters int
		shade          string
		prec           uint
		echo, verbose  bool
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] INIT FIRST ITER WIDTH HEIGHT OUTPUT\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.IntVar(&workers, "workers", 0, "number of parallel render workers (default number of CPUs)")
	flag.IntVar(&iters, "iter", fractal.DefaultIterations, "maximum iterations per pixel")
	flag.StringVar(&shade, "shade", fractal.DistanceEstimate.String(), "shading, de or escape")
	flag.UintVar(&prec, "prec", 0, "precision of arithmetic in bits (default complex128)")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&verbose, "v", false, "log render progress")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() != 6 {
		flag.Usage()
		os.Exit(1)
	}
	args := flag.Args()
	width, err := dimension("width", args[3])
	if err != nil {
		fatal(err)
	}
	height, err := dimension("height", args[4])
	if err != nil {
		fatal(err)
	}
	enc, err := encoder(args[5])
	if err != nil {
		fatal(err)
	}
	sh, ok := fractal.ParseShade(shade)
	if !ok {
		fatal(fmt.Errorf("unknown shading %q", shade))
	}
	if iters <= 0 {
		fatal(fmt.Errorf("iterations (%d) must be positive", iters))
	}

	var exprs [3]*fractal.Expr
	for i, src := range args[:3] {
		a, err := fractal.ParseString(src)
		if err != nil {
			// Parse errors carry their own position.
			fatal(err)
		}
		if echo {
			fmt.Println(describe([...]string{"init", "first", "iter"}[i], a))
		}
		exprs[i] = a
	}

	start := time.Now()
	img, err := fractal.Render(exprs[0], exprs[1], exprs[2], width, height,
		fractal.Workers(workers),
		fractal.Iterations(iters),
		fractal.Shading(sh),
		fractal.Prec(prec),
		fractal.Logger(log.Logger),
	)
	if err != nil {
		fatal(fmt.Errorf("Error: %w", err))
	}
	log.Debug().Dur("elapsed", time.Since(start)).Int("width", width).Int("height", height).Msg("rendered")

	if err := save(args[5], img, enc); err != nil {
		fatal(err)
	}
}

// describe formats a parse tree with the variables it reads.
func describe(name string, a *fractal.Expr) string {
	var vars []string
	for _, v := range a.Vars() {
		vars = append(vars, v.String())
	}
	return fmt.Sprintf("%s : %v [%s]", name, a, strings.Join(vars, " "))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// dimension parses a positive image dimension.
func dimension(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			err = ne.Err
		}
		return 0, fmt.Errorf("%s %q: %w", name, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s (%d) must be positive", name, n)
	}
	return n, nil
}

// encodeFunc writes an image in some format.
type encodeFunc func(io.Writer, image.Image) error

// encoder selects an image encoder by the extension of the output file name.
func encoder(name string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unknown image format for %q", name)
	}
}

func save(name string, img image.Image, enc encodeFunc) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("couldn't create output: %w", err)
	}
	if err := enc(f, img); err != nil {
		f.Close()
		return fmt.Errorf("couldn't encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("couldn't write %s: %w", name, err)
	}
	log.Info().Str("file", name).Msg("saved")
	return nil
}
