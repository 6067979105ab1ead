package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/fractal"
)

// Default expressions draw the Mandelbrot set.
const (
	defaultInit  = "(x/w*3 - 2) + (y/h*3 - 1.5)*i"
	defaultFirst = "c"
	defaultIter  = "z*z + c"
)

type frame struct {
	img     *image.RGBA
	err     error
	shade   fractal.Shade
	elapsed time.Duration
}

type Game struct {
	exprs         [3]*fractal.Expr
	width, height int
	opts          []fractal.RenderOption
	shade         fractal.Shade

	frames    chan frame
	rendering bool
	// pending is set when a render is requested while one is running.
	pending bool
	view    *ebiten.Image
	status  string
}

func newGame(width, height int, srcs [3]string, opts []fractal.RenderOption) (*Game, error) {
	g := &Game{
		width:  width,
		height: height,
		opts:   opts,
		frames: make(chan frame, 1),
	}
	for i, src := range srcs {
		a, err := fractal.ParseString(src)
		if err != nil {
			return nil, err
		}
		g.exprs[i] = a
	}
	return g, nil
}

// render starts a render in the background. If one is already running, the
// new render starts when it finishes.
func (g *Game) render() {
	g.status = "rendering " + g.shade.String() + "..."
	if g.rendering {
		g.pending = true
		return
	}
	g.rendering = true
	shade := g.shade
	opts := append(g.opts[:len(g.opts):len(g.opts)], fractal.Shading(shade))
	go func() {
		start := time.Now()
		img, err := fractal.Render(g.exprs[0], g.exprs[1], g.exprs[2], g.width, g.height, opts...)
		g.frames <- frame{img: img, err: err, shade: shade, elapsed: time.Since(start)}
	}()
}

func (g *Game) toggleShade() {
	g.shade ^= 1
	g.render()
}

// receive handles a finished render and returns the image to show, if any.
func (g *Game) receive(f frame) *image.RGBA {
	g.rendering = false
	if g.pending {
		g.pending = false
		g.render()
	}
	if f.err != nil {
		log.Error().Err(f.err).Msg("render failed")
		g.status = "Error: " + f.err.Error()
		return nil
	}
	log.Debug().Dur("elapsed", f.elapsed).Stringer("shade", f.shade).Msg("rendered")
	if !g.rendering {
		g.status = fmt.Sprintf("%v in %v  [S] shading  [R] render  [Esc] quit", f.shade, f.elapsed.Round(time.Millisecond))
	}
	return f.img
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.toggleShade()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.render()
	}
	select {
	case f := <-g.frames:
		if img := g.receive(f); img != nil {
			if g.view != nil {
				g.view.Deallocate()
			}
			g.view = ebiten.NewImageFromImage(img)
		}
	default:
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.view != nil {
		screen.DrawImage(g.view, nil)
	}
	ebitenutil.DebugPrint(screen, g.status)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func main() {
	var (
		width, height, workers, iters int
		prec                          uint
		verbose                       bool
	)
	flag.IntVar(&width, "w", 640, "image width")
	flag.IntVar(&height, "h", 480, "image height")
	flag.IntVar(&workers, "workers", 0, "number of parallel render workers (default number of CPUs)")
	flag.IntVar(&iters, "iter", fractal.DefaultIterations, "maximum iterations per pixel")
	flag.UintVar(&prec, "prec", 0, "precision of arithmetic in bits (default complex128)")
	flag.BoolVar(&verbose, "v", false, "log render progress")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if width <= 0 || height <= 0 {
		log.Fatal().Int("width", width).Int("height", height).Msg("size must be positive")
	}
	if iters <= 0 {
		log.Fatal().Int("iter", iters).Msg("iterations must be positive")
	}

	srcs := [3]string{defaultInit, defaultFirst, defaultIter}
	switch flag.NArg() {
	case 0:
	case 3:
		copy(srcs[:], flag.Args())
	default:
		fmt.Fprintln(os.Stderr, "usage: fractalview [flags] [INIT FIRST ITER]")
		os.Exit(1)
	}
	g, err := newGame(width, height, srcs, []fractal.RenderOption{
		fractal.Workers(workers),
		fractal.Iterations(iters),
		fractal.Prec(prec),
		fractal.Logger(log.Logger),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	g.render()

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("fractal: " + srcs[2])
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal().Err(err).Msg("viewer failed")
	}
}
