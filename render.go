package fractal

import (
	"image"
	"image/color"
	"math/cmplx"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// DefaultIterations is the maximum number of iterations per pixel when no
// Iterations option is given.
const DefaultIterations = 200

// Escape is the magnitude at which z is considered to have escaped.
const Escape = 2.0

// Render renders an image of the given size. For each pixel, init is
// evaluated to obtain c, whose derivative is then set to 1; first is
// evaluated to obtain the first z; and iter is evaluated repeatedly to obtain
// each next z until |z| reaches Escape or the iteration limit is exhausted.
// The final z colors the pixel.
//
// Pixels are divided into contiguous ranges that render in parallel. If any
// evaluation fails, the result is nil along with the error from the earliest
// failing range. Panics if width or height is not positive.
func Render(init, first, iter *Expr, width, height int, opts ...RenderOption) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		panic("fractal: invalid image size " + strconv.Itoa(width) + "x" + strconv.Itoa(height))
	}
	p := defaultRenderctx()
	for _, opt := range opts {
		p = opt.renderOption(p)
	}
	spans := partition(width*height, p.workers)
	pix := make([][]uint8, len(spans))
	errs := make([]error, len(spans))
	base := NewContext(width, height)
	var g errgroup.Group
	for k, s := range spans {
		w := worker{
			init:  init.n,
			first: first.n,
			iter:  iter.n,
			ctx:   base.Clone(),
			p:     &p,
			width: width,
		}
		w.big = bigContext{bigArith: bigArith{p.prec}, ctx: w.ctx}
		g.Go(func() error {
			p.log.Debug().Int("worker", k).Int("start", s.start).Int("pixels", s.length).Msg("render range")
			pix[k], errs[k] = w.run(s)
			if errs[k] != nil {
				p.log.Debug().Int("worker", k).Err(errs[k]).Msg("range failed")
			}
			return errs[k]
		})
	}
	if g.Wait() != nil {
		// Report the earliest failure in pixel order rather than whichever
		// worker happened to fail first.
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for k, s := range spans {
		copy(img.Pix[4*s.start:], pix[k])
	}
	return img, nil
}

// span is a contiguous range of linear pixel indices.
type span struct {
	start, length int
}

// partition splits total pixels into workers equal spans, with the remainder
// added to the last. If there are fewer pixels than workers, the result is a
// single span.
func partition(total, workers int) []span {
	length := total / workers
	if length == 0 {
		return []span{{0, total}}
	}
	spans := make([]span, workers)
	for k := range spans {
		spans[k] = span{start: k * length, length: length}
	}
	spans[workers-1].length = total - (workers-1)*length
	return spans
}

// worker renders one span with its own context.
type worker struct {
	init, first, iter *node

	ctx   *Context
	p     *renderctx
	width int

	// big evaluates through ctx when the precision is nonzero.
	big bigContext
}

// run renders the pixels in s, returning them in RGBA byte order.
func (w *worker) run(s span) ([]uint8, error) {
	pix := make([]uint8, 0, 4*s.length)
	for n := s.start; n < s.start+s.length; n++ {
		c, err := w.pixel(n%w.width, n/w.width)
		if err != nil {
			return nil, err
		}
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return pix, nil
}

// pixel computes the color of one pixel.
func (w *worker) pixel(x, y int) (color.RGBA, error) {
	if w.p.prec != 0 {
		return w.bigPixel(x, y)
	}
	ctx := w.ctx
	ctx.X, ctx.Y = float64(x), float64(y)
	// Nothing carries over from the previous pixel.
	ctx.C, ctx.Z = Dual{}, Dual{}
	c, err := w.init.eval(ctx)
	if err != nil {
		return color.RGBA{}, err
	}
	c.D = 1
	ctx.C = c
	z, err := w.first.eval(ctx)
	if err != nil {
		return color.RGBA{}, err
	}
	escaped := -1
	for i := 0; i < w.p.iters; i++ {
		ctx.Z = z
		z, err = w.iter.eval(ctx)
		if err != nil {
			return color.RGBA{}, err
		}
		if cmplx.Abs(z.V) >= Escape {
			escaped = i
			break
		}
	}
	if w.p.shade == EscapeTime {
		return escapeColor(escaped, w.p.iters), nil
	}
	return distanceColor(distance(z, ctx.Width)), nil
}

// bigPixel computes the color of one pixel with big.Float arithmetic.
func (w *worker) bigPixel(x, y int) (color.RGBA, error) {
	b := &w.big
	b.ctx.X, b.ctx.Y = float64(x), float64(y)
	b.c, b.z = b.zero(), b.zero()
	c, err := w.init.evalBig(b)
	if err != nil {
		return color.RGBA{}, err
	}
	c.d = b.complex(1)
	b.c = c
	z, err := w.first.evalBig(b)
	if err != nil {
		return color.RGBA{}, err
	}
	escaped := -1
	for i := 0; i < w.p.iters; i++ {
		b.z = z
		z, err = w.iter.evalBig(b)
		if err != nil {
			return color.RGBA{}, err
		}
		if b.escaped(z.v) {
			escaped = i
			break
		}
	}
	if w.p.shade == EscapeTime {
		return escapeColor(escaped, w.p.iters), nil
	}
	return distanceColor(bigDistance(z, b.ctx.Width, b.bigArith)), nil
}
