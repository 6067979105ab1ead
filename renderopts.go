package fractal

import (
	"runtime"
	"strconv"

	"github.com/rs/zerolog"
)

// RenderOption is an option for rendering.
type RenderOption interface {
	renderOption(renderctx) renderctx
}

type (
	workersopt int
	itersopt   int
	shadeopt   Shade
	precopt    uint
	logopt     struct {
		log zerolog.Logger
	}
)

// renderctx holds the settings for one render. Workers share it read-only.
type renderctx struct {
	// workers is the number of ranges to split the image into.
	workers int
	// iters is the maximum number of evaluations of the iter expression per
	// pixel.
	iters int
	// shade selects the coloring.
	shade Shade
	// prec is the precision in bits for evaluating expressions, or 0 to use
	// complex128.
	prec uint
	log  zerolog.Logger
}

func defaultRenderctx() renderctx {
	return renderctx{
		workers: runtime.NumCPU(),
		iters:   DefaultIterations,
		shade:   DistanceEstimate,
		log:     zerolog.Nop(),
	}
}

// Workers sets the number of workers that render contiguous ranges of pixels
// in parallel. If n is not positive, the number of CPUs is used. The rendered
// image does not depend on the number of workers.
func Workers(n int) RenderOption {
	return workersopt(n)
}

func (o workersopt) renderOption(p renderctx) renderctx {
	p.workers = int(o)
	if p.workers <= 0 {
		p.workers = runtime.NumCPU()
	}
	return p
}

// Iterations sets the maximum number of iterations per pixel. Panics if n is
// not positive.
func Iterations(n int) RenderOption {
	if n <= 0 {
		panic("fractal: non-positive iteration count " + strconv.Itoa(n))
	}
	return itersopt(n)
}

func (o itersopt) renderOption(p renderctx) renderctx {
	p.iters = int(o)
	return p
}

// Shading sets how pixels are colored.
func Shading(s Shade) RenderOption {
	return shadeopt(s)
}

func (o shadeopt) renderOption(p renderctx) renderctx {
	p.shade = Shade(o)
	return p
}

// Prec sets the precision in bits of the arithmetic used to render. With a
// precision of 0, the default, expressions are evaluated on complex128 duals.
// Otherwise every value, the escape test, and the distance estimate use
// big.Float at prec bits, which resolves images at scales finer than float64
// can represent at the cost of much slower rendering.
func Prec(prec uint) RenderOption {
	return precopt(prec)
}

func (o precopt) renderOption(p renderctx) renderctx {
	p.prec = uint(o)
	return p
}

// Logger sets a logger to receive debug events about worker progress. The
// default discards all events.
func Logger(log zerolog.Logger) RenderOption {
	return logopt{log}
}

func (o logopt) renderOption(p renderctx) renderctx {
	p.log = o.log
	return p
}

// Shade is a method of coloring pixels.
type Shade int8

const (
	// DistanceEstimate shades each pixel gray by its estimated distance to
	// the boundary, using the derivative of z with respect to c.
	DistanceEstimate Shade = iota
	// EscapeTime shades each pixel red by the number of iterations before z
	// escaped. Pixels which never escape are black.
	EscapeTime
)

func (s Shade) String() string {
	switch s {
	case DistanceEstimate:
		return "de"
	case EscapeTime:
		return "escape"
	default:
		return "Shade(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseShade returns the Shade whose String is s.
func ParseShade(s string) (Shade, bool) {
	switch s {
	case "de":
		return DistanceEstimate, true
	case "escape":
		return EscapeTime, true
	default:
		return 0, false
	}
}
