package fractal

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// bigComplex is a complex number with big.Float parts.
type bigComplex struct {
	re, im *big.Float
}

// bigDual is a Dual with big.Float parts.
type bigDual struct {
	v, d bigComplex
}

// bigArith performs dual arithmetic with results rounded to prec bits. Every
// operation allocates its result, so operands are never modified.
type bigArith struct {
	prec uint
}

func (a bigArith) newf() *big.Float {
	return new(big.Float).SetPrec(a.prec)
}

func (a bigArith) float(x float64) *big.Float {
	return a.newf().SetFloat64(x)
}

// literal converts the value of a number literal. Literals with up to 17
// significant digits are recovered exactly before rounding to prec, so
// "0.1" is closer to one tenth than any float64.
func (a bigArith) literal(x float64) *big.Float {
	f, ok := a.newf().SetString(strconv.FormatFloat(x, 'g', -1, 64))
	if !ok {
		return a.float(x)
	}
	return f
}

func (a bigArith) complex(v complex128) bigComplex {
	return bigComplex{a.float(real(v)), a.float(imag(v))}
}

func (a bigArith) dual(v Dual) bigDual {
	return bigDual{a.complex(v.V), a.complex(v.D)}
}

func (a bigArith) zero() bigDual {
	return bigDual{a.complex(0), a.complex(0)}
}

func (a bigArith) add(x, y bigComplex) bigComplex {
	return bigComplex{a.newf().Add(x.re, y.re), a.newf().Add(x.im, y.im)}
}

func (a bigArith) sub(x, y bigComplex) bigComplex {
	return bigComplex{a.newf().Sub(x.re, y.re), a.newf().Sub(x.im, y.im)}
}

func (a bigArith) mul(x, y bigComplex) bigComplex {
	re := a.newf().Mul(x.re, y.re)
	re.Sub(re, a.newf().Mul(x.im, y.im))
	im := a.newf().Mul(x.re, y.im)
	im.Add(im, a.newf().Mul(x.im, y.re))
	return bigComplex{re, im}
}

// quo returns x/y. y must be nonzero.
func (a bigArith) quo(x, y bigComplex) bigComplex {
	den := a.abs2(y)
	re := a.newf().Mul(x.re, y.re)
	re.Add(re, a.newf().Mul(x.im, y.im))
	im := a.newf().Mul(x.im, y.re)
	im.Sub(im, a.newf().Mul(x.re, y.im))
	return bigComplex{re.Quo(re, den), im.Quo(im, den)}
}

// abs2 returns |x|^2.
func (a bigArith) abs2(x bigComplex) *big.Float {
	r := a.newf().Mul(x.re, x.re)
	return r.Add(r, a.newf().Mul(x.im, x.im))
}

func iszero(x bigComplex) bool {
	return x.re.Sign() == 0 && x.im.Sign() == 0
}

func (a bigArith) dadd(x, y bigDual) bigDual {
	return bigDual{a.add(x.v, y.v), a.add(x.d, y.d)}
}

func (a bigArith) dsub(x, y bigDual) bigDual {
	return bigDual{a.sub(x.v, y.v), a.sub(x.d, y.d)}
}

func (a bigArith) dmul(x, y bigDual) bigDual {
	return bigDual{a.mul(x.v, y.v), a.add(a.mul(x.v, y.d), a.mul(y.v, x.d))}
}

// dquo returns x/y. y.v must be nonzero.
func (a bigArith) dquo(x, y bigDual) bigDual {
	d := a.sub(a.mul(x.d, y.v), a.mul(x.v, y.d))
	return bigDual{a.quo(x.v, y.v), a.quo(d, a.mul(y.v, y.v))}
}

// bigContext evaluates expressions in big.Float arithmetic. w, h, x, and y
// come from ctx; c and z are held at full precision.
type bigContext struct {
	bigArith
	ctx  *Context
	c, z bigDual
}

func (b *bigContext) lookup(s Slot) (bigDual, bool) {
	switch s {
	case SlotC:
		return b.c, true
	case SlotZ:
		return b.z, true
	}
	v, ok := b.ctx.Lookup(s)
	if !ok {
		return bigDual{}, false
	}
	return b.dual(v), true
}

// evalBig computes the node's value in the same way as eval, but with
// big.Float arithmetic.
func (n *node) evalBig(b *bigContext) (bigDual, error) {
	switch n.kind {
	case nodeReal:
		return bigDual{bigComplex{b.literal(n.num), b.float(0)}, b.complex(0)}, nil
	case nodeImag:
		return bigDual{bigComplex{b.float(0), b.literal(n.num)}, b.complex(0)}, nil
	case nodeVar:
		v, ok := b.lookup(n.slot)
		if !ok {
			return bigDual{}, &NameError{Name: n.slot.String(), Col: n.pos}
		}
		return v, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		l, err := n.left.evalBig(b)
		if err != nil {
			return bigDual{}, err
		}
		r, err := n.right.evalBig(b)
		if err != nil {
			return bigDual{}, err
		}
		switch n.kind {
		case nodeAdd:
			return b.dadd(l, r), nil
		case nodeSub:
			return b.dsub(l, r), nil
		case nodeMul:
			return b.dmul(l, r), nil
		default:
			if iszero(r.v) {
				return bigDual{}, &DivideError{Col: n.pos}
			}
			return b.dquo(l, r), nil
		}
	default:
		panic("fractal: invalid AST node " + n.kind.String())
	}
}

// escaped reports whether |v| >= Escape.
func (a bigArith) escaped(v bigComplex) bool {
	return a.abs2(v).Cmp(a.float(Escape*Escape)) >= 0
}

// bigDistance computes the distance estimate of z in big.Float arithmetic.
// Degenerate inputs give the same NaN and infinities as distance.
func bigDistance(z bigDual, width float64, a bigArith) float64 {
	r := a.newf().Sqrt(a.abs2(z.v))
	if r.Sign() == 0 {
		return math.NaN()
	}
	k := a.newf()
	bigfloat.Log(k, r)
	k.Mul(k, r)
	k.Mul(k, a.literal(0.7))
	k.Mul(k, a.float(width))
	dr := a.newf().Sqrt(a.abs2(z.d))
	if dr.Sign() == 0 {
		switch k.Sign() {
		case 1:
			return math.Inf(1)
		case -1:
			return math.Inf(-1)
		default:
			return math.NaN()
		}
	}
	d, _ := k.Quo(k, dr).Float64()
	return d
}
