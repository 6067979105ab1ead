package fractal

import (
	"io"
	"strconv"
	"strings"
)

// Context holds the six variables for evaluating expressions. It is not safe
// to use a Context concurrently, but contexts are cheap to clone.
type Context struct {
	// Width and Height are the image size, read as w and h.
	Width, Height float64
	// X and Y are the pixel coordinates, read as x and y.
	X, Y float64
	// C and Z are read as c and z.
	C, Z Dual
}

// NewContext creates a new evaluation context for an image of the given size.
// All other variables are zero.
func NewContext(width, height int) *Context {
	return &Context{Width: float64(width), Height: float64(height)}
}

// Clone creates a copy of a context.
func (ctx *Context) Clone() *Context {
	n := *ctx
	return &n
}

// Eval evaluates an expression and returns the result.
func (ctx *Context) Eval(e *Expr) (Dual, error) {
	return e.n.eval(ctx)
}

// Lookup returns the value of a variable. Width, height, x, and y always have
// zero derivative. If s is not a variable, the result is false.
func (ctx *Context) Lookup(s Slot) (Dual, bool) {
	switch s {
	case SlotWidth:
		return Real(ctx.Width), true
	case SlotHeight:
		return Real(ctx.Height), true
	case SlotX:
		return Real(ctx.X), true
	case SlotY:
		return Real(ctx.Y), true
	case SlotC:
		return ctx.C, true
	case SlotZ:
		return ctx.Z, true
	default:
		return Dual{}, false
	}
}

// Set sets the value of a variable. Returns ctx for chaining. Width, height,
// x, and y take only the real part of value. Panics if s is not a variable.
func (ctx *Context) Set(s Slot, value Dual) *Context {
	switch s {
	case SlotWidth:
		ctx.Width = real(value.V)
	case SlotHeight:
		ctx.Height = real(value.V)
	case SlotX:
		ctx.X = real(value.V)
	case SlotY:
		ctx.Y = real(value.V)
	case SlotC:
		ctx.C = value
	case SlotZ:
		ctx.Z = value
	default:
		panic("fractal: Set of unknown variable " + strconv.Quote(s.String()))
	}
	return ctx
}

// eval computes the node's value. The left operand of a binary node is
// evaluated before the right.
func (n *node) eval(ctx *Context) (Dual, error) {
	switch n.kind {
	case nodeReal:
		return Dual{V: complex(n.num, 0)}, nil
	case nodeImag:
		return Dual{V: complex(0, n.num)}, nil
	case nodeVar:
		v, ok := ctx.Lookup(n.slot)
		if !ok {
			return Dual{}, &NameError{Name: n.slot.String(), Col: n.pos}
		}
		return v, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		l, err := n.left.eval(ctx)
		if err != nil {
			return Dual{}, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return Dual{}, err
		}
		switch n.kind {
		case nodeAdd:
			return l.Add(r), nil
		case nodeSub:
			return l.Sub(r), nil
		case nodeMul:
			return l.Mul(r), nil
		default:
			// Only the value decides; a zero with a nonzero derivative is
			// still zero.
			if r.V == 0 {
				return Dual{}, &DivideError{Col: n.pos}
			}
			return l.Quo(r), nil
		}
	default:
		panic("fractal: invalid AST node " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and return its result in ctx.
func Eval(src io.RuneScanner, ctx *Context) (Dual, error) {
	a, err := Parse(src)
	if err != nil {
		return Dual{}, err
	}
	return ctx.Eval(a)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, ctx *Context) (Dual, error) {
	return Eval(strings.NewReader(src), ctx)
}

// NameError is an error from a lookup for a variable that the evaluation
// context does not have. It implements InputError.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Col is the position of the variable.
	Col int
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// DivideError is an error from a division whose divisor has a zero value. It
// implements InputError.
type DivideError struct {
	// Col is the position recorded for the division.
	Col int
}

func (err *DivideError) Error() string {
	return errpos(err.Col, "divide by zero")
}

func (err *DivideError) Pos() int {
	return err.Col
}
