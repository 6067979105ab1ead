package fractal

import "strconv"

// Dual is a complex value together with its derivative with respect to c.
// Arithmetic on duals follows the rules of differentiation, so evaluating an
// expression on duals computes its derivative alongside its value.
type Dual struct {
	// V is the value.
	V complex128
	// D is the derivative of V with respect to c.
	D complex128
}

// Real returns a dual with value complex(x, 0) and zero derivative.
func Real(x float64) Dual {
	return Dual{V: complex(x, 0)}
}

// Add returns a + b.
func (a Dual) Add(b Dual) Dual {
	return Dual{V: a.V + b.V, D: a.D + b.D}
}

// Sub returns a - b.
func (a Dual) Sub(b Dual) Dual {
	return Dual{V: a.V - b.V, D: a.D - b.D}
}

// Mul returns a * b.
func (a Dual) Mul(b Dual) Dual {
	return Dual{V: a.V * b.V, D: a.V*b.D + b.V*a.D}
}

// Quo returns a / b. The result is infinite or NaN if b.V is zero.
func (a Dual) Quo(b Dual) Dual {
	return Dual{V: a.V / b.V, D: (a.D*b.V - a.V*b.D) / (b.V * b.V)}
}

func (a Dual) String() string {
	return strconv.FormatComplex(a.V, 'g', -1, 128) + " d/dc " + strconv.FormatComplex(a.D, 'g', -1, 128)
}
