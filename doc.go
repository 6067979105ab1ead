// Package fractal renders escape-time fractals whose iteration is written as
// text expressions.
//
// An expression is arithmetic (+, -, *, /, parentheses, unary minus) over real
// literals like "0.25", imaginary literals like "3i" or "i", and six
// single-letter variables: w and h are the image width and height, x and y are
// the coordinates of the pixel being rendered, c is the per-pixel constant,
// and z is the running iterate. "z*z + c" is the Mandelbrot recurrence.
//
// Every value is a Dual: a complex number together with its derivative with
// respect to c. Render uses the derivative to shade each pixel by its
// estimated distance to the boundary of the set.
//
package fractal
