package fractal

import "strconv"

// EmptyExpressionError is an error indicating that the input ended where an
// expression was expected. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the last token before the missing expression,
	// or 1 if the input is empty.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	return errpos(err.Col, "expected a token")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a token that cannot begin an expression.
// It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the token that was not understood.
	Token string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected token "+strconv.Quote(err.Token))
}

func (err *TokenError) Pos() int {
	return err.Col
}

// BracketError is an error indicating an open parenthesis with no matching
// close. It implements InputError.
type BracketError struct {
	// Col is the position of the token found in place of the close
	// parenthesis, or of the last token if the input ended.
	Col int
}

func (err *BracketError) Error() string {
	return errpos(err.Col, "unclosed (")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// ExtraTokenError is an error indicating input remaining after a complete
// expression. It implements InputError.
type ExtraTokenError struct {
	// Col is the position of the first extra token.
	Col int
	// Token is the first extra token.
	Token string
}

func (err *ExtraTokenError) Error() string {
	return errpos(err.Col, "extra token "+strconv.Quote(err.Token))
}

func (err *ExtraTokenError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError, including errors from evaluation.
type InputError interface {
	error
	// Pos returns the 1-based position in runes of the token that caused the
	// error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*ExtraTokenError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*DivideError)(nil)
)
