package fractal

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// num is the value of a real or imaginary literal.
	num float64
	// slot is the variable named by a tokenVar.
	slot Slot
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
	tokenAdd
	tokenSub
	tokenMul
	tokenDiv
	// tokenVar is one of the six variables.
	tokenVar
	// tokenReal is a real literal.
	tokenReal
	// tokenImag is an imaginary literal, either a number followed by i or a
	// bare i.
	tokenImag
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token
//go:generate go mod tidy

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/"

// Variables contains the runes which name variables, in the order width,
// height, x, y, c, z.
const Variables = "whxycz"

var optokens = [...]tokenKind{tokenAdd, tokenSub, tokenMul, tokenDiv}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. At the end of the input, the
// result is an empty token with io.EOF. After an invalid token, the lexer
// continues with the rune following it.
func (l *lexer) next() (lexToken, error) {
	defer l.buf.Reset()
	for {
		tok := lexToken{pos: l.rune}
		r, err := l.readRune()
		if err != nil {
			return lexToken{}, err
		}
		switch {
		case r == ' ', r == '\t':
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			im, err := l.scanNum()
			if err != nil {
				return tok, err
			}
			v, err := strconv.ParseFloat(l.buf.String(), 64)
			if err != nil {
				return tok, l.error("number", tok.pos)
			}
			tok.text = l.buf.String()
			tok.num = v
			tok.kind = tokenReal
			if im {
				tok.text += "i"
				tok.kind = tokenImag
			}
			return tok, nil
		case r == 'i':
			tok.text = "i"
			tok.num = 1
			tok.kind = tokenImag
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.text = Operators[k : k+1]
				tok.kind = optokens[k]
				return tok, nil
			}
			if k := strings.IndexRune(Variables, r); k >= 0 {
				tok.text = Variables[k : k+1]
				tok.slot = Slot(r)
				tok.kind = tokenVar
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("", tok.pos)
		}
	}
}

// scanNum scans digits with at most one decimal point into the buffer. If the
// digits are followed immediately by i, scanNum consumes it and reports that
// the number is imaginary.
func (l *lexer) scanNum() (bool, error) {
	var dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		switch {
		case '0' <= r && r <= '9':
			l.buf.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			l.buf.WriteRune(r)
		case r == 'i':
			return true, nil
		default:
			// A second decimal point starts a new token.
			l.unreadRune()
			return false, nil
		}
	}
}

func (l *lexer) error(kind string, col int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  col,
	}
}

// tokenize scans all tokens in src. The first invalid token stops scanning.
func tokenize(src io.RuneScanner) ([]lexToken, error) {
	scan := lex(src)
	var toks []lexToken
	for {
		tok, err := scan.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the invalid character, or the text of the invalid number.
	Text string
	// Kind is "number" if the lexer was scanning a number literal that could
	// not be converted, or the empty string for an unexpected character.
	Kind string
	// Col is the position of the first rune of the invalid token.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "number" {
		return errpos(err.Col, "invalid floating point literal "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "unexpected character "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
