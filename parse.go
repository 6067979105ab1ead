package fractal

import (
	"io"
	"strings"
)

// Expr = Primary | Expr '+' Expr | Expr '-' Expr | Expr '*' Expr | Expr '/' Expr
// Primary = real | imag | var | '(' Expr ')' | '-' Primary

// Expr is a parsed expression that can be evaluated with a context. An Expr
// is never modified after parsing, so it is safe to evaluate one Expr from
// many goroutines, each with its own Context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// slots is the list of variables used in the expression.
	slots []Slot
}

// parser is a precedence-climbing parser over a scanned token sequence.
type parser struct {
	toks []lexToken
	// k is the index of the next token.
	k int
	// last is the position of the last consumed token, or 1 if no token has
	// been consumed. Errors without a better position use it.
	last int
	// slots is the set of variables that have been seen this parse.
	slots map[Slot]bool
}

// Parse parses an expression so it can be evaluated with a context. The
// expression must use all of src.
func Parse(src io.RuneScanner) (*Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := parser{
		toks:  toks,
		last:  1,
		slots: make(map[Slot]bool),
	}
	n, err := p.parse(exprprec)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.next(); ok {
		return nil, &ExtraTokenError{Col: tok.pos, Token: tok.text}
	}
	ex := Expr{
		n:     n,
		slots: make([]Slot, 0, len(p.slots)),
	}
	for k := range p.slots {
		ex.slots = append(ex.slots, k)
	}
	sortslots(ex.slots)
	return &ex, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// sortslots sorts a slot slice without using package sort because that has
// reflection and allocation problems.
func sortslots(slots []Slot) {
	for i := 1; i < len(slots); i++ {
		for j := i; j > 0 && slots[j] < slots[j-1]; j-- {
			slots[j], slots[j-1] = slots[j-1], slots[j]
		}
	}
}

// peek returns the next token without consuming it.
func (p *parser) peek() (lexToken, bool) {
	if p.k >= len(p.toks) {
		return lexToken{}, false
	}
	return p.toks[p.k], true
}

// next consumes the next token.
func (p *parser) next() (lexToken, bool) {
	if p.k >= len(p.toks) {
		return lexToken{}, false
	}
	tok := p.toks[p.k]
	p.last = tok.pos
	p.k++
	return tok, true
}

// parse parses a primary followed by any binary operators binding at least as
// tightly as min. Each binary node is positioned at the last token consumed
// for its right operand.
func (p *parser) parse(min int8) (*node, error) {
	tok, ok := p.next()
	if !ok {
		return nil, &EmptyExpressionError{Col: p.last}
	}
	n, err := p.primary(tok)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return n, nil
		}
		op := binop(tok.kind)
		if op.op == nodeNone || op.prec < min {
			return n, nil
		}
		p.next()
		// Operators are left-associative, so the right operand may only
		// contain operators that bind more tightly.
		rhs, err := p.parse(op.prec + 1)
		if err != nil {
			return nil, err
		}
		n = &node{kind: op.op, pos: p.last, left: n, right: rhs}
	}
}

// primary parses the expression beginning with the already consumed tok.
func (p *parser) primary(tok lexToken) (*node, error) {
	switch tok.kind {
	case tokenOpen:
		n, err := p.parse(exprprec)
		if err != nil {
			return nil, err
		}
		end, ok := p.next()
		if !ok || end.kind != tokenClose {
			return nil, &BracketError{Col: p.last}
		}
		return n, nil
	case tokenSub:
		// -x -> 0 - x, where x is only a primary: -x*y is (0-x)*y.
		operand, ok := p.next()
		if !ok {
			return nil, &EmptyExpressionError{Col: p.last}
		}
		rhs, err := p.primary(operand)
		if err != nil {
			return nil, err
		}
		zero := &node{kind: nodeReal, pos: tok.pos}
		return &node{kind: nodeSub, pos: tok.pos, left: zero, right: rhs}, nil
	case tokenReal:
		return &node{kind: nodeReal, pos: tok.pos, num: tok.num}, nil
	case tokenImag:
		return &node{kind: nodeImag, pos: tok.pos, num: tok.num}, nil
	case tokenVar:
		p.slots[tok.slot] = true
		return &node{kind: nodeVar, pos: tok.pos, slot: tok.slot}, nil
	default:
		return nil, &TokenError{Col: p.last, Token: tok.text}
	}
}

// Vars returns the variables read when evaluating the expression, sorted by
// name.
func (e *Expr) Vars() []Slot {
	return append(([]Slot)(nil), e.slots...)
}

// String creates a fully parenthesized representation of the parsed
// expression. The result parses to an equivalent expression.
func (e *Expr) String() string {
	return e.n.String()
}
