package fractal

import (
	"strconv"
	"strings"
)

// Slot identifies one of the six variables an expression can read. The value
// of a Slot is the letter that names it.
type Slot byte

const (
	// SlotWidth is w, the image width.
	SlotWidth Slot = 'w'
	// SlotHeight is h, the image height.
	SlotHeight Slot = 'h'
	// SlotX is x, the column of the pixel being rendered.
	SlotX Slot = 'x'
	// SlotY is y, the row of the pixel being rendered.
	SlotY Slot = 'y'
	// SlotC is c, the per-pixel constant produced by the init expression.
	SlotC Slot = 'c'
	// SlotZ is z, the current iterate.
	SlotZ Slot = 'z'
)

func (s Slot) String() string {
	return string(rune(s))
}

// ParseSlot returns the slot named by s.
func ParseSlot(s string) (Slot, bool) {
	if len(s) != 1 || strings.IndexByte(Variables, s[0]) < 0 {
		return 0, false
	}
	return Slot(s[0]), true
}

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind
	// pos is the position of the token that produced the node.
	pos int

	num  float64
	slot Slot

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeReal // push complex(num, 0)
	nodeImag // push complex(0, num)
	nodeVar  // push lookup(slot)

	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

// binop gets the binary operator for a token kind. If there is no such
// operator, then the result has an op of nodeNone. All binary operators are
// left-associative.
func binop(kind tokenKind) operator {
	switch kind {
	case tokenAdd:
		return operator{1, nodeAdd}
	case tokenSub:
		return operator{1, nodeSub}
	case tokenMul:
		return operator{2, nodeMul}
	case tokenDiv:
		return operator{2, nodeDiv}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
const exprprec = 1

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized. The result parses to the same tree.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeReal:
		b.WriteString(strconv.FormatFloat(n.num, 'f', -1, 64))
	case nodeImag:
		b.WriteString(strconv.FormatFloat(n.num, 'f', -1, 64))
		b.WriteByte('i')
	case nodeVar:
		b.WriteByte(byte(n.slot))
	case nodeAdd:
		n.left.fmt(b)
		b.WriteString(" + ")
		n.right.fmt(b)
	case nodeSub:
		n.left.fmt(b)
		b.WriteString(" - ")
		n.right.fmt(b)
	case nodeMul:
		n.left.fmt(b)
		b.WriteString(" * ")
		n.right.fmt(b)
	case nodeDiv:
		n.left.fmt(b)
		b.WriteString(" / ")
		n.right.fmt(b)
	default:
		panic("fractal: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
