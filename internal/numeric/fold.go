// Package numeric implements the "basic constant folding of numeric MathML
// leaves" carved out by spec.md's Non-goals: arithmetic over Cn/Const
// leaves only, never touching a Ci reference. It is a leaf-level helper,
// not a general simplifier — analyze and generate decide what counts as
// "no variable references" (see analyze.Foldable); numeric just does the
// arithmetic once that's established.
package numeric

import (
	"math"

	"github.com/edp1096/cellml-codegen/mathast"
)

// Fold evaluates node to a float64 if every leaf beneath it is a Cn or a
// named Const (no Ci), and every Apply is one of the plain arithmetic or
// unary-minus operators. ok is false if node contains a Ci, a relational,
// logical, piecewise, or diff/bvar node, or an unrecognized Op — all of
// which fold returns unevaluated rather than guessing at.
func Fold(node mathast.Node) (value float64, ok bool) {
	switch n := node.(type) {
	case *mathast.Cn:
		return n.Value, true
	case *mathast.Const:
		switch n.Symbol {
		case mathast.ConstPi:
			return math.Pi, true
		case mathast.ConstE:
			return math.E, true
		case mathast.ConstInf:
			return math.Inf(1), true
		case mathast.ConstNaN:
			return math.NaN(), true
		}
		return 0, false
	case *mathast.Apply:
		return foldApply(n)
	default:
		return 0, false
	}
}

func foldApply(n *mathast.Apply) (float64, bool) {
	args := make([]float64, len(n.Children))
	for i, c := range n.Children {
		v, ok := Fold(c)
		if !ok {
			return 0, false
		}
		args[i] = v
	}

	switch n.Op {
	case mathast.OpPlus:
		sum := 0.0
		for _, v := range args {
			sum += v
		}
		return sum, true
	case mathast.OpMinus:
		if len(args) != 2 {
			return 0, false
		}
		return args[0] - args[1], true
	case mathast.OpUnaryMinus:
		if len(args) != 1 {
			return 0, false
		}
		return -args[0], true
	case mathast.OpTimes:
		prod := 1.0
		for _, v := range args {
			prod *= v
		}
		return prod, true
	case mathast.OpDivide:
		if len(args) != 2 {
			return 0, false
		}
		return args[0] / args[1], true
	case mathast.OpPower:
		if len(args) != 2 {
			return 0, false
		}
		return math.Pow(args[0], args[1]), true
	case mathast.OpAbs:
		if len(args) != 1 {
			return 0, false
		}
		return math.Abs(args[0]), true
	default:
		return 0, false
	}
}
