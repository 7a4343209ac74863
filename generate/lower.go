package generate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/edp1096/cellml-codegen/analyze"
	"github.com/edp1096/cellml-codegen/cellml"
	"github.com/edp1096/cellml-codegen/equivalence"
	"github.com/edp1096/cellml-codegen/mathast"
	"github.com/edp1096/cellml-codegen/profile"
)

// lowerCtx carries everything the recursive lowering needs to resolve a Ci
// against the owning Component's variable list and the analyzed System's
// role/array-index assignment.
type lowerCtx struct {
	comp  *cellml.Component
	eqres *equivalence.Result
	sys   *analyze.System
	prof  *profile.Profile

	stateIndex    map[*equivalence.Class]int
	variableIndex map[*equivalence.Class]int
}

func newLowerCtx(sys *analyze.System, eqres *equivalence.Result, prof *profile.Profile) *lowerCtx {
	ctx := &lowerCtx{
		eqres:         eqres,
		sys:           sys,
		prof:          prof,
		stateIndex:    make(map[*equivalence.Class]int, len(sys.States)),
		variableIndex: make(map[*equivalence.Class]int, len(sys.Variables)),
	}
	for i, cv := range sys.States {
		ctx.stateIndex[cv.Class] = i
	}
	for i, cv := range sys.Variables {
		ctx.variableIndex[cv.Class] = i
	}
	return ctx
}

func (c *lowerCtx) withComponent(comp *cellml.Component) *lowerCtx {
	next := *c
	next.comp = comp
	return &next
}

// lowerExpr lowers a MathML expression fragment to the target language,
// returning its final text at the given "top level" (no surrounding
// parentheses needed).
func lowerExpr(ctx *lowerCtx, node mathast.Node) (string, error) {
	l, err := lower(ctx, node)
	if err != nil {
		return "", err
	}
	return l.text, nil
}

func lower(ctx *lowerCtx, node mathast.Node) (lowered, error) {
	switch n := node.(type) {
	case *mathast.Cn:
		return lowered{text: formatFloat(n.Value), prec: precPrimary}, nil
	case *mathast.Const:
		return lowerConst(ctx, n)
	case *mathast.BoolConst:
		if n.Value {
			return lowered{text: ctx.prof.BooleanTrue, prec: precPrimary}, nil
		}
		return lowered{text: ctx.prof.BooleanFalse, prec: precPrimary}, nil
	case *mathast.Ci:
		return lowerCi(ctx, n.Name)
	case *mathast.Apply:
		return lowerApply(ctx, n)
	default:
		return lowered{}, fmt.Errorf("generate: unsupported MathML node %T", node)
	}
}

func lowerConst(ctx *lowerCtx, n *mathast.Const) (lowered, error) {
	switch n.Symbol {
	case mathast.ConstPi:
		return lowered{text: ctx.prof.PiString, prec: precPrimary}, nil
	case mathast.ConstE:
		return lowered{text: ctx.prof.EString, prec: precPrimary}, nil
	case mathast.ConstInf:
		return lowered{text: ctx.prof.InfString, prec: precPrimary}, nil
	case mathast.ConstNaN:
		return lowered{text: ctx.prof.NanString, prec: precPrimary}, nil
	default:
		return lowered{}, fmt.Errorf("generate: unrecognized constant symbol %d", n.Symbol)
	}
}

func lowerCi(ctx *lowerCtx, name string) (lowered, error) {
	if ctx.comp == nil {
		return lowered{}, fmt.Errorf("generate: variable reference '%s' outside a component context", name)
	}
	ref := cellml.VarRef{ComponentID: ctx.comp.ID, ComponentName: ctx.comp.Name, VariableName: name}
	class, ok := ctx.eqres.ClassOf[ref]
	if !ok {
		return lowered{}, fmt.Errorf("generate: '%s' in component '%s' has no equivalence class", name, ctx.comp.Name)
	}
	cv, ok := ctx.sys.ClassifiedOf(class)
	if !ok {
		return lowered{}, fmt.Errorf("generate: '%s' in component '%s' was not classified", name, ctx.comp.Name)
	}

	switch cv.Role {
	case analyze.RoleVariableOfIntegration:
		return lowered{text: "voi", prec: precPrimary}, nil
	case analyze.RoleState:
		idx := ctx.stateIndex[class]
		return lowered{text: ctx.prof.Index("states", idx), prec: precPrimary}, nil
	case analyze.RoleConstant:
		return lowered{text: formatLiteralString(cv.Class.InitialValue), prec: precPrimary}, nil
	case analyze.RoleComputedConstant, analyze.RoleAlgebraic:
		idx := ctx.variableIndex[class]
		return lowered{text: ctx.prof.Index("variables", idx), prec: precPrimary}, nil
	default:
		return lowered{}, fmt.Errorf("generate: '%s' in component '%s' has unsupported role %s", name, ctx.comp.Name, cv.Role)
	}
}

func lowerApply(ctx *lowerCtx, n *mathast.Apply) (lowered, error) {
	op := n.Op

	switch {
	case op.IsRelational():
		return lowerInfix(ctx, n, relationalString(ctx.prof, op), precRelational, profile.AssocNone)
	case op == mathast.OpAnd:
		return lowerVariadicInfix(ctx, n, ctx.prof.AndString, precAnd)
	case op == mathast.OpOr:
		return lowerVariadicInfix(ctx, n, ctx.prof.OrString, precOr)
	case op == mathast.OpXor:
		return lowerXor(ctx, n)
	case op == mathast.OpNot:
		return lowerNot(ctx, n)
	}

	switch op {
	case mathast.OpPlus:
		return lowerVariadicInfix(ctx, n, ctx.prof.PlusString, precAddSub)
	case mathast.OpMinus:
		return lowerBinary(ctx, n, ctx.prof.MinusString, precAddSub, profile.AssocLeft)
	case mathast.OpUnaryMinus:
		return lowerUnaryPrefix(ctx, n, ctx.prof.UnaryMinusString, precUnary)
	case mathast.OpTimes:
		return lowerVariadicInfix(ctx, n, ctx.prof.TimesString, precMulDiv)
	case mathast.OpDivide:
		return lowerBinary(ctx, n, ctx.prof.DivideString, precMulDiv, profile.AssocLeft)
	case mathast.OpPower:
		return lowerPower(ctx, n)
	case mathast.OpRoot:
		return lowerRoot(ctx, n)
	case mathast.OpAbs, mathast.OpFloor, mathast.OpCeiling, mathast.OpExp, mathast.OpLn,
		mathast.OpSin, mathast.OpCos, mathast.OpTan, mathast.OpSec, mathast.OpCsc, mathast.OpCot,
		mathast.OpArcsin, mathast.OpArccos, mathast.OpArctan, mathast.OpArcsec, mathast.OpArccsc, mathast.OpArccot,
		mathast.OpSinh, mathast.OpCosh, mathast.OpTanh, mathast.OpSech, mathast.OpCsch, mathast.OpCoth,
		mathast.OpArcsinh, mathast.OpArccosh, mathast.OpArctanh, mathast.OpArcsech, mathast.OpArccsch, mathast.OpArccoth,
		mathast.OpFactorial:
		return lowerUnaryFunction(ctx, n, op)
	case mathast.OpLog:
		return lowerLog(ctx, n)
	case mathast.OpMin:
		return lowerVariadicFunction(ctx, n, "min")
	case mathast.OpMax:
		return lowerVariadicFunction(ctx, n, "max")
	case mathast.OpRem:
		return lowerBinaryFunction(ctx, n, mathast.OpRem)
	case mathast.OpPiecewise:
		return lowerPiecewise(ctx, n)
	default:
		return lowered{}, fmt.Errorf("generate: operator %d has no expression-level lowering", op)
	}
}

func relationalString(p *profile.Profile, op mathast.Op) string {
	switch op {
	case mathast.OpEqRel:
		return p.EqString
	case mathast.OpNeq:
		return p.NeqString
	case mathast.OpLt:
		return p.LtString
	case mathast.OpLeq:
		return p.LeqString
	case mathast.OpGt:
		return p.GtString
	case mathast.OpGeq:
		return p.GeqString
	default:
		return "?"
	}
}

func lowerBinary(ctx *lowerCtx, n *mathast.Apply, opStr string, prec int, assoc profile.Associativity) (lowered, error) {
	if len(n.Children) != 2 {
		return lowered{}, fmt.Errorf("generate: operator %d expects 2 operands, got %d", n.Op, len(n.Children))
	}
	left, err := lower(ctx, n.Children[0])
	if err != nil {
		return lowered{}, err
	}
	right, err := lower(ctx, n.Children[1])
	if err != nil {
		return lowered{}, err
	}
	rightNonAssoc := assoc != profile.AssocBoth
	leftNonAssoc := assoc == profile.AssocNone
	text := paren(left, prec, leftNonAssoc) + " " + opStr + " " + paren(right, prec, rightNonAssoc)
	return lowered{text: text, prec: prec, assoc: assoc}, nil
}

func lowerInfix(ctx *lowerCtx, n *mathast.Apply, opStr string, prec int, assoc profile.Associativity) (lowered, error) {
	return lowerBinary(ctx, n, opStr, prec, assoc)
}

// lowerVariadicInfix folds an n-ary MathML operator (plus/times/and/or can
// all carry more than two children) left-associatively.
func lowerVariadicInfix(ctx *lowerCtx, n *mathast.Apply, opStr string, prec int) (lowered, error) {
	if len(n.Children) == 0 {
		return lowered{}, fmt.Errorf("generate: operator %d has no operands", n.Op)
	}
	if len(n.Children) == 1 {
		return lower(ctx, n.Children[0])
	}
	acc, err := lower(ctx, n.Children[0])
	if err != nil {
		return lowered{}, err
	}
	text := paren(acc, prec, false)
	for _, child := range n.Children[1:] {
		next, err := lower(ctx, child)
		if err != nil {
			return lowered{}, err
		}
		text += " " + opStr + " " + paren(next, prec, false)
	}
	return lowered{text: text, prec: prec, assoc: profile.AssocLeft}, nil
}

func lowerUnaryPrefix(ctx *lowerCtx, n *mathast.Apply, opStr string, prec int) (lowered, error) {
	if len(n.Children) != 1 {
		return lowered{}, fmt.Errorf("generate: operator %d expects 1 operand, got %d", n.Op, len(n.Children))
	}
	child, err := lower(ctx, n.Children[0])
	if err != nil {
		return lowered{}, err
	}
	return lowered{text: opStr + paren(child, prec, false), prec: prec}, nil
}

func lowerNot(ctx *lowerCtx, n *mathast.Apply) (lowered, error) {
	l, err := lowerUnaryPrefix(ctx, n, ctx.prof.NotString, precUnary)
	if err != nil {
		return lowered{}, err
	}
	return l, nil
}

func lowerXor(ctx *lowerCtx, n *mathast.Apply) (lowered, error) {
	if len(n.Children) != 2 {
		return lowered{}, fmt.Errorf("generate: xor expects 2 operands, got %d", len(n.Children))
	}
	if ctx.prof.HasXorOperator {
		return lowerBinary(ctx, n, ctx.prof.XorString, precXor, profile.AssocBoth)
	}
	left, err := lowerExpr(ctx, n.Children[0])
	if err != nil {
		return lowered{}, err
	}
	right, err := lowerExpr(ctx, n.Children[1])
	if err != nil {
		return lowered{}, err
	}
	if ctx.prof.XorFunction != "" {
		return lowered{text: fmt.Sprintf("%s(%s, %s)", ctx.prof.XorFunction, left, right), prec: precPrimary}, nil
	}
	text := fmt.Sprintf("((%s) %s 0) %s ((%s) %s 0)", left, ctx.prof.NeqString, ctx.prof.NeqString, right, ctx.prof.NeqString)
	return lowered{text: text, prec: precEquality}, nil
}

func lowerPower(ctx *lowerCtx, n *mathast.Apply) (lowered, error) {
	if len(n.Children) != 2 {
		return lowered{}, fmt.Errorf("generate: power expects 2 operands, got %d", len(n.Children))
	}
	if cn, ok := n.Children[1].(*mathast.Cn); ok && cn.Value == 2 && !ctx.prof.HasPowerOperator && ctx.prof.SquareString != "" {
		x, err := lowerExpr(ctx, n.Children[0])
		if err != nil {
			return lowered{}, err
		}
		return lowered{text: fmt.Sprintf(ctx.prof.SquareString, x), prec: precPrimary}, nil
	}

	base, err := lower(ctx, n.Children[0])
	if err != nil {
		return lowered{}, err
	}
	exp, err := lower(ctx, n.Children[1])
	if err != nil {
		return lowered{}, err
	}
	if ctx.prof.HasPowerOperator {
		text := paren(base, precPower, true) + " " + ctx.prof.PowerString + " " + paren(exp, precPower, true)
		return lowered{text: text, prec: precPower, assoc: profile.AssocNone}, nil
	}
	text := fmt.Sprintf("%s(%s, %s)", ctx.prof.PowerString, base.text, exp.text)
	return lowered{text: text, prec: precPrimary}, nil
}

func lowerRoot(ctx *lowerCtx, n *mathast.Apply) (lowered, error) {
	var degree mathast.Node
	var radicand mathast.Node
	switch len(n.Children) {
	case 1:
		radicand = n.Children[0]
	case 2:
		degree, radicand = n.Children[0], n.Children[1]
	default:
		return lowered{}, fmt.Errorf("generate: root expects 1 or 2 operands, got %d", len(n.Children))
	}

	if degree == nil {
		x, err := lowerExpr(ctx, radicand)
		if err != nil {
			return lowered{}, err
		}
		return lowered{text: fmt.Sprintf("%s(%s)", ctx.prof.SqrtString, x), prec: precPrimary}, nil
	}
	if cn, ok := degree.(*mathast.Cn); ok && cn.Value == 2 {
		x, err := lowerExpr(ctx, radicand)
		if err != nil {
			return lowered{}, err
		}
		return lowered{text: fmt.Sprintf("%s(%s)", ctx.prof.SqrtString, x), prec: precPrimary}, nil
	}

	xl, err := lower(ctx, radicand)
	if err != nil {
		return lowered{}, err
	}
	d, err := lowerExpr(ctx, degree)
	if err != nil {
		return lowered{}, err
	}
	if ctx.prof.HasPowerOperator {
		text := paren(xl, precPower, true) + " " + ctx.prof.PowerString + " (1.0 / " + d + ")"
		return lowered{text: text, prec: precPower, assoc: profile.AssocNone}, nil
	}
	return lowered{text: fmt.Sprintf("%s(%s, 1.0 / %s)", ctx.prof.RootString, xl.text, d), prec: precPrimary}, nil
}

func lowerLog(ctx *lowerCtx, n *mathast.Apply) (lowered, error) {
	switch len(n.Children) {
	case 1:
		return lowerUnaryFunction(ctx, n, mathast.OpLog)
	case 2:
		base, err := lowerExpr(ctx, n.Children[0])
		if err != nil {
			return lowered{}, err
		}
		x, err := lowerExpr(ctx, n.Children[1])
		if err != nil {
			return lowered{}, err
		}
		lnName, _ := ctx.prof.FunctionName(mathast.OpLn)
		return lowered{text: fmt.Sprintf("%s(%s) / %s(%s)", lnName, x, lnName, base), prec: precMulDiv, assoc: profile.AssocLeft}, nil
	default:
		return lowered{}, fmt.Errorf("generate: log expects 1 or 2 operands, got %d", len(n.Children))
	}
}

func lowerUnaryFunction(ctx *lowerCtx, n *mathast.Apply, op mathast.Op) (lowered, error) {
	if len(n.Children) != 1 {
		return lowered{}, fmt.Errorf("generate: operator %d expects 1 operand, got %d", op, len(n.Children))
	}
	name, ok := ctx.prof.FunctionName(op)
	if !ok {
		return lowered{}, fmt.Errorf("generate: profile has no function name for operator %d", op)
	}
	x, err := lowerExpr(ctx, n.Children[0])
	if err != nil {
		return lowered{}, err
	}
	return lowered{text: fmt.Sprintf("%s(%s)", name, x), prec: precPrimary}, nil
}

func lowerBinaryFunction(ctx *lowerCtx, n *mathast.Apply, op mathast.Op) (lowered, error) {
	if len(n.Children) != 2 {
		return lowered{}, fmt.Errorf("generate: operator %d expects 2 operands, got %d", op, len(n.Children))
	}
	name, ok := ctx.prof.FunctionName(op)
	if !ok {
		return lowered{}, fmt.Errorf("generate: profile has no function name for operator %d", op)
	}
	a, err := lowerExpr(ctx, n.Children[0])
	if err != nil {
		return lowered{}, err
	}
	b, err := lowerExpr(ctx, n.Children[1])
	if err != nil {
		return lowered{}, err
	}
	return lowered{text: fmt.Sprintf("%s(%s, %s)", name, a, b), prec: precPrimary}, nil
}

// lowerVariadicFunction folds min/max (which MathML allows n-ary) pairwise
// through the profile's binary function spelling, falling back to name when
// the profile registers none.
func lowerVariadicFunction(ctx *lowerCtx, n *mathast.Apply, name string) (lowered, error) {
	if len(n.Children) == 0 {
		return lowered{}, fmt.Errorf("generate: operator %d has no operands", n.Op)
	}
	if fn, ok := ctx.prof.FunctionName(n.Op); ok {
		name = fn
	}
	texts := make([]string, len(n.Children))
	for i, child := range n.Children {
		t, err := lowerExpr(ctx, child)
		if err != nil {
			return lowered{}, err
		}
		texts[i] = t
	}
	text := texts[len(texts)-1]
	for i := len(texts) - 2; i >= 0; i-- {
		text = fmt.Sprintf("%s(%s, %s)", name, texts[i], text)
	}
	return lowered{text: text, prec: precPrimary}, nil
}

// lowerPiecewise lowers piecewise([piece(v1,c1), piece(v2,c2), ...],
// otherwise=vo) per spec §4.F step 4.
func lowerPiecewise(ctx *lowerCtx, n *mathast.Apply) (lowered, error) {
	var pieces []*mathast.Apply
	var otherwise mathast.Node
	for _, child := range n.Children {
		apply, ok := child.(*mathast.Apply)
		if !ok {
			return lowered{}, fmt.Errorf("generate: piecewise child must be piece or otherwise")
		}
		switch apply.Op {
		case mathast.OpPiece:
			if len(apply.Children) != 2 {
				return lowered{}, fmt.Errorf("generate: piece expects (value, condition)")
			}
			pieces = append(pieces, apply)
		case mathast.OpOtherwise:
			if len(apply.Children) != 1 {
				return lowered{}, fmt.Errorf("generate: otherwise expects a single value")
			}
			otherwise = apply.Children[0]
		default:
			return lowered{}, fmt.Errorf("generate: piecewise child has unexpected operator %d", apply.Op)
		}
	}
	if len(pieces) == 0 {
		return lowered{}, fmt.Errorf("generate: piecewise has no piece clauses")
	}

	var fallback string
	if otherwise != nil {
		t, err := lowerExpr(ctx, otherwise)
		if err != nil {
			return lowered{}, err
		}
		fallback = t
	} else {
		fallback = ctx.prof.NanString
	}

	if ctx.prof.HasConditionalOperator {
		text := fallback
		for i := len(pieces) - 1; i >= 0; i-- {
			value, err := lowerExpr(ctx, pieces[i].Children[0])
			if err != nil {
				return lowered{}, err
			}
			cond, err := lowerExpr(ctx, pieces[i].Children[1])
			if err != nil {
				return lowered{}, err
			}
			text = fmt.Sprintf("%s ? %s : (%s)", cond, value, text)
		}
		return lowered{text: text, prec: precConditional}, nil
	}

	var b strings.Builder
	for _, piece := range pieces {
		value, err := lowerExpr(ctx, piece.Children[0])
		if err != nil {
			return lowered{}, err
		}
		cond, err := lowerExpr(ctx, piece.Children[1])
		if err != nil {
			return lowered{}, err
		}
		b.WriteString(fmt.Sprintf(ctx.prof.PiecewiseIfString, value, cond))
	}
	b.WriteString(fmt.Sprintf(ctx.prof.PiecewiseElseString, fallback))
	return lowered{text: b.String(), prec: precConditional}, nil
}

// formatFloat renders a numeric literal the way CellML's own generated
// sources do: always with a decimal point, switching to scientific notation
// outside a "normal" magnitude range. Adapted from the teacher's
// magnitude-switch style (pkg/util/formatter.go's FormatMagnitude) rather
// than a bare strconv.FormatFloat, since the target languages need a
// decimal point to parse as a floating literal at all.
func formatFloat(v float64) string {
	if v == 0 {
		return "0.0"
	}
	abs := math.Abs(v)
	if abs >= 1e15 || abs < 1e-4 {
		return normalizeExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func normalizeExponent(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 {
		return s
	}
	mantissa, exp := s[:idx], s[idx+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	sign := "+"
	if strings.HasPrefix(exp, "-") {
		sign = "-"
		exp = exp[1:]
	} else if strings.HasPrefix(exp, "+") {
		exp = exp[1:]
	}
	return mantissa + "e" + sign + exp
}

// formatLiteralString renders a Variable's declared initial-value literal
// (already a decimal string per §3) for direct inlining as a Constant's
// value — reparsing and reformatting through formatFloat keeps its shape
// consistent with computed literals.
func formatLiteralString(raw string) string {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return formatFloat(v)
}
