package numeric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edp1096/cellml-codegen/internal/numeric"
	"github.com/edp1096/cellml-codegen/mathast"
)

func TestFoldLiteral(t *testing.T) {
	v, ok := numeric.Fold(mathast.Num(3.5))
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)
}

func TestFoldArithmetic(t *testing.T) {
	// (2 + 3) * 4 - 1 = 19
	expr := mathast.Bin(mathast.OpMinus,
		mathast.Bin(mathast.OpTimes,
			mathast.Bin(mathast.OpPlus, mathast.Num(2.0), mathast.Num(3.0)),
			mathast.Num(4.0)),
		mathast.Num(1.0))

	v, ok := numeric.Fold(expr)
	assert.True(t, ok)
	assert.Equal(t, 19.0, v)
}

func TestFoldDivideAndPower(t *testing.T) {
	v, ok := numeric.Fold(mathast.Bin(mathast.OpDivide, mathast.Num(9.0), mathast.Num(2.0)))
	assert.True(t, ok)
	assert.Equal(t, 4.5, v)

	v, ok = numeric.Fold(mathast.Bin(mathast.OpPower, mathast.Num(2.0), mathast.Num(10.0)))
	assert.True(t, ok)
	assert.Equal(t, 1024.0, v)
}

func TestFoldUnaryMinusAndAbs(t *testing.T) {
	v, ok := numeric.Fold(mathast.Neg(mathast.Num(5.0)))
	assert.True(t, ok)
	assert.Equal(t, -5.0, v)

	v, ok = numeric.Fold(mathast.Call(mathast.OpAbs, mathast.Num(-7.0)))
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)
}

func TestFoldNamedConstants(t *testing.T) {
	v, ok := numeric.Fold(&mathast.Const{Symbol: mathast.ConstPi})
	assert.True(t, ok)
	assert.InDelta(t, math.Pi, v, 1e-15)

	v, ok = numeric.Fold(&mathast.Const{Symbol: mathast.ConstE})
	assert.True(t, ok)
	assert.InDelta(t, math.E, v, 1e-15)
}

func TestFoldDeclinesOnVariableReference(t *testing.T) {
	_, ok := numeric.Fold(mathast.Bin(mathast.OpPlus, mathast.Num(1.0), mathast.Var("x")))
	assert.False(t, ok)
}

func TestFoldDeclinesOnUnsupportedOperator(t *testing.T) {
	_, ok := numeric.Fold(mathast.Call(mathast.OpSin, mathast.Num(0.0)))
	assert.False(t, ok)
}

func TestFoldDeclinesOnDiff(t *testing.T) {
	_, ok := numeric.Fold(mathast.Diff("t", "x"))
	assert.False(t, ok)
}
