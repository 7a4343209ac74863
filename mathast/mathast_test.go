package mathast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edp1096/cellml-codegen/mathast"
)

func TestWalkVisitsDocumentOrder(t *testing.T) {
	tree := mathast.Eq(mathast.Var("a"), mathast.Bin(mathast.OpPlus, mathast.Var("b"), mathast.Num(1.0)))

	var kinds []mathast.Kind
	mathast.Walk(tree, func(n mathast.Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	assert.Equal(t, []mathast.Kind{
		mathast.KindApply, // Eq
		mathast.KindCi,    // a
		mathast.KindApply, // Plus
		mathast.KindCi,    // b
		mathast.KindCn,    // 1.0
	}, kinds)
}

func TestWalkPruneStopsSubtree(t *testing.T) {
	tree := mathast.Bin(mathast.OpPlus, mathast.Var("a"), mathast.Var("b"))

	var visited []string
	mathast.Walk(tree, func(n mathast.Node) bool {
		if apply, ok := n.(*mathast.Apply); ok {
			visited = append(visited, "apply")
			_ = apply
			return false // prune children
		}
		visited = append(visited, "leaf")
		return true
	})

	assert.Equal(t, []string{"apply"}, visited)
}

func TestCiNamesFirstOccurrenceOrder(t *testing.T) {
	expr := mathast.Bin(mathast.OpPlus,
		mathast.Bin(mathast.OpTimes, mathast.Var("b"), mathast.Var("a")),
		mathast.Var("b"))

	assert.Equal(t, []string{"b", "a"}, mathast.CiNames(expr))
}

func TestIsConstantExprExcludesOnlyNamedVars(t *testing.T) {
	voi := map[string]bool{"t": true}

	assert.True(t, mathast.IsConstantExpr(mathast.Bin(mathast.OpTimes, mathast.Num(2.0), mathast.Var("t")), voi))
	assert.False(t, mathast.IsConstantExpr(mathast.Bin(mathast.OpTimes, mathast.Num(2.0), mathast.Var("x")), voi))
	assert.True(t, mathast.IsConstantExpr(mathast.Num(3.0), voi))
}

func TestReferencesAny(t *testing.T) {
	expr := mathast.Bin(mathast.OpPlus, mathast.Var("a"), mathast.Var("b"))

	assert.True(t, mathast.ReferencesAny(expr, map[string]bool{"b": true}))
	assert.False(t, mathast.ReferencesAny(expr, map[string]bool{"c": true}))
}

func TestDiffBuildsBvarWrapper(t *testing.T) {
	d := mathast.Diff("t", "x")

	assert.Equal(t, mathast.OpDiff, d.Op)
	assert.Equal(t, 1, d.DiffOrder)
	assert.Len(t, d.Children, 2)

	bvar, ok := d.Children[0].(*mathast.Apply)
	assert.True(t, ok)
	assert.Equal(t, mathast.OpBvar, bvar.Op)

	stateRef, ok := d.Children[1].(*mathast.Ci)
	assert.True(t, ok)
	assert.Equal(t, "x", stateRef.Name)
}

func TestOpClassification(t *testing.T) {
	assert.True(t, mathast.OpLt.IsRelational())
	assert.False(t, mathast.OpPlus.IsRelational())

	assert.True(t, mathast.OpAnd.IsLogical())
	assert.False(t, mathast.OpPlus.IsLogical())

	assert.True(t, mathast.OpSin.IsTranscendental())
	assert.False(t, mathast.OpPlus.IsTranscendental())
}
