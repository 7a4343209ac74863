package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/cellml-codegen/cellml"
	"github.com/edp1096/cellml-codegen/classify"
	"github.com/edp1096/cellml-codegen/diag"
	"github.com/edp1096/cellml-codegen/mathast"
)

func addVar(c *cellml.Component, name, units string) *cellml.Variable {
	v := &cellml.Variable{Name: name, Units: units, Interface: cellml.InterfacePublic}
	c.Variables = append(c.Variables, v)
	return v
}

func TestClassifyODE(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "t", "second")
	addVar(c, "x", "dimensionless")
	c.Math = []mathast.Node{mathast.Eq(mathast.Diff("t", "x"), mathast.Num(1.0))}

	ch := diag.New()
	eqs := classify.Classify(m, ch)

	require.Len(t, eqs, 1)
	eq := eqs[0]
	assert.Equal(t, classify.KindODE, eq.Kind)
	assert.True(t, eq.Valid)
	assert.Equal(t, "x", eq.State.VariableName)
	assert.Equal(t, "t", eq.VoI.VariableName)
	assert.False(t, ch.HasFatal())
}

func TestClassifyAssign(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "a", "dimensionless")
	addVar(c, "b", "dimensionless")
	c.Math = []mathast.Node{mathast.Eq(mathast.Var("a"), mathast.Bin(mathast.OpTimes, mathast.Num(2.0), mathast.Var("b")))}

	ch := diag.New()
	eqs := classify.Classify(m, ch)

	require.Len(t, eqs, 1)
	eq := eqs[0]
	assert.Equal(t, classify.KindAssign, eq.Kind)
	assert.True(t, eq.Valid)
	assert.Equal(t, "a", eq.LHSVar.VariableName)
	assert.False(t, ch.HasFatal())
}

func TestClassifyRejectsNonEquationTopLevel(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "a", "dimensionless")
	c.Math = []mathast.Node{mathast.Var("a")} // not an <apply><eq/>...</apply>

	ch := diag.New()
	eqs := classify.Classify(m, ch)

	assert.Empty(t, eqs)
	assert.True(t, ch.HasFatal())
}

func TestClassifyRejectsHigherOrderDerivative(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "t", "second")
	addVar(c, "x", "dimensionless")
	diff := mathast.Diff("t", "x")
	diff.DiffOrder = 2
	c.Math = []mathast.Node{mathast.Eq(diff, mathast.Num(1.0))}

	ch := diag.New()
	eqs := classify.Classify(m, ch)

	require.Len(t, eqs, 1)
	assert.False(t, eqs[0].Valid)
	assert.True(t, ch.HasFatal())
}

func TestClassifyRejectsConstraintForm(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "a", "dimensionless")
	addVar(c, "b", "dimensionless")
	// a + b = 1, neither side a bare Ci -- not a supported assignment form.
	c.Math = []mathast.Node{
		mathast.Eq(mathast.Bin(mathast.OpPlus, mathast.Var("a"), mathast.Var("b")), mathast.Num(1.0)),
	}

	ch := diag.New()
	eqs := classify.Classify(m, ch)

	require.Len(t, eqs, 1)
	assert.False(t, eqs[0].Valid)
	assert.True(t, ch.HasFatal())
}

func TestClassifyFlagsUndefinedReference(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "a", "dimensionless")
	c.Math = []mathast.Node{mathast.Eq(mathast.Var("a"), mathast.Var("undefined"))}

	ch := diag.New()
	eqs := classify.Classify(m, ch)

	require.Len(t, eqs, 1)
	assert.False(t, eqs[0].Valid)
	assert.True(t, ch.HasFatal())
}

func TestClassifyPreservesSourceOrder(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "a", "dimensionless")
	addVar(c, "b", "dimensionless")
	c.Math = []mathast.Node{
		mathast.Eq(mathast.Var("a"), mathast.Num(1.0)),
		mathast.Eq(mathast.Var("b"), mathast.Num(2.0)),
	}

	eqs := classify.Classify(m, diag.New())

	require.Len(t, eqs, 2)
	assert.Equal(t, 0, eqs[0].SourceIndex)
	assert.Equal(t, 1, eqs[1].SourceIndex)
}
