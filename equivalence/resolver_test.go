package equivalence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/cellml-codegen/cellml"
	"github.com/edp1096/cellml-codegen/diag"
	"github.com/edp1096/cellml-codegen/equivalence"
)

func ref(c *cellml.Component, name string) cellml.VarRef {
	return cellml.VarRef{ComponentID: c.ID, ComponentName: c.Name, VariableName: name}
}

func addVar(c *cellml.Component, name, units string) *cellml.Variable {
	v := &cellml.Variable{Name: name, Units: units, Interface: cellml.InterfacePublic}
	c.Variables = append(c.Variables, v)
	return v
}

func TestBuildSingletonClasses(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "a", "dimensionless")
	addVar(c, "b", "dimensionless")

	ch := diag.New()
	result := equivalence.Build(m, ch)

	assert.Len(t, result.Classes, 2)
	classA, ok := result.ClassOf[ref(c, "a")]
	require.True(t, ok)
	assert.Equal(t, []cellml.VarRef{ref(c, "a")}, classA.Members)
}

func TestBuildMergesTransitiveEquivalence(t *testing.T) {
	m := cellml.NewModel("m")
	c1 := m.AddComponent("one")
	c2 := m.AddComponent("two")
	c3 := m.AddComponent("three")
	addVar(c1, "a", "volt")
	addVar(c2, "b", "volt")
	addVar(c3, "c", "volt")

	m.AddEquivalence(ref(c1, "a"), ref(c2, "b"))
	m.AddEquivalence(ref(c2, "b"), ref(c3, "c"))

	ch := diag.New()
	result := equivalence.Build(m, ch)

	require.Len(t, result.Classes, 1)
	class := result.Classes[0]
	assert.Len(t, class.Members, 3)
	assert.Equal(t, ref(c1, "a"), class.Representative) // "one" sorts first alphabetically
	assert.Equal(t, "volt", class.Units)
	assert.True(t, class.UnitsOK)
}

func TestBuildFlagsUnitMismatch(t *testing.T) {
	m := cellml.NewModel("m")
	c1 := m.AddComponent("one")
	c2 := m.AddComponent("two")
	addVar(c1, "a", "volt")
	addVar(c2, "b", "millivolt")
	m.AddEquivalence(ref(c1, "a"), ref(c2, "b"))

	ch := diag.New()
	result := equivalence.Build(m, ch)

	require.Len(t, result.Classes, 1)
	assert.False(t, result.Classes[0].UnitsOK)
	assert.True(t, ch.HasFatal())
}

func TestBuildFlagsDoubleInitialization(t *testing.T) {
	m := cellml.NewModel("m")
	c1 := m.AddComponent("one")
	c2 := m.AddComponent("two")
	v1 := addVar(c1, "a", "dimensionless")
	v1.HasInitial = true
	v1.InitialValue = "1.0"
	v2 := addVar(c2, "b", "dimensionless")
	v2.HasInitial = true
	v2.InitialValue = "2.0"

	m.AddEquivalence(ref(c1, "a"), ref(c2, "b"))

	ch := diag.New()
	result := equivalence.Build(m, ch)

	require.Len(t, result.Classes, 1)
	assert.True(t, result.Classes[0].HasInitial)
	assert.True(t, ch.HasFatal())
}

func TestClassOfNameLooksUpByNamePair(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")
	addVar(c, "x", "second")

	result := equivalence.Build(m, diag.New())

	class, ok := result.ClassOfName("main", "x")
	assert.True(t, ok)
	assert.Equal(t, "x", class.Representative.VariableName)

	_, ok = result.ClassOfName("main", "missing")
	assert.False(t, ok)
}

func TestCheckInterfaceLegalityFlagsIllegalPublicToPrivate(t *testing.T) {
	m := cellml.NewModel("m")
	c1 := m.AddComponent("one")
	c2 := m.AddComponent("two")
	v1 := addVar(c1, "a", "dimensionless")
	v1.Interface = cellml.InterfacePrivate
	addVar(c2, "b", "dimensionless") // public, default in addVar

	m.AddEquivalence(ref(c1, "a"), ref(c2, "b"))

	ch := diag.New()
	equivalence.Build(m, ch)

	found := false
	for _, issue := range ch.All() {
		if issue.Kind == diag.KindConnection {
			found = true
		}
	}
	assert.True(t, found)
}
