package cellml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edp1096/cellml-codegen/cellml"
)

func TestNewModelIsEmpty(t *testing.T) {
	m := cellml.NewModel("m")
	assert.True(t, m.IsEmpty())

	m.AddComponent("c")
	assert.False(t, m.IsEmpty())
}

func TestAddComponentIsFoundByNameAndID(t *testing.T) {
	m := cellml.NewModel("m")
	c := m.AddComponent("main")

	found, ok := m.Component("main")
	assert.True(t, ok)
	assert.Same(t, c, found)

	byID, ok := m.ComponentByID(c.ID)
	assert.True(t, ok)
	assert.Same(t, c, byID)
}

func TestComponentVariableLookup(t *testing.T) {
	c := &cellml.Component{Name: "main"}
	c.Variables = append(c.Variables, &cellml.Variable{Name: "x", Units: "dimensionless"})

	v, ok := c.Variable("x")
	assert.True(t, ok)
	assert.Equal(t, "dimensionless", v.Units)

	_, ok = c.Variable("missing")
	assert.False(t, ok)
}

func TestNewUnitTermDefaults(t *testing.T) {
	term := cellml.NewUnitTerm("second")
	assert.Equal(t, "second", term.Reference)
	assert.Equal(t, 1.0, term.Exponent)
	assert.Equal(t, 1.0, term.Multiplier)
	assert.Equal(t, 0.0, term.Offset)
	assert.False(t, term.HasPrefix)
}

func TestUnitsByName(t *testing.T) {
	m := cellml.NewModel("m")
	m.AddUnits("millivolt")

	u, ok := m.UnitsByName("millivolt")
	assert.True(t, ok)
	assert.Equal(t, "millivolt", u.Name)

	_, ok = m.UnitsByName("missing")
	assert.False(t, ok)
}

func TestAddEquivalenceAppends(t *testing.T) {
	m := cellml.NewModel("m")
	c1 := m.AddComponent("one")
	c2 := m.AddComponent("two")

	a := cellml.VarRef{ComponentID: c1.ID, ComponentName: "one", VariableName: "a"}
	b := cellml.VarRef{ComponentID: c2.ID, ComponentName: "two", VariableName: "b"}
	m.AddEquivalence(a, b)

	assert.Len(t, m.Equivalences, 1)
	assert.Equal(t, a, m.Equivalences[0].A)
	assert.Equal(t, b, m.Equivalences[0].B)
}
