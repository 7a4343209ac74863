package cellml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/cellml-codegen/cellml"
)

func TestEncapsulationParentChild(t *testing.T) {
	m := cellml.NewModel("m")
	parent := m.AddComponent("parent")
	child := m.AddComponent("child")

	require.NoError(t, m.Encapsulation.SetParent(parent.ID, child.ID))

	p, ok := m.Encapsulation.Parent(child.ID)
	assert.True(t, ok)
	assert.Equal(t, parent.ID, p)

	require.Len(t, m.Encapsulation.Children(parent.ID), 1)
	assert.Equal(t, child.ID, m.Encapsulation.Children(parent.ID)[0])

	isParent, ok := m.Encapsulation.IsParentChild(parent.ID, child.ID)
	assert.True(t, ok)
	assert.True(t, isParent)
}

func TestEncapsulationRejectsConflictingParent(t *testing.T) {
	m := cellml.NewModel("m")
	a := m.AddComponent("a")
	b := m.AddComponent("b")
	c := m.AddComponent("c")

	require.NoError(t, m.Encapsulation.SetParent(a.ID, c.ID))
	err := m.Encapsulation.SetParent(b.ID, c.ID)
	assert.Error(t, err)
}

func TestEncapsulationSiblings(t *testing.T) {
	m := cellml.NewModel("m")
	parent := m.AddComponent("parent")
	a := m.AddComponent("a")
	b := m.AddComponent("b")
	standalone := m.AddComponent("standalone")

	require.NoError(t, m.Encapsulation.SetParent(parent.ID, a.ID))
	require.NoError(t, m.Encapsulation.SetParent(parent.ID, b.ID))

	assert.True(t, m.Encapsulation.AreSiblings(a.ID, b.ID))
	assert.False(t, m.Encapsulation.AreSiblings(a.ID, standalone.ID))
	assert.True(t, m.Encapsulation.AreSiblings(parent.ID, standalone.ID)) // both top-level
}

func TestVerifyForestDetectsCycle(t *testing.T) {
	m := cellml.NewModel("m")
	a := m.AddComponent("a")
	b := m.AddComponent("b")

	require.NoError(t, m.Encapsulation.SetParent(a.ID, b.ID))
	// force a cycle by wiring b as a's parent too; SetParent accepts this
	// because a has no parent yet, so only VerifyForest can catch it.
	require.NoError(t, m.Encapsulation.SetParent(b.ID, a.ID))

	cyclic, cycle, err := m.Encapsulation.VerifyForest()
	require.NoError(t, err)
	assert.True(t, cyclic)
	assert.NotEmpty(t, cycle)
}

func TestVerifyForestAcceptsTree(t *testing.T) {
	m := cellml.NewModel("m")
	parent := m.AddComponent("parent")
	child := m.AddComponent("child")
	require.NoError(t, m.Encapsulation.SetParent(parent.ID, child.ID))

	cyclic, _, err := m.Encapsulation.VerifyForest()
	require.NoError(t, err)
	assert.False(t, cyclic)
}
