package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/cellml-codegen/analyze"
	"github.com/edp1096/cellml-codegen/classify"
	"github.com/edp1096/cellml-codegen/diag"
	"github.com/edp1096/cellml-codegen/equivalence"
	"github.com/edp1096/cellml-codegen/examples/fixtures"
)

func TestEmptyModelIsUnknown(t *testing.T) {
	m := fixtures.Empty()
	ch := diag.New()
	eqres := equivalence.Build(m, ch)
	eqs := classify.Classify(m, ch)
	sys := analyze.Analyze(eqres, eqs, ch)

	assert.Equal(t, analyze.ModelUnknown, sys.Type)
	assert.Equal(t, 0, sys.StateCount())
	assert.Equal(t, 0, sys.VariableCount())
}

func TestDependentEquationsClassifiesODE(t *testing.T) {
	m := fixtures.DependentEquations()
	ch := diag.New()
	eqres := equivalence.Build(m, ch)
	eqs := classify.Classify(m, ch)
	sys := analyze.Analyze(eqres, eqs, ch)

	assert.Equal(t, analyze.ModelODE, sys.Type)
	assert.Equal(t, 1, sys.StateCount())
	assert.Equal(t, 2, sys.VariableCount())
	assert.Equal(t, 0, ch.ErrorCount())
	require.NotNil(t, sys.VoI)
	assert.Equal(t, "t", sys.VoI.Representative.VariableName)
}

func TestUnderconstrainedModel(t *testing.T) {
	m := fixtures.Underconstrained()
	ch := diag.New()
	eqres := equivalence.Build(m, ch)
	eqs := classify.Classify(m, ch)
	sys := analyze.Analyze(eqres, eqs, ch)

	assert.Equal(t, analyze.ModelUnderconstrained, sys.Type)
	assert.Empty(t, sys.Variables)
	assert.True(t, ch.HasConstraint())
}

func TestOverconstrainedModel(t *testing.T) {
	m := fixtures.Overconstrained()
	ch := diag.New()
	eqres := equivalence.Build(m, ch)
	eqs := classify.Classify(m, ch)
	sys := analyze.Analyze(eqres, eqs, ch)

	assert.Equal(t, analyze.ModelOverconstrained, sys.Type)
	assert.True(t, ch.HasConstraint())
}

func TestDoubleInitializationIsInvalid(t *testing.T) {
	m := fixtures.DoubleInitialization()
	ch := diag.New()
	eqres := equivalence.Build(m, ch)
	eqs := classify.Classify(m, ch)
	sys := analyze.Analyze(eqres, eqs, ch)

	assert.Equal(t, analyze.ModelInvalid, sys.Type)
	assert.True(t, ch.HasFatal())
}

func TestHodgkinHuxleyHasFourStatesAndNoVoIFalsePositive(t *testing.T) {
	m := fixtures.HodgkinHuxley1952()
	ch := diag.New()
	eqres := equivalence.Build(m, ch)
	eqs := classify.Classify(m, ch)
	sys := analyze.Analyze(eqres, eqs, ch)

	assert.Equal(t, analyze.ModelODE, sys.Type)
	assert.Equal(t, 4, sys.StateCount())

	// The VoI class (environment.time, merged into membrane/sodium/
	// potassium.time) must never be flagged underconstrained even though
	// environment.time itself is referenced nowhere as a Ci.
	for _, issue := range ch.All() {
		if issue.Variable == "time" {
			t.Fatalf("unexpected diagnostic against the variable of integration: %+v", issue)
		}
	}
}

func TestFoldableReportsNoVariableReferences(t *testing.T) {
	m := fixtures.DependentEquations()
	ch := diag.New()
	eqres := equivalence.Build(m, ch)
	eqs := classify.Classify(m, ch)

	for _, eq := range eqs {
		if eq.Kind != classify.KindAssign {
			continue
		}
		if eq.LHSVar.VariableName == "b" {
			// b = 2*t references the VoI, not a pure numeric literal tree.
			assert.False(t, analyze.Foldable(eq.RHSExpr))
		}
	}
	_ = eqres
}

func TestRoleAndModelTypeStringers(t *testing.T) {
	assert.Equal(t, "State", analyze.RoleState.String())
	assert.Equal(t, "Unknown", analyze.RoleUnknown.String())
	assert.Equal(t, "ODE", analyze.ModelODE.String())
	assert.Equal(t, "UNDERCONSTRAINED", analyze.ModelUnderconstrained.String())
}
