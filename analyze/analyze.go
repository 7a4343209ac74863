// Package analyze implements the System Analyzer (spec §4.E, component E):
// it resolves every EquivalenceClass to a role, detects under/over/
// unsuitably constrained systems, and produces the dependency-ordered
// evaluation list the generator walks. Style follows the teacher's
// multi-pass circuit solve (pkg/circuit/circuit.go builds node/branch maps
// in one pass, then a second pass stamps the matrix) — one pass per
// detection step, all sharing the same diag.Channel rather than returning
// early.
package analyze

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/edp1096/cellml-codegen/classify"
	"github.com/edp1096/cellml-codegen/diag"
	"github.com/edp1096/cellml-codegen/equivalence"
	"github.com/edp1096/cellml-codegen/mathast"
)

// Role is the ClassifiedVariable role assigned to one EquivalenceClass.
type Role int

const (
	RoleUnknown Role = iota
	RoleVariableOfIntegration
	RoleState
	RoleConstant
	RoleComputedConstant
	RoleAlgebraic
	RoleExternal
)

func (r Role) String() string {
	switch r {
	case RoleVariableOfIntegration:
		return "VariableOfIntegration"
	case RoleState:
		return "State"
	case RoleConstant:
		return "Constant"
	case RoleComputedConstant:
		return "ComputedConstant"
	case RoleAlgebraic:
		return "Algebraic"
	case RoleExternal:
		return "External"
	default:
		return "Unknown"
	}
}

// ModelType is the overall classification of a Model after analysis (spec §3).
type ModelType int

const (
	ModelUnknown ModelType = iota
	ModelAlgebraic
	ModelODE
	ModelInvalid
	ModelUnderconstrained
	ModelOverconstrained
	ModelUnsuitablyConstrained
)

func (m ModelType) String() string {
	switch m {
	case ModelAlgebraic:
		return "ALGEBRAIC"
	case ModelODE:
		return "ODE"
	case ModelInvalid:
		return "INVALID"
	case ModelUnderconstrained:
		return "UNDERCONSTRAINED"
	case ModelOverconstrained:
		return "OVERCONSTRAINED"
	case ModelUnsuitablyConstrained:
		return "UNSUITABLY_CONSTRAINED"
	default:
		return "UNKNOWN"
	}
}

// ClassifiedVariable is one EquivalenceClass together with its resolved role
// and (where applicable) the equation that defines it.
type ClassifiedVariable struct {
	Class    *equivalence.Class
	Role     Role
	Equation *classify.Equation // nil for VoI, Constant, External
}

// System is the complete output of Analyze: every class's role, plus the
// orderings the generator needs.
type System struct {
	Type ModelType

	VoI *equivalence.Class // nil if the model has no variable of integration

	// States are State-role classes, ordered by the first ODE (in
	// component-then-source order) that names them — stateCount(M) per §8
	// property 1.
	States []*ClassifiedVariable

	// Constants are Constant-role classes: declared initial value, no
	// defining equation. They carry no array slot; the generator inlines
	// their literal value wherever referenced (see DESIGN.md).
	Constants []*ClassifiedVariable

	// Variables are the ComputedConstant- and Algebraic-role classes, in
	// dependency-resolved evaluation order — this is variableCount(M) per
	// §8 property 2, and the array the C/Python VARIABLE_INFO slots index
	// into.
	Variables []*ClassifiedVariable

	// ComputedConstants and PerStepAlgebraic are disjoint views over
	// Variables, preserving its relative order, split by role — the
	// generator's computeComputedConstants vs. compute{Rates,Variables}
	// bodies walk these separately.
	ComputedConstants []*ClassifiedVariable
	PerStepAlgebraic  []*ClassifiedVariable

	byClass map[*equivalence.Class]*ClassifiedVariable
}

// ClassifiedOf returns the resolved ClassifiedVariable for class, if any.
func (s *System) ClassifiedOf(class *equivalence.Class) (*ClassifiedVariable, bool) {
	cv, ok := s.byClass[class]
	return cv, ok
}

func (s *System) StateCount() int    { return len(s.States) }
func (s *System) VariableCount() int { return len(s.Variables) }

// VariableOfIntegration returns the VoI class, or nil if the model has none.
func (s *System) VariableOfIntegration() *equivalence.Class { return s.VoI }

// State returns the i-th State classified variable, per the §6 query surface.
func (s *System) State(i int) (*ClassifiedVariable, bool) {
	if i < 0 || i >= len(s.States) {
		return nil, false
	}
	return s.States[i], true
}

// Variable returns the i-th non-constant, non-state classified variable.
func (s *System) Variable(i int) (*ClassifiedVariable, bool) {
	if i < 0 || i >= len(s.Variables) {
		return nil, false
	}
	return s.Variables[i], true
}

// Analyze runs the System Analyzer over a resolved equivalence.Result and the
// classified equations from classify.Classify, appending diagnostics to ch.
func Analyze(eqres *equivalence.Result, equations []*classify.Equation, ch *diag.Channel) *System {
	if len(eqres.Classes) == 0 {
		return &System{Type: ModelUnknown, byClass: map[*equivalence.Class]*ClassifiedVariable{}}
	}

	sys := &System{byClass: make(map[*equivalence.Class]*ClassifiedVariable)}

	voiClass, hadTwoVoIs := detectVoI(eqres, equations, ch)

	stateOrder, stateDefiners, hadStateOver, hadStateUnder := detectStates(eqres, equations, ch)
	stateSet := make(map[*equivalence.Class]bool, len(stateOrder))
	for _, c := range stateOrder {
		stateSet[c] = true
	}

	assignDefiners := make(map[*equivalence.Class][]*classify.Equation)
	for _, eq := range equations {
		if eq.Kind != classify.KindAssign || !eq.Valid {
			continue
		}
		cls, ok := eqres.ClassOf[eq.LHSVar]
		if !ok {
			continue
		}
		assignDefiners[cls] = append(assignDefiners[cls], eq)
	}

	var constants []*equivalence.Class
	defined := make(map[*equivalence.Class]*classify.Equation) // algebraic-tier classes awaiting ordering
	hadOver, hadUnder := hadStateOver, hadStateUnder

	for _, class := range eqres.Classes {
		if class == voiClass || stateSet[class] {
			continue
		}
		definers := assignDefiners[class]
		switch {
		case len(definers) > 1:
			hadOver = true
			ch.Constraint(diag.PhaseAnalyze, diag.KindVariable, class.Representative.ComponentName, class.Representative.VariableName,
				fmt.Sprintf("Variable '%s' in component '%s' is computed more than once.",
					class.Representative.VariableName, class.Representative.ComponentName))
			defined[class] = definers[0]
		case len(definers) == 1:
			defined[class] = definers[0]
		default:
			if class.HasInitial {
				constants = append(constants, class)
			} else {
				hadUnder = true
				ch.Constraint(diag.PhaseAnalyze, diag.KindVariable, class.Representative.ComponentName, class.Representative.VariableName,
					fmt.Sprintf("Variable '%s' in component '%s' is not computed.",
						class.Representative.VariableName, class.Representative.ComponentName))
				sys.byClass[class] = &ClassifiedVariable{Class: class, Role: RoleExternal}
			}
		}
	}

	order, hadCycle := orderByDependency(defined, eqres, ch)

	sort.Slice(constants, func(i, j int) bool { return constants[i].ID < constants[j].ID })
	for _, class := range constants {
		cv := &ClassifiedVariable{Class: class, Role: RoleConstant}
		sys.Constants = append(sys.Constants, cv)
		sys.byClass[class] = cv
	}

	voiDependent := make(map[*equivalence.Class]bool)
	for _, class := range order {
		eq := defined[class]
		role := RoleComputedConstant
		if classDependsOnDynamic(class, eq, voiClass, stateSet, voiDependent, eqres) {
			role = RoleAlgebraic
			voiDependent[class] = true
		}
		cv := &ClassifiedVariable{Class: class, Role: role, Equation: eq}
		sys.Variables = append(sys.Variables, cv)
		sys.byClass[class] = cv
		if role == RoleComputedConstant {
			sys.ComputedConstants = append(sys.ComputedConstants, cv)
		} else {
			sys.PerStepAlgebraic = append(sys.PerStepAlgebraic, cv)
		}
	}

	if voiClass != nil {
		cv := &ClassifiedVariable{Class: voiClass, Role: RoleVariableOfIntegration}
		sys.VoI = voiClass
		sys.byClass[voiClass] = cv
	}
	for _, class := range stateOrder {
		eq := stateDefiners[class]
		cv := &ClassifiedVariable{Class: class, Role: RoleState, Equation: eq}
		sys.States = append(sys.States, cv)
		sys.byClass[class] = cv
	}

	switch {
	case ch.HasFatal() || hadTwoVoIs || hadCycle:
		sys.Type = ModelInvalid
	case hadUnder && hadOver:
		sys.Type = ModelUnsuitablyConstrained
	case hadUnder:
		sys.Type = ModelUnderconstrained
	case hadOver:
		sys.Type = ModelOverconstrained
	case len(stateOrder) > 0:
		sys.Type = ModelODE
	default:
		sys.Type = ModelAlgebraic
	}

	if sys.Type == ModelInvalid || sys.Type == ModelUnderconstrained ||
		sys.Type == ModelOverconstrained || sys.Type == ModelUnsuitablyConstrained {
		sys.States = nil
		sys.Variables = nil
		sys.ComputedConstants = nil
		sys.PerStepAlgebraic = nil
	}

	return sys
}

// detectVoI implements step 1: every ODE's bound variable must resolve to a
// single EquivalenceClass, which must not itself carry an initial value.
func detectVoI(eqres *equivalence.Result, equations []*classify.Equation, ch *diag.Channel) (*equivalence.Class, bool) {
	seen := make(map[*equivalence.Class]bool)
	for _, eq := range equations {
		if eq.Kind != classify.KindODE || !eq.Valid {
			continue
		}
		cls, ok := eqres.ClassOf[eq.VoI]
		if !ok {
			continue
		}
		seen[cls] = true
	}
	if len(seen) == 0 {
		return nil, false
	}
	var classes []*equivalence.Class
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })

	if len(classes) > 1 {
		a, b := classes[0], classes[1]
		ch.Fatal(diag.PhaseAnalyze, diag.KindVariable,
			fmt.Sprintf("variable '%s' in component '%s' and variable '%s' in component '%s' cannot both be a variable of integration.",
				a.Representative.VariableName, a.Representative.ComponentName,
				b.Representative.VariableName, b.Representative.ComponentName))
		return nil, true
	}

	voi := classes[0]
	if voi.HasInitial {
		ch.FatalVar(diag.PhaseAnalyze, diag.KindVariable, voi.Representative.ComponentName, voi.Representative.VariableName,
			fmt.Sprintf("variable '%s' in component '%s' cannot be both a variable of integration and initialised.",
				voi.Representative.VariableName, voi.Representative.ComponentName))
	}
	return voi, false
}

// detectStates implements step 2: every ODE's state class becomes a State,
// deduplicated, in first-occurrence order; a state class defined by more
// than one ODE is overconstrained, and one with no initial value anywhere in
// its class is underconstrained.
func detectStates(eqres *equivalence.Result, equations []*classify.Equation, ch *diag.Channel) (
	order []*equivalence.Class, definers map[*equivalence.Class]*classify.Equation, hadOver, hadUnder bool) {

	definers = make(map[*equivalence.Class]*classify.Equation)
	counts := make(map[*equivalence.Class]int)
	seen := make(map[*equivalence.Class]bool)

	for _, eq := range equations {
		if eq.Kind != classify.KindODE || !eq.Valid {
			continue
		}
		cls, ok := eqres.ClassOf[eq.State]
		if !ok {
			continue
		}
		counts[cls]++
		if !seen[cls] {
			seen[cls] = true
			order = append(order, cls)
			definers[cls] = eq
		}
	}

	for _, cls := range order {
		if counts[cls] > 1 {
			hadOver = true
			ch.Constraint(diag.PhaseAnalyze, diag.KindVariable, cls.Representative.ComponentName, cls.Representative.VariableName,
				fmt.Sprintf("Variable '%s' in component '%s' is computed more than once.",
					cls.Representative.VariableName, cls.Representative.ComponentName))
		}
		if !cls.HasInitial {
			hadUnder = true
			ch.Constraint(diag.PhaseAnalyze, diag.KindVariable, cls.Representative.ComponentName, cls.Representative.VariableName,
				fmt.Sprintf("Variable '%s' in component '%s' is used in an ODE, but it is not initialised.",
					cls.Representative.VariableName, cls.Representative.ComponentName))
		}
	}
	return order, definers, hadOver, hadUnder
}

// orderByDependency implements step 5: a DAG over the algebraic-tier classes
// (ComputedConstant- and Algebraic-role, not yet distinguished at this
// point), edge refClass -> class whenever class's defining equation
// references refClass. Uses lvlath/dfs's topological sort over the
// "computes" relation (cellml.Encapsulation.VerifyForest uses the same
// package's cycle detection over the encapsulation tree).
func orderByDependency(defined map[*equivalence.Class]*classify.Equation, eqres *equivalence.Result, ch *diag.Channel) ([]*equivalence.Class, bool) {
	if len(defined) == 0 {
		return nil, false
	}

	g := core.NewGraph(core.WithDirected(true))
	id := func(c *equivalence.Class) string { return fmt.Sprintf("c%d", c.ID) }

	byID := make(map[string]*equivalence.Class, len(defined))
	for class := range defined {
		byID[id(class)] = class
		_ = g.AddVertex(id(class))
	}
	for class, eq := range defined {
		for _, ref := range eq.Referenced {
			refClass, ok := eqres.ClassOf[ref]
			if !ok || refClass == class {
				continue
			}
			if _, isAlgebraicTier := defined[refClass]; !isAlgebraicTier {
				continue
			}
			_, _ = g.AddEdge(id(refClass), id(class), 0)
		}
	}

	ordered, err := dfs.TopologicalSort(g)
	if err != nil {
		ch.Fatal(diag.PhaseAnalyze, diag.KindModel, "the system contains an algebraic loop: dependent equations cannot be evaluated in any order")
		// Fall back to class ID (canonical-representative) order so callers
		// still get a complete, if unordered, Variables list; emission is suppressed regardless
		// since the model is now INVALID.
		var classes []*equivalence.Class
		for class := range defined {
			classes = append(classes, class)
		}
		sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
		return classes, true
	}

	out := make([]*equivalence.Class, 0, len(ordered))
	for _, v := range ordered {
		out = append(out, byID[v])
	}
	return out, false
}

// classDependsOnDynamic reports whether class's defining equation depends,
// directly or transitively (through other already-ordered algebraic-tier
// classes), on the VoI or on any State class — disqualifying it from
// ComputedConstant. voiDependent is filled in as classes are resolved in
// dependency order, so transitive lookups only ever see already-decided
// predecessors.
func classDependsOnDynamic(class *equivalence.Class, eq *classify.Equation, voiClass *equivalence.Class,
	stateSet map[*equivalence.Class]bool, voiDependent map[*equivalence.Class]bool, eqres *equivalence.Result) bool {

	for _, ref := range eq.Referenced {
		refClass, ok := eqres.ClassOf[ref]
		if !ok {
			continue
		}
		if refClass == voiClass || stateSet[refClass] {
			return true
		}
		if voiDependent[refClass] {
			return true
		}
	}
	return false
}

// Foldable reports whether node contains no variable references at all —
// the "basic constant folding of numeric MathML leaves" non-goal (spec §1):
// a ComputedConstant whose defining RHS is Foldable needs no runtime
// evaluation, so the generator folds it directly into initializeConstants
// rather than computeComputedConstants.
func Foldable(node mathast.Node) bool {
	return len(mathast.CiNames(node)) == 0
}
