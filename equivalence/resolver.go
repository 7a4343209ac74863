// Package equivalence implements the Equivalence Resolver (spec §4.B,
// component B): union-find over every Variable in a Model, producing
// EquivalenceClasses with a deterministic canonical representative and
// merged class-level attributes.
//
// The union-find itself — parent/rank arrays, path-compressed find, union
// by rank — is grounded on katalvlaran-lvlath's Kruskal implementation
// (prim_kruskal/kruskal.go), adapted from its map-keyed DSU to integer
// indices per the §9 design note ("use integer ids assigned by a first
// pass over all components; union-find operates on indices").
package equivalence

import (
	"fmt"
	"sort"

	"github.com/edp1096/cellml-codegen/cellml"
	"github.com/edp1096/cellml-codegen/diag"
)

// Class is the transitive closure of one set of equivalent Variables.
type Class struct {
	ID             int
	Representative cellml.VarRef
	Members        []cellml.VarRef // sorted by (component name, variable name)

	Units        string
	UnitsOK      bool // false if members disagree on resolved units name
	HasInitial   bool
	InitialValue string
	InitialSetBy cellml.VarRef
}

// Result is the output of Build: every Variable's class, plus the classes
// themselves in canonical-representative order.
type Result struct {
	ClassOf map[cellml.VarRef]*Class
	Classes []*Class
}

// ClassOfName is a convenience lookup by (component, variable) name pair,
// for callers that do not carry a ComponentID.
func (r *Result) ClassOfName(component, variable string) (*Class, bool) {
	for ref, class := range r.ClassOf {
		if ref.ComponentName == component && ref.VariableName == variable {
			return class, true
		}
	}
	return nil, false
}

type dsu struct {
	parent []int
	rank   []int
}

func newDSU(n int) *dsu {
	d := &dsu{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

// find locates the root of x with path compression.
func (d *dsu) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]] // path compression (halving)
		x = d.parent[x]
	}
	return x
}

func (d *dsu) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.rank[ra] < d.rank[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	if d.rank[ra] == d.rank[rb] {
		d.rank[ra]++
	}
}

// Build runs the resolver over model, appending any legality/merge
// diagnostics to ch, and returns the resolved classes.
func Build(model *cellml.Model, ch *diag.Channel) *Result {
	var refs []cellml.VarRef
	index := make(map[cellml.VarRef]int)

	for _, comp := range model.Components {
		for _, v := range comp.Variables {
			ref := cellml.VarRef{ComponentID: comp.ID, ComponentName: comp.Name, VariableName: v.Name}
			index[ref] = len(refs)
			refs = append(refs, ref)
		}
	}

	d := newDSU(len(refs))

	for _, eq := range model.Equivalences {
		ia, aok := index[eq.A]
		ib, bok := index[eq.B]
		if !aok || !bok {
			// Referenced variable not declared anywhere; the classifier
			// also reports this against MathML Ci references. Here it means
			// a dangling connection endpoint.
			continue
		}
		checkInterfaceLegality(model, eq, ch)
		d.union(ia, ib)
	}

	byRoot := make(map[int][]cellml.VarRef)
	for i, ref := range refs {
		root := d.find(i)
		byRoot[root] = append(byRoot[root], ref)
	}

	result := &Result{ClassOf: make(map[cellml.VarRef]*Class)}
	for _, members := range byRoot {
		sortedMembers := append([]cellml.VarRef(nil), members...)
		sort.Slice(sortedMembers, func(i, j int) bool { return lessRef(sortedMembers[i], sortedMembers[j]) })

		class := &Class{Representative: sortedMembers[0], Members: sortedMembers}
		mergeUnits(model, class, ch)
		mergeInitialValue(model, class, ch)

		result.Classes = append(result.Classes, class)
		for _, ref := range sortedMembers {
			result.ClassOf[ref] = class
		}
	}

	sort.Slice(result.Classes, func(i, j int) bool {
		return lessRef(result.Classes[i].Representative, result.Classes[j].Representative)
	})
	for i, class := range result.Classes {
		class.ID = i
	}

	return result
}

func lessRef(a, b cellml.VarRef) bool {
	if a.ComponentName != b.ComponentName {
		return a.ComponentName < b.ComponentName
	}
	return a.VariableName < b.VariableName
}

func mergeUnits(model *cellml.Model, class *Class, ch *diag.Channel) {
	class.UnitsOK = true
	for _, ref := range class.Members {
		comp, ok := model.ComponentByID(ref.ComponentID)
		if !ok {
			continue
		}
		v, ok := comp.Variable(ref.VariableName)
		if !ok {
			continue
		}
		if class.Units == "" {
			class.Units = v.Units
			continue
		}
		if class.Units != v.Units {
			class.UnitsOK = false
		}
	}
	if !class.UnitsOK {
		ch.FatalVar(diag.PhaseEquivalence, diag.KindUnits,
			class.Representative.ComponentName, class.Representative.VariableName,
			fmt.Sprintf("equivalent variables in class represented by '%s' in component '%s' do not all have the same units",
				class.Representative.VariableName, class.Representative.ComponentName))
	}
}

func mergeInitialValue(model *cellml.Model, class *Class, ch *diag.Channel) {
	var setters []cellml.VarRef
	var value string
	for _, ref := range class.Members {
		comp, ok := model.ComponentByID(ref.ComponentID)
		if !ok {
			continue
		}
		v, ok := comp.Variable(ref.VariableName)
		if !ok || !v.HasInitial {
			continue
		}
		setters = append(setters, ref)
		if len(setters) == 1 {
			value = v.InitialValue
		}
	}
	switch len(setters) {
	case 0:
		return
	case 1:
		class.HasInitial = true
		class.InitialValue = value
		class.InitialSetBy = setters[0]
	default:
		first, second := setters[0], setters[1]
		ch.FatalVar(diag.PhaseEquivalence, diag.KindVariable, first.ComponentName, first.VariableName,
			fmt.Sprintf("Variable '%s' in component '%s' and variable '%s' in component '%s' are equivalent and cannot therefore both be initialised.",
				first.VariableName, first.ComponentName, second.VariableName, second.ComponentName))
		// Still record the first so downstream analysis has a value to
		// reason about; the fatal issue is what suppresses emission.
		class.HasInitial = true
		class.InitialValue = value
		class.InitialSetBy = first
	}
}

// checkInterfaceLegality validates the interface-kind rules for one
// declared equivalence against the encapsulation relationship of its two
// components (spec §4.B): a private interface may only bind with an
// encapsulated parent/child; a public interface only with a sibling or the
// environment. Violations are advisory — the edge is still unioned.
func checkInterfaceLegality(model *cellml.Model, eq cellml.Equivalence, ch *diag.Channel) {
	compA, okA := model.ComponentByID(eq.A.ComponentID)
	compB, okB := model.ComponentByID(eq.B.ComponentID)
	if !okA || !okB {
		return
	}
	varA, okA := compA.Variable(eq.A.VariableName)
	varB, okB := compB.Variable(eq.B.VariableName)
	if !okA || !okB {
		return
	}

	enc := model.Encapsulation
	siblings := enc.AreSiblings(compA.ID, compB.ID)
	parentIsA, isParentChild := enc.IsParentChild(compA.ID, compB.ID)

	legal := false
	switch {
	case siblings:
		legal = isPublic(varA.Interface) && isPublic(varB.Interface)
	case isParentChild:
		parentVar, childVar := varA, varB
		if !parentIsA {
			parentVar, childVar = varB, varA
		}
		legal = isParentFacing(parentVar.Interface) && isPublic(childVar.Interface)
	}

	if !legal {
		ch.Advisory(diag.PhaseEquivalence, diag.KindConnection, eq.A.ComponentName, eq.A.VariableName,
			fmt.Sprintf("equivalence between '%s' in component '%s' and '%s' in component '%s' is not permitted by the declared interface kinds",
				eq.A.VariableName, eq.A.ComponentName, eq.B.VariableName, eq.B.ComponentName))
	}
}

func isPublic(k cellml.InterfaceKind) bool {
	return k == cellml.InterfacePublic || k == cellml.InterfacePublicAndPrivate
}

func isParentFacing(k cellml.InterfaceKind) bool {
	return k == cellml.InterfacePrivate || k == cellml.InterfacePublicAndPrivate
}
