package cellml

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"
)

// Encapsulation is the tree-structured parent/child relationship between
// Components (spec §3, §9). It is stored as two parallel maps keyed by
// stable Component identifiers rather than as back-references on Component
// itself, per the §9 design note — parsers encounter parent/child pairs in
// arbitrary order, and a Component must never own a pointer back to its
// parent. Cycle/forest validation is delegated to lvlath's dfs package over
// a directed core.Graph built from the same edges, rather than a hand
// walked visited-set (grounded on katalvlaran-lvlath's dfs.DetectCycles).
type Encapsulation struct {
	childToParent    map[uuid.UUID]uuid.UUID
	parentToChildren map[uuid.UUID][]uuid.UUID
	known            map[uuid.UUID]bool
}

// NewEncapsulation returns an empty Encapsulation.
func NewEncapsulation() *Encapsulation {
	return &Encapsulation{
		childToParent:    make(map[uuid.UUID]uuid.UUID),
		parentToChildren: make(map[uuid.UUID][]uuid.UUID),
		known:            make(map[uuid.UUID]bool),
	}
}

func (e *Encapsulation) addComponent(id uuid.UUID) {
	e.known[id] = true
}

// SetParent declares that child is directly encapsulated by parent. It is
// an error for child to already have a different parent (at most one
// parent per Component, spec §3 invariant).
func (e *Encapsulation) SetParent(parent, child uuid.UUID) error {
	if existing, ok := e.childToParent[child]; ok && existing != parent {
		return fmt.Errorf("cellml: component already has an encapsulation parent")
	}
	e.childToParent[child] = parent
	e.parentToChildren[parent] = append(e.parentToChildren[parent], child)
	return nil
}

// Parent returns child's encapsulation parent, if any.
func (e *Encapsulation) Parent(child uuid.UUID) (uuid.UUID, bool) {
	p, ok := e.childToParent[child]
	return p, ok
}

// Children returns parent's direct encapsulation children, in declaration
// order.
func (e *Encapsulation) Children(parent uuid.UUID) []uuid.UUID {
	return e.parentToChildren[parent]
}

// AreSiblings reports whether a and b share the same encapsulation parent
// (including both having none, i.e. both top-level).
func (e *Encapsulation) AreSiblings(a, b uuid.UUID) bool {
	pa, oka := e.childToParent[a]
	pb, okb := e.childToParent[b]
	if oka != okb {
		return false
	}
	if !oka {
		return true // both top-level
	}
	return pa == pb
}

// IsParentChild reports whether a is a direct encapsulation parent of b, or
// vice versa, returning which.
func (e *Encapsulation) IsParentChild(a, b uuid.UUID) (parentIsA bool, ok bool) {
	if p, has := e.childToParent[b]; has && p == a {
		return true, true
	}
	if p, has := e.childToParent[a]; has && p == b {
		return false, true
	}
	return false, false
}

// VerifyForest checks that the encapsulation relation forms a forest: every
// Component has at most one parent (guaranteed by construction via
// SetParent) and there is no cycle. Returns the cycle's component IDs (as
// strings) when one is found.
func (e *Encapsulation) VerifyForest() (cyclic bool, cycle []string, err error) {
	g := core.NewGraph(core.WithDirected(true))
	for id := range e.known {
		if err := g.AddVertex(id.String()); err != nil {
			return false, nil, fmt.Errorf("cellml: building encapsulation graph: %w", err)
		}
	}
	for child, parent := range e.childToParent {
		if _, err := g.AddEdge(parent.String(), child.String(), 0); err != nil {
			return false, nil, fmt.Errorf("cellml: building encapsulation graph: %w", err)
		}
	}
	found, cycles, err := dfs.DetectCycles(g)
	if err != nil {
		return false, nil, fmt.Errorf("cellml: checking encapsulation forest: %w", err)
	}
	if !found {
		return false, nil, nil
	}
	return true, cycles[0], nil
}
