// Package cellml is the Model Graph read view (spec §3, component A): the
// in-memory representation of a parsed CellML document that the rest of
// this module treats as read-only during analysis. Building and mutating a
// Model (the XML/MathML parse step and the builder API) are external
// collaborators per spec §1; the constructors here are a minimal stand-in
// used by this module's own tests and example fixtures, mirroring the
// teacher's two-phase "assign indices, then build" shape
// (pkg/circuit/circuit.go: AssignNodeBranchMaps then CreateMatrix) rather
// than a full parser.
package cellml

import (
	"github.com/google/uuid"

	"github.com/edp1096/cellml-codegen/mathast"
)

// InterfaceKind is a Variable's CellML interface declaration, gating which
// Equivalences are legal across it (spec §3, §4.B).
type InterfaceKind int

const (
	InterfaceNone InterfaceKind = iota
	InterfacePublic
	InterfacePrivate
	InterfacePublicAndPrivate
)

// Variable lives inside exactly one Component (spec §3).
type Variable struct {
	Name         string
	Units        string
	InitialValue string // decimal literal or the name of a sibling Variable; "" if unset
	HasInitial   bool
	Interface    InterfaceKind
}

// UnitTerm is one term of a Units definition.
type UnitTerm struct {
	Reference  string
	HasPrefix  bool
	Prefix     int // SI prefix expressed as a power of ten; meaningful only if HasPrefix
	Exponent   float64
	Multiplier float64
	Offset     float64
}

// NewUnitTerm returns a UnitTerm with the CellML defaults (exponent 1,
// multiplier 1, offset 0) applied.
func NewUnitTerm(reference string) UnitTerm {
	return UnitTerm{Reference: reference, Exponent: 1.0, Multiplier: 1.0}
}

// Units is a named, ordered sequence of UnitTerms.
type Units struct {
	Name  string
	Terms []UnitTerm
	Base  bool
}

// Component is a named node owning Variables and (optionally) one MathML
// fragment expressing its local equations. Encapsulation parent/child
// relationships live on Model, not here, per the §9 design note: "never
// store direct owning back-references — the owning direction is
// parent→child only."
type Component struct {
	ID          uuid.UUID
	Name        string
	Variables   []*Variable
	Math        []mathast.Node // top-level children of the component's MathML root, document order
	Imported    bool
	ImportedURL string
}

// Variable looks up a Variable by name within the component.
func (c *Component) Variable(name string) (*Variable, bool) {
	for _, v := range c.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// VarRef names one Variable within one Component, by value — used as a map
// key and as the payload of an Equivalence.
type VarRef struct {
	ComponentID   uuid.UUID
	ComponentName string
	VariableName  string
}

// Equivalence declares that two Variables represent the same physical
// quantity (spec §3).
type Equivalence struct {
	A, B VarRef
}

// Model is the root of the Model Graph: an ordered sequence of Components,
// an ordered sequence of top-level Units, an Encapsulation forest over
// Components, and an ordered sequence of Equivalences.
type Model struct {
	Name          string
	Components    []*Component
	Units         []*Units
	Equivalences  []Equivalence
	Encapsulation *Encapsulation
}

// NewModel returns an empty, named Model ready for construction.
func NewModel(name string) *Model {
	return &Model{
		Name:          name,
		Encapsulation: NewEncapsulation(),
	}
}

// AddComponent appends a new, empty Component named name and returns it.
func (m *Model) AddComponent(name string) *Component {
	c := &Component{ID: uuid.New(), Name: name}
	m.Components = append(m.Components, c)
	m.Encapsulation.addComponent(c.ID)
	return c
}

// AddUnits appends a new Units definition and returns it.
func (m *Model) AddUnits(name string) *Units {
	u := &Units{Name: name}
	m.Units = append(m.Units, u)
	return u
}

// AddEquivalence declares that two Variables are equivalent.
func (m *Model) AddEquivalence(a, b VarRef) {
	m.Equivalences = append(m.Equivalences, Equivalence{A: a, B: b})
}

// Component looks up a Component by name.
func (m *Model) Component(name string) (*Component, bool) {
	for _, c := range m.Components {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ComponentByID looks up a Component by stable identifier.
func (m *Model) ComponentByID(id uuid.UUID) (*Component, bool) {
	for _, c := range m.Components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// UnitsByName looks up a top-level Units definition by name.
func (m *Model) UnitsByName(name string) (*Units, bool) {
	for _, u := range m.Units {
		if u.Name == name {
			return u, true
		}
	}
	return nil, false
}

// IsEmpty reports whether the model has no components at all — the
// ModelType UNKNOWN case (spec §3).
func (m *Model) IsEmpty() bool {
	return len(m.Components) == 0
}
