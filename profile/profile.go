// Package profile implements the Generator Profile (spec §4.G, component
// G): a plain value record of target-language spellings and capability
// flags, copied into the generator rather than mutated globally — per the
// §9 design note "profiles are plain value records... the built-in profiles
// are initialized by a pure constructor taking a profile-kind tag." Mirrors
// the teacher's `device.ModelParam{Type, Name, Params}` record-of-config
// shape (pkg/device/device.go), generalized from a per-device parameter bag
// to a per-target-language spelling table.
package profile

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/edp1096/cellml-codegen/mathast"
)

// Kind tags a built-in profile.
type Kind string

const (
	KindC      Kind = "c"
	KindPython Kind = "python"
)

// Associativity of a binary operator, for the precedence-aware emission
// rule in spec §4.F step 3: "equal for non-associative positions."
type Associativity int

const (
	AssocBoth  Associativity = iota // left and right operands both non-strict
	AssocLeft                       // a - b - c is (a-b)-c: right operand needs parens at equal precedence
	AssocNone                       // power: neither operand associates
)

// Profile is a complete set of target-language spelling and formatting
// choices, validated with struct tags the way `pkg/config` validates CLI
// configuration.
type Profile struct {
	Kind Kind `validate:"required"`

	// Arithmetic operator spellings.
	PlusString   string `validate:"required"`
	MinusString  string `validate:"required"`
	TimesString  string `validate:"required"`
	DivideString string `validate:"required"`

	HasPowerOperator bool
	PowerString      string // infix spelling ("**", "^^") if HasPowerOperator, else a function name ("pow")
	SquareString     string // optional: x*x shortcut for power(x,2) when HasPowerOperator is false
	RootString       string // function name for n-th root, used when the degree is not 2 and HasPowerOperator is false
	SqrtString       string `validate:"required"` // function name for square root (root(x,2))

	UnaryMinusString string `validate:"required"`

	// Comparison and logical operator spellings.
	EqString  string `validate:"required"`
	NeqString string `validate:"required"`
	LtString  string `validate:"required"`
	LeqString string `validate:"required"`
	GtString  string `validate:"required"`
	GeqString string `validate:"required"`
	AndString string `validate:"required"`
	OrString  string `validate:"required"`
	NotString string `validate:"required"`

	HasXorOperator bool
	XorString      string // infix spelling if HasXorOperator; else XorFunction names a helper function
	XorFunction    string

	HasConditionalOperator bool // a ? b : c
	PiecewiseIfString      string // used when !HasConditionalOperator, e.g. Python "%s if %s else "
	PiecewiseElseString    string // trailing otherwise clause, e.g. Python "%s"

	// Named constants.
	PiString  string `validate:"required"`
	EString   string `validate:"required"`
	InfString string `validate:"required"`
	NanString string `validate:"required"`

	// Transcendental function spellings, keyed by mathast.Op.
	Functions map[mathast.Op]string

	// Code skeleton.
	FileHeader           string
	ArrayIndexFormat      string `validate:"required"` // fmt.Sprintf template: array, index -> expression
	StatementPrefix       string
	StatementSuffix       string
	AssignFormat          string `validate:"required"` // fmt.Sprintf template: lhs, rhs -> statement (no suffix)
	CommentFormat         string // fmt.Sprintf template: text -> a line comment, or "" if unsupported
	BooleanTrue           string `validate:"required"`
	BooleanFalse          string `validate:"required"`
	FloatFormat           string `validate:"required"` // fmt.Sprintf template for a bare float literal, e.g. "%g"
}

// FunctionName returns the target-language spelling for a transcendental or
// other function-form operator, and whether one is registered.
func (p *Profile) FunctionName(op mathast.Op) (string, bool) {
	name, ok := p.Functions[op]
	return name, ok
}

// Index renders arrayExpr[idx] per the profile's array-indexing syntax.
func (p *Profile) Index(arrayExpr string, idx int) string {
	return fmt.Sprintf(p.ArrayIndexFormat, arrayExpr, idx)
}

// Assign renders one "lhs = rhs" statement, without the trailing suffix.
func (p *Profile) Assign(lhs, rhs string) string {
	return fmt.Sprintf(p.AssignFormat, lhs, rhs)
}

// Comment renders a single-line comment, or "" if the profile has none
// (CommentFormat empty).
func (p *Profile) Comment(text string) string {
	if p.CommentFormat == "" {
		return ""
	}
	return fmt.Sprintf(p.CommentFormat, text)
}

var validate = validator.New()

// Validate checks that every profile field tagged `validate:"required"` is
// populated — a customized profile missing a mandatory spelling fails loud
// when generate.Generate validates it, rather than emitting malformed source.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// Clone returns a deep-enough copy of p safe for independent mutation —
// callers are expected to start from a built-in via C()/Python() and tweak
// a clone, per the §9 "user code may mutate a fresh profile" contract.
func (p *Profile) Clone() *Profile {
	clone := *p
	clone.Functions = make(map[mathast.Op]string, len(p.Functions))
	for k, v := range p.Functions {
		clone.Functions[k] = v
	}
	return &clone
}
