package mathast

// The constructors below are convenience builders for assembling MathML
// trees in Go — used by tests and by the small in-memory model fixtures
// under examples/fixtures. The real MathML tokenizer+tree builder is an
// external collaborator (out of scope for this core); these are not it.

// Num builds an unannotated numeric literal.
func Num(value float64) *Cn { return &Cn{Value: value} }

// NumUnits builds a unit-annotated numeric literal.
func NumUnits(value float64, units string) *Cn { return &Cn{Value: value, Units: units} }

// Var builds a variable reference.
func Var(name string) *Ci { return &Ci{Name: name} }

// Eq builds a top-level equation node: lhs = rhs.
func Eq(lhs, rhs Node) *Apply { return NewApply(OpEq, lhs, rhs) }

// Bvar builds a <bvar><ci>name</ci></bvar> wrapper as used inside Diff.
func Bvar(name string) *Apply { return NewApply(OpBvar, Var(name)) }

// Diff builds a first-order derivative: d(stateVar)/d(voiVar).
func Diff(voiVar, stateVar string) *Apply {
	return NewApply(OpDiff, Bvar(voiVar), Var(stateVar))
}

// Bin builds a binary application of op.
func Bin(op Op, lhs, rhs Node) *Apply { return NewApply(op, lhs, rhs) }

// Neg builds a unary negation.
func Neg(operand Node) *Apply { return NewApply(OpUnaryMinus, operand) }

// Call builds a unary function application (sin, exp, abs, ...).
func Call(op Op, operand Node) *Apply { return NewApply(op, operand) }

// Piece builds a <piece> clause: (value, condition).
func Piece(value, condition Node) *Apply { return NewApply(OpPiece, value, condition) }

// Otherwise builds the <otherwise> clause of a piecewise.
func Otherwise(value Node) *Apply { return NewApply(OpOtherwise, value) }

// Piecewise builds a piecewise expression from its piece/otherwise clauses
// in document order.
func Piecewise(clauses ...Node) *Apply { return NewApply(OpPiecewise, clauses...) }
