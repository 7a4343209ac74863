// Package generate implements the Code Generator (spec §4.F, component F):
// it walks an analyzed System plus the per-component MathML ASTs under a
// chosen profile.Profile and emits a single target-language source string.
// Emission returns "" whenever the analyzed System is not in an emittable
// ModelType (spec §7: "Emission returns the empty string" for both fatal
// and constraint-level conditions).
package generate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/edp1096/cellml-codegen/analyze"
	"github.com/edp1096/cellml-codegen/equivalence"
	"github.com/edp1096/cellml-codegen/internal/numeric"
	"github.com/edp1096/cellml-codegen/profile"
)

// variableInfo is one row of a STATE_INFO/VARIABLE_INFO metadata array.
type variableInfo struct {
	Name      string
	Units     string
	Component string
}

func infoOf(cv *analyze.ClassifiedVariable) variableInfo {
	return variableInfo{
		Name:      cv.Class.Representative.VariableName,
		Units:     cv.Class.Units,
		Component: cv.Class.Representative.ComponentName,
	}
}

// emittable reports whether sys is in a ModelType that produces source at
// all (spec §7): INVALID and the three constraint classifications all emit
// the empty string.
func emittable(sys *analyze.System) bool {
	switch sys.Type {
	case analyze.ModelODE, analyze.ModelAlgebraic:
		return true
	default:
		return false
	}
}

// Generate emits source for sys under prof, using eqres to resolve variable
// references inside each equation's owning component.
func Generate(sys *analyze.System, eqres *equivalence.Result, prof *profile.Profile) (string, error) {
	if !emittable(sys) {
		return "", nil
	}
	if err := prof.Validate(); err != nil {
		return "", err
	}

	ctx := newLowerCtx(sys, eqres, prof)

	switch prof.Kind {
	case profile.KindC:
		return generateC(sys, ctx, prof)
	case profile.KindPython:
		return generatePython(sys, ctx, prof)
	default:
		return "", fmt.Errorf("generate: unrecognized profile kind %q", prof.Kind)
	}
}

// Digest returns a hex-encoded SHA-256 content digest of code, used by the
// round-trip property (§8 item 3: re-emitting from the same analyzed system
// and profile yields byte-identical output) and as the cache key in
// pkg/cache. No third-party general-purpose hash library is grounded
// anywhere in the retrieval pack (see DESIGN.md); this uses the standard
// library instead of reaching for one.
func Digest(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// statement lowers one classified variable's defining equation into a
// single "lhs = rhs" statement, resolving Ci references against the
// equation's owning component.
func statement(ctx *lowerCtx, prof *profile.Profile, cv *analyze.ClassifiedVariable, lhs string) (string, error) {
	rhsNode := cv.Equation.RHSExpr
	compCtx := ctx.withComponent(cv.Equation.Component)
	rhs, err := lowerExpr(compCtx, rhsNode)
	if err != nil {
		return "", fmt.Errorf("generate: emitting '%s' in component '%s': %w",
			cv.Class.Representative.VariableName, cv.Class.Representative.ComponentName, err)
	}
	return prof.Assign(lhs, rhs) + prof.StatementSuffix, nil
}

// foldedStatement emits a Foldable ComputedConstant's defining equation as a
// single evaluated literal ("variables[1] = 6.0;") rather than lowering the
// full expression tree ("variables[1] = 2.0 * 3.0;"), using the
// internal/numeric leaf-level constant folder. Falls back to a normal
// statement lowering when numeric.Fold declines (an operator it doesn't
// cover, e.g. a folded piecewise) — Foldable and numeric.Fold agree on the
// common case but Foldable is structural (no Ci) while Fold is operator
// coverage, so the two can disagree at the edges.
func foldedStatement(ctx *lowerCtx, prof *profile.Profile, cv *analyze.ClassifiedVariable, lhs string) (string, error) {
	if v, ok := numeric.Fold(cv.Equation.RHSExpr); ok {
		return prof.Assign(lhs, formatFloat(v)) + prof.StatementSuffix, nil
	}
	return statement(ctx, prof, cv, lhs)
}

func rateStatement(ctx *lowerCtx, prof *profile.Profile, cv *analyze.ClassifiedVariable, lhs string) (string, error) {
	compCtx := ctx.withComponent(cv.Equation.Component)
	rhs, err := lowerExpr(compCtx, cv.Equation.RHS)
	if err != nil {
		return "", fmt.Errorf("generate: emitting rate for '%s' in component '%s': %w",
			cv.Class.Representative.VariableName, cv.Class.Representative.ComponentName, err)
	}
	return prof.Assign(lhs, rhs) + prof.StatementSuffix, nil
}

// perStepStatements lowers every PerStepAlgebraic class's defining equation,
// in dependency order — shared between computeRates and computeVariables
// per the design decision recorded in SPEC_FULL.md: this core does not prune
// the algebraic set by dataflow liveness, so both functions re-evaluate the
// same list.
func perStepStatements(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile, indent string) ([]string, error) {
	var lines []string
	for _, cv := range sys.PerStepAlgebraic {
		idx := ctx.variableIndex[cv.Class]
		lhs := prof.Index("variables", idx)
		stmt, err := statement(ctx, prof, cv, lhs)
		if err != nil {
			return nil, err
		}
		lines = append(lines, indent+stmt)
	}
	return lines, nil
}

func join(lines []string) string {
	return strings.Join(lines, "\n")
}
