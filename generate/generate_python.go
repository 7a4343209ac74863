package generate

import (
	"fmt"
	"strings"

	"github.com/edp1096/cellml-codegen/analyze"
	"github.com/edp1096/cellml-codegen/profile"
)

func pyDict(info variableInfo) string {
	return fmt.Sprintf("{\"name\": \"%s\", \"units\": \"%s\", \"component\": \"%s\"}", info.Name, info.Units, info.Component)
}

func generatePython(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) (string, error) {
	var b strings.Builder

	b.WriteString(prof.FileHeader)
	b.WriteString("\nGENERATOR_PROFILE_VERSION = \"1.0.0\"\n\n")

	fmt.Fprintf(&b, "STATE_COUNT = %d\n", sys.StateCount())
	fmt.Fprintf(&b, "VARIABLE_COUNT = %d\n\n", sys.VariableCount())

	voiName, voiUnits, voiComponent := "voi", "dimensionless", ""
	if sys.VoI != nil {
		voiName = sys.VoI.Representative.VariableName
		voiUnits = sys.VoI.Units
		voiComponent = sys.VoI.Representative.ComponentName
	}
	fmt.Fprintf(&b, "VOI_INFO = %s\n\n", pyDict(variableInfo{Name: voiName, Units: voiUnits, Component: voiComponent}))

	b.WriteString("STATE_INFO = [\n")
	for i, cv := range sys.States {
		sep := ","
		if i == len(sys.States)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %s%s\n", pyDict(infoOf(cv)), sep)
	}
	b.WriteString("]\n\n")

	b.WriteString("VARIABLE_INFO = [\n")
	for i, cv := range sys.Variables {
		sep := ","
		if i == len(sys.Variables)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %s%s\n", pyDict(infoOf(cv)), sep)
	}
	b.WriteString("]\n\n")

	b.WriteString("def create_states_array():\n")
	fmt.Fprintf(&b, "    return [nan]*%d\n\n", sys.StateCount())
	b.WriteString("def create_variables_array():\n")
	fmt.Fprintf(&b, "    return [nan]*%d\n\n", sys.VariableCount())

	initLines, err := pyInitializeConstants(sys, ctx, prof)
	if err != nil {
		return "", err
	}
	b.WriteString("def initialize_constants(states, variables):\n")
	writePyBody(&b, initLines)

	ccLines, err := pyComputeComputedConstants(sys, ctx, prof)
	if err != nil {
		return "", err
	}
	b.WriteString("def compute_computed_constants(variables):\n")
	writePyBody(&b, ccLines)

	rateLines, err := pyComputeRates(sys, ctx, prof)
	if err != nil {
		return "", err
	}
	b.WriteString("def compute_rates(voi, states, rates, variables):\n")
	writePyBody(&b, rateLines)

	varLines, err := perStepStatements(sys, ctx, prof, "    ")
	if err != nil {
		return "", err
	}
	b.WriteString("def compute_variables(voi, states, rates, variables):\n")
	writePyBody(&b, varLines)

	return b.String(), nil
}

func writePyBody(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		b.WriteString("    pass\n\n")
		return
	}
	b.WriteString(join(lines))
	b.WriteString("\n\n")
}

func pyInitializeConstants(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) ([]string, error) {
	var lines []string
	for i, cv := range sys.States {
		lhs := prof.Index("states", i)
		rhs := formatLiteralString(cv.Class.InitialValue)
		lines = append(lines, "    "+prof.Assign(lhs, rhs)+prof.StatementSuffix)
	}
	for _, cv := range sys.ComputedConstants {
		idx := ctx.variableIndex[cv.Class]
		lhs := prof.Index("variables", idx)
		if analyze.Foldable(cv.Equation.RHSExpr) {
			stmt, err := foldedStatement(ctx, prof, cv, lhs)
			if err != nil {
				return nil, err
			}
			lines = append(lines, "    "+stmt)
		}
	}
	return lines, nil
}

func pyComputeComputedConstants(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) ([]string, error) {
	var lines []string
	for _, cv := range sys.ComputedConstants {
		if analyze.Foldable(cv.Equation.RHSExpr) {
			continue
		}
		idx := ctx.variableIndex[cv.Class]
		lhs := prof.Index("variables", idx)
		stmt, err := statement(ctx, prof, cv, lhs)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "    "+stmt)
	}
	return lines, nil
}

func pyComputeRates(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) ([]string, error) {
	lines, err := perStepStatements(sys, ctx, prof, "    ")
	if err != nil {
		return nil, err
	}
	for i, cv := range sys.States {
		lhs := prof.Index("rates", i)
		stmt, err := rateStatement(ctx, prof, cv, lhs)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "    "+stmt)
	}
	return lines, nil
}
