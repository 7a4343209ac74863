package generate

import (
	"fmt"
	"strings"

	"github.com/edp1096/cellml-codegen/analyze"
	"github.com/edp1096/cellml-codegen/profile"
)

// variableInfoTypeC returns the VariableInfo.type spelling for a role
// (STATE=0, COMPUTED CONSTANT=1, ALGEBRAIC=2; Constant-role classes never
// appear here since they carry no array slot).
func variableInfoTypeC(role analyze.Role) int {
	switch role {
	case analyze.RoleComputedConstant:
		return 1
	case analyze.RoleAlgebraic:
		return 2
	default:
		return 0
	}
}

func cVariableInfoLiteral(info variableInfo, typ int) string {
	return fmt.Sprintf("{\"%s\", \"%s\", %d}", info.Name, info.Units, typ)
}

func generateC(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) (string, error) {
	var b strings.Builder

	b.WriteString(prof.FileHeader)
	b.WriteString("\n")

	fmt.Fprintf(&b, "const size_t STATE_COUNT = %d;\n", sys.StateCount())
	fmt.Fprintf(&b, "const size_t VARIABLE_COUNT = %d;\n\n", sys.VariableCount())

	b.WriteString("typedef struct {\n    char *name;\n    char *units;\n    int type;\n} VariableInfo;\n\n")

	voiName, voiUnits, voiComponent := "voi", "dimensionless", ""
	if sys.VoI != nil {
		voiName = sys.VoI.Representative.VariableName
		voiUnits = sys.VoI.Units
		voiComponent = sys.VoI.Representative.ComponentName
	}
	fmt.Fprintf(&b, "const VariableInfo VOI_INFO = {\"%s\", \"%s\", 0}; /* component: %s */\n\n", voiName, voiUnits, voiComponent)

	b.WriteString("const VariableInfo STATE_INFO[] = {\n")
	for i, cv := range sys.States {
		info := infoOf(cv)
		sep := ","
		if i == len(sys.States)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %s%s /* component: %s */\n", cVariableInfoLiteral(info, 0), sep, info.Component)
	}
	b.WriteString("};\n\n")

	b.WriteString("const VariableInfo VARIABLE_INFO[] = {\n")
	for i, cv := range sys.Variables {
		info := infoOf(cv)
		sep := ","
		if i == len(sys.Variables)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %s%s /* component: %s */\n", cVariableInfoLiteral(info, variableInfoTypeC(cv.Role)), sep, info.Component)
	}
	b.WriteString("};\n\n")

	b.WriteString("double *createStatesArray(void) {\n    return malloc(STATE_COUNT * sizeof(double));\n}\n\n")
	b.WriteString("double *createVariablesArray(void) {\n    return malloc(VARIABLE_COUNT * sizeof(double));\n}\n\n")
	b.WriteString("void deleteArray(double *array) {\n    free(array);\n}\n\n")

	initLines, err := cInitializeConstants(sys, ctx, prof)
	if err != nil {
		return "", err
	}
	b.WriteString("void initializeConstants(double *states, double *variables) {\n")
	b.WriteString(join(initLines))
	if len(initLines) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")

	ccLines, err := cComputeComputedConstants(sys, ctx, prof)
	if err != nil {
		return "", err
	}
	b.WriteString("void computeComputedConstants(double *variables) {\n")
	b.WriteString(join(ccLines))
	if len(ccLines) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")

	rateLines, err := cComputeRates(sys, ctx, prof)
	if err != nil {
		return "", err
	}
	b.WriteString("void computeRates(double voi, double *states, double *rates, double *variables) {\n")
	b.WriteString(join(rateLines))
	if len(rateLines) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")

	varLines, err := perStepStatements(sys, ctx, prof, "    ")
	if err != nil {
		return "", err
	}
	b.WriteString("void computeVariables(double voi, double *states, double *rates, double *variables) {\n")
	b.WriteString(join(varLines))
	if len(varLines) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n")

	return b.String(), nil
}

func cInitializeConstants(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) ([]string, error) {
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

func cComputeComputedConstants(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) ([]string, error) {
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

func cComputeRates(sys *analyze.System, ctx *lowerCtx, prof *profile.Profile) ([]string, error) {
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
