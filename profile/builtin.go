package profile

import "github.com/edp1096/cellml-codegen/mathast"

// C returns the built-in C profile: `pow`/`sqrt` as library functions,
// ternary as the conditional operator, `NAN`/`INFINITY` from <math.h>.
func C() *Profile {
	return &Profile{
		Kind: KindC,

		PlusString:   "+",
		MinusString:  "-",
		TimesString:  "*",
		DivideString: "/",

		HasPowerOperator: false,
		PowerString:      "pow",
		SquareString:     "",
		RootString:       "pow",
		SqrtString:       "sqrt",

		UnaryMinusString: "-",

		EqString:  "==",
		NeqString: "!=",
		LtString:  "<",
		LeqString: "<=",
		GtString:  ">",
		GeqString: ">=",
		AndString: "&&",
		OrString:  "||",
		NotString: "!",

		HasXorOperator: false,
		XorFunction:    "cellml_xor",

		HasConditionalOperator: true,

		PiString:  "3.14159265358979",
		EString:   "2.71828182845905",
		InfString: "INFINITY",
		NanString: "NAN",

		Functions: map[mathast.Op]string{
			mathast.OpExp:      "exp",
			mathast.OpLn:       "log",
			mathast.OpLog:      "log10",
			mathast.OpAbs:      "fabs",
			mathast.OpFloor:    "floor",
			mathast.OpCeiling:  "ceil",
			mathast.OpMin:      "fmin",
			mathast.OpMax:      "fmax",
			mathast.OpRem:      "fmod",
			mathast.OpFactorial: "cellml_factorial",

			mathast.OpSin: "sin", mathast.OpCos: "cos", mathast.OpTan: "tan",
			mathast.OpSec: "cellml_sec", mathast.OpCsc: "cellml_csc", mathast.OpCot: "cellml_cot",
			mathast.OpArcsin: "asin", mathast.OpArccos: "acos", mathast.OpArctan: "atan",
			mathast.OpArcsec: "cellml_asec", mathast.OpArccsc: "cellml_acsc", mathast.OpArccot: "cellml_acot",
			mathast.OpSinh: "sinh", mathast.OpCosh: "cosh", mathast.OpTanh: "tanh",
			mathast.OpSech: "cellml_sech", mathast.OpCsch: "cellml_csch", mathast.OpCoth: "cellml_coth",
			mathast.OpArcsinh: "asinh", mathast.OpArccosh: "acosh", mathast.OpArctanh: "atanh",
			mathast.OpArcsech: "cellml_asech", mathast.OpArccsch: "cellml_acsch", mathast.OpArccoth: "cellml_acoth",
		},

		FileHeader: "/* The content of this file was generated by cellml-codegen. */\n\n#include <math.h>\n#include <stdlib.h>\n",

		ArrayIndexFormat: "%s[%d]",
		StatementPrefix:  "",
		StatementSuffix:  ";",
		AssignFormat:     "%s = %s",
		CommentFormat:    "/* %s */",
		BooleanTrue:      "1",
		BooleanFalse:     "0",
		FloatFormat:      "%g",
	}
}

// Python returns the built-in Python profile: no conditional operator
// (piecewise lowers to a chained "a if c else b" expression), `math.pow`
// style functions via `from math import *`.
func Python() *Profile {
	return &Profile{
		Kind: KindPython,

		PlusString:   "+",
		MinusString:  "-",
		TimesString:  "*",
		DivideString: "/",

		HasPowerOperator: true,
		PowerString:      "**",
		SquareString:     "",
		RootString:       "**",
		SqrtString:       "sqrt",

		UnaryMinusString: "-",

		EqString:  "==",
		NeqString: "!=",
		LtString:  "<",
		LeqString: "<=",
		GtString:  ">",
		GeqString: ">=",
		AndString: "and",
		OrString:  "or",
		NotString: "not ",

		HasXorOperator: false,
		XorFunction:    "cellml_xor",

		HasConditionalOperator: false,
		PiecewiseIfString:      "%s if %s else ",
		PiecewiseElseString:    "%s",

		PiString:  "pi",
		EString:   "e",
		InfString: "inf",
		NanString: "nan",

		Functions: map[mathast.Op]string{
			mathast.OpExp:      "exp",
			mathast.OpLn:       "log",
			mathast.OpLog:      "log10",
			mathast.OpAbs:      "fabs",
			mathast.OpFloor:    "floor",
			mathast.OpCeiling:  "ceil",
			mathast.OpMin:      "min",
			mathast.OpMax:      "max",
			mathast.OpRem:      "fmod",
			mathast.OpFactorial: "cellml_factorial",

			mathast.OpSin: "sin", mathast.OpCos: "cos", mathast.OpTan: "tan",
			mathast.OpSec: "cellml_sec", mathast.OpCsc: "cellml_csc", mathast.OpCot: "cellml_cot",
			mathast.OpArcsin: "asin", mathast.OpArccos: "acos", mathast.OpArctan: "atan",
			mathast.OpArcsec: "cellml_asec", mathast.OpArccsc: "cellml_acsc", mathast.OpArccot: "cellml_acot",
			mathast.OpSinh: "sinh", mathast.OpCosh: "cosh", mathast.OpTanh: "tanh",
			mathast.OpSech: "cellml_sech", mathast.OpCsch: "cellml_csch", mathast.OpCoth: "cellml_coth",
			mathast.OpArcsinh: "asinh", mathast.OpArccosh: "acosh", mathast.OpArctanh: "atanh",
			mathast.OpArcsech: "cellml_asech", mathast.OpArccsch: "cellml_acsch", mathast.OpArccoth: "cellml_acoth",
		},

		FileHeader: "# The content of this file was generated by cellml-codegen.\n\nfrom math import *\n",

		ArrayIndexFormat: "%s[%d]",
		StatementPrefix:  "",
		StatementSuffix:  "",
		AssignFormat:     "%s = %s",
		CommentFormat:    "# %s",
		BooleanTrue:      "True",
		BooleanFalse:     "False",
		FloatFormat:      "%g",
	}
}

// New returns the built-in profile for kind, or nil if kind is unrecognized.
func New(kind Kind) *Profile {
	switch kind {
	case KindC:
		return C()
	case KindPython:
		return Python()
	default:
		return nil
	}
}
