package formatter

import "github.com/artifix/artifix/pkg/types"

// solutionHints maps diagnostic codes to fix guidance. This is configuration
// data, not logic; unknown codes fall back to the category-level hint.
var solutionHints = map[int]string{
	1002:  "Close the string literal with a matching quote.",
	1005:  "Add the missing closing brace, bracket, or parenthesis.",
	1010:  "Close the block comment with */.",
	1128:  "Remove the extra closing delimiter or add the matching opener.",
	1160:  "Close the template literal with a backtick.",
	1161:  "Close the regular expression with a trailing slash.",
	2304:  "Import the missing identifier or declare it before use.",
	2307:  "Fix the module path, or remove the import if it is unused.",
	2322:  "Adjust the value so its type matches the expected type.",
	2613:  "Add `export default <ComponentName>;` at the end of the file.",
	5023:  "Use a supported compiler target such as ESNext.",
	5024:  "Use a supported jsx mode: react-jsx, react, or preserve.",
	17002: "Make the closing tag name match the opening tag.",
	17008: "Add the matching closing tag or make the element self-closing.",
}

// categoryHints are the generic fallback hints per category.
var categoryHints = map[types.Category]string{
	types.CategoryImport:           "Check the import path and the exported names of the target module.",
	types.CategoryType:             "Check the declared types and the values assigned to them.",
	types.CategorySyntax:           "Check for unbalanced delimiters or incomplete statements near the reported line.",
	types.CategoryJSX:              "Check that every JSX element is properly opened, closed, and spelled.",
	types.CategoryValidationInfra:  "This is a pipeline-level failure, not a code defect; retrying the artifact will not help.",
	types.CategoryCompilationInfra: "The compiler itself failed on this input; report the artifact if this persists.",
	types.CategoryUnknown:          "Inspect the raw compiler message for details.",
}

// fixableCodes is the explicit allow-list of codes a repair attempt can
// realistically address, beyond the category-level rule.
var fixableCodes = map[int]bool{
	2613: true,
	5023: false,
	5024: false,
}

// isFixable reports whether a repair channel can realistically address the
// diagnostic. Import, type, syntax, and JSX errors are candidate fixes;
// infrastructure failures never are, since repairing those means changing the
// pipeline, not the artifact.
func isFixable(code int, category types.Category) bool {
	if category == types.CategoryValidationInfra || category == types.CategoryCompilationInfra {
		return false
	}
	switch category {
	case types.CategoryImport, types.CategoryType, types.CategorySyntax, types.CategoryJSX:
		return true
	}
	return fixableCodes[code]
}

// hintFor resolves the solution hint for a code, falling back to the
// category-level hint.
func hintFor(code int, category types.Category) string {
	if hint, ok := solutionHints[code]; ok {
		return hint
	}
	return categoryHints[category]
}
