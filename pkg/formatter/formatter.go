// Package formatter turns raw compiler diagnostics into categorized,
// deduplicated, severity-sorted error records with solution hints.
package formatter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/artifix/artifix/pkg/types"
)

var (
	moduleSpecifierRe = regexp.MustCompile(`Cannot find module '([^']+)'`)
	missingNameRe     = regexp.MustCompile(`Cannot find name '([^']+)'`)
)

// FormatErrors converts diagnostics into formatted error records. It is a
// pure function: deterministic given the same input order.
func FormatErrors(diags []types.Diagnostic) []types.FormattedError {
	formatted := make([]types.FormattedError, 0, len(diags))
	seen := make(map[string]bool)
	for _, d := range diags {
		category := Categorize(d)
		fe := types.FormattedError{
			Category: category,
			Message:  rewriteMessage(d, category),
			Hint:     hintFor(d.Code, category),
			Location: locationString(d),
			Line:     d.Line,
			Code:     d.Code,
			Severity: d.Severity,
			Fixable:  isFixable(d.Code, category),
		}
		key := fmt.Sprintf("%d:%d:%s", fe.Code, fe.Line, fe.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		formatted = append(formatted, fe)
	}
	sort.SliceStable(formatted, func(i, j int) bool {
		if formatted[i].Severity != formatted[j].Severity {
			return formatted[i].Severity < formatted[j].Severity
		}
		return formatted[i].Line < formatted[j].Line
	})
	return formatted
}

// Categorize derives the actionable category for a diagnostic. An explicit
// infrastructure tag wins outright; otherwise first match wins across import
// language, type language, JSX language and syntax language. JSX is checked
// before syntax because tag-pairing messages also contain "expected".
func Categorize(d types.Diagnostic) types.Category {
	if d.Category == types.CategoryValidationInfra || d.Category == types.CategoryCompilationInfra {
		return d.Category
	}
	msg := strings.ToLower(d.Message)
	switch {
	case d.Code == 2307 || strings.Contains(msg, "cannot find module") || strings.Contains(msg, "module resolution") || strings.Contains(msg, "import"):
		return types.CategoryImport
	case (d.Code >= 2300 && d.Code <= 2399) || strings.Contains(msg, "type") || strings.Contains(msg, "property") || strings.Contains(msg, "not assignable"):
		return types.CategoryType
	case d.Code == 7026 || d.Code == 17002 || d.Code == 17008 || strings.Contains(msg, "jsx") || strings.Contains(msg, "element") || strings.Contains(msg, "component"):
		return types.CategoryJSX
	case (d.Code >= 1000 && d.Code <= 1999) || strings.Contains(msg, "expected") || strings.Contains(msg, "unterminated") || strings.Contains(msg, "declaration or statement"):
		return types.CategorySyntax
	default:
		return types.CategoryUnknown
	}
}

// rewriteMessage produces the category-specific human-readable form of the
// raw compiler message, recognizing the well-known import shapes.
func rewriteMessage(d types.Diagnostic, category types.Category) string {
	switch category {
	case types.CategoryImport:
		if m := moduleSpecifierRe.FindStringSubmatch(d.Message); m != nil {
			specifier := m[1]
			switch {
			case strings.Contains(specifier, "lib/utils"):
				return fmt.Sprintf("Cannot resolve '%s'. Import the class-name helper with: import { cn } from \"@/lib/utils\"", specifier)
			case strings.Contains(specifier, "components/ui"):
				name := componentNameFromPath(specifier)
				return fmt.Sprintf("Cannot resolve '%s'. Design-system components are imported like: import { %s } from \"@/components/ui/%s\"", specifier, name, strings.ToLower(name))
			default:
				return fmt.Sprintf("Cannot resolve module '%s'. Check the import path and spelling.", specifier)
			}
		}
		return d.Message
	case types.CategoryType:
		if m := missingNameRe.FindStringSubmatch(d.Message); m != nil {
			return fmt.Sprintf("'%s' is used but never declared. Add an import for it or declare it in the component.", m[1])
		}
		return d.Message
	case types.CategoryJSX:
		return d.Message
	default:
		return d.Message
	}
}

// componentNameFromPath turns "@/components/ui/button" into "Button".
func componentNameFromPath(specifier string) string {
	parts := strings.Split(specifier, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "Button"
	}
	return strings.ToUpper(last[:1]) + last[1:]
}

func locationString(d types.Diagnostic) string {
	if d.Line == 0 {
		return ""
	}
	return fmt.Sprintf("line %d, column %d", d.Line, d.Column)
}
