package retry

import (
	"fmt"
	"strings"

	"github.com/artifix/artifix/pkg/types"
)

const systemPrompt = `You are an expert React and TypeScript engineer. You fix compilation errors in React components without changing their behavior. Respond with the complete corrected component code in a single fenced code block and nothing else.`

// buildRepairPrompt assembles the user message for one repair attempt: the
// errors grouped by category, the full current code, and fixed guidelines
// about the component environment.
func buildRepairPrompt(artifact types.Artifact, code string, errors []types.FormattedError) string {
	var b strings.Builder

	title := artifact.Title
	if title == "" {
		title = artifact.Identifier
	}
	fmt.Fprintf(&b, "The React component %q failed to compile with the following errors:\n\n", title)

	writeErrorGroup(&b, "Import/Module Errors", errors, types.CategoryImport)
	writeErrorGroup(&b, "Type Errors", errors, types.CategoryType)
	writeErrorGroup(&b, "Syntax Errors", errors, types.CategorySyntax)
	writeErrorGroup(&b, "JSX Errors", errors, types.CategoryJSX)
	writeOtherErrors(&b, errors)

	b.WriteString("\nCurrent code:\n\n```tsx\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")

	b.WriteString(`Guidelines:
- Import the cn helper from "@/lib/utils" when needed.
- Design-system components live under "@/components/ui/" (button, card, input, label, textarea).
- React, react-dom, lucide-react and recharts are available; import them normally.
- Preserve the component's existing functionality and appearance. Fix only what the errors require.
- Keep the default export.
- Respond with the complete corrected code in one fenced code block. No explanations.`)

	return b.String()
}

func writeErrorGroup(b *strings.Builder, heading string, errors []types.FormattedError, category types.Category) {
	group := filterByCategory(errors, category)
	if len(group) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for i, e := range group {
		writeError(b, i+1, e)
	}
	b.WriteString("\n")
}

// writeOtherErrors covers categories without a dedicated group, including
// infrastructure and unknown diagnostics.
func writeOtherErrors(b *strings.Builder, errors []types.FormattedError) {
	grouped := map[types.Category]bool{
		types.CategoryImport: true,
		types.CategoryType:   true,
		types.CategorySyntax: true,
		types.CategoryJSX:    true,
	}
	var rest []types.FormattedError
	for _, e := range errors {
		if !grouped[e.Category] {
			rest = append(rest, e)
		}
	}
	if len(rest) == 0 {
		return
	}
	b.WriteString("Other Errors:\n")
	for i, e := range rest {
		writeError(b, i+1, e)
	}
	b.WriteString("\n")
}

func writeError(b *strings.Builder, n int, e types.FormattedError) {
	if e.Location != "" {
		fmt.Fprintf(b, "%d. %s (%s)\n", n, e.Message, e.Location)
	} else {
		fmt.Fprintf(b, "%d. %s\n", n, e.Message)
	}
	if e.Hint != "" {
		fmt.Fprintf(b, "   Hint: %s\n", e.Hint)
	}
}

func filterByCategory(errors []types.FormattedError, category types.Category) []types.FormattedError {
	var out []types.FormattedError
	for _, e := range errors {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}
