package validator

import (
	"strings"

	"github.com/artifix/artifix/pkg/types"
)

// codeExtractors is the ordered list of strategies for pulling code out of an
// artifact. Producers emit at least three shapes (plain string content, a
// dedicated code field, and nested content objects), so extraction is an
// explicit strategy list rather than ad hoc optional chaining.
var codeExtractors = []func(types.Artifact) string{
	func(a types.Artifact) string { return a.Content },
	func(a types.Artifact) string { return a.Code },
	func(a types.Artifact) string {
		if a.Inner != nil {
			return a.Inner.Code
		}
		return ""
	},
	func(a types.Artifact) string {
		if a.Inner != nil {
			return a.Inner.Content
		}
		return ""
	},
}

// ExtractCode returns the artifact's code content, trying each known shape in
// precedence order and returning the first non-empty result.
func ExtractCode(a types.Artifact) (string, bool) {
	for _, extract := range codeExtractors {
		if code := extract(a); strings.TrimSpace(code) != "" {
			return code, true
		}
	}
	return "", false
}
