package compiler

// TokenKind discriminates scanner output tokens.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenString
	TokenTemplate
	TokenPunct
	TokenRegex
	// TokenJSXElement is a synthetic token standing in for a complete JSX
	// element. It exists so expression-position tracking treats a closed
	// element as a value, not as the left side of a comparison.
	TokenJSXElement
)

// Token is one lexical unit of the source file. Line and Column are 1-based.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

// keywords that may legally precede a JSX element in expression position.
var jsxLeadingKeywords = map[string]bool{
	"return":  true,
	"default": true,
	"do":      true,
	"else":    true,
	"typeof":  true,
	"case":    true,
	"yield":   true,
	"await":   true,
	"in":      true,
	"of":      true,
}

// declKeywords introduce bindings the semantic pass collects.
var declKeywords = map[string]bool{
	"const": true,
	"let":   true,
	"var":   true,
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isJSXNamePart covers tag names like Foo.Bar, my-element and svg:path.
func isJSXNamePart(c byte) bool {
	return isIdentPart(c) || c == '.' || c == '-' || c == ':'
}
