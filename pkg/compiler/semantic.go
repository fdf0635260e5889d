package compiler

import (
	"fmt"
	"strings"

	"github.com/artifix/artifix/pkg/types"
)

// ImportDecl is one import statement found in the entry file.
type ImportDecl struct {
	Specifier string
	Line      int
	Column    int
	Bindings  []string
}

// semanticPass walks the token stream once, collecting imports and declared
// names, then checks module resolution and JSX component references.
type semanticPass struct {
	host     Host
	rootFile string
	res      *ScanResult

	imports  []ImportDecl
	declared map[string]bool

	hasDefaultExport bool
	hasAnyExport     bool
}

func newSemanticPass(host Host, rootFile string, res *ScanResult) *semanticPass {
	return &semanticPass{
		host:     host,
		rootFile: rootFile,
		res:      res,
		declared: make(map[string]bool),
	}
}

func (sp *semanticPass) run() []types.Diagnostic {
	sp.collect()

	var diags []types.Diagnostic
	for _, imp := range sp.imports {
		if _, ok := sp.host.ResolveModule(imp.Specifier, sp.rootFile); !ok {
			diags = append(diags, types.Diagnostic{
				Code:     2307,
				Message:  fmt.Sprintf("Cannot find module '%s' or its corresponding type declarations.", imp.Specifier),
				Line:     imp.Line,
				Column:   imp.Column,
				Severity: types.SeverityError,
			})
		}
	}

	diags = append(diags, sp.checkJSXNames()...)

	if !sp.hasDefaultExport {
		diags = append(diags, types.Diagnostic{
			Code:     2613,
			Message:  "Component has no default export.",
			Severity: types.SeverityInfo,
		})
	}
	return diags
}

// collect performs the single token walk: import clauses, declaration
// keywords, and export markers. Name collection is deliberately coarse (any
// const/let/var/function/class binding at any depth counts) so the JSX name
// check stays conservative: over-collection avoids false positives.
func (sp *semanticPass) collect() {
	toks := sp.res.Tokens
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if tok.Kind != TokenIdent {
			continue
		}
		switch tok.Text {
		case "import":
			if i > 0 && toks[i-1].Kind == TokenPunct && toks[i-1].Text == "." {
				continue // property access, e.g. foo.import
			}
			i = sp.parseImport(toks, i)
		case "export":
			sp.hasAnyExport = true
			if i+1 < len(toks) && toks[i+1].Kind == TokenIdent && toks[i+1].Text == "default" {
				sp.hasDefaultExport = true
			}
		case "function", "class":
			if i+1 < len(toks) && toks[i+1].Kind == TokenIdent {
				sp.declared[toks[i+1].Text] = true
			}
		default:
			if declKeywords[tok.Text] {
				i = sp.parseBindingPattern(toks, i)
			}
		}
	}
}

// parseImport consumes one import statement starting at toks[i] (the
// "import" keyword) and returns the index of the last consumed token.
func (sp *semanticPass) parseImport(toks []Token, i int) int {
	decl := ImportDecl{}
	j := i + 1
	// Side-effect import: import "x"
	if j < len(toks) && toks[j].Kind == TokenString {
		decl.Specifier = toks[j].Text
		decl.Line = toks[j].Line
		decl.Column = toks[j].Column
		sp.imports = append(sp.imports, decl)
		return j
	}
	// Skip the type-only marker: import type { ... } from "x"
	if j < len(toks) && toks[j].Kind == TokenIdent && toks[j].Text == "type" {
		if j+1 < len(toks) && !(toks[j+1].Kind == TokenIdent && toks[j+1].Text == "from") {
			j++
		}
	}
	for ; j < len(toks); j++ {
		tok := toks[j]
		if tok.Kind == TokenIdent && tok.Text == "from" {
			if j+1 < len(toks) && toks[j+1].Kind == TokenString {
				decl.Specifier = toks[j+1].Text
				decl.Line = toks[j+1].Line
				decl.Column = toks[j+1].Column
				sp.imports = append(sp.imports, decl)
				for _, b := range decl.Bindings {
					sp.declared[b] = true
				}
				return j + 1
			}
			return j
		}
		if tok.Kind == TokenPunct && tok.Text == ";" {
			return j // malformed import, give up on this statement
		}
		if tok.Kind == TokenIdent && tok.Text == "as" {
			if j+1 < len(toks) && toks[j+1].Kind == TokenIdent {
				decl.Bindings = append(decl.Bindings, toks[j+1].Text)
				j++
			}
			continue
		}
		if tok.Kind == TokenIdent && tok.Text != "type" {
			// Default or named binding; dropped again if a later "as"
			// renames it, which only widens the declared set.
			decl.Bindings = append(decl.Bindings, tok.Text)
		}
	}
	return len(toks) - 1
}

// parseBindingPattern consumes the bindings after const/let/var, including
// simple destructuring patterns, and returns the index of the last consumed
// token.
func (sp *semanticPass) parseBindingPattern(toks []Token, i int) int {
	j := i + 1
	if j >= len(toks) {
		return i
	}
	if toks[j].Kind == TokenIdent {
		sp.declared[toks[j].Text] = true
		return j
	}
	if toks[j].Kind == TokenPunct && (toks[j].Text == "{" || toks[j].Text == "[") {
		depth := 0
		for ; j < len(toks); j++ {
			tok := toks[j]
			if tok.Kind == TokenPunct {
				switch tok.Text {
				case "{", "[", "(":
					depth++
				case "}", "]", ")":
					depth--
					if depth == 0 {
						return j
					}
				case "=":
					if depth == 0 {
						return j
					}
				}
				continue
			}
			if tok.Kind == TokenIdent {
				sp.declared[tok.Text] = true
			}
		}
	}
	return j - 1
}

// checkJSXNames flags capitalized JSX component names that are neither
// declared nor imported. Lowercase names are intrinsic elements and dotted
// names are checked against their base identifier.
func (sp *semanticPass) checkJSXNames() []types.Diagnostic {
	var diags []types.Diagnostic
	seen := make(map[string]bool)
	for _, use := range sp.res.JSXUses {
		if use.Name == "" {
			continue // fragment
		}
		base := use.Name
		if idx := strings.IndexByte(base, '.'); idx >= 0 {
			base = base[:idx]
		}
		first := base[0]
		if first < 'A' || first > 'Z' {
			continue // intrinsic element like div or span
		}
		if sp.declared[base] || seen[base] {
			continue
		}
		seen[base] = true
		diags = append(diags, types.Diagnostic{
			Code:     2304,
			Message:  fmt.Sprintf("Cannot find name '%s'.", base),
			Line:     use.Line,
			Column:   use.Column,
			Severity: types.SeverityError,
		})
	}
	return diags
}
