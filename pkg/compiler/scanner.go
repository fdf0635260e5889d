package compiler

import (
	"fmt"

	"github.com/artifix/artifix/pkg/types"
)

// JSXUse records one JSX element name appearing in an opening tag.
type JSXUse struct {
	Name   string
	Line   int
	Column int
}

// ScanResult is the output of one scan pass: the token stream, the JSX
// element usages, and the lexical/structural diagnostics found on the way.
type ScanResult struct {
	Tokens      []Token
	JSXUses     []JSXUse
	Diagnostics []types.Diagnostic
}

type scopeKind int

const (
	scopeCode scopeKind = iota
	scopeJSXTag
	scopeJSXChildren
	scopeTemplate
)

type codeFlavor int

const (
	flavorTop codeFlavor = iota
	// flavorJSXExpr is a {...} expression embedded in a JSX tag or children.
	flavorJSXExpr
	// flavorTemplateSub is a ${...} substitution inside a template literal.
	flavorTemplateSub
)

type openDelim struct {
	ch   byte
	line int
	col  int
}

// scope is one frame of the scanner's mode stack. Code frames track their own
// delimiter stack; JSX and template frames remember where they started so
// unterminated constructs can be reported at their opening position.
type scope struct {
	kind    scopeKind
	flavor  codeFlavor
	delims  []openDelim
	tag     string
	sawName bool
	line    int
	col     int
}

// scanner is a modal tokenizer for the TSX dialect the pipeline validates.
// Modes switch between plain code, JSX tags, JSX children and template
// literals, so apostrophes in JSX text or braces inside strings never confuse
// the delimiter bookkeeping.
type scanner struct {
	src    string
	pos    int
	line   int
	col    int
	toks   []Token
	uses   []JSXUse
	diags  []types.Diagnostic
	scopes []*scope
	prev   Token
}

// Scan tokenizes src and performs the structural checks that fall out of
// modal scanning: delimiter balance, JSX tag pairing, and unterminated
// literal detection.
func Scan(src string) *ScanResult {
	s := &scanner{src: src, line: 1, col: 1}
	s.push(&scope{kind: scopeCode, flavor: flavorTop})
	for s.pos < len(s.src) {
		switch s.top().kind {
		case scopeCode:
			s.stepCode()
		case scopeJSXTag:
			s.stepJSXTag()
		case scopeJSXChildren:
			s.stepJSXChildren()
		case scopeTemplate:
			s.stepTemplate()
		}
	}
	s.flushEOF()
	return &ScanResult{Tokens: s.toks, JSXUses: s.uses, Diagnostics: s.diags}
}

func (s *scanner) push(sc *scope) { s.scopes = append(s.scopes, sc) }

func (s *scanner) pop() { s.scopes = s.scopes[:len(s.scopes)-1] }

func (s *scanner) top() *scope { return s.scopes[len(s.scopes)-1] }

func (s *scanner) cur() byte { return s.src[s.pos] }

func (s *scanner) peek(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *scanner) advance() {
	if s.src[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.pos++
}

func (s *scanner) emit(kind TokenKind, text string, line, col int) {
	t := Token{Kind: kind, Text: text, Line: line, Column: col}
	s.toks = append(s.toks, t)
	s.prev = t
}

func (s *scanner) errorAt(code, line, col int, format string, args ...any) {
	s.diags = append(s.diags, types.Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
		Severity: types.SeverityError,
	})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func closerFor(open byte) string {
	switch open {
	case '(':
		return ")"
	case '[':
		return "]"
	default:
		return "}"
	}
}

func matchingOpen(close byte) byte {
	switch close {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}

func displayTag(tag string) string {
	if tag == "" {
		return "<>"
	}
	return tag
}

// --- code mode ---

func (s *scanner) stepCode() {
	c := s.cur()
	switch {
	case isSpace(c):
		s.advance()
	case c == '/' && s.peek(1) == '/':
		s.skipLineComment()
	case c == '/' && s.peek(1) == '*':
		s.skipBlockComment()
	case c == '\'' || c == '"':
		s.scanString(c)
	case c == '`':
		line, col := s.line, s.col
		s.advance()
		s.push(&scope{kind: scopeTemplate, line: line, col: col})
	case isDigit(c):
		s.scanNumber()
	case isIdentStart(c):
		s.scanIdent()
	case c == '(' || c == '[' || c == '{':
		top := s.top()
		top.delims = append(top.delims, openDelim{ch: c, line: s.line, col: s.col})
		s.emit(TokenPunct, string(c), s.line, s.col)
		s.advance()
	case c == ')' || c == ']':
		s.closeDelim(c)
	case c == '}':
		s.closeBrace()
	case c == '<' && s.jsxStart():
		line, col := s.line, s.col
		s.advance()
		s.push(&scope{kind: scopeJSXTag, line: line, col: col})
	case c == '/' && s.exprPosition():
		s.scanRegex()
	default:
		s.scanOperator()
	}
}

func (s *scanner) skipLineComment() {
	for s.pos < len(s.src) && s.cur() != '\n' {
		s.advance()
	}
}

func (s *scanner) skipBlockComment() {
	line, col := s.line, s.col
	s.advance()
	s.advance()
	for s.pos < len(s.src) {
		if s.cur() == '*' && s.peek(1) == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
	s.errorAt(1010, line, col, "'*/' expected.")
}

func (s *scanner) scanString(quote byte) {
	line, col := s.line, s.col
	s.advance()
	start := s.pos
	for s.pos < len(s.src) {
		c := s.cur()
		if c == '\n' {
			break
		}
		if c == '\\' {
			s.advance()
			if s.pos < len(s.src) {
				s.advance()
			}
			continue
		}
		if c == quote {
			text := s.src[start:s.pos]
			s.advance()
			s.emit(TokenString, text, line, col)
			return
		}
		s.advance()
	}
	s.errorAt(1002, line, col, "Unterminated string literal.")
	s.emit(TokenString, s.src[start:s.pos], line, col)
}

func (s *scanner) scanNumber() {
	line, col := s.line, s.col
	start := s.pos
	for s.pos < len(s.src) && (isIdentPart(s.cur()) || s.cur() == '.') {
		s.advance()
	}
	s.emit(TokenNumber, s.src[start:s.pos], line, col)
}

func (s *scanner) scanIdent() {
	line, col := s.line, s.col
	start := s.pos
	for s.pos < len(s.src) && isIdentPart(s.cur()) {
		s.advance()
	}
	s.emit(TokenIdent, s.src[start:s.pos], line, col)
}

func (s *scanner) scanRegex() {
	line, col := s.line, s.col
	start := s.pos
	s.advance()
	inClass := false
	for s.pos < len(s.src) {
		c := s.cur()
		if c == '\n' {
			s.errorAt(1161, line, col, "Unterminated regular expression literal.")
			break
		}
		if c == '\\' {
			s.advance()
			if s.pos < len(s.src) {
				s.advance()
			}
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			s.advance()
			for s.pos < len(s.src) && isIdentPart(s.cur()) {
				s.advance()
			}
			break
		}
		s.advance()
	}
	s.emit(TokenRegex, s.src[start:s.pos], line, col)
}

// multiOps are multi-character operators, longest first so greedy matching
// picks the right one.
var multiOps = []string{
	"...", "===", "!==", "**=", "<<=", ">>=", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"<<", ">>", "**",
}

func (s *scanner) scanOperator() {
	line, col := s.line, s.col
	rest := s.src[s.pos:]
	for _, op := range multiOps {
		if len(rest) >= len(op) && rest[:len(op)] == op {
			for range op {
				s.advance()
			}
			s.emit(TokenPunct, op, line, col)
			return
		}
	}
	s.emit(TokenPunct, string(s.cur()), line, col)
	s.advance()
}

func (s *scanner) closeDelim(c byte) {
	top := s.top()
	if n := len(top.delims); n > 0 {
		open := top.delims[n-1]
		top.delims = top.delims[:n-1]
		if open.ch != matchingOpen(c) {
			s.errorAt(1005, s.line, s.col, "'%s' expected.", closerFor(open.ch))
		}
	} else {
		s.errorAt(1128, s.line, s.col, "Declaration or statement expected.")
	}
	s.emit(TokenPunct, string(c), s.line, s.col)
	s.advance()
}

func (s *scanner) closeBrace() {
	top := s.top()
	if n := len(top.delims); n > 0 {
		open := top.delims[n-1]
		top.delims = top.delims[:n-1]
		if open.ch != '{' {
			s.errorAt(1005, s.line, s.col, "'%s' expected.", closerFor(open.ch))
		}
		s.emit(TokenPunct, "}", s.line, s.col)
		s.advance()
		return
	}
	switch top.flavor {
	case flavorJSXExpr, flavorTemplateSub:
		// End of an embedded expression; return to the enclosing JSX or
		// template frame.
		s.advance()
		s.pop()
	default:
		s.errorAt(1128, s.line, s.col, "Declaration or statement expected.")
		s.emit(TokenPunct, "}", s.line, s.col)
		s.advance()
	}
}

// jsxStart reports whether '<' at the current position opens a JSX element.
// The next character must look like a tag start and the previous significant
// token must put us in expression position, so comparisons and generic
// instantiations are left alone.
func (s *scanner) jsxStart() bool {
	n := s.peek(1)
	if !(isIdentStart(n) || n == '>') {
		return false
	}
	return s.exprPosition()
}

func (s *scanner) exprPosition() bool {
	switch s.prev.Kind {
	case TokenEOF:
		return true
	case TokenIdent:
		return jsxLeadingKeywords[s.prev.Text]
	case TokenPunct:
		return s.prev.Text != ")" && s.prev.Text != "]" && s.prev.Text != "}"
	default:
		return false
	}
}

// --- JSX tag mode ---

func (s *scanner) skipJSXSpace() {
	for s.pos < len(s.src) && isSpace(s.cur()) {
		s.advance()
	}
}

func (s *scanner) scanJSXName() string {
	start := s.pos
	for s.pos < len(s.src) && isJSXNamePart(s.cur()) {
		s.advance()
	}
	return s.src[start:s.pos]
}

func (s *scanner) stepJSXTag() {
	top := s.top()
	if !top.sawName {
		s.skipJSXSpace()
		if s.pos >= len(s.src) {
			s.errorAt(17008, top.line, top.col, "JSX element '%s' has no corresponding closing tag.", displayTag(top.tag))
			s.pop()
			return
		}
		if isIdentStart(s.cur()) {
			line, col := s.line, s.col
			top.tag = s.scanJSXName()
			s.uses = append(s.uses, JSXUse{Name: top.tag, Line: line, Column: col})
		}
		top.sawName = true
	}
	for s.pos < len(s.src) {
		c := s.cur()
		switch {
		case isSpace(c):
			s.advance()
		case c == '/' && s.peek(1) == '>':
			s.advance()
			s.advance()
			s.pop()
			s.prev = Token{Kind: TokenJSXElement, Text: displayTag(top.tag)}
			return
		case c == '>':
			s.advance()
			top.kind = scopeJSXChildren
			return
		case c == '{':
			s.advance()
			s.push(&scope{kind: scopeCode, flavor: flavorJSXExpr})
			return
		case c == '"' || c == '\'':
			s.scanJSXAttrString(c)
		case isIdentStart(c) || c == '-':
			s.scanJSXName()
		default:
			s.advance()
		}
	}
	s.errorAt(17008, top.line, top.col, "JSX element '%s' has no corresponding closing tag.", displayTag(top.tag))
	s.pop()
}

// scanJSXAttrString consumes a quoted attribute value. Unlike code-mode
// strings, JSX attribute values may span lines.
func (s *scanner) scanJSXAttrString(quote byte) {
	line, col := s.line, s.col
	s.advance()
	for s.pos < len(s.src) {
		if s.cur() == quote {
			s.advance()
			return
		}
		s.advance()
	}
	s.errorAt(1002, line, col, "Unterminated string literal.")
}

// --- JSX children mode ---

func (s *scanner) stepJSXChildren() {
	top := s.top()
	for s.pos < len(s.src) {
		c := s.cur()
		if c == '{' {
			s.advance()
			s.push(&scope{kind: scopeCode, flavor: flavorJSXExpr})
			return
		}
		if c == '<' {
			if s.peek(1) == '/' {
				line, col := s.line, s.col
				s.advance()
				s.advance()
				s.skipJSXSpace()
				name := s.scanJSXName()
				s.skipJSXSpace()
				if s.pos < len(s.src) && s.cur() == '>' {
					s.advance()
				}
				if name != top.tag {
					s.errorAt(17002, line, col, "Expected corresponding JSX closing tag for '%s'.", displayTag(top.tag))
				}
				s.pop()
				s.prev = Token{Kind: TokenJSXElement, Text: displayTag(top.tag)}
				return
			}
			n := s.peek(1)
			if isIdentStart(n) || n == '>' {
				line, col := s.line, s.col
				s.advance()
				s.push(&scope{kind: scopeJSXTag, line: line, col: col})
				return
			}
			s.advance()
			continue
		}
		// Plain JSX text: apostrophes, braces-free prose, entities.
		s.advance()
	}
	s.errorAt(17008, top.line, top.col, "JSX element '%s' has no corresponding closing tag.", displayTag(top.tag))
	s.pop()
}

// --- template mode ---

func (s *scanner) stepTemplate() {
	top := s.top()
	for s.pos < len(s.src) {
		c := s.cur()
		if c == '`' {
			s.advance()
			s.emit(TokenTemplate, "`", top.line, top.col)
			s.pop()
			return
		}
		if c == '\\' {
			s.advance()
			if s.pos < len(s.src) {
				s.advance()
			}
			continue
		}
		if c == '$' && s.peek(1) == '{' {
			s.advance()
			s.advance()
			s.push(&scope{kind: scopeCode, flavor: flavorTemplateSub})
			return
		}
		s.advance()
	}
	s.errorAt(1160, top.line, top.col, "Unterminated template literal.")
	s.pop()
}

// --- end of input ---

// flushEOF reports every construct still open when the input ends.
func (s *scanner) flushEOF() {
	for len(s.scopes) > 0 {
		sc := s.top()
		switch sc.kind {
		case scopeCode:
			for i := len(sc.delims) - 1; i >= 0; i-- {
				d := sc.delims[i]
				s.errorAt(1005, d.line, d.col, "'%s' expected.", closerFor(d.ch))
			}
		case scopeJSXTag, scopeJSXChildren:
			s.errorAt(17008, sc.line, sc.col, "JSX element '%s' has no corresponding closing tag.", displayTag(sc.tag))
		case scopeTemplate:
			s.errorAt(1160, sc.line, sc.col, "Unterminated template literal.")
		}
		s.pop()
	}
}
