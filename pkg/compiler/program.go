// Package compiler is the embedded TSX frontend used to validate generated
// component source without touching disk. It is intentionally a subset of a
// full type checker: a modal scanner, structural syntax checks, and a light
// semantic pass over imports and JSX component names. Diagnostic codes are
// TypeScript-compatible numerals so downstream categorization can key off the
// familiar ranges.
package compiler

import (
	"fmt"
	"sync"

	"github.com/artifix/artifix/pkg/types"
)

// Host is the filesystem surface a program compiles against. A vfs.VFS
// satisfies it directly.
type Host interface {
	ReadFile(path string) (string, bool)
	FileExists(path string) bool
	ResolveModule(specifier, from string) (string, bool)
}

// CompilerOptions mirror the fixed, permissive-but-type-aware option set the
// validator compiles with.
type CompilerOptions struct {
	Target             string
	Module             string
	JSX                string
	Strict             bool
	NoUnusedLocals     bool
	NoUnusedParameters bool
	SkipLibCheck       bool
	NoEmit             bool
}

// DefaultOptions returns the option set used for artifact validation: modern
// target and module system, JSX output transform, strict checking with unused
// checks disabled (generated code legitimately contains unused scaffolding),
// lib checking skipped, no emission.
func DefaultOptions() CompilerOptions {
	return CompilerOptions{
		Target:             "ESNext",
		Module:             "ESNext",
		JSX:                "react-jsx",
		Strict:             true,
		NoUnusedLocals:     false,
		NoUnusedParameters: false,
		SkipLibCheck:       true,
		NoEmit:             true,
	}
}

var validJSXModes = map[string]bool{
	"react-jsx":    true,
	"react-jsxdev": true,
	"react":        true,
	"preserve":     true,
}

// Program is a compilation scoped to exactly one entry file plus the host's
// virtual filesystem.
type Program struct {
	host     Host
	rootFile string
	opts     CompilerOptions
	src      string

	scanOnce sync.Once
	scan     *ScanResult
}

// NewProgram constructs a program for rootFile. The file must already exist
// on the host.
func NewProgram(host Host, rootFile string, opts CompilerOptions) (*Program, error) {
	src, ok := host.ReadFile(rootFile)
	if !ok {
		return nil, fmt.Errorf("root file %q not found in virtual filesystem", rootFile)
	}
	return &Program{host: host, rootFile: rootFile, opts: opts, src: src}, nil
}

// RootFile returns the entry file path.
func (p *Program) RootFile() string { return p.rootFile }

func (p *Program) scanned() *ScanResult {
	p.scanOnce.Do(func() {
		p.scan = Scan(p.src)
	})
	return p.scan
}

// OptionsDiagnostics validates the compiler option set.
func (p *Program) OptionsDiagnostics() []types.Diagnostic {
	var diags []types.Diagnostic
	if p.opts.JSX != "" && !validJSXModes[p.opts.JSX] {
		diags = append(diags, types.Diagnostic{
			Code:     5024,
			Message:  fmt.Sprintf("Compiler option 'jsx' requires a value of type 'react-jsx', 'react', or 'preserve'; got %q.", p.opts.JSX),
			Severity: types.SeverityError,
		})
	}
	if p.opts.Target == "" {
		diags = append(diags, types.Diagnostic{
			Code:     5023,
			Message:  "Compiler option 'target' must not be empty.",
			Severity: types.SeverityError,
		})
	}
	return diags
}

// SyntacticDiagnostics returns lexical and structural issues: unterminated
// literals and comments, unbalanced delimiters, and mispaired JSX tags.
func (p *Program) SyntacticDiagnostics() []types.Diagnostic {
	return append([]types.Diagnostic(nil), p.scanned().Diagnostics...)
}

// SemanticDiagnostics resolves imports against the host and checks JSX
// component references against the declared names in the file.
func (p *Program) SemanticDiagnostics() []types.Diagnostic {
	res := p.scanned()
	sem := newSemanticPass(p.host, p.rootFile, res)
	return sem.run()
}
