// Package validator type-checks one artifact at a time against the virtual
// filesystem and returns filtered, formatted validation results.
package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/artifix/artifix/pkg/compiler"
	"github.com/artifix/artifix/pkg/formatter"
	"github.com/artifix/artifix/pkg/logging"
	"github.com/artifix/artifix/pkg/types"
	"github.com/artifix/artifix/pkg/vfs"
)

// componentExtension is the synthetic filename suffix artifact code is
// written under before compilation.
const componentExtension = ".tsx"

// resultCacheSize bounds the LRU cache of validation results keyed by code
// hash. Repair loops frequently re-validate unchanged candidates; the cache
// makes those passes free.
const resultCacheSize = 128

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Validator runs the embedded compiler over a single artifact.
type Validator struct {
	fs              *vfs.VFS
	opts            compiler.CompilerOptions
	ignoredCodes    map[int]bool
	virtualPackages []string
	stats           *types.Stats
	cache           *lru.Cache[string, types.ValidationResult]
	logger          *logging.Logger
}

// Option customizes a Validator.
type Option func(*Validator)

// WithCompilerOptions overrides the default compiler option set.
func WithCompilerOptions(opts compiler.CompilerOptions) Option {
	return func(v *Validator) { v.opts = opts }
}

// WithIgnoredCodes replaces the default ignored diagnostic code set.
func WithIgnoredCodes(codes map[int]bool) Option {
	return func(v *Validator) { v.ignoredCodes = codes }
}

// WithVirtualPackages replaces the known stubbed package list used by the
// module-not-found filter.
func WithVirtualPackages(packages []string) Option {
	return func(v *Validator) { v.virtualPackages = packages }
}

// New creates a Validator backed by fs. A nil fs gets a fresh preloaded VFS.
func New(fs *vfs.VFS, logger *logging.Logger, opts ...Option) *Validator {
	if fs == nil {
		fs = vfs.New()
	}
	cache, _ := lru.New[string, types.ValidationResult](resultCacheSize)
	v := &Validator{
		fs:              fs,
		opts:            compiler.DefaultOptions(),
		ignoredCodes:    defaultIgnoredCodes,
		virtualPackages: defaultVirtualPackages,
		stats:           types.NewStats(),
		cache:           cache,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Stats returns the validator's counters.
func (v *Validator) Stats() *types.Stats { return v.stats }

// FS returns the validator's virtual filesystem.
func (v *Validator) FS() *vfs.VFS { return v.fs }

// Validate type-checks one artifact. The artifact itself is never modified.
// All failure modes surface as diagnostics in the result; Validate never
// panics and never returns an error.
func (v *Validator) Validate(artifact types.Artifact) types.ValidationResult {
	start := time.Now()
	result := v.validate(artifact)
	v.stats.Record(result.Success, time.Since(start))
	return result
}

func (v *Validator) validate(artifact types.Artifact) types.ValidationResult {
	code, ok := ExtractCode(artifact)
	if !ok {
		return infraResult(types.Diagnostic{
			Code:     types.CodeNoContent,
			Message:  "No code content found in artifact.",
			Severity: types.SeverityError,
			Category: types.CategoryValidationInfra,
		})
	}

	cacheKey := hashCode(code)
	if cached, ok := v.cache.Get(cacheKey); ok {
		return cached
	}

	fileName := "/" + sanitizeIdentifier(artifact.Identifier) + componentExtension
	v.fs.Write(fileName, code)

	diags, err := v.collectDiagnostics(fileName)
	if err != nil {
		if v.logger != nil {
			v.logger.LogError(err)
		}
		return infraResult(types.Diagnostic{
			Code:     types.CodeCompilerPanic,
			Message:  fmt.Sprintf("Internal failure during compilation: %v", err),
			Severity: types.SeverityError,
			Category: types.CategoryCompilationInfra,
		})
	}

	filtered := v.filterDiagnostics(diags)
	errors := formatter.FormatErrors(filtered)
	result := types.ValidationResult{
		Success: len(errors) == 0,
		Errors:  errors,
	}
	v.cache.Add(cacheKey, result)
	return result
}

// collectDiagnostics builds the single-file program and gathers options,
// syntactic and semantic diagnostics, in that order. Any panic during
// construction or collection is recovered and returned as an error so the
// caller can convert it into a synthetic diagnostic.
func (v *Validator) collectDiagnostics(fileName string) (diags []types.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = fmt.Errorf("compiler panic: %v", r)
		}
	}()

	program, err := compiler.NewProgram(v.fs, fileName, v.opts)
	if err != nil {
		return nil, err
	}
	diags = append(diags, program.OptionsDiagnostics()...)
	diags = append(diags, program.SyntacticDiagnostics()...)
	diags = append(diags, program.SemanticDiagnostics()...)
	return diags, nil
}

// ResetState clears the virtual filesystem back to its preloaded stubs and
// drops the result cache. Used between unrelated validation runs.
func (v *Validator) ResetState() {
	v.fs.Clear()
	v.cache.Purge()
}

func infraResult(d types.Diagnostic) types.ValidationResult {
	errors := formatter.FormatErrors([]types.Diagnostic{d})
	return types.ValidationResult{Success: false, Errors: errors}
}

func sanitizeIdentifier(id string) string {
	cleaned := unsafeFilenameRe.ReplaceAllString(id, "-")
	if cleaned == "" {
		return "artifact"
	}
	return cleaned
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
