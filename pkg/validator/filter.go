package validator

import (
	"regexp"
	"strings"

	"github.com/artifix/artifix/pkg/types"
)

// defaultIgnoredCodes are always dropped: unused-symbol checks (generated
// code carries unused scaffolding), unreachable code, implicit-any on JSX
// elements, and a couple of over-strict assignability checks that fire
// constantly against the incomplete stub typings.
var defaultIgnoredCodes = map[int]bool{
	6133: true, // declared but never read
	6196: true, // declared but never used
	7027: true, // unreachable code detected
	7026: true, // JSX element implicitly has type 'any'
	2322: true, // type not assignable (stub typings are too loose to judge)
	2769: true, // no overload matches this call
}

// defaultVirtualPackages are the module specifiers the stub environment is
// known to provide only partially. A module-not-found diagnostic whose
// specifier matches one of these is a resolution gap in the deliberately
// incomplete stub set, not a real error.
var defaultVirtualPackages = []string{
	"@/lib/utils",
	"@/components/ui/",
	"react",
	"react-dom",
	"lucide-react",
	"recharts",
}

var unresolvedModuleRe = regexp.MustCompile(`Cannot find module '([^']+)'`)

// matchesVirtualPackage reports whether the specifier belongs to one of the
// known stubbed packages. Prefix entries (ending in "/") match any path under
// them; other entries match the package itself or a subpath of it.
func matchesVirtualPackage(specifier string, virtualPackages []string) bool {
	for _, pkg := range virtualPackages {
		if strings.HasSuffix(pkg, "/") {
			if strings.HasPrefix(specifier, pkg) {
				return true
			}
			continue
		}
		if specifier == pkg || strings.HasPrefix(specifier, pkg+"/") {
			return true
		}
	}
	return false
}

// filterDiagnostics applies the ignore rules. Every diagnostic surfaced past
// this point is a genuine defect of the artifact: known-noisy codes are
// dropped, module-not-found is dropped for the stubbed virtual packages, and
// info/suggestion severity diagnostics are demoted to the log.
func (v *Validator) filterDiagnostics(diags []types.Diagnostic) []types.Diagnostic {
	kept := make([]types.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if v.ignoredCodes[d.Code] {
			continue
		}
		if d.Severity >= types.SeverityInfo {
			if v.logger != nil {
				v.logger.Logf("suppressed %s diagnostic TS%d: %s", d.Severity, d.Code, d.Message)
			}
			continue
		}
		if d.Code == 2307 {
			if m := unresolvedModuleRe.FindStringSubmatch(d.Message); m != nil {
				if matchesVirtualPackage(m[1], v.virtualPackages) {
					continue
				}
			}
		}
		kept = append(kept, d)
	}
	return kept
}
