package vfs

import (
	"path"
	"strings"
)

// suffixProbes is the probe order for module resolution: declaration file
// first, then component source, then plain source.
var suffixProbes = []string{".d.ts", ".tsx", ".ts"}

// ResolveModule resolves a module specifier relative to the importing file and
// returns the resolved path. When nothing matches, the unsuffixed resolved
// path is returned with ok=false; callers must treat that as "not found"
// rather than fail.
//
// Resolution rules:
//   - "./x" and "../x" resolve relative to the importing file's directory.
//   - "/x" resolves from the VFS root.
//   - "@/x" is the project-root alias and resolves like "/x".
//   - Anything else is a package import, probed at the conventional
//     declarations location and then at an @types-style location.
func (v *VFS) ResolveModule(specifier, from string) (string, bool) {
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		base := path.Dir(normalize(from))
		return v.probeSuffixes(path.Join(base, specifier))
	case strings.HasPrefix(specifier, "/"):
		return v.probeSuffixes(path.Clean(specifier))
	case strings.HasPrefix(specifier, "@/"):
		return v.probeSuffixes(path.Join("/", strings.TrimPrefix(specifier, "@/")))
	default:
		return v.resolvePackage(specifier)
	}
}

// probeSuffixes tries the declaration, component and plain source suffixes in
// order and returns the first path that exists.
func (v *VFS) probeSuffixes(resolved string) (string, bool) {
	for _, suffix := range suffixProbes {
		candidate := resolved + suffix
		if v.Exists(candidate) {
			return candidate, true
		}
	}
	if v.Exists(resolved) {
		return resolved, true
	}
	return resolved, false
}

// resolvePackage probes the conventional type-declarations location for a bare
// package specifier, then the @types fallback.
func (v *VFS) resolvePackage(pkg string) (string, bool) {
	direct := path.Join("/node_modules", pkg, "index.d.ts")
	if v.Exists(direct) {
		return direct, true
	}
	typed := path.Join("/node_modules/@types", pkg, "index.d.ts")
	if v.Exists(typed) {
		return typed, true
	}
	return direct, false
}
