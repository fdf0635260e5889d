// Package vfs provides the in-memory virtual filesystem that hosts artifact
// code and the stub type declarations the embedded compiler resolves against.
// No disk or network access ever occurs.
package vfs

import (
	"path"
	"strings"
	"sync"
)

// VFS is an in-memory map from absolute path to file content. One instance
// should be used per validation run; sharing an instance across concurrent
// runs requires external serialization.
type VFS struct {
	mu    sync.RWMutex
	files map[string]string
}

// New creates a VFS preloaded with the framework, icon-library, charting and
// design-system stubs.
func New() *VFS {
	v := &VFS{}
	v.reset()
	return v
}

func (v *VFS) reset() {
	files := make(map[string]string, len(defaultStubs))
	for p, content := range defaultStubs {
		files[p] = content
	}
	v.files = files
}

// normalize cleans a path and guarantees a leading slash so that lookups are
// shape-insensitive.
func normalize(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Write stores content under path, overwriting any previous content.
func (v *VFS) Write(p, content string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.files[normalize(p)] = content
}

// Read returns the content stored under path.
func (v *VFS) Read(p string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	content, ok := v.files[normalize(p)]
	return content, ok
}

// Exists reports whether path holds content.
func (v *VFS) Exists(p string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.files[normalize(p)]
	return ok
}

// Delete removes a single file. Missing paths are ignored.
func (v *VFS) Delete(p string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.files, normalize(p))
}

// Clear resets the filesystem to exactly the preloaded stub set. It is used
// between unrelated validation runs to avoid cross-artifact leakage.
func (v *VFS) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reset()
}

// Len returns the number of files currently stored.
func (v *VFS) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.files)
}

// Compiler host interface. These methods satisfy compiler.Host so a VFS can
// back a Program directly.

// ReadFile implements the compiler host read operation.
func (v *VFS) ReadFile(p string) (string, bool) {
	return v.Read(p)
}

// FileExists implements the compiler host existence probe.
func (v *VFS) FileExists(p string) bool {
	return v.Exists(p)
}
