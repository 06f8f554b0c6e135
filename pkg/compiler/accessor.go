// Package compiler provides a minimal reference compiler driver: a
// FileAccessor that decouples the engine's working tree from whatever
// concrete type-checker a caller wires in, plus a driver that walks a
// source tree through it.
package compiler

import (
	"path"
	"strings"

	"github.com/corevcs/corevcs/pkg/engine"
)

// FileAccessor is the capability surface an external compiler needs,
// independent of the compiler's own concrete API.
type FileAccessor interface {
	FileExists(p string) bool
	ReadFile(p string) ([]byte, bool)
	WriteFile(p string, content []byte)
	GetCwd() string
	ResolveModule(fromPath, importPath string) (string, bool)
}

// EngineAccessor adapts an *engine.Engine into a FileAccessor. Paths are
// absolute, under the engine's root; ResolveModule only resolves relative
// imports against files already live in the working tree.
type EngineAccessor struct {
	Engine *engine.Engine
}

// NewEngineAccessor returns a FileAccessor backed by e.
func NewEngineAccessor(e *engine.Engine) *EngineAccessor {
	return &EngineAccessor{Engine: e}
}

func (a *EngineAccessor) FileExists(p string) bool {
	_, ok := a.Engine.Read(p)
	return ok
}

func (a *EngineAccessor) ReadFile(p string) ([]byte, bool) {
	f, ok := a.Engine.Read(p)
	if !ok {
		return nil, false
	}
	return f.Content, true
}

func (a *EngineAccessor) WriteFile(p string, content []byte) {
	a.Engine.Write(p, content)
}

func (a *EngineAccessor) GetCwd() string {
	return a.Engine.WT.Root
}

// ResolveModule resolves importPath relative to fromPath's directory,
// trying a bare match and then the extensions .ts, .tsx and .js in that
// order, finally falling back to index.ts or index.js inside a directory of
// the same name.
// Non-relative (bare package) imports are not resolved; ok is false.
func (a *EngineAccessor) ResolveModule(fromPath, importPath string) (string, bool) {
	if !strings.HasPrefix(importPath, ".") {
		return "", false
	}
	base := path.Join(path.Dir(fromPath), importPath)
	candidates := []string{base, base + ".ts", base + ".tsx", base + ".js", base + "/index.ts", base + "/index.js"}
	for _, candidate := range candidates {
		if a.FileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
