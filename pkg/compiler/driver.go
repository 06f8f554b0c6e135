package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corevcs/corevcs/pkg/config"
	"github.com/corevcs/corevcs/pkg/lang"
)

// Diagnostic reports a single problem the driver found while walking a
// source tree.
type Diagnostic struct {
	Path    string
	Message string
}

func (d Diagnostic) String() string { return fmt.Sprintf("%s: %s", d.Path, d.Message) }

// Driver consumes a working tree snapshot through a FileAccessor and
// resolves every relative import against files actually present, reporting
// a diagnostic for anything that does not resolve. Check never writes output
// (this mirrors a type-checker's "noEmit" pass); compiled artifacts are
// written back only through Emit, via the same FileAccessor.
type Driver struct {
	Accessor FileAccessor
	Config   config.Compiler
}

// NewDriver constructs a Driver bound to the given FileAccessor and config.
func NewDriver(accessor FileAccessor, cfg config.Compiler) *Driver {
	return &Driver{Accessor: accessor, Config: cfg}
}

// Check walks every file in paths, detects its language and declared
// imports via pkg/lang, and resolves each relative import through the
// accessor's ResolveModule. Results are sorted by path for determinism.
func (d *Driver) Check(paths []string) []Diagnostic {
	var diags []Diagnostic
	for _, p := range paths {
		content, ok := d.Accessor.ReadFile(p)
		if !ok {
			diags = append(diags, Diagnostic{Path: p, Message: "file disappeared during check"})
			continue
		}
		meta := lang.Detect(p, content)
		for _, imp := range meta.Imports {
			if !strings.HasPrefix(imp, ".") {
				continue // bare package import: resolved via the host package cache, not the working tree
			}
			if _, ok := d.Accessor.ResolveModule(p, imp); !ok {
				diags = append(diags, Diagnostic{Path: p, Message: fmt.Sprintf("unresolved import %q", imp)})
			}
		}
	}
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		return diags[i].Message < diags[j].Message
	})
	return diags
}

// Emit writes content to outputPath through the accessor, the mechanism an
// external compiler uses to publish its compiled artifacts back into the
// working tree.
func (d *Driver) Emit(outputPath string, content []byte) {
	d.Accessor.WriteFile(outputPath, content)
}
