// Package lang derives advisory language and import/export metadata from a
// file's path and content. The detection is heuristic (extension table plus
// regexp scanning), not a parser: callers must never fold its output into a
// content hash or any durability-relevant decision.
package lang

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Language names a source language detected from a file extension.
type Language string

const (
	Unknown     Language = ""
	Go          Language = "go"
	TypeScript  Language = "typescript"
	JavaScript  Language = "javascript"
	Python      Language = "python"
)

var extensionTable = map[string]Language{
	".go":  Go,
	".ts":  TypeScript,
	".tsx": TypeScript,
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".py":  Python,
}

// Metadata is the derived, advisory-only view of a file's content.
type Metadata struct {
	Language Language
	Imports  []string
	Exports  []string
}

// Detect classifies path by extension and, for recognized languages, scans
// content for import and export names. Unrecognized extensions yield a zero
// Metadata with Language set to Unknown and nil Imports/Exports.
func Detect(path string, content []byte) Metadata {
	lang := DetectLanguage(path)
	if lang == Unknown {
		return Metadata{Language: Unknown}
	}
	src := string(content)
	return Metadata{
		Language: lang,
		Imports:  dedupSorted(scanImports(lang, src)),
		Exports:  dedupSorted(scanExports(lang, src)),
	}
}

// DetectLanguage classifies path by its extension alone.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	return extensionTable[ext]
}

func scanImports(l Language, src string) []string {
	switch l {
	case Go:
		return matchAll(goImportRe, src, 1)
	case TypeScript, JavaScript:
		out := matchAll(jsImportFromRe, src, 1)
		out = append(out, matchAll(jsRequireRe, src, 1)...)
		return out
	case Python:
		out := matchAll(pyImportRe, src, 1)
		out = append(out, matchAll(pyFromImportRe, src, 1)...)
		return out
	default:
		return nil
	}
}

func scanExports(l Language, src string) []string {
	switch l {
	case Go:
		return matchAll(goExportRe, src, 1)
	case TypeScript, JavaScript:
		out := matchAll(jsExportNamedRe, src, 1)
		out = append(out, matchAll(jsExportDefaultRe, src, 1)...)
		return out
	case Python:
		return matchAll(pyDefClassRe, src, 1)
	default:
		return nil
	}
}

var (
	// Go: a quoted import path on its own line, inside or outside an import
	// block ("fmt" or "some/pkg/path", optionally with an alias before it).
	goImportRe = regexp.MustCompile(`(?m)^\s*(?:[A-Za-z_][A-Za-z0-9_]*\s+|\.\s+|_\s+)?"([^"]+)"\s*$`)
	// Go: top-level exported func/type/var/const identifiers.
	goExportRe = regexp.MustCompile(`(?m)^(?:func(?:\s*\([^)]*\))?\s+|type\s+|var\s+|const\s+)([A-Z][A-Za-z0-9_]*)\b`)

	jsImportFromRe     = regexp.MustCompile(`(?m)\bfrom\s+['"]([^'"]+)['"]`)
	jsRequireRe        = regexp.MustCompile(`(?m)\brequire\(\s*['"]([^'"]+)['"]\s*\)`)
	jsExportNamedRe    = regexp.MustCompile(`(?m)\bexport\s+(?:async\s+)?(?:function|class|const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	jsExportDefaultRe  = regexp.MustCompile(`(?m)\bexport\s+default\s+(?:function|class)?\s*([A-Za-z_$][A-Za-z0-9_$]*)?`)

	pyImportRe     = regexp.MustCompile(`(?m)^\s*import\s+([A-Za-z0-9_.]+)`)
	pyFromImportRe = regexp.MustCompile(`(?m)^\s*from\s+([A-Za-z0-9_.]+)\s+import\b`)
	pyDefClassRe   = regexp.MustCompile(`(?m)^(?:def|class)\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

func matchAll(re *regexp.Regexp, src string, group int) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		if group < len(m) && m[group] != "" {
			out = append(out, m[group])
		}
	}
	return out
}

func dedupSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
