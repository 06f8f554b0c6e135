// Package ignore implements the pattern-based path predicate described by
// a single .gitignore-shaped text blob: globs translated to regexes, with
// the last matching pattern in file order winning (so a later "!pattern"
// can re-include a path an earlier pattern excluded).
package ignore

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is one compiled line of an ignore document.
type Pattern struct {
	Raw     string
	Negated bool
	re      *regexp.Regexp
}

// Filter evaluates a path against an ordered set of compiled patterns.
type Filter struct {
	patterns []Pattern
}

// InvalidPatternFunc receives a pattern line that failed to compile. It is
// the only reporting channel for ignore-compile failures: per spec, an
// invalid pattern is dropped, never fatal.
type InvalidPatternFunc func(pattern string, err error)

// Parse compiles a newline-delimited ignore document. Empty lines and
// lines starting with "#" are skipped. onInvalid, if non-nil, is called
// once for each pattern line that fails to compile; that pattern is then
// dropped from the filter.
func Parse(text string, onInvalid InvalidPatternFunc) *Filter {
	f := &Filter{}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		negated := false
		body := trimmed
		if strings.HasPrefix(body, "!") {
			negated = true
			body = body[1:]
		}

		re, err := compile(body)
		if err != nil {
			if onInvalid != nil {
				onInvalid(trimmed, err)
			}
			continue
		}

		f.patterns = append(f.patterns, Pattern{Raw: trimmed, Negated: negated, re: re})
	}
	return f
}

// Empty returns a Filter that ignores nothing.
func Empty() *Filter { return &Filter{} }

// Ignores reports whether relPath — forward-slash, relative to the
// filtered root — should be excluded, applying every pattern in file order
// and letting the last match win.
func (f *Filter) Ignores(relPath string) bool {
	if f == nil {
		return false
	}
	ignored := false
	for _, p := range f.patterns {
		if p.re.MatchString(relPath) {
			ignored = !p.Negated
		}
	}
	return ignored
}

// compile translates one pattern body (already stripped of its leading "!")
// into an anchored regular expression per the rules:
//
//   - "**/" matches zero or more path segments.
//   - "**" not followed by "/" matches any characters, including "/".
//   - "*" matches a run of non-"/" characters.
//   - "?" matches any single character.
//   - a trailing "/" anchors the pattern to a directory prefix (equivalent
//     to appending ".*").
//   - a leading "/" anchors the pattern to the root; the remainder matches
//     from the start of the path.
//   - a pattern with neither a leading nor a trailing "/" matches the base
//     name or any path-segment boundary: (^|/)<pattern>($|/.*)
func compile(body string) (*regexp.Regexp, error) {
	leadingSlash := strings.HasPrefix(body, "/")
	if leadingSlash {
		body = body[1:]
	}
	trailingSlash := strings.HasSuffix(body, "/")
	if trailingSlash {
		body = strings.TrimSuffix(body, "/")
	}

	core := translateGlob(body)
	if trailingSlash {
		core += ".*"
	}

	var pattern string
	switch {
	case leadingSlash && trailingSlash:
		pattern = "^" + core
	case leadingSlash && !trailingSlash:
		pattern = "^" + core + "$"
	case !leadingSlash && trailingSlash:
		pattern = "(^|/)" + core
	default: // no leading slash, no trailing slash
		pattern = "(^|/)" + core + "($|/.*)"
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("ignore: compile pattern %q: %w", body, err)
	}
	return re, nil
}

const regexMeta = `.+()|[]{}^$\`

// translateGlob rewrites glob syntax to an unanchored regex fragment,
// escaping every character that isn't part of the glob grammar.
func translateGlob(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(s[i:], "**"):
			b.WriteString(".*")
			i += 2
		case s[i] == '*':
			b.WriteString("[^/]*")
			i++
		case s[i] == '?':
			b.WriteString(".")
			i++
		default:
			c := s[i]
			if strings.IndexByte(regexMeta, c) >= 0 {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
