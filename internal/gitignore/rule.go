// Package gitignore implements a gitignore-pattern-to-glob matcher: rule
// compilation anchors each pattern to the directory its .gitignore lives
// in, then translates it to one or two doublestar globs (spec.md §4.5).
// Negation is parsed but deliberately not honored during matching — see
// Matcher.Match.
package gitignore

import (
	"path"
	"strings"
)

// Rule is one compiled gitignore line.
type Rule struct {
	Negate bool
	Globs  []string
}

// CompileRule compiles one line of a .gitignore rooted at basePath. ok is
// false for blank or comment lines, which produce no rule.
func CompileRule(basePath, line string) (rule Rule, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Rule{}, false
	}

	pattern := line
	negate := false
	if strings.HasPrefix(pattern, "!") {
		negate = true
		pattern = pattern[1:]
	}

	directoryOnly := false
	if strings.HasSuffix(pattern, "/") {
		directoryOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	anchored := strings.Contains(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")

	var baseGlob string
	if anchored || strings.HasPrefix(pattern, "**") {
		baseGlob = path.Join(basePath, pattern)
	} else {
		baseGlob = path.Join(basePath, "**", pattern)
	}

	globs := []string{baseGlob + "/**"}
	if !directoryOnly {
		globs = append(globs, baseGlob)
	}

	return Rule{Negate: negate, Globs: globs}, true
}
