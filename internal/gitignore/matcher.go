package gitignore

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher holds the compiled rules from one .gitignore file.
type Matcher struct {
	rules []Rule
}

// NewMatcher compiles every non-blank, non-comment line of content,
// anchoring patterns to basePath (the directory the .gitignore lives in).
func NewMatcher(basePath, content string) *Matcher {
	m := &Matcher{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if rule, ok := CompileRule(basePath, line); ok {
			m.rules = append(m.rules, rule)
		}
	}
	return m
}

// Match reports whether path (absolute or basePath-relative, forward-slash
// separated) is ignored. isDir appends a trailing slash before matching,
// per spec.md §4.5. Negated rules are parsed but never un-ignore a path
// that an earlier rule matched — this mirrors the documented limitation
// in spec.md §4.5/§9, not full gitignore semantics.
func (m *Matcher) Match(p string, isDir bool) bool {
	testPath := p
	if isDir {
		testPath = strings.TrimSuffix(p, "/") + "/"
	}

	matched := false
	for _, rule := range m.rules {
		for _, glob := range rule.Globs {
			ok, err := doublestar.Match(glob, testPath)
			if err == nil && ok {
				matched = true
			}
		}
	}
	return matched
}
