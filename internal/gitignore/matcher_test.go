package gitignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileRuleDropsBlankAndCommentLines(t *testing.T) {
	_, ok := CompileRule("/repo", "")
	assert.False(t, ok)
	_, ok = CompileRule("/repo", "   ")
	assert.False(t, ok)
	_, ok = CompileRule("/repo", "# a comment")
	assert.False(t, ok)
}

func TestCompileRuleNegation(t *testing.T) {
	rule, ok := CompileRule("/repo", "!important.log")
	assert.True(t, ok)
	assert.True(t, rule.Negate)
}

func TestCompileRuleDirectoryOnlyHasSingleGlob(t *testing.T) {
	rule, ok := CompileRule("/repo", "build/")
	assert.True(t, ok)
	assert.Len(t, rule.Globs, 1)
	assert.Equal(t, "/repo/**/build/**", rule.Globs[0])
}

func TestCompileRuleFilePatternHasTwoGlobs(t *testing.T) {
	rule, ok := CompileRule("/repo", "*.log")
	assert.True(t, ok)
	assert.Len(t, rule.Globs, 2)
	assert.Equal(t, "/repo/**/*.log/**", rule.Globs[0])
	assert.Equal(t, "/repo/**/*.log", rule.Globs[1])
}

func TestCompileRuleAnchoredPattern(t *testing.T) {
	rule, ok := CompileRule("/repo", "/dist/out.txt")
	assert.True(t, ok)
	assert.Equal(t, "/repo/dist/out.txt", rule.Globs[1])
}

func TestMatcherIgnoresSimpleExtension(t *testing.T) {
	m := NewMatcher("/repo", "*.log\n")
	assert.True(t, m.Match("/repo/debug.log", false))
	assert.True(t, m.Match("/repo/nested/debug.log", false))
	assert.False(t, m.Match("/repo/debug.txt", false))
}

func TestMatcherDirectoryMatchRequiresTrailingSlash(t *testing.T) {
	m := NewMatcher("/repo", "build/\n")
	assert.True(t, m.Match("/repo/build", true))
	assert.True(t, m.Match("/repo/nested/build", true))
}

func TestMatcherNegationIsParsedButIgnored(t *testing.T) {
	// Known limitation: the negated rule still only ever adds coverage,
	// it never excludes a path an earlier rule matched.
	m := NewMatcher("/repo", "*.log\n!keep.log\n")
	assert.True(t, m.Match("/repo/keep.log", false))
}

func TestMatcherNoRulesMatchesNothing(t *testing.T) {
	m := NewMatcher("/repo", "")
	assert.False(t, m.Match("/repo/anything", false))
}
