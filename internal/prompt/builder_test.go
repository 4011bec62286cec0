package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-ls/llm-ls/internal/document"
)

func TestBuildPrefixTruncatesAtCursor(t *testing.T) {
	rope := document.NewRope("line one\nline two\nline three")
	got, err := BuildPrefix(rope, 2, 5, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\nline ", got)
}

func TestBuildPrefixStopsWhenBudgetExceeded(t *testing.T) {
	rope := document.NewRope("aaaa\nbbbb\ncccc")
	// budget only fits the cursor-line fragment ("cccc", 4 bytes) plus a
	// little more, not the full preceding line.
	got, err := BuildPrefix(rope, 2, 4, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "cccc", got)
}

func TestBuildPrefixEmptyWhenCursorFragmentAlreadyOverBudget(t *testing.T) {
	rope := document.NewRope("hello world")
	got, err := BuildPrefix(rope, 0, 11, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

type fixedCounter struct{ perCall int }

func (f fixedCounter) Count(s string) int { return f.perCall }

func TestBuildPrefixUsesProvidedCounter(t *testing.T) {
	rope := document.NewRope("one\ntwo\nthree")
	// one "token" per line regardless of length; budget of 2 admits the
	// cursor line and exactly one line above it.
	got, err := BuildPrefix(rope, 2, 5, 2, fixedCounter{perCall: 1})
	require.NoError(t, err)
	assert.Equal(t, "two\nthree", got)
}

func TestBuildFIMComposesPrefixSuffixMiddle(t *testing.T) {
	rope := document.NewRope("alpha\nbeta\ngamma")
	fim := FIM{Enabled: true, Prefix: "<PRE>", Suffix: "<SUF>", Middle: "<MID>"}

	got, err := BuildFIM(rope, 1, 2, 1000, nil, fim)
	require.NoError(t, err)
	assert.Equal(t, "<PRE>alpha\nbe<SUF>ta\ngamma<MID>", got)
}

func TestBuildFIMStopsEachSideIndependently(t *testing.T) {
	rope := document.NewRope("aaaa\nbbbb\ncccc\ndddd\neeee")
	fim := FIM{Prefix: "P:", Suffix: "S:", Middle: ":M"}

	// Budget covers the cursor-line split plus one extra "\n"-worth of
	// line on the after side only.
	got, err := BuildFIM(rope, 2, 2, 8, fixedCounter{perCall: 2}, fim)
	require.NoError(t, err)
	assert.Contains(t, got, "P:")
	assert.Contains(t, got, "S:")
	assert.Contains(t, got, ":M")
}

func TestByteCounterCountsBytes(t *testing.T) {
	assert.Equal(t, 5, ByteCounter{}.Count("hello"))
	assert.Equal(t, 0, ByteCounter{}.Count(""))
}
