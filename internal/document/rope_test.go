package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRopeStringRoundTrip(t *testing.T) {
	text := "hello\nworld\n🤗 emoji\n"
	r := NewRope(text)
	assert.Equal(t, text, r.String())
	assert.Equal(t, len([]rune(text)), r.Len())
	assert.Equal(t, len(text), r.ByteLen())
}

func TestRopeInsertDelete(t *testing.T) {
	r := NewRope("hello world")
	require.NoError(t, r.Insert(5, ","))
	assert.Equal(t, "hello, world", r.String())

	require.NoError(t, r.Delete(5, 6))
	assert.Equal(t, "hello world", r.String())
}

func TestRopeEmptyDocumentInsertAtZero(t *testing.T) {
	r := NewRope("")
	require.NoError(t, r.Insert(0, "abc"))
	assert.Equal(t, "abc", r.String())
}

func TestRopeInsertOutOfBounds(t *testing.T) {
	r := NewRope("abc")
	err := r.Insert(10, "x")
	assert.Error(t, err)
	assert.Equal(t, "abc", r.String())
}

func TestRopeDeleteInvalidRangeLeavesUnchanged(t *testing.T) {
	r := NewRope("abcdef")
	err := r.Delete(4, 2)
	assert.Error(t, err)
	assert.Equal(t, "abcdef", r.String())
}

func TestRopeLineStartAndLine(t *testing.T) {
	r := NewRope("one\ntwo\nthree")
	assert.Equal(t, 3, r.LineCount())

	start, err := r.LineStartChar(1)
	require.NoError(t, err)
	assert.Equal(t, 4, start)

	line, err := r.Line(1)
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	line, err = r.Line(2)
	require.NoError(t, err)
	assert.Equal(t, "three", line)
}

func TestRopeLineOutOfBounds(t *testing.T) {
	r := NewRope("only one line")
	_, err := r.LineStartChar(5)
	assert.Error(t, err)
}

func TestRopeByteOffsetWithMultibyteRunes(t *testing.T) {
	r := NewRope("🤗 Hello 🤗")
	// "🤗" is 4 bytes, 1 rune
	off, err := r.ByteOffset(1)
	require.NoError(t, err)
	assert.Equal(t, 4, off)
}

func TestRopeLargeTextSpansMultipleLeaves(t *testing.T) {
	line := "0123456789\n"
	var text string
	for i := 0; i < 500; i++ {
		text += line
	}
	r := NewRope(text)
	assert.Equal(t, text, r.String())
	assert.Equal(t, 501, r.LineCount())

	got, err := r.Line(250)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", got)
}
