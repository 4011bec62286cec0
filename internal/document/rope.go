// Package document implements the incremental text buffer backing every
// open LSP document: a rope for O(log n)-ish indexing and mutation, kept
// co-edited with a tree-sitter syntax tree under three LSP position
// encodings.
package document

import (
	"strings"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// maxLeafRunes bounds the size of the leaves NewRope builds. Insert never
// grows an existing leaf; it splices the new text in as its own subtree.
const maxLeafRunes = 1024

// Rope is a binary-tree string with rune, byte, and line indices cached at
// each branch so lookups only walk from root to leaf rather than scanning
// the whole text.
type Rope struct {
	root ropeNode
}

// ropeNode is either a *ropeLeaf or a *ropeBranch.
type ropeNode interface {
	runeLen() int
	byteLen() int
	lineCount() int // number of '\n' bytes contained
	writeTo(sb *strings.Builder)
}

type ropeLeaf struct {
	text  string
	runes int
	lines int
}

func newLeaf(text string) *ropeLeaf {
	return &ropeLeaf{text: text, runes: len([]rune(text)), lines: strings.Count(text, "\n")}
}

func (l *ropeLeaf) runeLen() int                { return l.runes }
func (l *ropeLeaf) byteLen() int                { return len(l.text) }
func (l *ropeLeaf) lineCount() int              { return l.lines }
func (l *ropeLeaf) writeTo(sb *strings.Builder) { sb.WriteString(l.text) }

type ropeBranch struct {
	left, right          ropeNode
	leftRunes, leftBytes int
	leftLines            int
}

func newBranch(left, right ropeNode) ropeNode {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return &ropeBranch{
		left:      left,
		right:     right,
		leftRunes: left.runeLen(),
		leftBytes: left.byteLen(),
		leftLines: left.lineCount(),
	}
}

func (b *ropeBranch) runeLen() int   { return b.leftRunes + b.right.runeLen() }
func (b *ropeBranch) byteLen() int   { return b.leftBytes + b.right.byteLen() }
func (b *ropeBranch) lineCount() int { return b.leftLines + b.right.lineCount() }
func (b *ropeBranch) writeTo(sb *strings.Builder) {
	b.left.writeTo(sb)
	b.right.writeTo(sb)
}

// NewRope builds a rope from a full text, chunked into leaves of at most
// maxLeafRunes runes each.
func NewRope(text string) *Rope {
	if text == "" {
		return &Rope{root: newLeaf("")}
	}
	runes := []rune(text)
	return &Rope{root: buildBalanced(runes)}
}

func buildBalanced(runes []rune) ropeNode {
	if len(runes) <= maxLeafRunes {
		return newLeaf(string(runes))
	}
	mid := len(runes) / 2
	return newBranch(buildBalanced(runes[:mid]), buildBalanced(runes[mid:]))
}

// Len returns the rune count of the rope.
func (r *Rope) Len() int { return r.root.runeLen() }

// ByteLen returns the UTF-8 byte length of the rope.
func (r *Rope) ByteLen() int { return r.root.byteLen() }

// LineCount returns the number of lines (always ≥ 1; a document with no
// newline is one line).
func (r *Rope) LineCount() int { return r.root.lineCount() + 1 }

// String materializes the rope's full text.
func (r *Rope) String() string {
	var sb strings.Builder
	sb.Grow(r.root.byteLen())
	r.root.writeTo(&sb)
	return sb.String()
}

// Bytes materializes the rope's full text as bytes.
func (r *Rope) Bytes() []byte { return []byte(r.String()) }

// Insert inserts text at the given rune (char) index.
func (r *Rope) Insert(charIdx int, text string) error {
	if charIdx < 0 || charIdx > r.Len() {
		return errkind.Newf(errkind.OutOfBoundIndex, "insert index %d out of range [0,%d]", charIdx, r.Len())
	}
	if text == "" {
		return nil
	}
	left, right := split(r.root, charIdx)
	r.root = newBranch(newBranch(left, NewRope(text).root), right)
	return nil
}

// Delete removes the rune range [startChar, endChar).
func (r *Rope) Delete(startChar, endChar int) error {
	n := r.Len()
	if startChar < 0 || endChar < startChar || endChar > n {
		return errkind.Newf(errkind.OutOfBoundIndex, "delete range [%d,%d) out of bounds for length %d", startChar, endChar, n)
	}
	if startChar == endChar {
		return nil
	}
	left, mid := split(r.root, startChar)
	_, right := split(mid, endChar-startChar)
	r.root = newBranch(left, right)
	return nil
}

// split divides node into the rune ranges [0, at) and [at, end).
func split(n ropeNode, at int) (ropeNode, ropeNode) {
	switch v := n.(type) {
	case *ropeLeaf:
		runes := []rune(v.text)
		if at <= 0 {
			return newLeaf(""), newLeaf(v.text)
		}
		if at >= len(runes) {
			return newLeaf(v.text), newLeaf("")
		}
		return newLeaf(string(runes[:at])), newLeaf(string(runes[at:]))
	case *ropeBranch:
		if at <= v.leftRunes {
			l, r := split(v.left, at)
			return l, newBranch(r, v.right)
		}
		l, r := split(v.right, at-v.leftRunes)
		return newBranch(v.left, l), r
	default:
		return newLeaf(""), newLeaf("")
	}
}

// LineStartChar returns the char (rune) index of the first character of
// the given 0-based line. Returns an error if line is out of bounds; use
// Line for the line's text.
func (r *Rope) LineStartChar(line int) (int, error) {
	if line < 0 || line >= r.LineCount() {
		return 0, errkind.Newf(errkind.OutOfBoundLine, "line %d out of bounds for %d lines", line, r.LineCount())
	}
	if line == 0 {
		return 0, nil
	}
	return lineStart(r.root, line)
}

func lineStart(n ropeNode, line int) (int, error) {
	switch v := n.(type) {
	case *ropeLeaf:
		runes := []rune(v.text)
		seen := 0
		for i, ru := range runes {
			if ru == '\n' {
				seen++
				if seen == line {
					return i + 1, nil
				}
			}
		}
		return 0, errkind.Newf(errkind.OutOfBoundLine, "line %d not found in leaf", line)
	case *ropeBranch:
		if line <= v.leftLines {
			return lineStart(v.left, line)
		}
		idx, err := lineStart(v.right, line-v.leftLines)
		if err != nil {
			return 0, err
		}
		return v.leftRunes + idx, nil
	default:
		return 0, errkind.New(errkind.OutOfBoundLine, "unknown rope node")
	}
}

// Line returns the 0-based line's text, excluding its trailing newline.
func (r *Rope) Line(line int) (string, error) {
	start, err := r.LineStartChar(line)
	if err != nil {
		return "", err
	}
	var end int
	if line+1 < r.LineCount() {
		nextStart, err := r.LineStartChar(line + 1)
		if err != nil {
			return "", err
		}
		end = nextStart - 1 // drop the newline
	} else {
		end = r.Len()
	}
	if end < start {
		end = start
	}
	return sliceRunes(r, start, end), nil
}

// ByteOffset converts a rune (char) index into a UTF-8 byte offset within
// the full rope text. Required because tree-sitter edits are expressed in
// bytes.
func (r *Rope) ByteOffset(charIdx int) (int, error) {
	if charIdx < 0 || charIdx > r.Len() {
		return 0, errkind.Newf(errkind.OutOfBoundIndex, "char index %d out of range [0,%d]", charIdx, r.Len())
	}
	return byteOffset(r.root, charIdx), nil
}

func byteOffset(n ropeNode, charIdx int) int {
	switch v := n.(type) {
	case *ropeLeaf:
		if charIdx <= 0 {
			return 0
		}
		runes := []rune(v.text)
		if charIdx >= len(runes) {
			return len(v.text)
		}
		return len(string(runes[:charIdx]))
	case *ropeBranch:
		if charIdx <= v.leftRunes {
			return byteOffset(v.left, charIdx)
		}
		return v.leftBytes + byteOffset(v.right, charIdx-v.leftRunes)
	default:
		return 0
	}
}

func sliceRunes(r *Rope, start, end int) string {
	left, mid := split(r.root, start)
	_ = left
	cut, _ := split(mid, end-start)
	var sb strings.Builder
	cut.writeTo(&sb)
	return sb.String()
}
