package document

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// Position is an LSP-style (line, character) position; character is
// interpreted under whatever PositionEncoding the caller negotiated.
type Position struct {
	Line      int
	Character int
}

// less reports whether p sorts strictly before o by (line, character).
func (p Position) less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

// Change is either a range replacement (Range non-nil) or a whole-document
// replacement (Range nil), matching LSP's TextDocumentContentChangeEvent.
type Change struct {
	Range *struct{ Start, End Position }
	Text  string
}

// RangeChange builds a Change that replaces [start, end) with text.
func RangeChange(start, end Position, text string) Change {
	return Change{Range: &struct{ Start, End Position }{start, end}, Text: text}
}

// WholeDocumentChange builds a Change that replaces the entire document.
func WholeDocumentChange(text string) Change {
	return Change{Text: text}
}

// ApplyChange applies change to d under the given position encoding,
// implementing spec.md §4.1's apply_change algorithm. On any validation
// failure neither the rope nor the tree is mutated.
func ApplyChange(d *Document, change Change, enc PositionEncoding) error {
	if change.Range == nil {
		d.ReplaceAll(change.Text)
		return nil
	}

	start, end := change.Range.Start, change.Range.End

	// 1. Validate start ≤ end lexicographically.
	if end.less(start) {
		return errkind.Newf(errkind.InvalidRange, "start %+v is after end %+v", start, end)
	}

	sameLineAndChar := start.Line == end.Line && start.Character == end.Character

	// 2+3+4. Resolve lines, translate character, compute document char indices.
	startLineText, err := d.Rope.Line(start.Line)
	if err != nil {
		return err
	}
	startLineBaseChar, err := d.Rope.LineStartChar(start.Line)
	if err != nil {
		return err
	}
	startInLine, err := charIndexInLine(startLineText, start.Character, enc)
	if err != nil {
		return err
	}
	startChar := startLineBaseChar + startInLine

	var endChar, endLineBaseChar int
	if sameLineAndChar {
		// Tie-break: reuse the start-side computation.
		endChar = startChar
		endLineBaseChar = startLineBaseChar
	} else {
		endLineText, err := d.Rope.Line(end.Line)
		if err != nil {
			return err
		}
		endLineBaseChar, err = d.Rope.LineStartChar(end.Line)
		if err != nil {
			return err
		}
		endInLine, err := charIndexInLine(endLineText, end.Character, enc)
		if err != nil {
			return err
		}
		endChar = endLineBaseChar + endInLine
	}

	// 5. Compute document byte indices for both endpoints.
	startByte, err := d.Rope.ByteOffset(startChar)
	if err != nil {
		return err
	}
	endByte, err := d.Rope.ByteOffset(endChar)
	if err != nil {
		return err
	}

	// 6. Compute per-line byte offsets (tree-sitter requires byte columns).
	startLineStartByte, err := d.Rope.ByteOffset(startLineBaseChar)
	if err != nil {
		return err
	}
	endLineStartByte := startLineStartByte
	if !sameLineAndChar {
		endLineStartByte, err = d.Rope.ByteOffset(endLineBaseChar)
		if err != nil {
			return err
		}
	}
	startColumn := startByte - startLineStartByte
	endColumn := endByte - endLineStartByte

	// 7. Mutate the rope: delete then insert.
	if err := d.Rope.Delete(startChar, endChar); err != nil {
		return err
	}
	if err := d.Rope.Insert(startChar, change.Text); err != nil {
		return err
	}

	// 8. If a tree exists, edit it incrementally and reparse.
	if d.tree != nil {
		newEndByte := startByte + len(change.Text)
		newEndLine, newEndCol := newEndPosition(change.Text, start.Line, startColumn)

		edit := tree_sitter.InputEdit{
			StartByte:      uint(startByte),
			OldEndByte:     uint(endByte),
			NewEndByte:     uint(newEndByte),
			StartPosition:  tree_sitter.Point{Row: uint(start.Line), Column: uint(startColumn)},
			OldEndPosition: tree_sitter.Point{Row: uint(end.Line), Column: uint(endColumn)},
			NewEndPosition: tree_sitter.Point{Row: uint(newEndLine), Column: uint(newEndCol)},
		}
		d.tree.Edit(&edit)

		newTree := d.parser.Parse(d.Rope.Bytes(), d.tree)
		if newTree == nil {
			d.tree.Close()
			d.tree = nil
			return errkind.New(errkind.TreeSitterParsing, "incremental reparse failed")
		}
		d.tree.Close()
		d.tree = newTree
	}

	return nil
}

// newEndPosition computes the (line, byte-column) position of the end of
// inserted text that started at (startLine, startColumn).
func newEndPosition(inserted string, startLine, startColumn int) (int, int) {
	line := startLine
	col := startColumn
	for i := 0; i < len(inserted); i++ {
		if inserted[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}
