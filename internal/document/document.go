package document

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Document is an open editor buffer: a language id, a mutable text rope,
// and an optional syntax tree that tree-sitter keeps structurally in
// sync with the rope as changes are applied (spec.md §3).
type Document struct {
	URI      string
	Language Language
	Rope     *Rope

	parser *tree_sitter.Parser
	tree   *tree_sitter.Tree
}

// Open creates a Document from the editor's full text at didOpen: builds
// the rope, constructs a parser for language (nil parser if Unknown or
// unrecognized), and parses once.
func Open(uri string, language Language, text string) *Document {
	d := &Document{
		URI:      uri,
		Language: language,
		Rope:     NewRope(text),
		parser:   newParser(language),
	}
	if d.parser != nil {
		d.tree = d.parser.Parse(d.Rope.Bytes(), nil)
	}
	return d
}

// Tree returns the current syntax tree, or nil if the language has no
// grammar or the last parse failed.
func (d *Document) Tree() *tree_sitter.Tree { return d.tree }

// Close releases the tree-sitter resources held by the document. Safe to
// call more than once.
func (d *Document) Close() {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	if d.parser != nil {
		d.parser.Close()
		d.parser = nil
	}
}

// ReplaceAll replaces the document's full content and reparses from
// scratch, per the whole-document branch of apply_change (spec.md §4.1).
func (d *Document) ReplaceAll(text string) {
	d.Rope = NewRope(text)
	if d.parser != nil {
		if d.tree != nil {
			d.tree.Close()
		}
		d.tree = d.parser.Parse(d.Rope.Bytes(), nil)
	}
}
