package document

import (
	"strings"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// Language identifies the grammar a Document was opened with, mirroring
// the LSP languageId plus an Unknown fallback for anything without a
// registered grammar.
type Language string

const (
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageRust       Language = "rust"
	LanguageUnknown    Language = "unknown"
)

// LanguageFromID maps an LSP languageId string to a Language, defaulting
// to LanguageUnknown for anything not wired to a tree-sitter grammar.
func LanguageFromID(id string) Language {
	switch strings.ToLower(id) {
	case "go":
		return LanguageGo
	case "python":
		return LanguagePython
	case "javascript", "javascriptreact":
		return LanguageJavaScript
	case "rust":
		return LanguageRust
	default:
		return LanguageUnknown
	}
}

// newParser returns a tree-sitter parser configured for lang, or nil if
// lang has no registered grammar (LanguageUnknown and anything else
// parses with no tree, per spec.md §4.1 "parser with no language set").
func newParser(lang Language) *tree_sitter.Parser {
	var langPtr unsafe.Pointer
	switch lang {
	case LanguageGo:
		langPtr = tree_sitter_go.Language()
	case LanguagePython:
		langPtr = tree_sitter_python.Language()
	case LanguageJavaScript:
		langPtr = tree_sitter_javascript.Language()
	case LanguageRust:
		langPtr = tree_sitter_rust.Language()
	default:
		return nil
	}

	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(langPtr)
	if err := parser.SetLanguage(language); err != nil {
		return nil
	}
	return parser
}
