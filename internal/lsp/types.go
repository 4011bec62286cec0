package lsp

import "github.com/llm-ls/llm-ls/internal/backend"

// GetCompletionsParams is the request shape of the custom
// "llm-ls/getCompletions" method (spec.md §6).
type GetCompletionsParams struct {
	backend.CompletionParams
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextDocumentIdentifier names the document a request targets.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// GetCompletionsResult is the response shape of "llm-ls/getCompletions".
type GetCompletionsResult struct {
	RequestID   string             `json:"requestId"`
	Completions []CompletionOutput `json:"completions"`
}

// CompletionOutput is one returned completion, keyed "generated_text"
// per spec.md §6's response table.
type CompletionOutput struct {
	GeneratedText string `json:"generated_text"`
}

// AcceptCompletionParams is "llm-ls/acceptCompletion"'s request shape.
// acceptedCompletion and shownCompletions are indices into the
// completions returned by getCompletions, matching the original's
// custom-types/src/llm_ls.rs (accepted_completion/shown_completions: u32).
type AcceptCompletionParams struct {
	RequestID          string `json:"requestId"`
	AcceptedCompletion int    `json:"acceptedCompletion"`
	ShownCompletions   []int  `json:"shownCompletions"`
}

// RejectCompletionParams is "llm-ls/rejectCompletion"'s request shape.
type RejectCompletionParams struct {
	RequestID        string `json:"requestId"`
	ShownCompletions []int  `json:"shownCompletions"`
}
