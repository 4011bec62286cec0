// Package backend implements the adaptor layer over the six supported
// text-generation backends: body shaping, header construction, response
// parsing, and stop-token stripping, grounded on the provider-factory
// shape used elsewhere in the ecosystem for multi-vendor LLM clients.
package backend

import (
	"net/url"

	"github.com/google/uuid"
)

// Kind tags which backend a configuration or request targets.
type Kind string

const (
	KindHuggingFaceInferenceAPI Kind = "huggingface"
	KindLlamaCpp                Kind = "llamacpp"
	KindOllama                  Kind = "ollama"
	KindOpenAI                  Kind = "openai"
	KindTGI                     Kind = "tgi"
	KindCohere                  Kind = "cohere"
)

// inferenceHostname is the well-known Hugging Face inference host; a
// backend config is "inference-API" when its base URL's host matches it.
const inferenceHostname = "api-inference.huggingface.co"

// Config is the tagged backend configuration from spec.md §3: one Kind,
// one base URL.
type Config struct {
	Kind    Kind
	BaseURL string
}

// IsInferenceAPI reports whether cfg points at the hosted HF inference API.
func (c Config) IsInferenceAPI() bool {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return false
	}
	return u.Hostname() == inferenceHostname
}

// IDE identifies the requesting editor, defaulting to Unknown. Carried
// into the User-Agent header of every outbound request.
type IDE string

const (
	IDEUnknown   IDE = "unknown"
	IDENeovim    IDE = "neovim"
	IDEVSCode    IDE = "vscode"
	IDEJetBrains IDE = "jetbrains"
	IDEEmacs     IDE = "emacs"
)

// FIMParams carries the three literal FIM tokens plus whether FIM
// splicing is enabled for this request.
type FIMParams struct {
	Enabled bool
	Prefix  string
	Middle  string
	Suffix  string
}

// Position is a zero-based (line, character) cursor location.
type Position struct {
	Line      int
	Character int
}

// TokenizerSource is the tagged variant describing where a request's
// tokenizer comes from (spec.md §3). Resolution (download, parse, cache)
// lives outside the core per the Non-goals; this type only carries the
// request-side contract.
type TokenizerSource struct {
	LocalPath      string
	RepositoryID   string
	RepositoryAuth string
	DownloadURL    string
	DestPath       string
}

// CompletionParams is the input to llm-ls/getCompletions.
type CompletionParams struct {
	Position                 Position
	IDE                      IDE
	FIM                      FIMParams
	APIToken                 string
	Model                    string
	Backend                  Config
	TokensToStrip            []string
	Tokenizer                TokenizerSource
	ContextWindow            int
	TLSSkipVerifyInsecure    bool
	Extra                    map[string]any
	DisableURLPathCompletion bool
}

// CompletionResult is the output of llm-ls/getCompletions: a fresh
// request ID plus the ordered, stop-token-stripped completions.
type CompletionResult struct {
	RequestID   uuid.UUID
	Completions []string
}

// NewCompletionResult assigns a fresh request ID to completions.
func NewCompletionResult(completions []string) CompletionResult {
	return CompletionResult{RequestID: uuid.New(), Completions: completions}
}
