package backend

import (
	"fmt"
	"net/http"
)

// version is the llm-ls release string embedded in the User-Agent header.
// Kept as a package var (not a const) so cmd/llm-ls can stamp it at build
// time via -ldflags without this package needing to know about build tags.
var version = "dev"

// SetVersion overrides the User-Agent version segment. Called once from
// cmd/llm-ls at startup.
func SetVersion(v string) { version = v }

// backendsWithBearerAuth is the set of backends that accept an
// Authorization: Bearer header when an API token is configured.
var backendsWithBearerAuth = map[Kind]bool{
	KindHuggingFaceInferenceAPI: true,
	KindTGI:                     true,
	KindOpenAI:                  true,
	KindCohere:                  true,
}

// BuildHeaders implements spec.md §4.3's build_headers: always sets
// User-Agent; adds Authorization: Bearer <token> for HF/TGI/OpenAI/Cohere
// when apiToken is non-empty. LlamaCpp and Ollama never get an auth header.
func BuildHeaders(kind Kind, apiToken string, ide IDE) http.Header {
	h := make(http.Header, 2)
	h.Set("User-Agent", fmt.Sprintf("llm-ls/%s; lang/unknown; ide/%s", version, ide))
	h.Set("Content-Type", "application/json")

	if apiToken != "" && backendsWithBearerAuth[kind] {
		h.Set("Authorization", "Bearer "+apiToken)
	}

	return h
}
