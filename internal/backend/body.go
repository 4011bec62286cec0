package backend

import "github.com/llm-ls/llm-ls/internal/errkind"

// BuildBody implements spec.md §4.3's build_body: starts from extra (the
// caller-supplied opaque fields) and inserts the per-backend field set.
// extra is never mutated; a shallow copy is returned.
func BuildBody(kind Kind, model, prompt string, extra map[string]any) (map[string]any, error) {
	body := cloneMap(extra)

	switch kind {
	case KindHuggingFaceInferenceAPI, KindTGI:
		body["inputs"] = prompt
		existing, _ := body["parameters"].(map[string]any)
		params := cloneMap(existing)
		params["return_full_text"] = false
		body["parameters"] = params
	case KindLlamaCpp:
		body["prompt"] = prompt
	case KindOllama, KindOpenAI:
		body["prompt"] = prompt
		body["model"] = model
		body["stream"] = false
	case KindCohere:
		body["message"] = prompt
		body["model"] = model
		body["stream"] = false
	default:
		return nil, errkind.Newf(errkind.UnknownBackend, "unknown backend %q", kind)
	}

	return body, nil
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+4)
	for k, v := range m {
		out[k] = v
	}
	return out
}
