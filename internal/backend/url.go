package backend

import "strings"

// hfInferenceBase is the hosted HF inference API's base URL.
const hfInferenceBase = "https://api-inference.huggingface.co"

// RequestURL computes the outbound request URL for a completion (spec.md
// §6): a model string starting with http:// or https:// is used verbatim;
// otherwise, for the HF inference backend, it's resolved under
// hfInferenceBase/models/<model>. Every other backend uses its configured
// base URL directly. disableURLPathCompletion (spec.md §3) skips the
// models/<model> path join even against the HF inference backend, for
// callers whose configured base URL is already the complete endpoint.
func RequestURL(cfg Config, model string, disableURLPathCompletion bool) string {
	if strings.HasPrefix(model, "http://") || strings.HasPrefix(model, "https://") {
		return model
	}
	if disableURLPathCompletion {
		return cfg.BaseURL
	}
	if cfg.Kind == KindHuggingFaceInferenceAPI && cfg.IsInferenceAPI() {
		return hfInferenceBase + "/models/" + model
	}
	return cfg.BaseURL
}
