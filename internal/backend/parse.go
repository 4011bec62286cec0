package backend

import (
	"encoding/json"
	"fmt"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// generation is the {generated_text} shape shared by HF inference and TGI.
type generation struct {
	GeneratedText *string `json:"generated_text"`
}

type hfErrorShape struct {
	Error *string `json:"error"`
}

type llamaCppShape struct {
	Content *string `json:"content"`
}

type ollamaShape struct {
	Response *string `json:"response"`
}

type openAIChoice struct {
	Text string `json:"text"`
}

type openAIShape struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIDetailEntry struct {
	Loc  json.RawMessage `json:"loc"`
	Msg  string          `json:"msg"`
	Type string          `json:"type"`
}

type openAIErrorShape struct {
	Detail []openAIDetailEntry `json:"detail"`
}

type cohereShape struct {
	Text *string `json:"text"`
}

type cohereErrorShape struct {
	Message *string `json:"message"`
}

// Parse implements spec.md §4.3's parse: interprets bodyText as kind's
// success shape, falling back to its error shape, and finally to a JSON
// parse error if neither matches.
func Parse(kind Kind, bodyText []byte) ([]string, error) {
	switch kind {
	case KindHuggingFaceInferenceAPI:
		return parseHFOrTGI(kind, bodyText, true)
	case KindTGI:
		return parseHFOrTGI(kind, bodyText, false)
	case KindLlamaCpp:
		return parseLlamaCpp(bodyText)
	case KindOllama:
		return parseOllama(bodyText)
	case KindOpenAI:
		return parseOpenAI(bodyText)
	case KindCohere:
		return parseCohere(bodyText)
	default:
		return nil, errkind.Newf(errkind.UnknownBackend, "unknown backend %q", kind)
	}
}

func parseHFOrTGI(kind Kind, bodyText []byte, allowArray bool) ([]string, error) {
	errKind := inferenceErrKind(kind)

	var single generation
	if err := json.Unmarshal(bodyText, &single); err == nil && single.GeneratedText != nil {
		return []string{*single.GeneratedText}, nil
	}

	if allowArray {
		var list []generation
		if err := json.Unmarshal(bodyText, &list); err == nil && len(list) > 0 {
			out := make([]string, 0, len(list))
			allSet := true
			for _, g := range list {
				if g.GeneratedText == nil {
					allSet = false
					break
				}
				out = append(out, *g.GeneratedText)
			}
			if allSet {
				return out, nil
			}
		}
	}

	var errShape hfErrorShape
	if err := json.Unmarshal(bodyText, &errShape); err == nil && errShape.Error != nil {
		return nil, errkind.Newf(errKind, "%s", *errShape.Error)
	}

	return nil, errkind.New(errkind.SerdeJSON, "response body matched neither success nor error shape")
}

func inferenceErrKind(kind Kind) errkind.Kind {
	if kind == KindTGI {
		return errkind.BackendInferenceTGI
	}
	return errkind.BackendInferenceHF
}

func parseLlamaCpp(bodyText []byte) ([]string, error) {
	var s llamaCppShape
	if err := json.Unmarshal(bodyText, &s); err == nil && s.Content != nil {
		return []string{*s.Content}, nil
	}

	var errShape hfErrorShape
	if err := json.Unmarshal(bodyText, &errShape); err == nil && errShape.Error != nil {
		return nil, errkind.Newf(errkind.BackendInferenceLlamaCpp, "%s", *errShape.Error)
	}

	return nil, errkind.New(errkind.SerdeJSON, "response body matched neither success nor error shape")
}

func parseOllama(bodyText []byte) ([]string, error) {
	var s ollamaShape
	if err := json.Unmarshal(bodyText, &s); err == nil && s.Response != nil {
		return []string{*s.Response}, nil
	}

	var errShape hfErrorShape
	if err := json.Unmarshal(bodyText, &errShape); err == nil && errShape.Error != nil {
		return nil, errkind.Newf(errkind.BackendInferenceOllama, "%s", *errShape.Error)
	}

	return nil, errkind.New(errkind.SerdeJSON, "response body matched neither success nor error shape")
}

func parseOpenAI(bodyText []byte) ([]string, error) {
	var s openAIShape
	if err := json.Unmarshal(bodyText, &s); err == nil && len(s.Choices) > 0 {
		out := make([]string, len(s.Choices))
		for i, c := range s.Choices {
			out[i] = c.Text
		}
		return out, nil
	}

	var errShape openAIErrorShape
	if err := json.Unmarshal(bodyText, &errShape); err == nil && len(errShape.Detail) > 0 {
		msgs := make([]string, len(errShape.Detail))
		for i, d := range errShape.Detail {
			msgs[i] = fmt.Sprintf("%s: %s", d.Type, d.Msg)
		}
		return nil, errkind.Newf(errkind.BackendInferenceOpenAI, "%v", msgs)
	}

	return nil, errkind.New(errkind.SerdeJSON, "response body matched neither success nor error shape")
}

func parseCohere(bodyText []byte) ([]string, error) {
	var s cohereShape
	if err := json.Unmarshal(bodyText, &s); err == nil && s.Text != nil {
		return []string{*s.Text}, nil
	}

	var errShape cohereErrorShape
	if err := json.Unmarshal(bodyText, &errShape); err == nil && errShape.Message != nil {
		return nil, errkind.Newf(errkind.BackendInferenceCohere, "%s", *errShape.Message)
	}

	return nil, errkind.New(errkind.SerdeJSON, "response body matched neither success nor error shape")
}
