package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestURLVerbatimWhenModelIsURL(t *testing.T) {
	cfg := Config{Kind: KindHuggingFaceInferenceAPI, BaseURL: "https://api-inference.huggingface.co"}
	got := RequestURL(cfg, "https://my-endpoint.example.com/generate", false)
	assert.Equal(t, "https://my-endpoint.example.com/generate", got)
}

func TestRequestURLHFInferenceResolvesModelsPath(t *testing.T) {
	cfg := Config{Kind: KindHuggingFaceInferenceAPI, BaseURL: "https://api-inference.huggingface.co"}
	got := RequestURL(cfg, "bigcode/starcoder", false)
	assert.Equal(t, "https://api-inference.huggingface.co/models/bigcode/starcoder", got)
}

func TestRequestURLOtherBackendsUseConfiguredBase(t *testing.T) {
	cfg := Config{Kind: KindOllama, BaseURL: "http://localhost:11434/api/generate"}
	got := RequestURL(cfg, "codellama", false)
	assert.Equal(t, "http://localhost:11434/api/generate", got)
}

func TestRequestURLDisableURLPathCompletionSkipsModelsPathJoin(t *testing.T) {
	cfg := Config{Kind: KindHuggingFaceInferenceAPI, BaseURL: "https://my-endpoint.example.com/generate"}
	got := RequestURL(cfg, "bigcode/starcoder", true)
	assert.Equal(t, "https://my-endpoint.example.com/generate", got)
}
