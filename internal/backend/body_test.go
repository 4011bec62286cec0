package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBodyHuggingFaceInsertsReturnFullTextFalse(t *testing.T) {
	body, err := BuildBody(KindHuggingFaceInferenceAPI, "", "the prompt", map[string]any{
		"parameters": map[string]any{"max_new_tokens": 64},
	})
	require.NoError(t, err)
	assert.Equal(t, "the prompt", body["inputs"])
	params := body["parameters"].(map[string]any)
	assert.Equal(t, false, params["return_full_text"])
	assert.Equal(t, 64, params["max_new_tokens"])
}

func TestBuildBodyTGISameAsHF(t *testing.T) {
	body, err := BuildBody(KindTGI, "", "p", nil)
	require.NoError(t, err)
	assert.Equal(t, "p", body["inputs"])
	params := body["parameters"].(map[string]any)
	assert.Equal(t, false, params["return_full_text"])
}

func TestBuildBodyLlamaCpp(t *testing.T) {
	body, err := BuildBody(KindLlamaCpp, "", "p", nil)
	require.NoError(t, err)
	assert.Equal(t, "p", body["prompt"])
	_, hasModel := body["model"]
	assert.False(t, hasModel)
}

func TestBuildBodyOllamaAndOpenAI(t *testing.T) {
	for _, kind := range []Kind{KindOllama, KindOpenAI} {
		body, err := BuildBody(kind, "mymodel", "p", nil)
		require.NoError(t, err)
		assert.Equal(t, "p", body["prompt"])
		assert.Equal(t, "mymodel", body["model"])
		assert.Equal(t, false, body["stream"])
	}
}

func TestBuildBodyCohere(t *testing.T) {
	body, err := BuildBody(KindCohere, "cmd", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", body["message"])
	assert.Equal(t, "cmd", body["model"])
	assert.Equal(t, false, body["stream"])
}

func TestBuildBodyDoesNotMutateExtra(t *testing.T) {
	extra := map[string]any{"seed": 1}
	_, err := BuildBody(KindLlamaCpp, "", "p", extra)
	require.NoError(t, err)
	_, hasPrompt := extra["prompt"]
	assert.False(t, hasPrompt)
}

func TestBuildBodyUnknownBackend(t *testing.T) {
	_, err := BuildBody(Kind("nonsense"), "", "p", nil)
	assert.Error(t, err)
}
