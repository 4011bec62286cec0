package retriever

import (
	"math"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// Model produces one embedding vector per token of text. The model itself
// (loading weights, running inference) is out of this repository's scope,
// the same way tokenizer download is — see internal/tokenizer; callers
// inject a Model, typically backed by the same process's configured
// embedding backend.
type Model interface {
	TokenEmbeddings(text string) ([][]float32, error)
}

// MeanPool mean-pools token embeddings over the sequence axis into a
// single fixed-dimension vector, per spec.md §4.4 step 4. Returns nil for
// an empty sequence.
func MeanPool(tokenEmbeddings [][]float32) []float32 {
	if len(tokenEmbeddings) == 0 {
		return nil
	}
	dim := len(tokenEmbeddings[0])
	sum := make([]float32, dim)
	for _, vec := range tokenEmbeddings {
		for i, v := range vec {
			if i < dim {
				sum[i] += v
			}
		}
	}
	n := float32(len(tokenEmbeddings))
	for i := range sum {
		sum[i] /= n
	}
	return sum
}

// Embed runs model once over text and mean-pools the result.
func Embed(model Model, text string) ([]float32, error) {
	tokenEmbeddings, err := model.TokenEmbeddings(text)
	if err != nil {
		return nil, errkind.Wrap(errkind.IO, err, "run embedding model")
	}
	return MeanPool(tokenEmbeddings), nil
}

// CosineSimilarity returns the cosine similarity of a and b. Vectors of
// mismatched length, or either zero-length, score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
