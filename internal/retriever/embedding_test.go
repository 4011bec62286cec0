package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanPoolAveragesPerDimension(t *testing.T) {
	got := MeanPool([][]float32{
		{1, 2, 3},
		{3, 4, 5},
	})
	assert.Equal(t, []float32{2, 3, 4}, got)
}

func TestMeanPoolEmptyIsNil(t *testing.T) {
	assert.Nil(t, MeanPool(nil))
}

func TestCosineSimilarityIdenticalVectorsIsOne(t *testing.T) {
	v := []float32{1, 2, 3}
	got := CosineSimilarity(v, v)
	assert.InDelta(t, 1.0, got, 1e-6)
}

func TestCosineSimilarityOrthogonalIsZero(t *testing.T) {
	got := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	assert.InDelta(t, 0.0, got, 1e-6)
}

func TestCosineSimilarityMismatchedLengthIsZero(t *testing.T) {
	assert.Equal(t, float32(0), CosineSimilarity([]float32{1, 2}, []float32{1}))
}

type fakeModel struct {
	tokenEmbeddings [][]float32
	err             error
}

func (f fakeModel) TokenEmbeddings(string) ([][]float32, error) {
	return f.tokenEmbeddings, f.err
}

func TestEmbedMeanPoolsModelOutput(t *testing.T) {
	model := fakeModel{tokenEmbeddings: [][]float32{{1, 1}, {3, 3}}}
	got, err := Embed(model, "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2}, got)
}
