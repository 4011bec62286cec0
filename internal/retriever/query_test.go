package retriever

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCollection(t *testing.T, store *Store) {
	t.Helper()
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 2, DistanceMetric: Cosine}))
	rows := []Row{
		{ID: "1", FileURL: "a.go", StartLine: 1, EndLine: 5, Vector: []float32{1, 0}, Metadata: map[string]string{"lang": "go"}},
		{ID: "2", FileURL: "b.py", StartLine: 1, EndLine: 5, Vector: []float32{0, 1}, Metadata: map[string]string{"lang": "python"}},
		{ID: "3", FileURL: "c.go", StartLine: 1, EndLine: 5, Vector: []float32{0.9, 0.1}, Metadata: map[string]string{"lang": "go"}},
	}
	for _, r := range rows {
		require.NoError(t, store.AppendRow("snippets", r))
	}
}

func TestQueryReturnsTopKByCosineSimilarity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
	seedCollection(t, store)

	results, err := Query(store, "snippets", []float32{1, 0}, Filter{}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].Row.ID)
	assert.Equal(t, "3", results[1].Row.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestQueryAppliesFilterBeforeScoring(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
	seedCollection(t, store)

	f := NewFilter(Condition{Field: "lang", Op: Eq, Value: "python"})
	results, err := Query(store, "snippets", []float32{1, 0}, f, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Row.ID)
}

func TestQueryZeroKReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
	seedCollection(t, store)

	results, err := Query(store, "snippets", []float32{1, 0}, Filter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
