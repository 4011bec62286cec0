package retriever

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesMissingParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "store.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
}

func TestCreateCollectionThenLookup(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 3, DistanceMetric: Cosine}))

	meta, err := store.Collection("snippets")
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Dimension)
	assert.Equal(t, Cosine, meta.DistanceMetric)
}

func TestCreateCollectionIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 3, DistanceMetric: Cosine}))
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 3, DistanceMetric: Cosine}))
}

func TestCreateCollectionRejectsDimensionChange(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 3, DistanceMetric: Cosine}))

	err := store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 4, DistanceMetric: Cosine})
	assert.True(t, errkind.Is(err, errkind.CollectionDimensionMismatch))
}

func TestCollectionNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Collection("missing")
	assert.True(t, errkind.Is(err, errkind.CollectionNotFound))
}

func TestAppendRowRejectsDimensionMismatch(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 3, DistanceMetric: Cosine}))

	err := store.AppendRow("snippets", Row{ID: "1", FileURL: "a.go", StartLine: 1, EndLine: 2, Vector: []float32{1, 2}})
	assert.True(t, errkind.Is(err, errkind.CollectionDimensionMismatch))
}

func TestAppendRowThenAllRowsRoundTrips(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 3, DistanceMetric: Cosine}))

	row := Row{
		ID:        "1",
		FileURL:   "a.go",
		StartLine: 1,
		EndLine:   10,
		Content:   "func main() {}",
		Vector:    []float32{1, 2, 3},
		Metadata:  map[string]string{"lang": "go"},
	}
	require.NoError(t, store.AppendRow("snippets", row))

	rows, err := store.AllRows("snippets")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, row.FileURL, rows[0].FileURL)
	assert.Equal(t, row.Vector, rows[0].Vector)
	assert.Equal(t, row.Metadata, rows[0].Metadata)
}

func TestAppendRowDuplicateWindowRejected(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 2, DistanceMetric: Cosine}))

	row := Row{ID: "1", FileURL: "a.go", StartLine: 1, EndLine: 5, Vector: []float32{1, 2}}
	require.NoError(t, store.AppendRow("snippets", row))

	row2 := row
	row2.ID = "2"
	err := store.AppendRow("snippets", row2)
	assert.True(t, errkind.Is(err, errkind.CollectionUniqueViolation))
}

func TestHasWindow(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.CreateCollection(CollectionMeta{Name: "snippets", Dimension: 2, DistanceMetric: Cosine}))

	ok, err := store.HasWindow("snippets", "a.go", 1, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.AppendRow("snippets", Row{ID: "1", FileURL: "a.go", StartLine: 1, EndLine: 5, Vector: []float32{1, 2}}))

	ok, err = store.HasWindow("snippets", "a.go", 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSerializeDeserializeVectorRoundTrips(t *testing.T) {
	v := []float32{1.5, -2.25, 3.125}
	got, err := deserializeVector(serializeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)
}
