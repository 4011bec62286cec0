// Package retriever implements the snippet vector store: a sliding-window
// workspace indexer, a cosine-similarity top-k query, a Filter DSL over
// per-row metadata, and the Uninitialized/Loaded/Indexing/Ready state
// machine described in spec.md §4.4.
package retriever

import "github.com/llm-ls/llm-ls/internal/errkind"

// DistanceMetric names the similarity function a collection was created
// with. Only Cosine is implemented; the field exists so a persisted
// collection records what it was built for.
type DistanceMetric string

const (
	Cosine DistanceMetric = "cosine"
)

// CollectionMeta is the fixed shape recorded once per collection:
// dimension and distance metric never change after creation.
type CollectionMeta struct {
	Name           string
	Dimension      int
	DistanceMetric DistanceMetric
}

// Row is one embedded snippet: a sliding window of source lines, its
// mean-pooled embedding, and the metadata a Filter predicate runs over.
type Row struct {
	ID        string
	FileURL   string
	StartLine int
	EndLine   int
	Content   string
	Vector    []float32
	Metadata  map[string]string
}

func validateDimension(meta CollectionMeta, vector []float32) error {
	if len(vector) != meta.Dimension {
		return errkind.Newf(errkind.CollectionDimensionMismatch,
			"collection %q has dimension %d, got vector of length %d",
			meta.Name, meta.Dimension, len(vector))
	}
	return nil
}
