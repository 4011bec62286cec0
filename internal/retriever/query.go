package retriever

import "container/heap"

// QueryResult pairs a retrieved row with its similarity score against the
// query vector.
type QueryResult struct {
	Row   Row
	Score float32
}

// Query applies filter as a pre-filter over collection's rows, scores the
// survivors by cosine similarity against queryVector, and returns the top
// k in descending score order, per spec.md §4.4's query algorithm. A
// fixed-size min-heap keeps the running top-k in O(n log k) rather than
// sorting the whole collection.
func Query(store *Store, collection string, queryVector []float32, filter Filter, k int) ([]QueryResult, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := store.AllRows(collection)
	if err != nil {
		return nil, err
	}

	h := &resultHeap{}
	heap.Init(h)
	for _, row := range rows {
		if !filter.Eval(row.Metadata) {
			continue
		}
		score := CosineSimilarity(queryVector, row.Vector)
		if h.Len() < k {
			heap.Push(h, QueryResult{Row: row, Score: score})
			continue
		}
		if h.Len() > 0 && score > (*h)[0].Score {
			heap.Pop(h)
			heap.Push(h, QueryResult{Row: row, Score: score})
		}
	}

	out := make([]QueryResult, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(QueryResult)
	}
	return out, nil
}

// resultHeap is a min-heap by Score, so the smallest of the current top-k
// sits at the root and is cheapest to evict.
type resultHeap []QueryResult

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(QueryResult)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
