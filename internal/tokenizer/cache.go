package tokenizer

import (
	"sync"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// LoadFunc resolves a model name to a loaded Tokenizer. The caller
// supplies this — it's the seam where the out-of-scope
// download/parse/auth logic plugs in.
type LoadFunc func(model string) (Tokenizer, error)

// Cache is the model-name-keyed tokenizer cache described in spec.md §5:
// reads take a read lock; a model only pays the write-lock/load cost
// once, on first use, for the process's lifetime.
type Cache struct {
	mu      sync.RWMutex
	byModel map[string]Tokenizer
	load    LoadFunc
}

// NewCache builds an empty cache backed by load.
func NewCache(load LoadFunc) *Cache {
	return &Cache{byModel: make(map[string]Tokenizer), load: load}
}

// Get returns the cached tokenizer for model, loading and caching it on
// first use.
func (c *Cache) Get(model string) (Tokenizer, error) {
	c.mu.RLock()
	if t, ok := c.byModel[model]; ok {
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.byModel[model]; ok {
		return t, nil
	}
	t, err := c.load(model)
	if err != nil {
		return nil, errkind.Wrap(errkind.Tokenizer, err, "load tokenizer for model "+model)
	}
	c.byModel[model] = t
	return t, nil
}
