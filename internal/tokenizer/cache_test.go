package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

type byteTokenizer struct{}

func (byteTokenizer) Count(s string) int { return len(s) }

func TestCacheLoadsOncePerModel(t *testing.T) {
	var loads int
	c := NewCache(func(model string) (Tokenizer, error) {
		loads++
		return byteTokenizer{}, nil
	})

	t1, err := c.Get("model-a")
	require.NoError(t, err)
	t2, err := c.Get("model-a")
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
	assert.Equal(t, t1, t2)
}

func TestCacheLoadsSeparatelyPerModel(t *testing.T) {
	var loads int
	c := NewCache(func(model string) (Tokenizer, error) {
		loads++
		return byteTokenizer{}, nil
	})

	_, err := c.Get("model-a")
	require.NoError(t, err)
	_, err = c.Get("model-b")
	require.NoError(t, err)

	assert.Equal(t, 2, loads)
}

func TestCacheWrapsLoadError(t *testing.T) {
	c := NewCache(func(model string) (Tokenizer, error) {
		return nil, assert.AnError
	})

	_, err := c.Get("model-a")
	assert.True(t, errkind.Is(err, errkind.Tokenizer))
}
