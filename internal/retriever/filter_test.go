package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterEmptyMatchesEverything(t *testing.T) {
	var f Filter
	assert.True(t, f.Eval(map[string]string{"lang": "go"}))
	assert.True(t, f.Eval(nil))
}

func TestFilterMissingFieldIsFalse(t *testing.T) {
	f := NewFilter(Condition{Field: "lang", Op: Eq, Value: "go"})
	assert.False(t, f.Eval(map[string]string{"other": "x"}))
}

func TestFilterAndIsLeftToRight(t *testing.T) {
	f := NewFilter(Condition{Field: "lang", Op: Eq, Value: "go"}).
		And(Condition{Field: "size", Op: Gt, Value: "10"})
	assert.True(t, f.Eval(map[string]string{"lang": "go", "size": "20"}))
	assert.False(t, f.Eval(map[string]string{"lang": "go", "size": "5"}))
	assert.False(t, f.Eval(map[string]string{"lang": "rust", "size": "20"}))
}

func TestFilterOrShortCircuitsGroupingLeftToRight(t *testing.T) {
	// "a AND b OR c" evaluates as "(a AND b) OR c", not "a AND (b OR c)".
	f := NewFilter(Condition{Field: "a", Op: Eq, Value: "1"}).
		And(Condition{Field: "b", Op: Eq, Value: "1"}).
		Or(Condition{Field: "c", Op: Eq, Value: "1"})

	assert.True(t, f.Eval(map[string]string{"a": "0", "b": "0", "c": "1"}))
	assert.False(t, f.Eval(map[string]string{"a": "1", "b": "0", "c": "0"}))
}

func TestFilterNumericComparison(t *testing.T) {
	f := NewFilter(Condition{Field: "count", Op: Lt, Value: "5"})
	assert.True(t, f.Eval(map[string]string{"count": "3"}))
	assert.False(t, f.Eval(map[string]string{"count": "7"}))
}

func TestFilterNeq(t *testing.T) {
	f := NewFilter(Condition{Field: "lang", Op: Neq, Value: "go"})
	assert.True(t, f.Eval(map[string]string{"lang": "rust"}))
	assert.False(t, f.Eval(map[string]string{"lang": "go"}))
}
