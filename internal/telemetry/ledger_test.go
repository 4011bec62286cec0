package telemetry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordShownThenAccept(t *testing.T) {
	l := New(nil)
	id := uuid.New()
	l.RecordShown(id, []int{0, 1})
	l.Accept(id, 0, []int{0, 1})

	rec, ok := l.Get(id)
	require.True(t, ok)
	require.NotNil(t, rec.AcceptedCompletion)
	assert.Equal(t, 0, *rec.AcceptedCompletion)
	assert.False(t, rec.Rejected)
}

func TestRecordShownThenReject(t *testing.T) {
	l := New(nil)
	id := uuid.New()
	l.RecordShown(id, []int{0, 1})
	l.Reject(id, []int{0, 1})

	rec, ok := l.Get(id)
	require.True(t, ok)
	assert.True(t, rec.Rejected)
	assert.Nil(t, rec.AcceptedCompletion)
}

func TestSecondAcceptIsIgnored(t *testing.T) {
	l := New(nil)
	id := uuid.New()
	l.RecordShown(id, []int{0, 1})
	l.Accept(id, 0, []int{0, 1})
	l.Accept(id, 1, []int{0, 1})

	rec, _ := l.Get(id)
	assert.Equal(t, 0, *rec.AcceptedCompletion)
}

func TestAcceptForUnknownRequestIsIgnoredNotFatal(t *testing.T) {
	l := New(nil)
	id := uuid.New()

	assert.NotPanics(t, func() { l.Accept(id, 0, []int{0}) })

	rec, ok := l.Get(id)
	require.False(t, ok)
	assert.Nil(t, rec.AcceptedCompletion)
}

func TestGetUnknownRequestReturnsFalse(t *testing.T) {
	l := New(nil)
	_, ok := l.Get(uuid.New())
	assert.False(t, ok)
}
