package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsInOrder(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.RecordQueueLength(0, 0))
	require.NoError(t, c.RecordQueueLength(5, 2))
	require.NoError(t, c.RecordQueueLength(5, 1))
	require.NoError(t, c.RecordWait(7, 3))

	assert.Equal(t, []Sample{{0, 0}, {5, 2}, {5, 1}}, c.QueueLengths())
	assert.Equal(t, []Sample{{7, 3}}, c.Waits())
}

func TestCollector_NegativeValue_Fails(t *testing.T) {
	c := NewCollector()

	assert.ErrorIs(t, c.RecordQueueLength(1, -1), ErrInvariantViolation)
	assert.ErrorIs(t, c.RecordWait(1, -1), ErrInvariantViolation)
	assert.Empty(t, c.QueueLengths())
	assert.Empty(t, c.Waits())
}

func TestCollector_TimeGoingBackwards_Fails(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.RecordWait(10, 0))

	err := c.RecordWait(9, 0)

	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Len(t, c.Waits(), 1)
}

func TestCollector_SeriesAreIndependent(t *testing.T) {
	// a late wait sample does not constrain the queue-length series
	c := NewCollector()
	require.NoError(t, c.RecordWait(100, 0))
	assert.NoError(t, c.RecordQueueLength(50, 1))
}

func TestCollector_AccessorsReturnCopies(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.RecordQueueLength(1, 1))

	got := c.QueueLengths()
	got[0].Value = 42

	assert.Equal(t, int64(1), c.QueueLengths()[0].Value)
}

func TestCollector_RecordQueueDepth_Checked(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.RecordQueueDepth(3, 1))

	assert.ErrorIs(t, c.RecordQueueDepth(2, 0), ErrInvariantViolation)
	assert.ErrorIs(t, c.RecordQueueDepth(4, -1), ErrInvariantViolation)
	assert.Empty(t, c.QueueLengths(), "depth changes are not grant samples")
}
