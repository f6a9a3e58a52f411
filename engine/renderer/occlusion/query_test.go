package occlusion

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuery(t *testing.T) (Query, *renderertest.Recorder) {
	t.Helper()
	rec := renderertest.NewRecorder()
	q, err := NewQuery(rec, renderer.QuerySamplesPassed)
	require.NoError(t, err)
	return q, rec
}

func TestQueryLifecycle(t *testing.T) {
	q, rec := newTestQuery(t)
	rec.QuerySamples = 42

	assert.False(t, q.InUse())
	assert.False(t, q.ResultReady())

	require.NoError(t, q.Start())
	assert.True(t, q.InUse())
	assert.ErrorIs(t, q.Start(), ErrQueryInUse)
	assert.False(t, q.ResultReady(), "a started query is never ready")

	require.NoError(t, q.End())
	assert.True(t, q.InUse())
	assert.False(t, q.ResultReady(), "device has not produced the result yet")

	rec.QueryReady = true
	assert.True(t, q.ResultReady())

	v, err := q.Result()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
	assert.False(t, q.InUse())

	_, err = q.Result()
	assert.ErrorIs(t, err, ErrQueryNotInUse)

	require.NoError(t, q.Start(), "a consumed query can start a new cycle")
}

func TestQueryEndWithoutStart(t *testing.T) {
	q, rec := newTestQuery(t)

	assert.ErrorIs(t, q.End(), ErrQueryNotStarted)
	assert.Equal(t, 0, rec.QueryEnds)

	require.NoError(t, q.Start())
	require.NoError(t, q.End())
	assert.ErrorIs(t, q.End(), ErrQueryNotStarted)
	assert.Equal(t, 1, rec.QueryEnds)
}

func TestQueryResultBeforeEnd(t *testing.T) {
	q, rec := newTestQuery(t)

	require.NoError(t, q.Start())
	_, err := q.Result()
	assert.ErrorIs(t, err, ErrQueryNotEnded)
	assert.True(t, q.InUse())
	assert.Equal(t, 0, rec.QueryResults)
}

func TestQueryResultReadyDoesNotPollUnlessEnded(t *testing.T) {
	q, rec := newTestQuery(t)
	rec.QueryReady = true

	assert.False(t, q.ResultReady())
	require.NoError(t, q.Start())
	assert.False(t, q.ResultReady())
	assert.Equal(t, 0, rec.QueryPolls)
}

func TestQueryRelease(t *testing.T) {
	q, rec := newTestQuery(t)
	q.Release()
	for _, sq := range rec.Queries {
		assert.True(t, sq.Deleted)
	}
}
