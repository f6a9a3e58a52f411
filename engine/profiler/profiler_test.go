package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestProfiler(t *testing.T) (*Profiler, *observer.ObservedLogs, *time.Time) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	clock := time.Unix(1000, 0)
	p := NewProfiler(zap.New(core))
	p.now = func() time.Time { return clock }
	p.lastTime = clock
	return p, logs, &clock
}

func TestTickWaitsForInterval(t *testing.T) {
	p, logs, clock := newTestProfiler(t)

	*clock = clock.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
	assert.Equal(t, 0, logs.Len())
}

func TestTickLogsFPSAndExtraFields(t *testing.T) {
	p, logs, clock := newTestProfiler(t)

	for i := 0; i < 59; i++ {
		assert.False(t, p.Tick())
	}
	*clock = clock.Add(time.Second)
	require.True(t, p.Tick(zap.Int("draws", 42)))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "frame stats", entry.Message)
	assert.Equal(t, "profiler", entry.LoggerName)
	fields := entry.ContextMap()
	assert.InDelta(t, 60.0, fields["fps"], 1e-9)
	assert.EqualValues(t, 42, fields["draws"])
	assert.Contains(t, fields, "heap_mb")
}

func TestTickResetsFrameCount(t *testing.T) {
	p, logs, clock := newTestProfiler(t)

	*clock = clock.Add(time.Second)
	require.True(t, p.Tick())
	*clock = clock.Add(2 * time.Second)
	require.True(t, p.Tick())

	require.Equal(t, 2, logs.Len())
	assert.InDelta(t, 0.5, logs.All()[1].ContextMap()["fps"], 1e-9)
}

func TestNilLoggerIsSilent(t *testing.T) {
	p := NewProfiler(nil, WithUpdateInterval(time.Nanosecond))
	assert.NotPanics(t, func() { p.Tick() })
}
