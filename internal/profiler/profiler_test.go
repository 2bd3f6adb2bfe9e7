package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/render"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

func newTestProfiler(interval time.Duration) (*Profiler, *fakeClock, *bytes.Buffer) {
	var out bytes.Buffer
	clock := &fakeClock{}
	log := slog.New(slog.NewTextHandler(&out, nil))
	return New(log, interval, WithClock(clock.Now)), clock, &out
}

func TestRecordCountsUntilInterval(t *testing.T) {
	p, clock, out := newTestProfiler(time.Second)

	for _, result := range []render.FrameResult{
		render.ResultPresented,
		render.ResultPresented,
		render.ResultStale,
		render.ResultRebuilt,
		render.ResultSkipped,
	} {
		clock.now += 100 * time.Millisecond
		_, reported := p.Record(result)
		require.False(t, reported)
	}
	require.Empty(t, out.String())

	clock.now = 2 * time.Second
	stats, reported := p.Record(render.ResultPresented)
	require.True(t, reported)

	require.Equal(t, Stats{Elapsed: 2 * time.Second, Presented: 3, Stale: 1, Rebuilt: 1, Skipped: 1}, stats)
	require.Equal(t, 6, stats.Frames())
	require.InDelta(t, 1.5, stats.FPS(), 1e-9)
	require.Contains(t, out.String(), "frame stats")
	require.Contains(t, out.String(), "presented=3")
}

func TestRecordStartsNewInterval(t *testing.T) {
	p, clock, _ := newTestProfiler(time.Second)

	clock.now = time.Second
	_, reported := p.Record(render.ResultPresented)
	require.True(t, reported)

	clock.now = 1500 * time.Millisecond
	_, reported = p.Record(render.ResultPresented)
	require.False(t, reported)

	clock.now = 2 * time.Second
	stats, reported := p.Record(render.ResultSkipped)
	require.True(t, reported)
	require.Equal(t, Stats{Elapsed: time.Second, Presented: 1, Skipped: 1}, stats)
}

func TestZeroIntervalNeverReports(t *testing.T) {
	p, clock, out := newTestProfiler(0)

	for i := 0; i < 10; i++ {
		clock.now += time.Hour
		_, reported := p.Record(render.ResultPresented)
		require.False(t, reported)
	}
	require.Empty(t, out.String())
}

func TestFPSWithoutElapsedTime(t *testing.T) {
	require.Zero(t, Stats{Presented: 10}.FPS())
}
