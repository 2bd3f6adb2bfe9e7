package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/gfx"
	"github.com/vkngwrapper/presenter/internal/platform"
	"github.com/vkngwrapper/presenter/internal/profiler"
	"github.com/vkngwrapper/presenter/internal/render"
)

// scriptedEvents hands out one batch of events per poll, then nothing.
type scriptedEvents struct {
	batches [][]platform.Event
	polls   int
}

func (s *scriptedEvents) PollEvents() []platform.Event {
	s.polls++
	if len(s.batches) == 0 {
		return nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch
}

type fakeFrames struct {
	results []render.FrameResult
	err     error
	errAt   int

	draws   int
	resizes int
	// onDraw runs after each draw, before the result is returned.
	onDraw func(draws int)
}

func (f *fakeFrames) NotifyResize() { f.resizes++ }

func (f *fakeFrames) DrawFrame() (render.FrameResult, error) {
	f.draws++
	if f.onDraw != nil {
		f.onDraw(f.draws)
	}
	if f.err != nil && f.draws == f.errAt {
		return render.ResultSkipped, f.err
	}
	if len(f.results) == 0 {
		return render.ResultPresented, nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result, nil
}

type countingRecorder struct {
	counts map[render.FrameResult]int
}

func (r *countingRecorder) Record(result render.FrameResult) (profiler.Stats, bool) {
	if r.counts == nil {
		r.counts = map[render.FrameResult]int{}
	}
	r.counts[result]++
	return profiler.Stats{}, false
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var out bytes.Buffer
	return slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})), &out
}

func closeAfter(n int) [][]platform.Event {
	batches := make([][]platform.Event, n+1)
	batches[n] = []platform.Event{{Kind: platform.EventClose}}
	return batches
}

func TestLoopDrawsUntilClose(t *testing.T) {
	log, out := testLogger()
	events := &scriptedEvents{batches: closeAfter(3)}
	frames := &fakeFrames{}
	stats := &countingRecorder{}

	require.NoError(t, Loop(context.Background(), log, events, frames, stats))

	require.Equal(t, 3, frames.draws)
	require.Equal(t, 3, stats.counts[render.ResultPresented])
	require.Equal(t, 4, events.polls)
	require.Contains(t, out.String(), "window closed")
}

func TestLoopCloseBeforeFirstFrame(t *testing.T) {
	log, _ := testLogger()
	frames := &fakeFrames{}

	require.NoError(t, Loop(context.Background(), log, &scriptedEvents{batches: closeAfter(0)}, frames, &countingRecorder{}))
	require.Zero(t, frames.draws)
}

func TestLoopResizeEvents(t *testing.T) {
	log, _ := testLogger()
	events := &scriptedEvents{batches: [][]platform.Event{
		{{Kind: platform.EventResize, Extent: gfx.Extent{Width: 1024, Height: 768}}},
		{{Kind: platform.EventMinimize}, {Kind: platform.EventOther}},
		{{Kind: platform.EventRestore}},
		{{Kind: platform.EventClose}},
	}}
	frames := &fakeFrames{}

	require.NoError(t, Loop(context.Background(), log, events, frames, &countingRecorder{}))
	require.Equal(t, 3, frames.resizes)
	require.Equal(t, 3, frames.draws)
}

func TestLoopCountsResults(t *testing.T) {
	log, _ := testLogger()
	frames := &fakeFrames{results: []render.FrameResult{
		render.ResultStale,
		render.ResultRebuilt,
		render.ResultPresented,
		render.ResultSkipped,
	}}
	stats := &countingRecorder{}

	require.NoError(t, Loop(context.Background(), log, &scriptedEvents{batches: closeAfter(4)}, frames, stats))
	require.Equal(t, map[render.FrameResult]int{
		render.ResultStale:     1,
		render.ResultRebuilt:   1,
		render.ResultPresented: 1,
		render.ResultSkipped:   1,
	}, stats.counts)
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	log, out := testLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := &fakeFrames{onDraw: func(draws int) {
		if draws == 2 {
			cancel()
		}
	}}

	require.NoError(t, Loop(ctx, log, &scriptedEvents{}, frames, &countingRecorder{}))
	require.Equal(t, 2, frames.draws)
	require.Contains(t, out.String(), "stopping")
}

func TestLoopDrawError(t *testing.T) {
	log, _ := testLogger()
	boom := errors.New("device lost")
	frames := &fakeFrames{err: boom, errAt: 2}

	err := Loop(context.Background(), log, &scriptedEvents{}, frames, &countingRecorder{})
	require.True(t, errors.Is(err, boom))
	require.Contains(t, err.Error(), "draw frame 1")
	require.Equal(t, 2, frames.draws)
}

func TestLoopLogsKeys(t *testing.T) {
	log, out := testLogger()
	events := &scriptedEvents{batches: [][]platform.Event{
		{
			{Kind: platform.EventKey, Pressed: true},
			{Kind: platform.EventKey, Pressed: true, Repeat: true},
			{Kind: platform.EventKey},
		},
		{{Kind: platform.EventClose}},
	}}

	require.NoError(t, Loop(context.Background(), log, events, &fakeFrames{}, &countingRecorder{}))
	require.Equal(t, 1, bytes.Count(out.Bytes(), []byte("key pressed")))
	require.Equal(t, 1, bytes.Count(out.Bytes(), []byte("key released")))
}
