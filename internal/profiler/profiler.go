// Package profiler counts what the frame loop does and logs a summary once per interval.
package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/loov/hrtime"

	"github.com/vkngwrapper/presenter/internal/render"
)

// Stats is one interval's worth of frame results.
type Stats struct {
	Elapsed   time.Duration
	Presented int
	Stale     int
	Rebuilt   int
	Skipped   int
}

func (s Stats) Frames() int {
	return s.Presented + s.Stale + s.Rebuilt + s.Skipped
}

// FPS counts presented frames only.
func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Presented) / s.Elapsed.Seconds()
}

type Profiler struct {
	log      *slog.Logger
	clock    func() time.Duration
	interval time.Duration

	start    time.Duration
	current  Stats
	memStats runtime.MemStats
}

type Option func(*Profiler)

// WithClock replaces hrtime.Now as the profiler's time source.
func WithClock(clock func() time.Duration) Option {
	return func(p *Profiler) {
		p.clock = clock
	}
}

// New returns a profiler that logs every interval. An interval of zero disables logging but
// still counts.
func New(log *slog.Logger, interval time.Duration, opts ...Option) *Profiler {
	p := &Profiler{
		log:      log,
		clock:    hrtime.Now,
		interval: interval,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.start = p.clock()
	return p
}

// Record counts one frame result. It reports the finished interval's stats and true when
// the interval elapsed with this frame.
func (p *Profiler) Record(result render.FrameResult) (Stats, bool) {
	switch result {
	case render.ResultPresented:
		p.current.Presented++
	case render.ResultStale:
		p.current.Stale++
	case render.ResultRebuilt:
		p.current.Rebuilt++
	case render.ResultSkipped:
		p.current.Skipped++
	}

	now := p.clock()
	elapsed := now - p.start
	if p.interval <= 0 || elapsed < p.interval {
		return Stats{}, false
	}

	stats := p.current
	stats.Elapsed = elapsed
	p.report(stats)

	p.current = Stats{}
	p.start = now
	return stats, true
}

func (p *Profiler) report(stats Stats) {
	runtime.ReadMemStats(&p.memStats)

	p.log.Info("frame stats",
		"fps", stats.FPS(),
		"presented", stats.Presented,
		"stale", stats.Stale,
		"rebuilt", stats.Rebuilt,
		"skipped", stats.Skipped,
		"heap_mb", float64(p.memStats.Alloc)/1024/1024,
	)
}
