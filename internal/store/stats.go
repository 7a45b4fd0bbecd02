package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

// call is one timed store operation.
type call struct {
	at      time.Time
	elapsed time.Duration
	failed  bool
}

// StatsSnapshot aggregates the calls inside the window.
type StatsSnapshot struct {
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Stats keeps store calls from the last window.
type Stats struct {
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	calls []call
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, now: time.Now}
}

// Observe records a call that took elapsed. Negative durations count as zero.
func (s *Stats) Observe(elapsed time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expire(now)
	s.calls = append(s.calls, call{at: now, elapsed: max(elapsed, 0), failed: err != nil})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(s.now())

	var snap StatsSnapshot
	if len(s.calls) == 0 {
		return snap
	}
	ms := make([]int64, len(s.calls))
	var total int64
	for i, c := range s.calls {
		ms[i] = c.elapsed.Milliseconds()
		total += ms[i]
		if c.failed {
			snap.Errors++
		}
	}
	slices.Sort(ms)

	snap.Count = len(ms)
	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = float64(total) / float64(len(ms))
	snap.P50Ms = quantile(ms, 0.50)
	snap.P95Ms = quantile(ms, 0.95)
	snap.P99Ms = quantile(ms, 0.99)
	return snap
}

// expire drops calls older than the window. Calls are appended in time
// order, so the expired ones form a prefix.
func (s *Stats) expire(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.calls) && s.calls[i].at.Before(cutoff) {
		i++
	}
	s.calls = slices.Delete(s.calls, 0, i)
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []int64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}

// Instrumented times every call to the wrapped Store.
type Instrumented struct {
	Store
	Reads  *Stats
	Writes *Stats
}

// Instrument wraps s with one-hour read and write windows.
func Instrument(s Store) *Instrumented {
	return &Instrumented{Store: s, Reads: NewStats(time.Hour), Writes: NewStats(time.Hour)}
}

func (s *Instrumented) Read(ctx context.Context, path string) (string, error) {
	start := time.Now()
	text, err := s.Store.Read(ctx, path)
	s.Reads.Observe(time.Since(start), err)
	return text, err
}

func (s *Instrumented) Write(ctx context.Context, path, text string) error {
	start := time.Now()
	err := s.Store.Write(ctx, path, text)
	s.Writes.Observe(time.Since(start), err)
	return err
}
