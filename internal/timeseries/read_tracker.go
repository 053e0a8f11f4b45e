// Package timeseries tracks how fast an RD dump is being read.
//
// RD dumps of a full encode run into gigabytes, so the analysis pass logs
// its progress periodically. The tracker counts bytes as they are read and
// keeps a small ring buffer of timestamped samples to compute rolling
// read rates.
//
// Thread-safe: AddBytes() uses atomic int64, Stats() acquires read lock.
package timeseries

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// ringBufferSize is the number of samples to retain
	ringBufferSize = 120

	// Window durations for rolling averages
	window1s  = 1 * time.Second
	window10s = 10 * time.Second
	window60s = 60 * time.Second
)

// Clock interface for testing with deterministic time.
type Clock interface {
	Now() time.Time
}

// realClock uses time.Now() for production.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// sample is a point-in-time snapshot of cumulative bytes.
type sample struct {
	timestamp time.Time
	bytes     int64
}

// ReadTracker tracks cumulative bytes read from one input and computes
// rolling read rates.
//
// Usage:
//
//	tracker := NewReadTracker(fileSize)
//	src := tracker.Reader(f)
//	go tracker.Run(ctx, 5*time.Second, report)
//	// ... consume src
type ReadTracker struct {
	// totalBytes is the cumulative byte count (atomic for lock-free AddBytes)
	totalBytes atomic.Int64

	// expected is the input size, 0 when unknown (pipes)
	expected int64

	samples  []sample
	writeIdx int // next write position once the buffer is full
	mu       sync.RWMutex

	startTime time.Time
	clock     Clock
}

// ReadStats is a snapshot of read progress.
type ReadStats struct {
	// BytesRead is the cumulative byte count
	BytesRead int64

	// Fraction of the expected size read so far; 0 when the size is unknown
	Fraction float64

	// Elapsed is the time since tracking started
	Elapsed time.Duration

	// Rolling read rates (bytes per second)
	Rate1s  float64
	Rate10s float64
	Rate60s float64

	// RateOverall is the average rate since tracking started
	RateOverall float64
}

// NewReadTracker creates a tracker for an input of expected bytes
// (0 if unknown).
func NewReadTracker(expected int64) *ReadTracker {
	return NewReadTrackerWithClock(expected, realClock{})
}

// NewReadTrackerWithClock creates a tracker with a custom clock for testing.
func NewReadTrackerWithClock(expected int64, clock Clock) *ReadTracker {
	now := clock.Now()
	t := &ReadTracker{
		expected:  expected,
		samples:   make([]sample, 0, ringBufferSize),
		startTime: now,
		clock:     clock,
	}
	t.samples = append(t.samples, sample{timestamp: now, bytes: 0})
	return t
}

// AddBytes adds n bytes to the cumulative total.
func (t *ReadTracker) AddBytes(n int64) {
	if n > 0 {
		t.totalBytes.Add(n)
	}
}

// Reader wraps r so that every read is counted.
func (t *ReadTracker) Reader(r io.Reader) io.Reader {
	return &countingReader{r: r, t: t}
}

type countingReader struct {
	r io.Reader
	t *ReadTracker
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.t.AddBytes(int64(n))
	return n, err
}

// RecordSample records the current cumulative bytes with a timestamp.
func (t *ReadTracker) RecordSample() {
	now := t.clock.Now()
	current := t.totalBytes.Load()

	t.mu.Lock()
	defer t.mu.Unlock()

	s := sample{timestamp: now, bytes: current}
	if len(t.samples) < ringBufferSize {
		t.samples = append(t.samples, s)
		return
	}
	t.samples[t.writeIdx] = s
	t.writeIdx = (t.writeIdx + 1) % ringBufferSize
}

// Stats returns the current read progress.
func (t *ReadTracker) Stats() ReadStats {
	now := t.clock.Now()
	current := t.totalBytes.Load()

	t.mu.RLock()
	defer t.mu.RUnlock()

	st := ReadStats{
		BytesRead: current,
		Elapsed:   now.Sub(t.startTime),
	}
	if t.expected > 0 {
		st.Fraction = float64(current) / float64(t.expected)
		if st.Fraction > 1 {
			st.Fraction = 1
		}
	}
	if secs := st.Elapsed.Seconds(); secs > 0 {
		st.RateOverall = float64(current) / secs
	}

	st.Rate1s = t.rateOverWindow(now, current, window1s)
	st.Rate10s = t.rateOverWindow(now, current, window10s)
	st.Rate60s = t.rateOverWindow(now, current, window60s)

	return st
}

// rateOverWindow returns bytes/sec since the newest sample at or before
// now-window, falling back to the oldest sample.
// Must be called with mu held.
func (t *ReadTracker) rateOverWindow(now time.Time, current int64, window time.Duration) float64 {
	target := now.Add(-window)

	var best *sample
	for i := range t.samples {
		s := &t.samples[i]
		if s.timestamp.After(target) {
			continue
		}
		if best == nil || s.timestamp.After(best.timestamp) {
			best = s
		}
	}
	if best == nil {
		best = t.oldestSample()
	}
	if best == nil {
		return 0
	}

	elapsed := now.Sub(best.timestamp).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(current-best.bytes) / elapsed
}

// oldestSample returns the oldest sample in the ring buffer.
// Must be called with mu held.
func (t *ReadTracker) oldestSample() *sample {
	if len(t.samples) == 0 {
		return nil
	}
	if len(t.samples) < ringBufferSize {
		return &t.samples[0]
	}
	return &t.samples[t.writeIdx]
}

// SampleCount returns the number of samples in the ring buffer.
func (t *ReadTracker) SampleCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.samples)
}

// Run records a sample every interval and passes the stats to report,
// until ctx is cancelled. report may be nil.
func (t *ReadTracker) Run(ctx context.Context, interval time.Duration, report func(ReadStats)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.RecordSample()
			if report != nil {
				report(t.Stats())
			}
		}
	}
}
