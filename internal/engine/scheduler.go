package engine

import (
	"fmt"

	"github.com/icco/lofi/internal/debug"
	"github.com/icco/lofi/internal/sink"
)

// Scheduler accumulates mixed samples and hands every full buffer to the
// sink, starting it exactly where the previous one ended. If the sink clock
// has overtaken that point the buffer starts now instead, leaving a gap
// rather than queueing ever further behind.
type Scheduler struct {
	sink sink.Sink
	size int
	rate float64

	pending cell[[]float32]
	cursor  cell[float64] // next start time on the sink clock

	// out is only touched by the generation loop.
	out []float32
}

// NewScheduler creates a scheduler emitting buffers of size samples.
func NewScheduler(s sink.Sink, size int, sampleRate float64) *Scheduler {
	sc := &Scheduler{
		sink: s,
		size: size,
		rate: sampleRate,
		out:  make([]float32, size),
	}
	sc.pending.Store(make([]float32, 0, size))
	return sc
}

// Reset moves the start cursor to t.
func (s *Scheduler) Reset(t float64) {
	s.cursor.Store(t)
}

// Cursor is the start time of the next buffer, before catch-up.
func (s *Scheduler) Cursor() float64 {
	return s.cursor.Load()
}

// Lead is how far scheduled audio runs ahead of the sink clock, in seconds.
func (s *Scheduler) Lead() float64 {
	return s.cursor.Load() - s.sink.CurrentTime()
}

// Duration is the length of one buffer in seconds.
func (s *Scheduler) Duration() float64 {
	return float64(s.size) / s.rate
}

// Push appends one sample and flushes when the buffer is full.
func (s *Scheduler) Push(sample float32) error {
	full := false
	s.pending.With(func(p *[]float32) {
		*p = append(*p, sample)
		if len(*p) >= s.size {
			copy(s.out, *p)
			*p = (*p)[:0]
			full = true
		}
	})

	if !full {
		return nil
	}
	return s.Flush(s.out)
}

// Flush submits samples to the sink as one buffer. Any sink failure is
// returned as is; nothing is retried.
func (s *Scheduler) Flush(samples []float32) error {
	buf, err := s.sink.NewBuffer(1, len(samples), s.rate)
	if err != nil {
		return fmt.Errorf("failed to create buffer: %w", err)
	}
	data, err := buf.ChannelData(0)
	if err != nil {
		return fmt.Errorf("failed to get channel data: %w", err)
	}
	copy(data, samples)

	src, err := s.sink.NewSource()
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	src.SetBuffer(buf)
	if err := src.Connect(); err != nil {
		return fmt.Errorf("failed to connect source: %w", err)
	}

	start := max(s.cursor.Load(), s.sink.CurrentTime())
	if err := src.Start(start); err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}
	s.cursor.Store(start + float64(len(samples))/s.rate)

	debug.LogEvery(100, "sched", "Playing buffer at time: %.4f", start)
	return nil
}
