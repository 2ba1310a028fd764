package engine

import (
	"context"
	"runtime"
	"time"
)

// Yielder is the host's cooperative suspension point. The generation loop
// calls it every YieldEvery samples; a non-nil error ends the loop.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YieldFunc adapts a function to Yielder.
type YieldFunc func(ctx context.Context) error

func (f YieldFunc) Yield(ctx context.Context) error { return f(ctx) }

// Gosched gives other goroutines a turn and reports cancellation.
var Gosched Yielder = YieldFunc(func(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
})

// Pacer holds the loop back while more than Max seconds of audio are
// scheduled ahead of the sink clock, so a real-time sink never builds an
// unbounded queue.
type Pacer struct {
	Lead func() float64
	Max  float64
	Poll time.Duration
}

// NewPacer polls lead every 10ms.
func NewPacer(lead func() float64, maxLead float64) *Pacer {
	return &Pacer{Lead: lead, Max: maxLead, Poll: 10 * time.Millisecond}
}

func (p *Pacer) Yield(ctx context.Context) error {
	for p.Lead() > p.Max {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Poll):
		}
	}
	return Gosched.Yield(ctx)
}
