// Package engine runs the lo-fi generator: a single background loop that
// renders one sample at a time, feeds the playback scheduler and publishes
// the latest sample for display.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/icco/lofi/internal/compose"
	"github.com/icco/lofi/internal/debug"
	"github.com/icco/lofi/internal/sink"
	"github.com/icco/lofi/internal/synth"
)

const (
	// BufferSize is the number of samples per scheduled sink buffer.
	BufferSize = 1024
	// YieldEvery is the number of samples between cooperative yields.
	YieldEvery = 1000
)

// ErrNilSink is returned by New without a sink.
var ErrNilSink = errors.New("engine: nil sink")

// Status is a snapshot of where the composition is.
type Status struct {
	Time   float64 // seconds of music rendered
	Chord  int     // index of the next chord
	Note   string  // sounding melody note
	Voices int     // sounding chord voices
}

type score struct {
	composer *compose.Composer
	mixer    compose.Mixer
}

type tap struct {
	v  float64
	ok bool
}

// Engine is the control surface. Start, Stop, LatestSample, Status and Lead
// may be called from any goroutine.
type Engine struct {
	sink       sink.Sink
	sched      *Scheduler
	yield      Yielder
	yieldEvery int

	// one cell per independent field group
	score   cell[score]
	latest  cell[tap]
	running cell[bool]
	cancel  cell[context.CancelFunc]
	err     cell[error]

	lifecycle sync.Mutex // serializes Start
	done      chan struct{}
}

type options struct {
	rng     synth.Rand
	seed    int64
	yield   Yielder
	maxLead float64
}

// Option configures an Engine.
type Option func(*options)

// WithRand makes r the source of every random choice.
func WithRand(r synth.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed seeds the default random source. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithYielder replaces the default Gosched yielder.
func WithYielder(y Yielder) Option {
	return func(o *options) { o.yield = y }
}

// WithPacing yields through a Pacer that keeps at most maxLead seconds of
// audio queued on the sink. Ignored when WithYielder is also given.
func WithPacing(maxLead float64) Option {
	return func(o *options) { o.maxLead = maxLead }
}

// New creates a stopped engine playing into s.
func New(s sink.Sink, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, ErrNilSink
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = synth.NewRand(o.seed)
	}

	e := &Engine{
		sink:       s,
		sched:      NewScheduler(s, BufferSize, compose.SampleRate),
		yieldEvery: YieldEvery,
	}
	e.score.Store(score{composer: compose.New(o.rng)})

	switch {
	case o.yield != nil:
		e.yield = o.yield
	case o.maxLead > 0:
		e.yield = NewPacer(e.sched.Lead, o.maxLead)
	default:
		e.yield = Gosched
	}
	return e, nil
}

// Start resumes the sink and launches the generation loop. It is a no-op
// while the loop is running. After Stop it waits for the previous loop to
// exit and then continues the same composition, scheduled after any audio
// the sink still holds.
func (e *Engine) Start(ctx context.Context) {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if e.running.Load() {
		return
	}
	if e.done != nil {
		<-e.done
	}
	e.running.Store(true)

	if err := e.sink.Resume(); err != nil {
		debug.Log("sink", "Failed to resume audio output: %v", err)
	}
	// audio queued by a previous run still plays; start after it
	start := max(e.sched.Cursor(), e.sink.CurrentTime())
	e.sched.Reset(start)
	debug.Log("engine", "Starting generation, next start time: %.4f", start)

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel.Store(cancel)
	e.err.Store(nil)
	e.done = make(chan struct{})
	go e.run(runCtx, cancel, e.done)
}

// Stop asks the loop to finish. It returns immediately; the loop exits at
// the top of its next sample. Audio already handed to the sink still plays.
func (e *Engine) Stop() {
	e.running.Store(false)
	if cancel := e.cancel.Load(); cancel != nil {
		cancel()
	}
}

// Running reports whether the loop has been started and not stopped.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Done is closed when the current loop exits. It is nil before the first Start.
func (e *Engine) Done() <-chan struct{} {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	return e.done
}

// Err returns the sink failure that ended the last loop, if any.
func (e *Engine) Err() error {
	return e.err.Load()
}

// LatestSample returns the most recent output sample. ok is false until the
// first sample has been generated.
func (e *Engine) LatestSample() (v float64, ok bool) {
	t := e.latest.Load()
	return t.v, t.ok
}

// Lead is how far scheduled audio runs ahead of the sink clock.
func (e *Engine) Lead() float64 {
	return e.sched.Lead()
}

// Status snapshots the composition.
func (e *Engine) Status() Status {
	var st Status
	e.score.With(func(s *score) {
		st = Status{
			Time:   s.composer.Time(),
			Chord:  s.composer.ChordIndex(),
			Note:   compose.NoteName(s.composer.MelodyFrequency()),
			Voices: s.composer.ActiveVoices(),
		}
	})
	return st
}

func (e *Engine) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer close(done)
	defer e.running.Store(false)
	defer cancel()

	iteration := 0
	for e.running.Load() {
		var out float64
		e.score.With(func(s *score) {
			sum, t := s.composer.Next()
			out = s.mixer.Mix(sum, t)
		})
		e.latest.Store(tap{v: out, ok: true})

		if err := e.sched.Push(float32(out)); err != nil {
			debug.Log("engine", "Generation stopped: %v", err)
			e.err.Store(err)
			return
		}

		iteration++
		if iteration >= e.yieldEvery {
			debug.LogEvery(50, "engine", "Yielding after %d iterations", iteration)
			iteration = 0
			if err := e.yield.Yield(ctx); err != nil {
				debug.Log("engine", "Generation cancelled: %v", err)
				return
			}
		}
	}
	debug.Log("engine", "Generation stopped")
}
