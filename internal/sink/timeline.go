package sink

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

type scheduled struct {
	start int64 // frame
	data  []float32
}

func (s scheduled) end() int64 { return s.start + int64(len(s.data)) }

// timeline mixes scheduled mono buffers onto a frame clock. It is the
// shared core of the oto and WAV sinks.
type timeline struct {
	mu      sync.Mutex
	rate    float64
	pending []scheduled // ordered by start
	played  int64       // frames rendered so far
	resumed bool
}

func newTimeline(rate float64) *timeline {
	return &timeline{rate: rate}
}

func (tl *timeline) now() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return float64(tl.played) / tl.rate
}

// end returns the time at which the last scheduled buffer finishes.
func (tl *timeline) end() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	last := tl.played
	for _, s := range tl.pending {
		last = max(last, s.end())
	}
	return float64(last) / tl.rate
}

func (tl *timeline) schedule(when float64, data []float32) {
	s := scheduled{
		start: int64(math.Round(when * tl.rate)),
		data:  data,
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()
	i := sort.Search(len(tl.pending), func(i int) bool {
		return tl.pending[i].start > s.start
	})
	tl.pending = append(tl.pending, scheduled{})
	copy(tl.pending[i+1:], tl.pending[i:])
	tl.pending[i] = s
}

// render writes the next len(out) frames into out and advances the clock.
// Parts of buffers scheduled in the past are skipped.
func (tl *timeline) render(out []float32) {
	clear(out)

	tl.mu.Lock()
	defer tl.mu.Unlock()

	from := tl.played
	to := from + int64(len(out))

	kept := tl.pending[:0]
	for _, s := range tl.pending {
		if s.start < to && s.end() > from {
			lo := max(s.start, from)
			hi := min(s.end(), to)
			for f := lo; f < hi; f++ {
				out[f-from] += s.data[f-s.start]
			}
		}
		if s.end() > to {
			kept = append(kept, s)
		}
	}
	clear(tl.pending[len(kept):])
	tl.pending = kept
	tl.played = to
}

func (tl *timeline) resume() {
	tl.mu.Lock()
	tl.resumed = true
	tl.mu.Unlock()
}

func (tl *timeline) isResumed() bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.resumed
}

func (tl *timeline) newBuffer(channels, length int, sampleRate float64) (Buffer, error) {
	if channels != 1 {
		return nil, fmt.Errorf("%w: mono sink cannot hold %d channels", ErrChannel, channels)
	}
	if sampleRate != tl.rate {
		return nil, fmt.Errorf("buffer rate %v does not match sink rate %v", sampleRate, tl.rate)
	}
	return NewPCMBuffer(channels, length, sampleRate), nil
}

// source is the Source implementation bound to a timeline.
type source struct {
	tl        *timeline
	buf       Buffer
	connected bool
}

func (s *source) SetBuffer(b Buffer) { s.buf = b }

func (s *source) Connect() error {
	s.connected = true
	return nil
}

// Start copies the bound buffer onto the timeline at when.
func (s *source) Start(when float64) error {
	if s.buf == nil {
		return ErrNoBuffer
	}
	if !s.connected {
		return ErrNotConnected
	}
	data, err := s.buf.ChannelData(0)
	if err != nil {
		return err
	}
	s.tl.schedule(when, append([]float32(nil), data...))
	return nil
}
