// Package sink defines the audio output the engine schedules buffers on and
// provides a real-time device backend (oto) and an offline WAV backend.
//
// A sink plays buffers at absolute times on its own monotonic clock.
// Buffers that overlap are summed; gaps play as silence.
package sink

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOutput is returned when no audio output can be opened.
	ErrNoOutput = errors.New("no audio output available")
	// ErrChannel is returned for a channel index or count the sink cannot serve.
	ErrChannel = errors.New("unsupported channel")
	// ErrNoBuffer is returned when a source is started before SetBuffer.
	ErrNoBuffer = errors.New("source has no buffer")
	// ErrNotConnected is returned when a source is started before Connect.
	ErrNotConnected = errors.New("source is not connected")
)

// Sink is an audio output device or file.
type Sink interface {
	// Resume takes the sink out of its suspended state. Calling it on a
	// running sink is a no-op.
	Resume() error
	// CurrentTime is the sink clock in seconds.
	CurrentTime() float64
	// NewBuffer allocates a zeroed buffer.
	NewBuffer(channels, length int, sampleRate float64) (Buffer, error)
	// NewSource creates an unbound, unconnected one-shot source.
	NewSource() (Source, error)
}

// Buffer holds planar float32 samples.
type Buffer interface {
	Channels() int
	Len() int
	SampleRate() float64
	ChannelData(ch int) ([]float32, error)
}

// Source plays one buffer once, starting at an absolute sink time.
type Source interface {
	SetBuffer(b Buffer)
	Connect() error
	Start(when float64) error
}

// PCMBuffer is the Buffer implementation shared by the backends.
type PCMBuffer struct {
	rate float64
	data [][]float32
}

// NewPCMBuffer allocates channels x length zeroed samples.
func NewPCMBuffer(channels, length int, sampleRate float64) *PCMBuffer {
	b := &PCMBuffer{rate: sampleRate, data: make([][]float32, channels)}
	for i := range b.data {
		b.data[i] = make([]float32, length)
	}
	return b
}

func (b *PCMBuffer) Channels() int       { return len(b.data) }
func (b *PCMBuffer) SampleRate() float64 { return b.rate }

func (b *PCMBuffer) Len() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

// ChannelData returns the writable samples of channel ch.
func (b *PCMBuffer) ChannelData(ch int) ([]float32, error) {
	if ch < 0 || ch >= len(b.data) {
		return nil, fmt.Errorf("%w: %d of %d", ErrChannel, ch, len(b.data))
	}
	return b.data[ch], nil
}
