//go:build !headless

package sink

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const bytesPerSample = 4 // float32

// Oto plays scheduled buffers on the system audio device. Its clock counts
// frames pulled by the device, so CurrentTime runs at real-time speed once
// the sink is resumed and stands still before that.
type Oto struct {
	tl     *timeline
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	scratch []float32
}

// NewOto opens the default output device as a mono float32 stream.
func NewOto(sampleRate int) (*Oto, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoOutput, err)
	}
	<-readyChan

	o := &Oto{
		tl:      newTimeline(float64(sampleRate)),
		ctx:     otoCtx,
		scratch: make([]float32, 1024),
	}
	o.player = otoCtx.NewPlayer(&otoReader{sink: o})
	return o, nil
}

// otoReader implements io.Reader for the device pull loop
type otoReader struct {
	sink *Oto
}

func (r *otoReader) Read(buf []byte) (int, error) {
	o := r.sink
	o.mu.Lock()
	defer o.mu.Unlock()

	numSamples := len(buf) / bytesPerSample
	if len(o.scratch) < numSamples {
		o.scratch = make([]float32, numSamples)
	}
	samples := o.scratch[:numSamples]
	o.tl.render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*bytesPerSample:], math.Float32bits(s))
	}
	return numSamples * bytesPerSample, nil
}

// Resume starts the device stream.
func (o *Oto) Resume() error {
	if o.tl.isResumed() {
		return nil
	}
	o.player.Play()
	if err := o.player.Err(); err != nil {
		return fmt.Errorf("failed to resume audio output: %w", err)
	}
	o.tl.resume()
	return nil
}

func (o *Oto) CurrentTime() float64 { return o.tl.now() }

func (o *Oto) NewBuffer(channels, length int, sampleRate float64) (Buffer, error) {
	return o.tl.newBuffer(channels, length, sampleRate)
}

func (o *Oto) NewSource() (Source, error) {
	return &source{tl: o.tl}, nil
}

// Close stops the device stream. Scheduled buffers are discarded.
func (o *Oto) Close() error {
	o.player.Pause()
	return o.ctx.Suspend()
}
