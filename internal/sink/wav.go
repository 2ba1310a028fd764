package sink

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavBitDepth = 16

// Wav collects scheduled buffers offline and writes them as a 16-bit mono
// WAV file on Close. Its clock never advances on its own: CurrentTime stays
// at zero, so every buffer is placed exactly where the caller schedules it.
type Wav struct {
	tl   *timeline
	w    io.WriteSeeker
	rate int
}

// NewWav renders to w, which must be seekable so the WAV header can be
// finalized.
func NewWav(w io.WriteSeeker, sampleRate int) *Wav {
	return &Wav{
		tl:   newTimeline(float64(sampleRate)),
		w:    w,
		rate: sampleRate,
	}
}

func (s *Wav) Resume() error {
	s.tl.resume()
	return nil
}

func (s *Wav) CurrentTime() float64 { return s.tl.now() }

func (s *Wav) NewBuffer(channels, length int, sampleRate float64) (Buffer, error) {
	return s.tl.newBuffer(channels, length, sampleRate)
}

func (s *Wav) NewSource() (Source, error) {
	return &source{tl: s.tl}, nil
}

// Duration is the end of the last scheduled buffer, in seconds.
func (s *Wav) Duration() float64 {
	return s.tl.end()
}

// Close mixes everything scheduled and encodes it. It does not close the
// underlying writer.
func (s *Wav) Close() error {
	frames := int(s.tl.end()*float64(s.rate) + 0.5)
	samples := make([]float32, frames)
	s.tl.render(samples)

	enc := wav.NewEncoder(s.w, s.rate, wavBitDepth, 1, 1)
	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  s.rate,
		},
		Data:           make([]int, frames),
		SourceBitDepth: wavBitDepth,
	}
	for i, v := range samples {
		intBuf.Data[i] = int(max(-1, min(1, v)) * 32767)
	}

	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("error encoding WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error finalizing WAV: %w", err)
	}
	return nil
}
