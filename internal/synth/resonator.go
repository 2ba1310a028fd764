package synth

import "math"

const (
	damping      = 0.996
	detuneFactor = 0.01
)

// Resonator is a Karplus-Strong plucked string: a noise-seeded circular delay
// line fed back through a leaky two-tap average.
//
// The delay length is ceil(sampleRate/frequency), so pitch is quantized to
// whole samples. Frequencies at or above sampleRate/2 give degenerate lines.
type Resonator struct {
	Frequency  float64
	SampleRate float64

	buf []float64
	pos int
	rng Rand
}

// NewResonator builds a string tuned to frequency with a fresh noise burst.
func NewResonator(frequency, sampleRate float64, r Rand) *Resonator {
	k := &Resonator{SampleRate: sampleRate, rng: r}
	k.Retune(frequency)
	return k
}

// Retune is equivalent to constructing a new Resonator at frequency: the line
// is resized and reseeded with noise. Existing capacity is reused.
func (k *Resonator) Retune(frequency float64) {
	n := int(math.Ceil(k.SampleRate / frequency))
	if cap(k.buf) >= n {
		k.buf = k.buf[:n]
	} else {
		k.buf = make([]float64, n)
	}
	for i := range k.buf {
		k.buf[i] = Uniform(k.rng, -1, 1)
	}
	k.Frequency = frequency
	k.pos = 0
}

// Len returns the delay line length in samples.
func (k *Resonator) Len() int {
	return len(k.buf)
}

// Next returns the sample under the cursor, then writes back the damped
// average of it and its successor. Larger detune damps harder.
func (k *Resonator) Next(detune float64) float64 {
	n := len(k.buf)
	next := k.pos + 1
	if next == n {
		next = 0
	}

	out := k.buf[k.pos]
	k.buf[k.pos] = 0.5 * (out + k.buf[next]) * (damping - detune*detuneFactor)
	k.pos = next
	return out
}
