// Package synth provides the sample generators and per-voice processing
// used by the lo-fi engine: phase-accumulator oscillators, a Karplus-Strong
// string model, linear decay envelopes and feedback echo lines.
package synth

import "math"

// WaveType represents different oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
	WaveNoise
)

func (w WaveType) String() string {
	names := [...]string{"sine", "square", "sawtooth", "triangle", "noise"}
	if int(w) >= 0 && int(w) < len(names) {
		return names[w]
	}
	return "unknown"
}

// Oscillator is a periodic waveform generator driven by a phase accumulator.
// Frequency and SampleRate must be positive; zero values are not guarded.
type Oscillator struct {
	Frequency      float64
	Phase          float64 // always in [0,1)
	PhaseIncrement float64
	SampleRate     float64
	Wave           WaveType

	rng Rand
}

// NewOscillator creates an oscillator starting at phase 0. The Rand is only
// consulted by WaveNoise.
func NewOscillator(frequency, sampleRate float64, wave WaveType, r Rand) *Oscillator {
	return &Oscillator{
		Frequency:      frequency,
		PhaseIncrement: frequency / sampleRate,
		SampleRate:     sampleRate,
		Wave:           wave,
		rng:            r,
	}
}

// Next returns the current waveform value and advances the phase.
func (o *Oscillator) Next() float64 {
	var sample float64
	if o.Wave == WaveNoise {
		sample = Uniform(o.rng, -1, 1)
	} else {
		sample = generateWave(o.Wave, o.Phase)
	}

	o.Phase += o.PhaseIncrement
	if o.Phase >= 1.0 {
		o.Phase -= math.Floor(o.Phase)
	}
	return sample
}

func generateWave(waveType WaveType, phase float64) float64 {
	switch waveType {
	case WaveSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSawtooth:
		return 2*phase - 1
	case WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
