package synth

import "math"

// Blend weights for a chord voice: a quiet pluck under a sustained partial.
const (
	pluckWeight   = 0.1
	partialWeight = 0.9
	partialRatio  = 0.99

	driftStep = 0.0001

	vibratoRate  = 0.06
	vibratoSpeed = 0.3
	vibratoDepth = 0.008
)

// Voice is one chord note: a Resonator pluck blended with a slightly flat
// sine partial, a linear decay and its own echo line.
type Voice struct {
	Gain    float64
	Decay   float64
	Elapsed float64 // seconds, envelope runs on Elapsed-Offset
	Offset  float64 // humanized entry, seconds
	Drift   float64 // random-walk detune fed to the pluck

	pluck   *Resonator
	partial *Oscillator
	echo    *Echo
	rng     Rand
}

// NewVoice allocates a voice with an echo line of echoLen samples. It is
// silent until Trigger is called.
func NewVoice(sampleRate float64, echoLen int, feedback, send float64, r Rand) *Voice {
	return &Voice{
		pluck:   &Resonator{SampleRate: sampleRate, rng: r},
		partial: NewOscillator(1, sampleRate, WaveSine, r),
		echo:    NewEcho(echoLen, feedback, send),
		rng:     r,
	}
}

// Trigger restarts the voice in place at freq. The pluck is tuned to
// freq+detune and the partial to freq*0.99. The echo line is cleared.
func (v *Voice) Trigger(freq, detune, gain, decay, offset float64) {
	v.pluck.Retune(freq + detune)
	v.partial.Frequency = freq * partialRatio
	v.partial.PhaseIncrement = v.partial.Frequency / v.partial.SampleRate
	v.partial.Phase = 0
	v.echo.Clear()
	v.Gain = gain
	v.Decay = decay
	v.Offset = offset
	v.Elapsed = offset
	v.Drift = 0
}

// Next renders one sample and advances the voice by dt seconds.
func (v *Voice) Next(dt float64) float64 {
	env := Envelope(v.Elapsed-v.Offset, v.Decay)
	v.Drift += Uniform(v.rng, -driftStep, driftStep)

	s := v.pluck.Next(v.Drift)*v.Gain*env*pluckWeight +
		v.partial.Next()*v.Gain*env*partialWeight

	v.Elapsed += dt
	return v.echo.Process(s)
}

// PluckLen exposes the current pluck delay length.
func (v *Voice) PluckLen() int {
	return v.pluck.Len()
}

// Melody is the lead line: a single Resonator retuned every step, with a
// slow sinusoidal wobble on the damping and a longer-feedback echo.
type Melody struct {
	Gain    float64
	Decay   float64
	Elapsed float64
	Vibrato float64

	pluck *Resonator
	echo  *Echo
}

// NewMelody creates the lead voice already plucked at freq.
func NewMelody(freq, sampleRate, gain, decay float64, echo *Echo, r Rand) *Melody {
	return &Melody{
		Gain:  gain,
		Decay: decay,
		pluck: NewResonator(freq, sampleRate, r),
		echo:  echo,
	}
}

// Step replucks at freq. start is the humanized envelope origin in seconds
// and may be negative.
func (m *Melody) Step(freq, start float64) {
	m.pluck.Retune(freq)
	m.Elapsed = start
	m.Vibrato = 0
}

// Frequency returns the pitch of the current note.
func (m *Melody) Frequency() float64 {
	return m.pluck.Frequency
}

// Next renders one sample and advances by dt seconds. The vibrato modulates
// the string damping, not its pitch.
func (m *Melody) Next(dt float64) float64 {
	env := Envelope(m.Elapsed, m.Decay)
	m.Vibrato += vibratoRate
	wobble := math.Sin(m.Vibrato*vibratoSpeed) * vibratoDepth

	s := m.pluck.Next(wobble) * m.Gain * env
	m.Elapsed += dt
	return m.echo.Process(s)
}

// Drum is a singleton percussion voice. It sounds only while its trigger
// window is open; Rest rewinds it so the next hit decays from the top.
type Drum struct {
	Gain      float64
	Decay     float64
	Smoothing float64 // one-pole coefficient on the output
	JitterLo  float64 // per-sample gain jitter range
	JitterHi  float64
	Elapsed   float64
	Filter    float64

	osc *Oscillator
	rng Rand
}

// NewDrum creates a sine-bodied drum at freq.
func NewDrum(freq, sampleRate, gain, decay, smoothing, jitterLo, jitterHi float64, r Rand) *Drum {
	return &Drum{
		Gain:      gain,
		Decay:     decay,
		Smoothing: smoothing,
		JitterLo:  jitterLo,
		JitterHi:  jitterHi,
		osc:       NewOscillator(freq, sampleRate, WaveSine, r),
		rng:       r,
	}
}

// Hit renders one sample inside the trigger window and advances by dt.
func (d *Drum) Hit(dt float64) float64 {
	env := Envelope(d.Elapsed, d.Decay)
	s := d.osc.Next() * d.Gain * env * Uniform(d.rng, d.JitterLo, d.JitterHi)
	d.Filter += (s - d.Filter) * d.Smoothing
	d.Elapsed += dt
	return d.Filter
}

// Rest is called outside the trigger window.
func (d *Drum) Rest() {
	d.Elapsed = 0
}
