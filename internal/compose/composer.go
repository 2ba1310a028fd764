package compose

import (
	"github.com/icco/lofi/internal/synth"
)

const (
	chordBeats  = 2.0
	melodyBeats = 0.5

	chordGain     = 0.45
	chordDecay    = 0.015
	chordFeedback = 0.9
	chordSend     = 0.5
	maxDetune     = 3.0  // Hz
	strum         = 0.12 // beats between successive chord notes
	strumJitter   = 0.06 // beats

	melodyGain     = 0.2
	melodyDecay    = 0.02
	melodyFeedback = 0.8
	melodySend     = 0.45
	melodyJitter   = 0.05 // beats

	swingRange = 0.05 // beats
)

// drumSpec is a drum preset: body frequency, level, decay rate, output
// smoothing and per-sample gain jitter.
type drumSpec struct {
	freq, gain, decay, smoothing, jitterLo, jitterHi float64
}

var (
	kickSpec  = drumSpec{50, 0.8, 0.03, 0.04, 0.9, 1.1}
	hihatSpec = drumSpec{300, 0.08, 0.12, 0.06, 0.7, 1.3}
	snareSpec = drumSpec{120, 0.25, 0.06, 0.05, 0.8, 1.2}
)

func (s drumSpec) build(r synth.Rand) *synth.Drum {
	return synth.NewDrum(s.freq, SampleRate, s.gain, s.decay, s.smoothing, s.jitterLo, s.jitterHi, r)
}

// Composer is the generative scheduler. Each call to Next advances musical
// time by one sample, fires any chord, melody or drum triggers that are due
// and returns the unmixed sum of every voice.
//
// A Composer is not safe for concurrent use.
type Composer struct {
	rng   synth.Rand
	meter Meter
	dt    float64
	time  float64

	// chord pool, replaced in place on every chord change
	voices []*synth.Voice
	active int

	melody *synth.Melody
	bass   *synth.Oscillator
	kick   *synth.Drum
	hihat  *synth.Drum
	snare  *synth.Drum

	chordIndex  int
	melodyIndex int
	lastChord   float64
	lastMelody  float64
	swing       float64
}

// New builds a composer whose every random choice comes from r.
func New(r synth.Rand) *Composer {
	echoLen := int(SampleRate * EchoSeconds)

	c := &Composer{
		rng:   r,
		meter: Meter{Beat: Beat},
		dt:    1.0 / SampleRate,
		melody: synth.NewMelody(Motif[0], SampleRate, melodyGain, melodyDecay,
			synth.NewEcho(echoLen, melodyFeedback, melodySend), r),
		bass:  synth.NewOscillator(BassFrequency, SampleRate, synth.WaveSine, r),
		kick:  kickSpec.build(r),
		hihat: hihatSpec.build(r),
		snare: snareSpec.build(r),

		// the first chord lands one beat in
		lastChord: -Beat,
	}

	c.voices = make([]*synth.Voice, maxChordVoices())
	for i := range c.voices {
		c.voices[i] = synth.NewVoice(SampleRate, echoLen, chordFeedback, chordSend, r)
	}
	return c
}

// Time returns elapsed musical time in seconds.
func (c *Composer) Time() float64 { return c.time }

// ChordIndex is the index of the next chord to be played.
func (c *Composer) ChordIndex() int { return c.chordIndex }

// MelodyIndex is the index of the next melody note to be played.
func (c *Composer) MelodyIndex() int { return c.melodyIndex }

// ActiveVoices is the number of sounding chord voices.
func (c *Composer) ActiveVoices() int { return c.active }

// MelodyFrequency is the pitch of the sounding melody note.
func (c *Composer) MelodyFrequency() float64 { return c.melody.Frequency() }

// Next renders one sample of the raw voice sum. t is the musical time the
// sample belongs to; time advances after the sample is rendered.
func (c *Composer) Next() (sum, t float64) {
	t = c.time

	if t-c.lastChord >= chordBeats*Beat {
		c.triggerChord()
	}
	if t-c.lastMelody >= melodyBeats*Beat {
		c.stepMelody()
	}

	for _, v := range c.voices[:c.active] {
		sum += v.Next(c.dt)
	}
	sum += c.melody.Next(c.dt)

	// constant drone: the bass has no envelope
	sum += c.bass.Next() * bassLevel

	sum += c.drums(c.meter.Phase(t))

	c.time += c.dt
	return sum, t
}

func (c *Composer) triggerChord() {
	chord := Progression[c.chordIndex]
	for i, freq := range chord {
		detune := synth.Uniform(c.rng, -maxDetune, maxDetune)
		offset := float64(i)*Beat*strum + synth.Uniform(c.rng, -strumJitter, strumJitter)*Beat
		gain := chordGain * synth.Uniform(c.rng, 0.8, 1.2)
		c.voices[i].Trigger(freq, detune, gain, chordDecay, offset)
	}
	c.active = len(chord)
	c.chordIndex = (c.chordIndex + 1) % len(Progression)
	c.lastChord = c.time
}

func (c *Composer) stepMelody() {
	start := synth.Uniform(c.rng, -melodyJitter, melodyJitter) * Beat
	c.melody.Step(Motif[c.melodyIndex], start)
	c.melodyIndex = (c.melodyIndex + 1) % len(Motif)
	c.lastMelody = c.time
}

func (c *Composer) drums(phase float64) float64 {
	var sum float64

	if c.meter.Kick(phase) {
		sum += c.kick.Hit(c.dt)
	} else {
		c.kick.Rest()
	}

	if c.meter.Hihat(phase, c.swing) {
		sum += c.hihat.Hit(c.dt)
		c.swing = synth.Uniform(c.rng, -swingRange, swingRange) * Beat
	} else {
		c.hihat.Rest()
	}

	if c.meter.Snare(phase) {
		sum += c.snare.Hit(c.dt)
	} else {
		c.snare.Rest()
	}

	return sum
}
