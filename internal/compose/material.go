// Package compose decides what sounds when: it owns the musical material,
// the drum meter and the generative Composer that drives the synth voices
// one sample at a time.
package compose

const (
	SampleRate = 44100
	BPM        = 80
	Beat       = 60.0 / BPM // seconds

	// EchoSeconds is the length of every voice echo line.
	EchoSeconds = 0.45

	BassFrequency = 87.31
	bassLevel     = 0.7
)

// Progression is the chord cycle, one chord every two beats.
var Progression = [][]float64{
	{220.00, 261.63, 329.63, 392.00, 523.25},
	{174.61, 261.63, 349.23, 440.00, 587.33},
	{130.81, 261.63, 329.63, 392.00, 659.25},
	{196.00, 246.94, 329.63, 392.00, 587.33},
}

// Motif is the melodic cycle, one note every half beat.
var Motif = []float64{
	440.0, 523.25, 587.33, 659.25, 783.99, 880.0,
	987.77, 783.99, 659.25, 587.33, 523.25, 392.00,
}

// maxChordVoices bounds the chord voice pool.
func maxChordVoices() int {
	n := 0
	for _, chord := range Progression {
		n = max(n, len(chord))
	}
	return n
}
