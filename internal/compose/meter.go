package compose

import "math"

// Meter maps elapsed time onto the four-beat bar used for drum windows.
type Meter struct {
	Beat float64 // seconds per beat
}

// Phase is the position within the bar, in seconds.
func (m Meter) Phase(t float64) float64 {
	return math.Mod(t, 4*m.Beat)
}

// Kick is open for the first 0.3 beats of the bar.
func (m Meter) Kick(phase float64) bool {
	return phase < 0.3*m.Beat
}

// Snare is open from beat 2 to beat 2.3.
func (m Meter) Snare(phase float64) bool {
	return phase >= 2*m.Beat && phase < 2.3*m.Beat
}

// Hihat runs on a half-beat sub-meter; swing stretches or shrinks its window.
func (m Meter) Hihat(phase, swing float64) bool {
	return math.Mod(phase, 0.5*m.Beat) < 0.12*m.Beat+swing
}
