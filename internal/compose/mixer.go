package compose

import "math"

const (
	outputSmoothing = 0.04
	tremoloRate     = 0.2 // radians per second
	tremoloDepth    = 0.06
	Ceiling         = 0.8
)

// Mixer turns the raw voice sum into the output sample. The order is
// smooth, then tremolo, then clamp.
type Mixer struct {
	filter float64
}

// Mix processes one sample at musical time t.
func (m *Mixer) Mix(sum, t float64) float64 {
	m.filter += (sum - m.filter) * outputSmoothing
	out := m.filter * (math.Sin(t*tremoloRate)*tremoloDepth + (1 - tremoloDepth))
	return max(-Ceiling, min(Ceiling, out))
}
