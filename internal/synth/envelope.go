package synth

// Envelope is a linear decay from 1 that saturates at 0 once
// elapsed >= 1/decay.
func Envelope(elapsed, decay float64) float64 {
	env := 1 - elapsed*decay
	if env < 0 {
		return 0
	}
	return env
}

// Echo is a single-tap feedback delay. The tap is read before the slot is
// overwritten, so the echo of a sample arrives exactly one line length later.
type Echo struct {
	Feedback float64 // gain applied to the delayed sample on read
	Send     float64 // gain applied to the dry sample on write

	buf []float64
	pos int
}

// NewEcho allocates a silent line of length samples.
func NewEcho(length int, feedback, send float64) *Echo {
	return &Echo{
		Feedback: feedback,
		Send:     send,
		buf:      make([]float64, length),
	}
}

// Process returns dry plus the delayed tap and stores dry for later.
func (e *Echo) Process(dry float64) float64 {
	delayed := e.buf[e.pos] * e.Feedback
	e.buf[e.pos] = dry * e.Send
	e.pos++
	if e.pos == len(e.buf) {
		e.pos = 0
	}
	return dry + delayed
}

// Clear silences the line and rewinds the cursor.
func (e *Echo) Clear() {
	clear(e.buf)
	e.pos = 0
}

// Len returns the line length in samples.
func (e *Echo) Len() int {
	return len(e.buf)
}
