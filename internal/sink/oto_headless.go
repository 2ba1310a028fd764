//go:build headless

package sink

// Oto is unavailable in headless builds.
type Oto struct{}

// NewOto always fails in headless builds.
func NewOto(sampleRate int) (*Oto, error) {
	return nil, ErrNoOutput
}

func (o *Oto) Resume() error        { return ErrNoOutput }
func (o *Oto) CurrentTime() float64 { return 0 }
func (o *Oto) Close() error         { return nil }

func (o *Oto) NewBuffer(channels, length int, sampleRate float64) (Buffer, error) {
	return nil, ErrNoOutput
}

func (o *Oto) NewSource() (Source, error) {
	return nil, ErrNoOutput
}
