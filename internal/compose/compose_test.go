package compose

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"
)

func testComposer() *Composer {
	return New(rand.New(rand.NewPCG(7, 11)))
}

func TestChordIndexCycles(t *testing.T) {
	c := testComposer()
	start := c.ChordIndex()
	for i := 0; i < len(Progression); i++ {
		c.triggerChord()
		if i < len(Progression)-1 && c.ChordIndex() == start {
			t.Fatalf("chord index returned early after %d triggers", i+1)
		}
	}
	if c.ChordIndex() != start {
		t.Errorf("chord index = %d after a full cycle, want %d", c.ChordIndex(), start)
	}
}

func TestMelodyIndexCycles(t *testing.T) {
	c := testComposer()
	start := c.MelodyIndex()
	for i := 0; i < len(Motif); i++ {
		c.stepMelody()
	}
	if c.MelodyIndex() != start {
		t.Errorf("melody index = %d after a full cycle, want %d", c.MelodyIndex(), start)
	}
}

func TestChordTriggerReplacesPool(t *testing.T) {
	c := testComposer()
	first, second := c.voices[0], c.voices[1]

	c.triggerChord()
	if c.ActiveVoices() != len(Progression[0]) {
		t.Fatalf("active = %d, want %d", c.ActiveVoices(), len(Progression[0]))
	}
	for i, v := range c.voices[:c.ActiveVoices()] {
		if v.Gain < chordGain*0.8 || v.Gain >= chordGain*1.2 {
			t.Errorf("voice %d gain %f outside jitter range", i, v.Gain)
		}
		maxOffset := (float64(i)*strum + strumJitter) * Beat
		minOffset := (float64(i)*strum - strumJitter) * Beat
		if v.Offset < minOffset || v.Offset >= maxOffset {
			t.Errorf("voice %d offset %f outside [%f,%f)", i, v.Offset, minOffset, maxOffset)
		}
		if v.Drift != 0 {
			t.Errorf("voice %d drift %f, want 0", i, v.Drift)
		}
	}

	c.triggerChord()
	if c.voices[0] != first || c.voices[1] != second {
		t.Error("chord change should reuse pool slots")
	}
}

func TestFirstTriggers(t *testing.T) {
	c := testComposer()

	// chord fires one beat in, melody half a beat in
	for c.Time() < Beat-2.0/SampleRate {
		c.Next()
	}
	if c.ActiveVoices() != 0 {
		t.Fatalf("chord fired early at %f", c.Time())
	}
	if c.MelodyIndex() != 1 {
		t.Fatalf("melody index = %d at %f, want 1", c.MelodyIndex(), c.Time())
	}

	for c.Time() < Beat+2.0/SampleRate {
		c.Next()
	}
	if c.ActiveVoices() != len(Progression[0]) {
		t.Errorf("chord did not fire by %f", c.Time())
	}
}

func TestComposerTimeAdvances(t *testing.T) {
	c := testComposer()
	for i := 0; i < 1000; i++ {
		_, at := c.Next()
		if want := float64(i) / SampleRate; math.Abs(at-want) > 1e-9 {
			t.Fatalf("sample %d at %f, want %f", i, at, want)
		}
	}
}

func TestDrumWindows(t *testing.T) {
	m := Meter{Beat: Beat}
	bar := 4 * Beat
	const steps = 3997

	for i := 0; i < steps; i++ {
		phase := bar * float64(i) / steps
		beats := phase / Beat

		if got, want := m.Kick(phase), beats < 0.3; got != want {
			t.Errorf("kick at %.4f beats = %v, want %v", beats, got, want)
		}
		if got, want := m.Snare(phase), beats >= 2 && beats < 2.3; got != want {
			t.Errorf("snare at %.4f beats = %v, want %v", beats, got, want)
		}
	}
}

func TestHihatSubMeter(t *testing.T) {
	m := Meter{Beat: Beat}
	tests := []struct {
		beats float64
		swing float64
		want  bool
	}{
		{0, 0, true},
		{0.1, 0, true},
		{0.13, 0, false},
		{0.5, 0, true},
		{0.63, 0, false},
		{0.63, 0.02 * Beat, true},
		{2.05, 0, true},
		{0.1, -0.05 * Beat, false},
	}

	for _, tt := range tests {
		if got := m.Hihat(tt.beats*Beat, tt.swing); got != tt.want {
			t.Errorf("hihat(%v beats, swing %v) = %v, want %v", tt.beats, tt.swing, got, tt.want)
		}
	}
}

func TestSwingRedrawnWhileHihatSounds(t *testing.T) {
	c := testComposer()
	limit := swingRange * Beat
	open, redrawn := 0, 0

	for i := 0; i < int(2*4*Beat*SampleRate); i++ {
		prev := c.swing
		sounding := c.meter.Hihat(c.meter.Phase(c.Time()), prev)
		c.Next()

		if c.swing < -limit || c.swing >= limit {
			t.Fatalf("sample %d: swing %f outside [%f,%f)", i, c.swing, -limit, limit)
		}
		switch {
		case sounding:
			open++
			if c.swing != prev {
				redrawn++
			}
		case c.swing != prev:
			t.Fatalf("sample %d: swing changed while the hihat was silent", i)
		}
	}

	if open == 0 {
		t.Fatal("hihat never sounded in two bars")
	}
	if redrawn != open {
		t.Errorf("swing redrawn on %d of %d hihat samples", redrawn, open)
	}
}

func TestMeterPhaseWraps(t *testing.T) {
	m := Meter{Beat: Beat}
	if got := m.Phase(4*Beat + 0.1); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("phase = %f, want 0.1", got)
	}
}

func TestMixerClamps(t *testing.T) {
	inputs := []float64{-1000, -50, -1, 0, 0.3, 2, 75, 1e6}
	for _, in := range inputs {
		var m Mixer
		for i := 0; i < 5000; i++ {
			out := m.Mix(in, float64(i)/SampleRate)
			if out < -Ceiling || out > Ceiling {
				t.Fatalf("input %f: sample %d = %f outside ceiling", in, i, out)
			}
		}
	}
}

func TestMixerSmoothsBeforeTremolo(t *testing.T) {
	var m Mixer
	// t=0: tremolo factor is 0.94
	got := m.Mix(1, 0)
	if want := 0.04 * 0.94; math.Abs(got-want) > 1e-12 {
		t.Errorf("first sample = %f, want %f", got, want)
	}
}

func TestComposerOutputBounded(t *testing.T) {
	c := testComposer()
	var m Mixer
	for i := 0; i < SampleRate*4; i++ {
		sum, at := c.Next()
		if math.IsNaN(sum) || math.IsInf(sum, 0) {
			t.Fatalf("sample %d is %f", i, sum)
		}
		if out := m.Mix(sum, at); out < -Ceiling || out > Ceiling {
			t.Fatalf("mixed sample %d = %f", i, out)
		}
	}
}

func TestNoteNames(t *testing.T) {
	tests := []struct {
		freq float64
		note uint8
		name string
	}{
		{440, 69, "A4"},
		{261.63, 60, "C4"},
		{87.31, 41, "F2"},
		{987.77, 83, "B5"},
	}

	for _, tt := range tests {
		if got := NoteNumber(tt.freq); got != tt.note {
			t.Errorf("NoteNumber(%v) = %d, want %d", tt.freq, got, tt.note)
		}
		if got := NoteName(tt.freq); got != tt.name {
			t.Errorf("NoteName(%v) = %s, want %s", tt.freq, got, tt.name)
		}
	}
}

func TestScoreRoundTrip(t *testing.T) {
	if got := LoopBeats(); got != 24 {
		t.Fatalf("loop = %d beats, want 24", got)
	}

	var buf bytes.Buffer
	if err := WriteMIDI(&buf); err != nil {
		t.Fatalf("Error writing MIDI: %v", err)
	}

	rd, err := smf.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("Error reading MIDI: %v", err)
	}

	tempo := rd.TempoChanges()
	if len(tempo) == 0 || math.Abs(tempo[0].BPM-BPM) > 0.01 {
		t.Errorf("tempo = %v, want %d BPM", tempo, BPM)
	}
	if len(rd.Tracks) != 4 {
		t.Fatalf("tracks = %d, want 4", len(rd.Tracks))
	}

	chordNotes := 0
	for _, c := range Progression {
		chordNotes += len(c)
	}
	want := []int{
		chordNotes * 24 / (len(Progression) * 2),
		24 * 2,
		6 * (2 + 8),
	}

	for i, w := range want {
		got := 0
		for _, ev := range rd.Tracks[i+1] {
			var ch, key, vel uint8
			if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				got++
			}
		}
		if got != w {
			t.Errorf("track %d: %d note ons, want %d", i+1, got, w)
		}
	}
}
