package compose

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarterNote = 960 // Standard MIDI resolution

	chordChannel  = 0
	melodyChannel = 1
	drumChannel   = 9 // GM percussion

	gmKick  = 36
	gmSnare = 38
	gmHihat = 42
)

// NoteNumber converts a frequency to the nearest MIDI note (A4 = 69 = 440 Hz).
func NoteNumber(freq float64) uint8 {
	n := math.Round(69 + 12*math.Log2(freq/440))
	return uint8(max(0, min(127, n)))
}

// NoteName returns the scientific pitch name of the nearest MIDI note.
func NoteName(freq float64) string {
	notes := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	note := int(NoteNumber(freq))
	return fmt.Sprintf("%s%d", notes[note%12], note/12-1)
}

// LoopBeats is the length after which chords and melody line up again.
func LoopBeats() int {
	chordLoop := len(Progression) * int(chordBeats)
	melodyLoop := int(float64(len(Motif)) * melodyBeats)
	return lcm(chordLoop, melodyLoop)
}

func lcm(a, b int) int {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}

type timedMessage struct {
	tick uint32
	msg  midi.Message
}

// addTimed appends messages to a track in tick order, converting absolute
// ticks to deltas, and closes the track at end.
func addTimed(track *smf.Track, events []timedMessage, end uint32) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	var lastTick uint32
	for _, ev := range events {
		track.Add(ev.tick-lastTick, ev.msg)
		lastTick = ev.tick
	}
	track.Close(end - lastTick)
}

func beatsToTicks(beats float64) uint32 {
	return uint32(math.Round(beats * ticksPerQuarterNote))
}

func noteEvents(ch uint8, key uint8, at, length float64) []timedMessage {
	return []timedMessage{
		{beatsToTicks(at), midi.NoteOn(ch, key, 100)},
		{beatsToTicks(at+length) - 1, midi.NoteOff(ch, key)},
	}
}

// Score renders the progression, melody and drum pattern as a Standard MIDI
// File spanning one full loop. Randomized humanization is not represented.
func Score() (*smf.SMF, error) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)

	loop := float64(LoopBeats())
	end := beatsToTicks(loop)

	// Track 0: Tempo track
	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(4, 4))
	track0.Add(0, smf.MetaTempo(BPM))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return nil, fmt.Errorf("error adding tempo track: %w", err)
	}

	var chords []timedMessage
	for i, at := 0, 0.0; at < loop; i, at = i+1, at+chordBeats {
		for _, freq := range Progression[i%len(Progression)] {
			chords = append(chords, noteEvents(chordChannel, NoteNumber(freq), at, chordBeats)...)
		}
	}

	var melody []timedMessage
	for i, at := 0, 0.0; at < loop; i, at = i+1, at+melodyBeats {
		melody = append(melody, noteEvents(melodyChannel, NoteNumber(Motif[i%len(Motif)]), at, melodyBeats)...)
	}

	var drums []timedMessage
	for bar := 0.0; bar < loop; bar += 4 {
		drums = append(drums, noteEvents(drumChannel, gmKick, bar, 0.3)...)
		drums = append(drums, noteEvents(drumChannel, gmSnare, bar+2, 0.3)...)
		for sub := 0.0; sub < 4; sub += melodyBeats {
			drums = append(drums, noteEvents(drumChannel, gmHihat, bar+sub, 0.12)...)
		}
	}

	for i, events := range [][]timedMessage{chords, melody, drums} {
		var track smf.Track
		addTimed(&track, events, end)
		if err := sm.Add(track); err != nil {
			return nil, fmt.Errorf("error adding track %d: %w", i+1, err)
		}
	}

	return sm, nil
}

// WriteMIDI writes Score to w.
func WriteMIDI(w io.Writer) error {
	sm, err := Score()
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
