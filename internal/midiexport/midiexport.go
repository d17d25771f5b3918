// Package midiexport writes a chord quiz as a Standard MIDI File so the
// answer can be heard.
package midiexport

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/vytor/chordflash/internal/diagram"
	"github.com/vytor/chordflash/internal/models"
)

const (
	// LowestC is the MIDI key of the leftmost key of the diagram.
	LowestC = 60

	channel  = 0
	velocity = 90
	tempo    = 90
	ticks    = 480
)

// Pitch returns the MIDI key for k. Keys on the geometry table use their
// position; other keys fall back to the note label in the octave implied
// by x.
func Pitch(k models.KeyDescriptor) (uint8, bool) {
	if slot, ok := diagram.KeyAt(k.X, k.IsBlack); ok {
		return uint8(LowestC + slot.Semitone), true
	}

	pc := k.Note.PitchClass()
	if pc < 0 {
		return 0, false
	}
	octave := floorDiv(k.X-10, diagram.OctaveWidth)
	key := LowestC + 12*octave + pc
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Pitches returns the distinct MIDI keys of q in play order.
func Pitches(q models.ChordQuiz) []uint8 {
	seen := make(map[uint8]bool, len(q.Keys))
	out := make([]uint8, 0, len(q.Keys))
	for _, k := range q.Keys {
		p, ok := Pitch(k)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Write encodes q as a single track SMF holding the chord for one 4/4 bar.
func Write(w io.Writer, q models.ChordQuiz) error {
	clock := smf.MetricTicks(ticks)
	pitches := Pitches(q)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(q.ChordName))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(tempo))
	for _, p := range pitches {
		tr.Add(0, midi.NoteOn(channel, p, velocity))
	}
	bar := clock.Ticks4th() * 4
	for i, p := range pitches {
		var delta uint32
		if i == 0 {
			delta = bar
		}
		tr.Add(delta, midi.NoteOff(channel, p))
	}
	if len(pitches) == 0 {
		tr.Close(bar)
	} else {
		tr.Close(0)
	}

	s := smf.New()
	s.TimeFormat = clock
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}
