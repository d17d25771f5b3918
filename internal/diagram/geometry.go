package diagram

import "github.com/vytor/chordflash/internal/models"

// Keyboard geometry in diagram units. Two octaves starting at C.
const (
	KeyTop         = 20
	WhiteKeyWidth  = 45
	WhiteKeyHeight = 160
	BlackKeyWidth  = 25
	BlackKeyHeight = 100
	OctaveWidth    = 350

	CanvasWidth  = 715
	CanvasHeight = 190
)

// KeySlot is one physical key of the drawn keyboard. Semitone counts from
// the lowest C.
type KeySlot struct {
	X        int
	IsBlack  bool
	Semitone int
	Notes    []models.NoteName
}

var octaveWhite = []KeySlot{
	{X: 10, Semitone: 0, Notes: []models.NoteName{models.NoteC}},
	{X: 60, Semitone: 2, Notes: []models.NoteName{models.NoteD}},
	{X: 110, Semitone: 4, Notes: []models.NoteName{models.NoteE}},
	{X: 160, Semitone: 5, Notes: []models.NoteName{models.NoteF}},
	{X: 210, Semitone: 7, Notes: []models.NoteName{models.NoteG}},
	{X: 260, Semitone: 9, Notes: []models.NoteName{models.NoteA}},
	{X: 310, Semitone: 11, Notes: []models.NoteName{models.NoteB}},
}

var octaveBlack = []KeySlot{
	{X: 45, IsBlack: true, Semitone: 1, Notes: []models.NoteName{models.NoteCs, models.NoteDb}},
	{X: 95, IsBlack: true, Semitone: 3, Notes: []models.NoteName{models.NoteDs, models.NoteEb}},
	{X: 195, IsBlack: true, Semitone: 6, Notes: []models.NoteName{models.NoteFs, models.NoteGb}},
	{X: 245, IsBlack: true, Semitone: 8, Notes: []models.NoteName{models.NoteGs, models.NoteAb}},
	{X: 295, IsBlack: true, Semitone: 10, Notes: []models.NoteName{models.NoteAs, models.NoteBb}},
}

var (
	whiteKeys = twoOctaves(octaveWhite)
	blackKeys = twoOctaves(octaveBlack)
)

func twoOctaves(octave []KeySlot) []KeySlot {
	out := make([]KeySlot, 0, 2*len(octave))
	for o := 0; o < 2; o++ {
		for _, k := range octave {
			k.X += o * OctaveWidth
			k.Semitone += o * 12
			out = append(out, k)
		}
	}
	return out
}

// WhiteKeys returns the 14 white keys, left to right.
func WhiteKeys() []KeySlot {
	return append([]KeySlot(nil), whiteKeys...)
}

// BlackKeys returns the 10 black keys, left to right.
func BlackKeys() []KeySlot {
	return append([]KeySlot(nil), blackKeys...)
}

// KeyAt finds the key whose left edge is x on the given row.
func KeyAt(x int, isBlack bool) (KeySlot, bool) {
	keys := whiteKeys
	if isBlack {
		keys = blackKeys
	}
	for _, k := range keys {
		if k.X == x {
			return k, true
		}
	}
	return KeySlot{}, false
}

// Matches reports whether k is a key the table knows about and the note
// label is one of its spellings. Only used for informational display.
func Matches(k models.KeyDescriptor) bool {
	slot, ok := KeyAt(k.X, k.IsBlack)
	if !ok {
		return false
	}
	for _, n := range slot.Notes {
		if n == k.Note {
			return true
		}
	}
	return false
}
