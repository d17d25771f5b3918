package models

// NoteName is the printable spelling of a pitch class. Sharps use the "#"
// glyph and flats use a lowercase "b"; the same string is the wire encoding
// and the label drawn on the diagram.
type NoteName string

const (
	NoteC  NoteName = "C"
	NoteCs NoteName = "C#"
	NoteDb NoteName = "Db"
	NoteD  NoteName = "D"
	NoteDs NoteName = "D#"
	NoteEb NoteName = "Eb"
	NoteE  NoteName = "E"
	NoteF  NoteName = "F"
	NoteFs NoteName = "F#"
	NoteGb NoteName = "Gb"
	NoteG  NoteName = "G"
	NoteGs NoteName = "G#"
	NoteAb NoteName = "Ab"
	NoteA  NoteName = "A"
	NoteAs NoteName = "A#"
	NoteBb NoteName = "Bb"
	NoteB  NoteName = "B"
)

// NoteNames lists every accepted label in ascending pitch order.
var NoteNames = []NoteName{
	NoteC, NoteCs, NoteDb, NoteD, NoteDs, NoteEb, NoteE, NoteF, NoteFs,
	NoteGb, NoteG, NoteGs, NoteAb, NoteA, NoteAs, NoteBb, NoteB,
}

var pitchClasses = map[NoteName]int{
	NoteC: 0, NoteCs: 1, NoteDb: 1, NoteD: 2, NoteDs: 3, NoteEb: 3,
	NoteE: 4, NoteF: 5, NoteFs: 6, NoteGb: 6, NoteG: 7, NoteGs: 8,
	NoteAb: 8, NoteA: 9, NoteAs: 10, NoteBb: 10, NoteB: 11,
}

// ParseNoteName matches s exactly against the enumerated labels.
func ParseNoteName(s string) (NoteName, bool) {
	n := NoteName(s)
	if _, ok := pitchClasses[n]; !ok {
		return "", false
	}
	return n, true
}

// Valid reports whether n is one of the enumerated labels.
func (n NoteName) Valid() bool {
	_, ok := pitchClasses[n]
	return ok
}

// PitchClass returns 0 for C through 11 for B, or -1 for an unknown label.
func (n NoteName) PitchClass() int {
	if pc, ok := pitchClasses[n]; ok {
		return pc
	}
	return -1
}

// NoteNameStrings returns the labels as plain strings, e.g. for schema enums.
func NoteNameStrings() []string {
	out := make([]string, len(NoteNames))
	for i, n := range NoteNames {
		out[i] = string(n)
	}
	return out
}
