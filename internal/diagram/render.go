// Package diagram draws a ChordQuiz as a two-octave keyboard.
package diagram

import (
	"strconv"

	"github.com/vytor/chordflash/internal/models"
)

type Kind int

const (
	KindRect Kind = iota
	KindCircle
	KindText
)

// Role tells what a primitive stands for in the picture.
type Role int

const (
	RoleWhiteKey Role = iota
	RoleBlackKey
	RoleHighlight
	RoleFingerBadge
	RoleFingerLabel
	RoleNoteLabel
	RoleTitle
)

func (r Role) String() string {
	switch r {
	case RoleWhiteKey:
		return "white-key"
	case RoleBlackKey:
		return "black-key"
	case RoleHighlight:
		return "highlight"
	case RoleFingerBadge:
		return "finger-badge"
	case RoleFingerLabel:
		return "finger-label"
	case RoleNoteLabel:
		return "note-label"
	case RoleTitle:
		return "title"
	default:
		return "unknown"
	}
}

// Style holds presentation attributes. Zero values are omitted.
type Style struct {
	Fill        string
	FillOpacity float64
	Stroke      string
	FontSize    int
	FontWeight  string
	Anchor      string
}

// Primitive is one drawing instruction. Rects use X/Y as top-left corner,
// circles and texts use them as centre and anchor point.
type Primitive struct {
	Kind   Kind
	Role   Role
	X      float64
	Y      float64
	Width  float64
	Height float64
	Radius float64
	Text   string
	Style  Style
}

// Image is an ordered list of primitives on a fixed canvas.
type Image struct {
	Width      float64
	Height     float64
	Primitives []Primitive
}

const (
	highlightFill    = "#87CEEB"
	highlightOpacity = 0.5
	badgeRadius      = 15
	titleY           = 15
)

var (
	whiteKeyStyle  = Style{Fill: "white", Stroke: "black"}
	blackKeyStyle  = Style{Fill: "black"}
	highlightStyle = Style{Fill: highlightFill, FillOpacity: highlightOpacity, Stroke: "black"}
	badgeStyle     = Style{Fill: "white", Stroke: "black"}
	fingerStyle    = Style{Fill: "black", FontSize: 16, Anchor: "middle"}
	noteStyle      = Style{Fill: "black", FontSize: 14, Anchor: "middle"}
	titleStyle     = Style{Fill: "black", FontSize: 18, FontWeight: "bold", Anchor: "middle"}
)

// Render lays out q on the keyboard. The background is always the full
// keyboard; each key of q adds a highlight, a finger badge with its number
// and a note label, in the order the keys are listed. Coordinates are used
// as given, even when they fall off the keyboard.
func Render(q models.ChordQuiz) Image {
	img := Image{
		Width:      CanvasWidth,
		Height:     CanvasHeight,
		Primitives: make([]Primitive, 0, len(whiteKeys)+len(blackKeys)+4*len(q.Keys)+1),
	}

	for _, k := range whiteKeys {
		img.add(Primitive{
			Kind: KindRect, Role: RoleWhiteKey,
			X: float64(k.X), Y: KeyTop, Width: WhiteKeyWidth, Height: WhiteKeyHeight,
			Style: whiteKeyStyle,
		})
	}
	for _, k := range blackKeys {
		img.add(Primitive{
			Kind: KindRect, Role: RoleBlackKey,
			X: float64(k.X), Y: KeyTop, Width: BlackKeyWidth, Height: BlackKeyHeight,
			Style: blackKeyStyle,
		})
	}

	for _, k := range q.Keys {
		img.addKey(k)
	}

	img.add(Primitive{
		Kind: KindText, Role: RoleTitle,
		X: CanvasWidth / 2.0, Y: titleY,
		Text:  q.ChordName,
		Style: titleStyle,
	})
	return img
}

func (img *Image) addKey(k models.KeyDescriptor) {
	x := float64(k.X)
	width, height := float64(WhiteKeyWidth), float64(WhiteKeyHeight)
	badgeY, noteY := 150.0, 50.0
	if k.IsBlack {
		width, height = BlackKeyWidth, BlackKeyHeight
		badgeY, noteY = 90, 40
	}
	cx := x + width/2

	img.add(Primitive{
		Kind: KindRect, Role: RoleHighlight,
		X: x, Y: KeyTop, Width: width, Height: height,
		Style: highlightStyle,
	})
	img.add(Primitive{
		Kind: KindCircle, Role: RoleFingerBadge,
		X: cx, Y: badgeY, Radius: badgeRadius,
		Style: badgeStyle,
	})
	img.add(Primitive{
		Kind: KindText, Role: RoleFingerLabel,
		X: cx, Y: badgeY + 5,
		Text:  strconv.Itoa(k.Finger),
		Style: fingerStyle,
	})
	img.add(Primitive{
		Kind: KindText, Role: RoleNoteLabel,
		X: cx, Y: noteY,
		Text:  string(k.Note),
		Style: noteStyle,
	})
}

func (img *Image) add(p Primitive) {
	img.Primitives = append(img.Primitives, p)
}

// ByRole returns the primitives with the given role, in drawing order.
func (img Image) ByRole(role Role) []Primitive {
	var out []Primitive
	for _, p := range img.Primitives {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// Count returns how many primitives have the given role.
func (img Image) Count(role Role) int {
	n := 0
	for _, p := range img.Primitives {
		if p.Role == role {
			n++
		}
	}
	return n
}
