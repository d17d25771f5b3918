package diagram

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo/float"
)

// WriteSVG serialises the image as a standalone SVG document.
func (img Image) WriteSVG(w io.Writer) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(img.Width, img.Height, 0, 0, img.Width, img.Height)
	for _, p := range img.Primitives {
		attrs := p.Style.attrs()
		switch p.Kind {
		case KindRect:
			canvas.Rect(p.X, p.Y, p.Width, p.Height, attrs...)
		case KindCircle:
			canvas.Circle(p.X, p.Y, p.Radius, attrs...)
		case KindText:
			canvas.Text(p.X, p.Y, p.Text, attrs...)
		}
	}
	canvas.End()
	return ew.err
}

// SVG returns the serialised document.
func (img Image) SVG() []byte {
	var buf bytes.Buffer
	// bytes.Buffer never fails.
	_ = img.WriteSVG(&buf)
	return buf.Bytes()
}

func (s Style) attrs() []string {
	var out []string
	if s.Fill != "" {
		out = append(out, fmt.Sprintf("fill=%q", s.Fill))
	}
	if s.FillOpacity > 0 {
		out = append(out, fmt.Sprintf("fill-opacity=\"%s\"", strconv.FormatFloat(s.FillOpacity, 'g', -1, 64)))
	}
	if s.Stroke != "" {
		out = append(out, fmt.Sprintf("stroke=%q", s.Stroke))
	}
	if s.Anchor != "" {
		out = append(out, fmt.Sprintf("text-anchor=%q", s.Anchor))
	}
	if s.FontSize > 0 {
		out = append(out, fmt.Sprintf("font-size=\"%d\"", s.FontSize))
	}
	if s.FontWeight != "" {
		out = append(out, fmt.Sprintf("font-weight=%q", s.FontWeight))
	}
	return out
}

// errWriter keeps the first write error, since the svg canvas drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
