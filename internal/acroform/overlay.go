package acroform

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/goliatone/go-formfill/pkg/fields"
)

// overlay accumulates content-stream operators that draw field values on top
// of a page. The produced stream is self-contained (wrapped in q/Q) and uses
// a single Type1 Helvetica resource registered under fontName.
type overlay struct {
	buf      bytes.Buffer
	fontName string
}

func newOverlay(fontName string) *overlay {
	return &overlay{fontName: fontName}
}

func (o *overlay) empty() bool {
	return o.buf.Len() == 0
}

func (o *overlay) bytes() []byte {
	if o.empty() {
		return nil
	}
	out := make([]byte, 0, o.buf.Len()+4)
	out = append(out, "q\n"...)
	out = append(out, o.buf.Bytes()...)
	out = append(out, "Q\n"...)
	return out
}

// text draws s in black at baseline (x, y) with the given font size.
func (o *overlay) text(x, y, size float64, s string) {
	if s == "" {
		return
	}
	fmt.Fprintf(&o.buf, "BT /%s %s Tf 0 g %s %s Td (%s) Tj ET\n",
		o.fontName, num(size), num(x), num(y), escapeString(winAnsi(s)))
}

// cross strokes an X across the rectangle, the flattened rendering of a
// checked box.
func (o *overlay) cross(r fields.Rect) {
	width := r.Height() * 0.12
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(&o.buf, "%s w 0 G %s %s m %s %s l S %s %s m %s %s l S\n",
		num(width),
		num(r.LLX+2), num(r.LLY+2), num(r.URX-2), num(r.URY-2),
		num(r.LLX+2), num(r.URY-2), num(r.URX-2), num(r.LLY+2))
}

// drawField renders one widget's current value. Unvalued widgets draw
// nothing; their interactive layer is stripped regardless.
func (o *overlay) drawField(f fields.Field) {
	switch f.Kind {
	case fields.KindText:
		if len(f.Value) == 0 || f.Value[0] == "" {
			return
		}
		size := fitFontSize(f.Rect.Height(), 0.6)
		o.text(f.Rect.LLX+2, baseline(f.Rect, size), size, f.Value[0])

	case fields.KindCheckbox, fields.KindRadio:
		if f.Checked {
			o.cross(f.Rect)
		}

	case fields.KindCombo, fields.KindList:
		if len(f.Value) == 0 {
			return
		}
		displays := make([]string, len(f.Value))
		for i, v := range f.Value {
			displays[i] = f.ExportToDisplay(v)
		}
		if len(displays) == 1 {
			size := fitFontSize(f.Rect.Height(), 0.6)
			o.text(f.Rect.LLX+2, baseline(f.Rect, size), size, displays[0])
			return
		}
		// Multi-select: stack lines from the top edge down.
		lineH := fitFontSize(f.Rect.Height(), 0.45)
		y := f.Rect.URY - lineH - 2
		for _, v := range displays {
			if y < f.Rect.LLY+2 {
				break
			}
			o.text(f.Rect.LLX+2, y, lineH, v)
			y -= lineH + 2
		}
	}
}

// fitFontSize scales a font to the widget height, clamped to 8..12pt.
func fitFontSize(height, factor float64) float64 {
	size := height * factor
	if size > 12 {
		size = 12
	}
	if size < 8 {
		size = 8
	}
	return size
}

// baseline vertically centers a line of the given size inside the rect.
func baseline(r fields.Rect, size float64) float64 {
	return r.LLY + (r.Height()-size)*0.5 + 1
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// winAnsi folds a string onto the WinAnsi code page backing the standard
// Helvetica font; unmappable runes are replaced.
func winAnsi(s string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

// escapeString escapes the delimiters of a PDF literal string.
func escapeString(b []byte) []byte {
	var out []byte
	for _, c := range b {
		switch c {
		case '(', ')', '\\':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		default:
			out = append(out, c)
		}
	}
	return out
}
