package render

import (
	"bytes"
	"encoding/xml"
	"math"

	"github.com/mattn/go-runewidth"
)

const (
	labelMargin    = 8.0
	labelMeasureAt = 16.0
	labelScale     = 24.0
	fontCharWidth  = 0.55
)

// TextWidth estimates the rendered width of label at fontSize from its
// terminal cell width, so wide glyphs count double.
func TextWidth(label string, fontSize float64) float64 {
	return float64(runewidth.StringWidth(label)) * fontSize * fontCharWidth
}

// FitFontSize sizes a label to sit inside a circle of the given radius:
// never larger than the diameter, and shrunk so the measured text spans the
// diameter less a margin.
func FitFontSize(radius float64, label string) float64 {
	d := 2 * radius
	w := TextWidth(label, labelMeasureAt)
	if w <= 0 {
		return math.Max(0, d)
	}
	return math.Max(0, math.Min(d, (d-labelMargin)/w*labelScale))
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
