package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

type svgOptions struct {
	title      string
	background string
	fontFamily string
}

// SVGOption configures WriteSVG.
type SVGOption func(*svgOptions)

func WithTitle(title string) SVGOption {
	return func(o *svgOptions) { o.title = title }
}

// WithBackground fills the canvas with color. An empty color leaves it
// transparent.
func WithBackground(color string) SVGOption {
	return func(o *svgOptions) { o.background = color }
}

func WithFontFamily(family string) SVGOption {
	return func(o *svgOptions) { o.fontFamily = family }
}

// WriteSVG writes one SVG document with a group per element: a circle of the
// element's radius and a centered label, translated to the element's
// position.
func WriteSVG(w io.Writer, width, height int, elems []ElementState, opts ...SVGOption) {
	o := svgOptions{background: "#ffffff", fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&o)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	if o.title != "" {
		canvas.Title(o.title)
	}
	if o.background != "" {
		canvas.Rect(0, 0, width, height, "fill:"+o.background)
	}

	canvas.Gid("bubbles")
	for _, e := range elems {
		canvas.Group(
			`class="bubble"`,
			fmt.Sprintf(`data-key="%s"`, EscapeXML(e.Key)),
			fmt.Sprintf(`transform="translate(%.2f,%.2f)"`, e.X, e.Y),
		)
		canvas.Circle(0, 0, int(math.Round(e.Radius)),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", e.Fill, e.Stroke, e.StrokeWidth))
		if e.Label != "" {
			canvas.Text(0, 0, e.Label, fmt.Sprintf(
				"font-family:%s;font-size:%.1fpx;text-anchor:middle;dominant-baseline:central;fill-opacity:%.2f",
				o.fontFamily, e.FontSize, e.Opacity))
		}
		canvas.Gend()
	}
	canvas.Gend()
	canvas.End()
}
