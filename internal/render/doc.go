// Package render holds the retained scene a chart draws into and the
// backends that turn it into output.
//
//   - [Scene]: keyed elements, one per bubble (group, circle, label)
//   - [Palette]: category to color lookup with a fallback color
//   - [WriteSVG]: SVG document via svgo
//   - [Canvas]: Braille canvas for terminal output
//
// Elements carry an entrance animation (radius and label opacity tweened
// from zero) advanced by the host's frame time through [Scene.Advance].
package render
