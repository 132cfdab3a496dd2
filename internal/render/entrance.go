package render

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultEntranceDuration matches the grow-in used when a chart first binds
// its data.
const DefaultEntranceDuration = 2 * time.Second

type entrance struct {
	radius  *gween.Tween
	opacity *gween.Tween
}

// Enter resets the element to zero radius and transparent label and starts
// tweening both toward their targets over d. A non-positive d shows the
// element at its final size immediately.
func (e *Element) Enter(d time.Duration) {
	if d <= 0 {
		e.Radius = e.TargetRadius
		e.Opacity = 1
		e.entrance = nil
		return
	}
	secs := float32(d.Seconds())
	e.Radius = 0
	e.Opacity = 0
	e.entrance = &entrance{
		radius:  gween.New(0, float32(e.TargetRadius), secs, ease.InOutCubic),
		opacity: gween.New(0, 1, secs, ease.InOutCubic),
	}
}

// Advance moves the entrance animation forward by dt and reports whether it
// is still running.
func (e *Element) Advance(dt time.Duration) bool {
	if e.entrance == nil {
		return false
	}
	secs := float32(dt.Seconds())
	r, rDone := e.entrance.radius.Update(secs)
	o, oDone := e.entrance.opacity.Update(secs)
	e.Radius = float64(r)
	e.Opacity = float64(o)
	if rDone && oDone {
		e.Radius = e.TargetRadius
		e.Opacity = 1
		e.entrance = nil
		return false
	}
	return true
}
