package render

import "time"

// Container receives the elements a chart creates. Keys are stable across
// re-renders so an element keeps its identity when data is re-bound.
type Container interface {
	Upsert(key string) (el *Element, created bool)
	Retain(keys map[string]struct{})
}

// Element is one bubble: a translated group holding a circle and a label.
type Element struct {
	Key          string
	X, Y         float64
	Radius       float64
	TargetRadius float64
	Fill         string
	Stroke       string
	StrokeWidth  float64
	Label        string
	FontSize     float64
	Opacity      float64

	entrance *entrance
}

// MoveTo sets the element's translate transform.
func (e *Element) MoveTo(x, y float64) {
	e.X = x
	e.Y = y
}

// Animating reports whether the entrance animation is still running.
func (e *Element) Animating() bool { return e.entrance != nil }

// ElementState is a value copy of an element, safe to hand to another
// goroutine.
type ElementState struct {
	Key         string  `json:"key"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"r"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Label       string  `json:"label"`
	FontSize    float64 `json:"fontSize"`
	Opacity     float64 `json:"opacity"`
}

func (e *Element) State() ElementState {
	return ElementState{
		Key:         e.Key,
		X:           e.X,
		Y:           e.Y,
		Radius:      e.Radius,
		Fill:        e.Fill,
		Stroke:      e.Stroke,
		StrokeWidth: e.StrokeWidth,
		Label:       e.Label,
		FontSize:    e.FontSize,
		Opacity:     e.Opacity,
	}
}

type Scene struct {
	Width, Height float64
	elements      []*Element
	byKey         map[string]*Element
}

func NewScene(width, height float64) *Scene {
	return &Scene{
		Width:    width,
		Height:   height,
		elements: make([]*Element, 0),
		byKey:    make(map[string]*Element),
	}
}

func (s *Scene) Upsert(key string) (*Element, bool) {
	if el, ok := s.byKey[key]; ok {
		return el, false
	}
	el := &Element{Key: key, Opacity: 1}
	s.elements = append(s.elements, el)
	s.byKey[key] = el
	return el, true
}

// Retain drops every element whose key is not in keys.
func (s *Scene) Retain(keys map[string]struct{}) {
	kept := s.elements[:0]
	for _, el := range s.elements {
		if _, ok := keys[el.Key]; ok {
			kept = append(kept, el)
			continue
		}
		delete(s.byKey, el.Key)
	}
	for i := len(kept); i < len(s.elements); i++ {
		s.elements[i] = nil
	}
	s.elements = kept
}

func (s *Scene) Element(key string) (*Element, bool) {
	el, ok := s.byKey[key]
	return el, ok
}

func (s *Scene) Elements() []*Element { return s.elements }
func (s *Scene) Len() int             { return len(s.elements) }

// Advance moves every entrance animation forward by dt and reports whether
// any is still running.
func (s *Scene) Advance(dt time.Duration) bool {
	active := false
	for _, el := range s.elements {
		if el.Advance(dt) {
			active = true
		}
	}
	return active
}

// Snapshot copies the current element states.
func (s *Scene) Snapshot() []ElementState {
	out := make([]ElementState, len(s.elements))
	for i, el := range s.elements {
		out[i] = el.State()
	}
	return out
}
