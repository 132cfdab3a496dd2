package render

import (
	"math"
	"testing"
)

func TestFitFontSize(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		label  string
		want   float64
	}{
		{"short label capped at diameter", 22, "Go", 44},
		{"long label shrinks", 22, "Kubernetes", 36.0 / 88.0 * 24},
		{"empty label", 10, "", 20},
		{"tiny circle", 3, "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitFontSize(tt.radius, tt.label)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FitFontSize(%v, %q) = %v, want %v", tt.radius, tt.label, got, tt.want)
			}
		})
	}
}

func TestFitFontSizeNeverExceedsDiameter(t *testing.T) {
	for _, r := range []float64{5, 10, 22, 50, 100} {
		for _, label := range []string{"a", "ab", "hello world", "数据"} {
			if got := FitFontSize(r, label); got > 2*r {
				t.Errorf("FitFontSize(%v, %q) = %v exceeds diameter", r, label, got)
			}
		}
	}
}

func TestTextWidthCountsWideRunes(t *testing.T) {
	narrow := TextWidth("ab", 10)
	wide := TextWidth("数据", 10)
	if wide != 2*narrow {
		t.Errorf("wide width %v, want %v", wide, 2*narrow)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a<b & "c"`); got != "a&lt;b &amp; &#34;c&#34;" {
		t.Errorf("got %q", got)
	}
}
