package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run       RunMetadata      `json:"run"`
	Positions []ExportPosition `json:"positions"`
}

type ExportPosition struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Theme  string  `json:"theme"`
	Tag    string  `json:"tag,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
}

// ExportJSON writes a saved run and its positions as one indented JSON
// document.
func ExportJSON(w io.Writer, meta RunMetadata, positions []Position) error {
	data := ExportData{
		Run:       meta,
		Positions: make([]ExportPosition, len(positions)),
	}
	for i, p := range positions {
		data.Positions[i] = ExportPosition(p)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
