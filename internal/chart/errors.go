package chart

import "errors"

var (
	ErrInvalidConfig = errors.New("chart: invalid config")
	ErrNoContainer   = errors.New("chart: nil container")
)
