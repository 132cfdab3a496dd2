package dataset

import "errors"

var (
	ErrLoad              = errors.New("dataset: load failed")
	ErrUnsupportedFormat = errors.New("dataset: unsupported format")
)
