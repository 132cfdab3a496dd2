package sim

import "errors"

// ErrInvalidConfig indicates a simulation parameter outside its valid range.
var ErrInvalidConfig = errors.New("sim: invalid config")
