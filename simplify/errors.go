package simplify

import "errors"

// ErrInvalidRate is returned when Simplify is called with a rate outside
// the closed interval [0, 1].
var ErrInvalidRate = errors.New("simplify: rate must be in [0, 1]")
