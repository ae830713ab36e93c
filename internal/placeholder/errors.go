package placeholder

import "errors"

// ErrCycle is returned when a placeholder refers back to a key that is still
// being resolved.
var ErrCycle = errors.New("placeholder cycle")
