package sph

import "errors"

// ErrInvalidParams indicates solver constants that cannot produce a
// meaningful simulation.
var ErrInvalidParams = errors.New("sph: invalid parameters")
