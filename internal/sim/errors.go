package sim

import "errors"

var (
	// ErrInvalidConfig indicates run settings that cannot be executed.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrDiverged indicates a particle state became NaN or Inf.
	ErrDiverged = errors.New("sim: particle state diverged")
)
