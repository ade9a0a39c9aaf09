package hydro

import "errors"

var (
	// ErrGridShape indicates a domain too small to carry the staggered stencils.
	ErrGridShape = errors.New("hydro: grid must be at least 3x3")

	// ErrPhysicalParam indicates non-positive depth, extent, or viscosity.
	ErrPhysicalParam = errors.New("hydro: domain size, depth, and viscosity must be positive")
)
