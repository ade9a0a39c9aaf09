package biogeo

import "errors"

var (
	// ErrGridShape indicates a domain too small for the transport stencils.
	ErrGridShape = errors.New("biogeo: grid must be at least 3x3")

	// ErrPhysicalParam indicates a non-positive domain extent.
	ErrPhysicalParam = errors.New("biogeo: domain size must be positive")
)
