// Package hydro integrates the 2D shallow-water equations on an Arakawa
// C-grid: velocity components live on cell faces, surface elevation at cell
// centers. The staggering keeps the pressure-gradient and divergence
// operators centered.
package hydro

import (
	"math"

	"github.com/hydroeco/hydrosim/internal/grid"
)

const (
	gravity = 9.81

	// CFL safety factor applied to the linear wave-speed bound.
	cflFactor = 0.5

	// Velocity floor for the CFL bound when the field is at rest.
	minSpeed = 0.1

	maxVelocity  = 5.0 // m/s
	maxElevation = 2.0 // m
)

// Solver advances face-staggered velocities and cell-centered surface
// elevation through advection, pressure gradient, eddy viscosity, and mass
// continuity, sub-cycling as required by the CFL bound.
type Solver struct {
	Nx, Ny int
	Lx, Ly float64

	dx, dy    float64
	meanDepth float64
	viscosity float64

	u   *grid.Field // (nx+1) x ny, x-face velocities
	v   *grid.Field // nx x (ny+1), y-face velocities
	eta *grid.Field // nx x ny, elevation above mean depth
	h   *grid.Field // nx x ny, total depth h0 + eta
}

// New allocates a solver for an nx x ny domain of physical size lx x ly
// meters. Non-positive depth, spacing, or viscosity is a construction-time
// precondition violation.
func New(nx, ny int, lx, ly, meanDepth, viscosity float64) (*Solver, error) {
	if nx < 3 || ny < 3 {
		return nil, ErrGridShape
	}
	if lx <= 0 || ly <= 0 || meanDepth <= 0 || viscosity <= 0 {
		return nil, ErrPhysicalParam
	}
	s := &Solver{
		Nx: nx, Ny: ny,
		Lx: lx, Ly: ly,
		dx:        lx / float64(nx),
		dy:        ly / float64(ny),
		meanDepth: meanDepth,
		viscosity: viscosity,
		u:         grid.New(nx+1, ny),
		v:         grid.New(nx, ny+1),
		eta:       grid.New(nx, ny),
		h:         grid.NewUniform(nx, ny, meanDepth),
	}
	return s, nil
}

// StableTimestep returns the largest timestep the explicit scheme tolerates
// for the current state. Any larger requested step must be sub-cycled.
func (s *Solver) StableTimestep() float64 {
	c := math.Sqrt(gravity * s.h.Max())
	uMax := math.Max(s.u.MaxAbs(), minSpeed)
	vMax := math.Max(s.v.MaxAbs(), minSpeed)
	return cflFactor * math.Min(s.dx/(uMax+c), s.dy/(vMax+c))
}

// Update advances the solver by dt seconds, splitting into equal sub-steps
// whenever dt exceeds the stability bound.
func (s *Solver) Update(dt float64) {
	if dt <= 0 {
		return
	}
	n := 1
	if dtMax := s.StableTimestep(); dt > dtMax {
		n = int(math.Ceil(dt / dtMax))
	}
	sub := dt / float64(n)
	for k := 0; k < n; k++ {
		s.substep(sub)
	}
}

func (s *Solver) substep(dt float64) {
	s.advect(dt)
	s.pressureGradient(dt)
	s.diffuse(dt)
	s.continuity(dt)
	s.applyWalls()

	// Refresh depth and clamp after every sub-step so that one update split
	// into n sub-steps is bit-for-bit the same as n separate updates.
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			s.h.Set(i, j, s.meanDepth+s.eta.At(i, j))
		}
	}
	s.u.Clamp(-maxVelocity, maxVelocity)
	s.v.Clamp(-maxVelocity, maxVelocity)
}

// advect performs upwind self-advection of each velocity component, with the
// cross component interpolated from the opposite staggered array by 4-point
// averaging.
func (s *Solver) advect(dt float64) {
	newU := s.u.Clone()
	newV := s.v.Clone()

	for i := 1; i < s.Nx; i++ {
		for j := 1; j < s.Ny-1; j++ {
			uc := s.u.At(i, j)
			// x-face i sits between cells i-1 and i.
			vc := 0.25 * (s.v.At(i-1, j) + s.v.At(i-1, j+1) + s.v.At(i, j) + s.v.At(i, j+1))

			var dudx, dudy float64
			if uc > 0 {
				dudx = (uc - s.u.At(i-1, j)) / s.dx
			} else {
				dudx = (s.u.At(i+1, j) - uc) / s.dx
			}
			if vc > 0 {
				dudy = (uc - s.u.At(i, j-1)) / s.dy
			} else {
				dudy = (s.u.At(i, j+1) - uc) / s.dy
			}
			newU.Set(i, j, uc-dt*(uc*dudx+vc*dudy))
		}
	}

	for i := 1; i < s.Nx-1; i++ {
		for j := 1; j < s.Ny; j++ {
			vc := s.v.At(i, j)
			// y-face j sits between cells j-1 and j.
			uc := 0.25 * (s.u.At(i, j-1) + s.u.At(i+1, j-1) + s.u.At(i, j) + s.u.At(i+1, j))

			var dvdx, dvdy float64
			if uc > 0 {
				dvdx = (vc - s.v.At(i-1, j)) / s.dx
			} else {
				dvdx = (s.v.At(i+1, j) - vc) / s.dx
			}
			if vc > 0 {
				dvdy = (vc - s.v.At(i, j-1)) / s.dy
			} else {
				dvdy = (s.v.At(i, j+1) - vc) / s.dy
			}
			newV.Set(i, j, vc-dt*(uc*dvdx+vc*dvdy))
		}
	}

	s.u = newU
	s.v = newV
}

// pressureGradient applies -g * grad(eta) as centered differences across
// each interior face.
func (s *Solver) pressureGradient(dt float64) {
	for i := 1; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			dedx := (s.eta.At(i, j) - s.eta.At(i-1, j)) / s.dx
			s.u.AddAt(i, j, -dt*gravity*dedx)
		}
	}
	for i := 0; i < s.Nx; i++ {
		for j := 1; j < s.Ny; j++ {
			dedy := (s.eta.At(i, j) - s.eta.At(i, j-1)) / s.dy
			s.v.AddAt(i, j, -dt*gravity*dedy)
		}
	}
}

func (s *Solver) diffuse(dt float64) {
	newU := s.u.Clone()
	for i := 1; i < s.Nx; i++ {
		for j := 1; j < s.Ny-1; j++ {
			newU.AddAt(i, j, dt*s.viscosity*s.u.Laplacian(i, j, s.dx, s.dy))
		}
	}
	newV := s.v.Clone()
	for i := 1; i < s.Nx-1; i++ {
		for j := 1; j < s.Ny; j++ {
			newV.AddAt(i, j, dt*s.viscosity*s.v.Laplacian(i, j, s.dx, s.dy))
		}
	}
	s.u = newU
	s.v = newV
}

// continuity updates elevation from the divergence of the depth flux, using
// the cell-centered depth at both faces.
func (s *Solver) continuity(dt float64) {
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			hc := s.h.At(i, j)
			dhu := hc * (s.u.At(i+1, j) - s.u.At(i, j)) / s.dx
			dhv := hc * (s.v.At(i, j+1) - s.v.At(i, j)) / s.dy
			s.eta.AddAt(i, j, -dt*(dhu+dhv))
		}
	}
	s.eta.Clamp(-maxElevation, maxElevation)
}

// applyWalls enforces the reflective boundary: zero velocity on all four
// domain edges, rewritten every sub-step.
func (s *Solver) applyWalls() {
	for j := 0; j < s.Ny; j++ {
		s.u.Set(0, j, 0)
		s.u.Set(s.Nx, j, 0)
	}
	for i := 0; i <= s.Nx; i++ {
		s.u.Set(i, 0, 0)
		s.u.Set(i, s.Ny-1, 0)
	}
	for i := 0; i < s.Nx; i++ {
		s.v.Set(i, 0, 0)
		s.v.Set(i, s.Ny, 0)
	}
	for j := 0; j <= s.Ny; j++ {
		s.v.Set(0, j, 0)
		s.v.Set(s.Nx-1, j, 0)
	}
}

// FlowAt interpolates the staggered components to the center of cell (i, j).
// Out-of-range indices return a zero vector.
func (s *Solver) FlowAt(i, j int) (float64, float64) {
	if i < 0 || i >= s.Nx || j < 0 || j >= s.Ny {
		return 0, 0
	}
	uc := 0.5 * (s.u.At(i, j) + s.u.At(i+1, j))
	vc := 0.5 * (s.v.At(i, j) + s.v.At(i, j+1))
	return uc, vc
}

// VelocityField returns cell-centered copies of both velocity components.
func (s *Solver) VelocityField() (*grid.Field, *grid.Field) {
	uc := grid.New(s.Nx, s.Ny)
	vc := grid.New(s.Nx, s.Ny)
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			uc.Set(i, j, 0.5*(s.u.At(i, j)+s.u.At(i+1, j)))
			vc.Set(i, j, 0.5*(s.v.At(i, j)+s.v.At(i, j+1)))
		}
	}
	return uc, vc
}

// InjectMomentum adds a uniform impulse to every face velocity within the
// square bounding box of the given radius around (i, j).
func (s *Solver) InjectMomentum(i, j, radius int, du, dv float64) {
	s.u.StampBox(i, j, radius, du)
	s.v.StampBox(i, j, radius, dv)
}

// Elevation returns the surface elevation grid.
func (s *Solver) Elevation() *grid.Field { return s.eta }

// Depth returns the total depth grid.
func (s *Solver) Depth() *grid.Field { return s.h }

// U returns the raw x-face velocity grid.
func (s *Solver) U() *grid.Field { return s.u }

// V returns the raw y-face velocity grid.
func (s *Solver) V() *grid.Field { return s.v }
