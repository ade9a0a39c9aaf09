package grid

// UpwindAdvect transports a cell-centered tracer by the cell-centered
// velocity field (u, v) over one step of dt seconds, sampling the upstream
// neighbor based on local flow direction. Edge cells are left in place; the
// reflective walls carry zero velocity.
func UpwindAdvect(c, u, v *Field, dt, dx, dy float64) *Field {
	out := c.Clone()
	for i := 1; i < c.Nx-1; i++ {
		for j := 1; j < c.Ny-1; j++ {
			uc := u.At(i, j)
			vc := v.At(i, j)
			cc := c.At(i, j)

			var dcdx float64
			if uc > 0 {
				dcdx = (cc - c.At(i-1, j)) / dx
			} else {
				dcdx = (c.At(i+1, j) - cc) / dx
			}

			var dcdy float64
			if vc > 0 {
				dcdy = (cc - c.At(i, j-1)) / dy
			} else {
				dcdy = (c.At(i, j+1) - cc) / dy
			}

			out.Set(i, j, cc-dt*(uc*dcdx+vc*dcdy))
		}
	}
	return out
}

// Diffuse applies one explicit step of 5-point Laplacian diffusion with
// diffusivity k over dt seconds. Interior cells only.
func Diffuse(c *Field, k, dt, dx, dy float64) *Field {
	out := c.Clone()
	for i := 1; i < c.Nx-1; i++ {
		for j := 1; j < c.Ny-1; j++ {
			out.Set(i, j, c.At(i, j)+dt*k*c.Laplacian(i, j, dx, dy))
		}
	}
	return out
}
