package grid

import "math"

// StampBox adds amount uniformly to every cell in the square bounding box of
// the given radius around (ci, cj), clipped to the domain.
func (f *Field) StampBox(ci, cj, radius int, amount float64) {
	for i := ci - radius; i <= ci+radius; i++ {
		for j := cj - radius; j <= cj+radius; j++ {
			f.AddAt(i, j, amount)
		}
	}
}

// StampGaussian adds a radially weighted amount within the circular radius
// around (ci, cj), falling off as exp(-d^2 / (2*(radius/3)^2)).
func (f *Field) StampGaussian(ci, cj, radius int, amount float64) {
	if radius <= 0 {
		return
	}
	sigma := float64(radius) / 3.0
	for i := ci - radius; i <= ci+radius; i++ {
		for j := cj - radius; j <= cj+radius; j++ {
			di := float64(i - ci)
			dj := float64(j - cj)
			d2 := di*di + dj*dj
			if d2 > float64(radius*radius) {
				continue
			}
			f.AddAt(i, j, amount*math.Exp(-d2/(2*sigma*sigma)))
		}
	}
}
