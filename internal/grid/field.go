package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a 2D scalar grid over an nx x ny index space, stored as a flat
// row-major buffer (index i*ny+j) so element-wise passes stay contiguous.
type Field struct {
	Nx, Ny int
	data   []float64
}

func New(nx, ny int) *Field {
	return &Field{Nx: nx, Ny: ny, data: make([]float64, nx*ny)}
}

func NewUniform(nx, ny int, v float64) *Field {
	f := New(nx, ny)
	f.Fill(v)
	return f
}

// At returns the value at (i, j). Out-of-range indices read as zero.
func (f *Field) At(i, j int) float64 {
	if i < 0 || i >= f.Nx || j < 0 || j >= f.Ny {
		return 0
	}
	return f.data[i*f.Ny+j]
}

// Set writes the value at (i, j). Out-of-range indices are ignored.
func (f *Field) Set(i, j int, v float64) {
	if i < 0 || i >= f.Nx || j < 0 || j >= f.Ny {
		return
	}
	f.data[i*f.Ny+j] = v
}

// AddAt adds v to the value at (i, j). Out-of-range indices are ignored.
func (f *Field) AddAt(i, j int, v float64) {
	if i < 0 || i >= f.Nx || j < 0 || j >= f.Ny {
		return
	}
	f.data[i*f.Ny+j] += v
}

// Data exposes the underlying buffer for element-wise math.
func (f *Field) Data() []float64 { return f.data }

func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

func (f *Field) Clone() *Field {
	c := New(f.Nx, f.Ny)
	copy(c.data, f.data)
	return c
}

// CopyFrom copies values from src. Shapes must match; mismatched shapes are
// a caller bug and the copy is skipped.
func (f *Field) CopyFrom(src *Field) {
	if src == nil || src.Nx != f.Nx || src.Ny != f.Ny {
		return
	}
	copy(f.data, src.data)
}

// AddScaled adds s*src element-wise.
func (f *Field) AddScaled(s float64, src *Field) {
	if src == nil || len(src.data) != len(f.data) {
		return
	}
	floats.AddScaled(f.data, s, src.data)
}

func (f *Field) Scale(s float64) {
	floats.Scale(s, f.data)
}

// AddConst adds c to every cell.
func (f *Field) AddConst(c float64) {
	floats.AddConst(c, f.data)
}

func (f *Field) Sum() float64 {
	return floats.Sum(f.data)
}

func (f *Field) Mean() float64 {
	if len(f.data) == 0 {
		return 0
	}
	return floats.Sum(f.data) / float64(len(f.data))
}

func (f *Field) Max() float64 {
	if len(f.data) == 0 {
		return 0
	}
	return floats.Max(f.data)
}

// MaxAbs returns the largest absolute value in the field.
func (f *Field) MaxAbs() float64 {
	m := 0.0
	for _, v := range f.data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// Rows returns a copy of the field as row slices indexed [i][j].
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.Nx)
	for i := 0; i < f.Nx; i++ {
		rows[i] = make([]float64, f.Ny)
		copy(rows[i], f.data[i*f.Ny:(i+1)*f.Ny])
	}
	return rows
}

// Clamp limits every value to [lo, hi].
func (f *Field) Clamp(lo, hi float64) {
	for i, v := range f.data {
		if v < lo {
			f.data[i] = lo
		} else if v > hi {
			f.data[i] = hi
		}
	}
}

// FractionBelow reports the fraction of cells with value strictly below
// the threshold.
func (f *Field) FractionBelow(threshold float64) float64 {
	if len(f.data) == 0 {
		return 0
	}
	n := 0
	for _, v := range f.data {
		if v < threshold {
			n++
		}
	}
	return float64(n) / float64(len(f.data))
}

// Laplacian evaluates the 5-point stencil at an interior cell.
func (f *Field) Laplacian(i, j int, dx, dy float64) float64 {
	c := f.data[i*f.Ny+j]
	ddx := (f.At(i+1, j) - 2*c + f.At(i-1, j)) / (dx * dx)
	ddy := (f.At(i, j+1) - 2*c + f.At(i, j-1)) / (dy * dy)
	return ddx + ddy
}
