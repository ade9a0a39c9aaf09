package grid

import (
	"math"
	"testing"
)

func TestAtOutOfRange(t *testing.T) {
	f := NewUniform(4, 4, 2.0)

	tests := []struct {
		name string
		i, j int
		want float64
	}{
		{"interior", 1, 2, 2.0},
		{"negative i", -1, 0, 0},
		{"negative j", 0, -1, 0},
		{"i too large", 4, 0, 0},
		{"j too large", 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.At(tt.i, tt.j); got != tt.want {
				t.Errorf("At(%d,%d) = %v, want %v", tt.i, tt.j, got, tt.want)
			}
		})
	}
}

func TestSetOutOfRangeIgnored(t *testing.T) {
	f := New(3, 3)
	f.Set(-1, 0, 5)
	f.Set(0, 3, 5)
	if f.Sum() != 0 {
		t.Error("out-of-range Set should be a no-op")
	}
}

func TestClamp(t *testing.T) {
	f := New(2, 2)
	f.Set(0, 0, -3)
	f.Set(0, 1, 0.5)
	f.Set(1, 0, 100)
	f.Clamp(0, 20)

	if f.At(0, 0) != 0 {
		t.Errorf("expected low clamp to 0, got %v", f.At(0, 0))
	}
	if f.At(0, 1) != 0.5 {
		t.Errorf("in-range value changed: %v", f.At(0, 1))
	}
	if f.At(1, 0) != 20 {
		t.Errorf("expected high clamp to 20, got %v", f.At(1, 0))
	}
}

func TestMeanAndFraction(t *testing.T) {
	f := New(2, 2)
	f.Set(0, 0, 1)
	f.Set(0, 1, 3)
	f.Set(1, 0, 5)
	f.Set(1, 1, 7)

	if got := f.Mean(); math.Abs(got-4.0) > 1e-12 {
		t.Errorf("Mean = %v, want 4", got)
	}
	if got := f.FractionBelow(4.0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("FractionBelow(4) = %v, want 0.5", got)
	}
}

func TestLaplacianUniformFieldIsZero(t *testing.T) {
	f := NewUniform(5, 5, 3.7)
	if got := f.Laplacian(2, 2, 1.0, 1.0); math.Abs(got) > 1e-12 {
		t.Errorf("Laplacian of uniform field = %v, want 0", got)
	}
}

func TestStampBoxClipsAtEdges(t *testing.T) {
	f := New(4, 4)
	f.StampBox(0, 0, 1, 2.0)

	// 2x2 corner covered, the rest of the box falls outside.
	if got := f.Sum(); math.Abs(got-8.0) > 1e-12 {
		t.Errorf("Sum = %v, want 8", got)
	}
	if f.At(2, 2) != 0 {
		t.Error("cell outside box modified")
	}
}

func TestStampGaussianPeaksAtCenter(t *testing.T) {
	f := New(11, 11)
	f.StampGaussian(5, 5, 3, 1.0)

	center := f.At(5, 5)
	if math.Abs(center-1.0) > 1e-12 {
		t.Errorf("center weight = %v, want 1", center)
	}
	if f.At(5, 6) >= center {
		t.Error("falloff should decrease away from center")
	}
	if f.At(5, 9) != 0 {
		t.Error("cells beyond the radius should be untouched")
	}
}

func TestUpwindAdvectZeroVelocityIsIdentity(t *testing.T) {
	c := New(6, 6)
	c.Set(3, 3, 10)
	u := New(6, 6)
	v := New(6, 6)

	out := UpwindAdvect(c, u, v, 0.1, 1.0, 1.0)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if out.At(i, j) != c.At(i, j) {
				t.Fatalf("cell (%d,%d) changed with zero velocity", i, j)
			}
		}
	}
}

func TestUpwindAdvectMovesDownstream(t *testing.T) {
	c := New(8, 8)
	c.Set(3, 4, 10)
	u := NewUniform(8, 8, 1.0)
	v := New(8, 8)

	out := UpwindAdvect(c, u, v, 0.5, 1.0, 1.0)

	// Positive u drains the peak and feeds the cell to its east.
	if out.At(3, 4) >= c.At(3, 4) {
		t.Error("peak should lose mass under positive u")
	}
	if out.At(4, 4) <= 0 {
		t.Error("downstream cell should gain mass")
	}
}

func TestDiffuseSmoothsPeak(t *testing.T) {
	c := New(7, 7)
	c.Set(3, 3, 100)

	out := Diffuse(c, 0.1, 1.0, 1.0, 1.0)
	if out.At(3, 3) >= 100 {
		t.Error("peak should decrease")
	}
	if out.At(3, 4) <= 0 {
		t.Error("neighbors should increase")
	}
}
