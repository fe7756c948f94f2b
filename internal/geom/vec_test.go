package geom

import (
	"math"
	"testing"
)

func TestRotateQuarterTurn(t *testing.T) {
	got := V(1, 0).Rotate(math.Pi / 2)
	if !got.ApproxEqual(V(0, 1), 1e-12) {
		t.Errorf("Rotate(pi/2) = %+v, want (0,1)", got)
	}
}

func TestRotatePreservesLengthAndDot(t *testing.T) {
	dir := V(1, 0)
	plane := V(0, -0.66)
	for _, deg := range []float64{2.5, -2.5, 45, 90, 179, 360, -721} {
		rad := deg * math.Pi / 180
		d := dir.Rotate(rad)
		p := plane.Rotate(rad)
		if math.Abs(d.Len()-1) > 1e-12 {
			t.Errorf("deg %v: direction length %v", deg, d.Len())
		}
		if math.Abs(p.Len()-0.66) > 1e-12 {
			t.Errorf("deg %v: plane length %v", deg, p.Len())
		}
		if math.Abs(d.Dot(p)) > 1e-12 {
			t.Errorf("deg %v: dot %v, want 0", deg, d.Dot(p))
		}
	}
}

func TestFloorNegative(t *testing.T) {
	x, y := V(-0.5, 2.99).Floor()
	if x != -1 || y != 2 {
		t.Errorf("Floor = (%d,%d), want (-1,2)", x, y)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(V(0, 0), V(3, 4)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
