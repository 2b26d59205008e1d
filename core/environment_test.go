package core

import (
	"math"
	"testing"
)

func TestPressureDepthConversionRoundTrip(t *testing.T) {
	p := DefaultParameters()

	for _, depth := range []float64{0, 3, 10, 30, 60, 120} {
		bar := p.PressureFromDepth(depth)
		back := p.DepthFromPressure(bar)
		if math.Abs(back-depth) > 1e-9 {
			t.Errorf("depth %v: round trip gave %v", depth, back)
		}
	}
}

func TestPressureFromDepthSurface(t *testing.T) {
	p := DefaultParameters()
	if got := p.PressureFromDepth(0); got != p.AtmPressureBar {
		t.Errorf("surface pressure = %v, want %v", got, p.AtmPressureBar)
	}
}

func TestTenMetresIsRoughlyOneBar(t *testing.T) {
	p := DefaultParameters()
	delta := p.PressureFromDepth(10) - p.AtmPressureBar
	if delta < 0.98 || delta > 1.04 {
		t.Errorf("10 m adds %v bar, want ~1", delta)
	}
}

func TestDepthFromPressureFloorsAtSurface(t *testing.T) {
	p := DefaultParameters()
	if got := p.DepthFromPressure(0.5); got != 0 {
		t.Errorf("sub-atmospheric pressure mapped to depth %v, want 0", got)
	}
}
