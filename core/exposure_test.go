package core

import (
	"math"
	"testing"
)

func TestCnsExposureLimitTablePoints(t *testing.T) {
	cases := []struct {
		ppO2 float64
		want float64
	}{
		{0.6, 720},
		{1.0, 300},
		{1.4, 150},
		{1.6, 45},
	}
	for _, tc := range cases {
		if got := cnsExposureLimit(tc.ppO2); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("cnsExposureLimit(%v) = %v, want %v", tc.ppO2, got, tc.want)
		}
	}
}

func TestCnsExposureLimitInterpolates(t *testing.T) {
	// Halfway between 1.4 (150 min) and 1.5 (120 min).
	if got := cnsExposureLimit(1.45); math.Abs(got-135) > 1e-9 {
		t.Errorf("cnsExposureLimit(1.45) = %v, want 135", got)
	}
}

func TestCnsNoLoadAtLowPpO2(t *testing.T) {
	if got := cnsDeltaPct(0.4, 60); got != 0 {
		t.Errorf("cnsDeltaPct(0.4, 60) = %v, want 0", got)
	}
	if got := cnsDeltaPct(0.5, 60); got != 0 {
		t.Errorf("cnsDeltaPct(0.5, 60) = %v, want 0", got)
	}
}

func TestCnsDeltaAccumulates(t *testing.T) {
	// 45 minutes at 1.6 bar is exactly 100%.
	if got := cnsDeltaPct(1.6, 45); math.Abs(got-100) > 1e-9 {
		t.Errorf("cnsDeltaPct(1.6, 45) = %v, want 100", got)
	}
}

func TestCnsLimitAboveTableStaysFinite(t *testing.T) {
	got := cnsExposureLimit(2.0)
	if math.IsInf(got, 1) || got <= 0 {
		t.Errorf("cnsExposureLimit(2.0) = %v, want finite positive", got)
	}
	if got >= 45 {
		t.Errorf("cnsExposureLimit(2.0) = %v, want below the 1.6 bar limit", got)
	}
}

func TestCnsSurfaceDecayHalfLife(t *testing.T) {
	if got := cnsSurfaceDecay(80, 90); math.Abs(got-40) > 1e-9 {
		t.Errorf("90 min decay of 80%% = %v, want 40", got)
	}
	if got := cnsSurfaceDecay(80, 0); got != 80 {
		t.Errorf("zero interval decay = %v, want 80", got)
	}
}

func TestOtuDelta(t *testing.T) {
	// At 1 bar: ((1.0-0.5)/0.5)^0.83 = 1 OTU per minute.
	if got := otuDelta(1.0, 30); math.Abs(got-30) > 1e-9 {
		t.Errorf("otuDelta(1.0, 30) = %v, want 30", got)
	}
	if got := otuDelta(0.5, 30); got != 0 {
		t.Errorf("otuDelta(0.5, 30) = %v, want 0", got)
	}
	if otuDelta(1.4, 10) <= otuDelta(1.1, 10) {
		t.Error("OTU rate not increasing with pO2")
	}
}
