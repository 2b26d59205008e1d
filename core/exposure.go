package core

import "math"

// cnsLimitPoint maps an oxygen partial pressure to the NOAA maximum
// single-exposure duration in minutes.
type cnsLimitPoint struct {
	ppO2Bar  float64
	limitMin float64
}

// cnsLimits is the NOAA single-exposure table. Lookups interpolate
// linearly between points; below the first point there is no CNS load,
// above the last the final segment's slope extrapolates.
var cnsLimits = []cnsLimitPoint{
	{0.6, 720},
	{0.7, 570},
	{0.8, 450},
	{0.9, 360},
	{1.0, 300},
	{1.1, 240},
	{1.2, 210},
	{1.3, 180},
	{1.4, 150},
	{1.5, 120},
	{1.6, 45},
}

// cnsNoLoadBelowBar is the pO2 under which no CNS clock runs.
const cnsNoLoadBelowBar = 0.5

// cnsExposureLimit returns the tolerated exposure in minutes at a
// given pO2, or +Inf when no limit applies.
func cnsExposureLimit(ppO2Bar float64) float64 {
	if ppO2Bar <= cnsNoLoadBelowBar {
		return math.Inf(1)
	}
	first := cnsLimits[0]
	if ppO2Bar <= first.ppO2Bar {
		// Ramp between the no-load threshold and the first table point.
		frac := (ppO2Bar - cnsNoLoadBelowBar) / (first.ppO2Bar - cnsNoLoadBelowBar)
		return first.limitMin / frac
	}
	for i := 1; i < len(cnsLimits); i++ {
		if ppO2Bar <= cnsLimits[i].ppO2Bar {
			lo, hi := cnsLimits[i-1], cnsLimits[i]
			frac := (ppO2Bar - lo.ppO2Bar) / (hi.ppO2Bar - lo.ppO2Bar)
			return lo.limitMin + frac*(hi.limitMin-lo.limitMin)
		}
	}
	// Beyond the table: extrapolate the last segment, floored at a
	// token limit so the rate stays finite.
	lo := cnsLimits[len(cnsLimits)-2]
	hi := cnsLimits[len(cnsLimits)-1]
	slope := (hi.limitMin - lo.limitMin) / (hi.ppO2Bar - lo.ppO2Bar)
	limit := hi.limitMin + slope*(ppO2Bar-hi.ppO2Bar)
	if limit < 5 {
		limit = 5
	}
	return limit
}

// cnsDeltaPct returns the CNS percentage accumulated by breathing a
// pO2 for a duration.
func cnsDeltaPct(ppO2Bar, timeMin float64) float64 {
	limit := cnsExposureLimit(ppO2Bar)
	if math.IsInf(limit, 1) {
		return 0
	}
	return 100 * timeMin / limit
}

// cnsSurfaceDecay halves a carried-in CNS load every 90 minutes of
// surface interval.
func cnsSurfaceDecay(cnsPct, surfaceIntervalMin float64) float64 {
	if surfaceIntervalMin <= 0 {
		return cnsPct
	}
	return cnsPct * math.Pow(0.5, surfaceIntervalMin/90)
}

// otuDelta applies the Harlan-Hamilton pulmonary toxicity formula to a
// segment breathed at a mean pO2.
func otuDelta(meanPpO2Bar, timeMin float64) float64 {
	if meanPpO2Bar <= 0.5 {
		return 0
	}
	return timeMin * math.Pow((meanPpO2Bar-0.5)/0.5, 0.83)
}
