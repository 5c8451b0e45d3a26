package solar

import (
	"math"

	"pv_sizer/internal/model"
)

// MismatchFactor amplifies the geometric inter-row shadow fraction before it
// is applied to production. A shaded cell drags down its whole series string
// through the bypass diodes, so the electrical loss exceeds the geometric
// overlap. This is an approximation, not a diode-level model; the result of
// factor × fraction is capped at 1 by the caller.
var MismatchFactor = 2.0

// ShadingFactor returns the geometric fraction [0,1] of a row shaded by the
// row in front of it, for a given sun position. Returns 0 when the configured
// row gap clears the shadow, when the sun is down, or when the sun is more
// than 90° off the row normal (self-shading from the panel's own tilt is not
// modeled).
func ShadingFactor(latDeg float64, dayOfYear int, hour float64, seg model.RoofSegment, panelHeightM float64) float64 {
	elev, az := SunPosition(latDeg, dayOfYear, hour)
	if elev <= 0 {
		return 0
	}

	azOff := az - seg.AzimuthDeg
	if math.Abs(azOff) >= 90 {
		return 0
	}

	rise := panelHeightM * math.Sin(radians(seg.TiltDeg))
	if rise <= 0 {
		return 0
	}

	// Profile angle: sun elevation projected onto the vertical plane
	// perpendicular to the rows.
	tanProfile := math.Tan(radians(elev)) / math.Cos(radians(azOff))
	if tanProfile <= 0 {
		return 0
	}

	shadowLen := rise / tanProfile
	if seg.RowSpacingM >= shadowLen {
		return 0
	}
	return clamp((shadowLen-seg.RowSpacingM)/shadowLen, 0, 1)
}

// RecommendedRowSpacing returns the inter-row gap (m) that avoids shading at
// the design worst case: winter solstice, 10:00 solar time.
func RecommendedRowSpacing(latDeg, tiltDeg, azimuthDeg, panelHeightM float64) float64 {
	const winterSolstice = 355

	elev, az := SunPosition(latDeg, winterSolstice, 10.0)
	if elev <= 0 {
		// Sun never clears the horizon at the design hour; no finite
		// spacing avoids shading.
		return 0
	}

	rise := panelHeightM * math.Sin(radians(tiltDeg))
	if rise <= 0 {
		return 0
	}

	// Mirrors the shadow-length arithmetic in ShadingFactor so the
	// returned gap exactly clears the design-hour shadow.
	tanProfile := math.Tan(radians(elev)) / math.Cos(radians(az-azimuthDeg))
	if tanProfile <= 0 {
		return 0
	}
	return rise / tanProfile
}
