package solar

import "math"

// Sun position and plane-of-array irradiance from latitude, day of year and
// solar hour. Angles are degrees throughout; azimuth convention is 0°=south,
// negative=east, positive=west.

// minSinElev guards the horizontal-to-normal beam conversion near sunrise,
// where 1/sin(elevation) diverges.
const minSinElev = 0.01

// SunPosition returns the solar elevation and azimuth for a latitude, a
// 1-based day of year and a solar hour (0-24, fractional allowed).
func SunPosition(latDeg float64, dayOfYear int, hour float64) (elevationDeg, azimuthDeg float64) {
	declDeg := 23.45 * math.Sin(radians(360.0/365.0*(float64(dayOfYear)-81)))
	hourAngleDeg := 15.0 * (hour - 12.0)

	lat := radians(latDeg)
	decl := radians(declDeg)
	ha := radians(hourAngleDeg)

	sinElev := math.Sin(decl)*math.Sin(lat) + math.Cos(decl)*math.Cos(lat)*math.Cos(ha)
	elev := math.Asin(clamp(sinElev, -1, 1))

	// Azimuth is undefined with the sun at the zenith; report south.
	az := 0.0
	if cosElev := math.Cos(elev); cosElev > 1e-9 {
		sinAz := math.Cos(decl) * math.Sin(ha) / cosElev
		az = math.Asin(clamp(sinAz, -1, 1))
	}
	return degrees(elev), degrees(az)
}

// IncidentRadiation converts global horizontal irradiance (W/m²) into
// irradiance on a tilted, oriented surface. The beam/diffuse split is a
// simple correlation that grows more diffuse as the sun drops; the diffuse
// term assumes an isotropic sky. Returns 0 at night and when the incidence
// angle passes 90° (sun behind the panel plane).
func IncidentRadiation(ghi, sunElevDeg, sunAzDeg, tiltDeg, panelAzDeg float64) float64 {
	if ghi <= 0 || sunElevDeg <= 0 {
		return 0
	}

	sinElev := math.Sin(radians(sunElevDeg))
	diffuseFrac := clamp(0.75-0.65*sinElev, 0.18, 0.75)
	beamH := ghi * (1 - diffuseFrac)
	diffuseH := ghi * diffuseFrac

	tilt := radians(tiltDeg)
	cosAOI := sinElev*math.Cos(tilt) +
		math.Cos(radians(sunElevDeg))*math.Sin(tilt)*math.Cos(radians(sunAzDeg-panelAzDeg))
	if cosAOI <= 0 {
		return 0
	}

	beam := 0.0
	if sinElev > minSinElev {
		beam = beamH / sinElev * cosAOI
	}
	return beam + diffuseH*(1+math.Cos(tilt))/2
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
