package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSunPosition_NoonElevation(t *testing.T) {
	// At the equinox the noon sun stands at 90° minus the latitude.
	elev, az := SunPosition(38.72, 81, 12)
	assert.InDelta(t, 90-38.72, elev, 1.0)
	assert.InDelta(t, 0, az, 1.0)
}

func TestSunPosition_SolsticeSwing(t *testing.T) {
	summer, _ := SunPosition(38.72, 172, 12)
	winter, _ := SunPosition(38.72, 355, 12)

	// Noon elevation swings by roughly twice the ecliptic obliquity.
	assert.InDelta(t, 90-38.72+23.45, summer, 1.5)
	assert.InDelta(t, 90-38.72-23.45, winter, 1.5)
}

func TestSunPosition_MorningIsEast(t *testing.T) {
	elev, az := SunPosition(38.72, 172, 9)
	require.Greater(t, elev, 0.0)
	assert.Negative(t, az, "morning sun must sit east of south")

	_, azPM := SunPosition(38.72, 172, 15)
	assert.Positive(t, azPM)
}

func TestSunPosition_NightBelowHorizon(t *testing.T) {
	elev, _ := SunPosition(38.72, 172, 0)
	assert.Negative(t, elev)
}

func TestIncidentRadiation_NightIsZero(t *testing.T) {
	assert.Zero(t, IncidentRadiation(800, -5, 0, 30, 0))
	assert.Zero(t, IncidentRadiation(0, 45, 0, 30, 0))
}

func TestIncidentRadiation_TiltBeatsHorizontalAtLowSun(t *testing.T) {
	// A south-facing 30° surface sees more than the horizontal when the
	// sun is low in the southern sky.
	tilted := IncidentRadiation(400, 28, 0, 30, 0)
	flat := IncidentRadiation(400, 28, 0, 0, 0)
	assert.Greater(t, tilted, flat)
}

func TestIncidentRadiation_SunBehindPanel(t *testing.T) {
	// Steep surface facing west, sun far east: the incidence angle passes
	// 90° and the surface receives nothing at all.
	assert.Zero(t, IncidentRadiation(500, 20, -85, 80, 60))

	// Just shy of the 90° crossing the surface still collects diffuse.
	assert.Positive(t, IncidentRadiation(500, 20, -20, 80, 60))
}

func TestIncidentRadiation_NeverNegative(t *testing.T) {
	for elev := -10.0; elev <= 90; elev += 5 {
		for az := -90.0; az <= 90; az += 15 {
			got := IncidentRadiation(600, elev, az, 35, 10)
			assert.GreaterOrEqual(t, got, 0.0, "elev=%v az=%v", elev, az)
		}
	}
}
