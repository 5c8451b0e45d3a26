package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv_sizer/internal/model"
)

func testSegment(spacing float64) model.RoofSegment {
	return model.RoofSegment{
		TiltDeg:     30,
		AzimuthDeg:  0,
		PanelCount:  10,
		RowSpacingM: spacing,
	}
}

func TestShadingFactor_WideGapClears(t *testing.T) {
	// A huge inter-row gap never shades, even at the winter solstice.
	got := ShadingFactor(38.72, 355, 12, testSegment(20), 1.722)
	assert.Zero(t, got)
}

func TestShadingFactor_TightGapShades(t *testing.T) {
	// A near-zero gap shades heavily under a low winter sun.
	got := ShadingFactor(38.72, 355, 9, testSegment(0.05), 1.722)
	assert.Greater(t, got, 0.5)
	assert.LessOrEqual(t, got, 1.0)
}

func TestShadingFactor_NightIsZero(t *testing.T) {
	assert.Zero(t, ShadingFactor(38.72, 355, 0, testSegment(0.1), 1.722))
}

func TestShadingFactor_SunBehindRows(t *testing.T) {
	// Rows face west; an early-morning eastern sun is more than 90° off
	// the row normal and reports no inter-row shading.
	seg := testSegment(0.1)
	seg.AzimuthDeg = 80
	got := ShadingFactor(38.72, 172, 7, seg, 1.722)
	assert.Zero(t, got)
}

func TestShadingFactor_WorseInWinter(t *testing.T) {
	seg := testSegment(1.0)
	winter := ShadingFactor(38.72, 355, 10, seg, 1.722)
	summer := ShadingFactor(38.72, 172, 10, seg, 1.722)
	assert.Greater(t, winter, summer)
}

func TestShadingFactor_Bounds(t *testing.T) {
	for hour := 0.0; hour < 24; hour++ {
		got := ShadingFactor(38.72, 355, hour, testSegment(0.3), 1.722)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestRecommendedRowSpacing(t *testing.T) {
	spacing := RecommendedRowSpacing(38.72, 30, 0, 1.722)
	require.Greater(t, spacing, 0.0)

	// The recommended gap must clear the shadow at the design hour.
	seg := testSegment(spacing)
	assert.Zero(t, ShadingFactor(38.72, 355, 10, seg, 1.722))

	// Steeper latitude, longer shadows.
	north := RecommendedRowSpacing(55, 30, 0, 1.722)
	assert.Greater(t, north, spacing)
}

func TestRecommendedRowSpacing_FlatPanels(t *testing.T) {
	assert.Zero(t, RecommendedRowSpacing(38.72, 0, 0, 1.722))
}
