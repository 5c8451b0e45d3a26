package electrical

import (
	"math"

	"pv_sizer/internal/model"
)

// safetyFactor is the standard continuous-duty multiplier applied to design
// currents before any table lookup.
const safetyFactor = 1.25

// CableSizing is the deterministic cable/protection recommendation derived
// from a design current.
type CableSizing struct {
	DesignCurrentA  float64 `json:"design_current_a"`
	CableSectionMM2 float64 `json:"cable_section_mm2"`
	FuseA           int     `json:"fuse_a"`
}

// ACProtection is the grid-side breaker recommendation for an inverter bank.
type ACProtection struct {
	DesignCurrentA float64 `json:"design_current_a"`
	BreakerA       int     `json:"breaker_a"`
}

// Copper PV-wire ampacity steps (free air, 30 °C).
var cableTable = []struct {
	maxA float64
	mm2  float64
}{
	{16, 1.5},
	{25, 2.5},
	{32, 4},
	{40, 6},
	{57, 10},
	{76, 16},
	{101, 25},
	{125, 35},
}

var protectionRatings = []int{10, 13, 16, 20, 25, 32, 40, 50, 63, 80, 100, 125}

// SizeDCCable sizes the string cabling and fuse for the combined string
// current of one MPPT input.
func SizeDCCable(stringCurrentA float64) CableSizing {
	design := stringCurrentA * safetyFactor
	cs := CableSizing{
		DesignCurrentA:  design,
		CableSectionMM2: cableTable[len(cableTable)-1].mm2,
	}
	for _, row := range cableTable {
		if design <= row.maxA {
			cs.CableSectionMM2 = row.mm2
			break
		}
	}
	cs.FuseA = nextRating(design)
	return cs
}

// SizeACProtection sizes the grid-side breaker for an inverter bank.
func SizeACProtection(inverter model.InverterSpec, inverterCount int) ACProtection {
	watts := inverter.RatedPowerKW * float64(inverterCount) * 1000
	var amps float64
	if inverter.Phases >= 3 {
		amps = watts / (math.Sqrt(3) * 400)
	} else {
		amps = watts / 230
	}
	design := amps * safetyFactor
	return ACProtection{
		DesignCurrentA: design,
		BreakerA:       nextRating(design),
	}
}

func nextRating(design float64) int {
	for _, r := range protectionRatings {
		if design <= float64(r) {
			return r
		}
	}
	return protectionRatings[len(protectionRatings)-1]
}
